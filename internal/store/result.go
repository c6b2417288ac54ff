package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hourkeep/internal/db"
	"hourkeep/internal/utils"
	"hourkeep/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/sqlscan"
)

const (
	resultTableName  = "assessment_results"
	historyTableName = "assessment_history"

	// ResultVersion is the version of the assessment logic stamped on new
	// results.
	ResultVersion = 1
)

type resultRow struct {
	ID             string                                `db:"id"`
	UserID         string                                `db:"user_id"`
	CompletedAt    time.Time                             `db:"completed_at"`
	Responses      jsonColumn[types.AssessmentResponses] `db:"responses"`
	Recommendation jsonColumn[types.Recommendation]      `db:"recommendation"`
	Version        int                                   `db:"version"`
}

var resultColumns = utils.StructTagValues(resultRow{})

func (r resultRow) result() *types.AssessmentResult {
	return &types.AssessmentResult{
		ID:             r.ID,
		UserID:         r.UserID,
		CompletedAt:    r.CompletedAt,
		Responses:      r.Responses.V,
		Recommendation: r.Recommendation.V,
		Version:        r.Version,
	}
}

type historyRow struct {
	ID                string                                `db:"id"`
	UserID            string                                `db:"user_id"`
	CompletedAt       time.Time                             `db:"completed_at"`
	ArchivedAt        time.Time                             `db:"archived_at"`
	ExemptionStatus   bool                                  `db:"exemption_status"`
	RecommendedMethod types.ComplianceMethod                `db:"recommended_method"`
	Responses         jsonColumn[types.AssessmentResponses] `db:"responses"`
	Recommendation    jsonColumn[types.Recommendation]      `db:"recommendation"`
	Version           int                                   `db:"version"`
}

var historyEntryColumns = utils.StructTagValues(types.AssessmentHistoryEntry{})

type ResultRepository struct {
	queries
}

func NewResultRepository(database *db.Database) *ResultRepository {
	return &ResultRepository{queries: newQueries(database)}
}

// SaveResult archives the user's current result, if any, and stores the
// new one in the same transaction.
func (r *ResultRepository) SaveResult(ctx context.Context, userID string, responses types.AssessmentResponses, rec types.Recommendation) (*types.AssessmentResult, error) {
	row := resultRow{
		ID:             utils.NanoID(),
		UserID:         userID,
		CompletedAt:    time.Now().UTC(),
		Responses:      jsonColumn[types.AssessmentResponses]{V: responses},
		Recommendation: jsonColumn[types.Recommendation]{V: rec},
		Version:        ResultVersion,
	}

	query, args, err := r.psql().
		Insert(resultTableName).
		SetMap(utils.StructToMap(row)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate insert result query: %w", err)
	}

	err = r.withTx(ctx, func(tx *sql.Tx) error {
		var current resultRow
		err := r.getResult(ctx, tx, sq.Eq{"user_id": userID}, &current)
		switch {
		case err == nil:
			if err := r.archive(ctx, tx, current); err != nil {
				return err
			}
		case !errors.Is(err, types.ErrResultNotFound):
			return err
		}

		_, err = tx.ExecContext(ctx, query, args...)
		return utils.ErrorWrapOrNil(err, "failed to insert result")
	})
	if err != nil {
		return nil, err
	}

	return row.result(), nil
}

func (r *ResultRepository) LoadLatestResult(ctx context.Context, userID string) (*types.AssessmentResult, error) {
	var row resultRow
	if err := r.getResult(ctx, r.db, sq.Eq{"user_id": userID}, &row); err != nil {
		return nil, err
	}
	return row.result(), nil
}

// ArchiveResult moves the result with the given id into history.
func (r *ResultRepository) ArchiveResult(ctx context.Context, id string) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		var current resultRow
		if err := r.getResult(ctx, tx, sq.Eq{"id": id}, &current); err != nil {
			return err
		}
		return r.archive(ctx, tx, current)
	})
}

// LoadHistory lists archived results, newest first.
func (r *ResultRepository) LoadHistory(ctx context.Context, userID string) ([]*types.AssessmentHistoryEntry, error) {
	query, args, err := r.psql().
		Select(historyEntryColumns...).
		From(historyTableName).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("completed_at DESC", "archived_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate history query: %w", err)
	}

	var entries []*types.AssessmentHistoryEntry
	err = sqlscan.Select(ctx, r.db, &entries, query, args...)
	if err != nil {
		return nil, utils.ErrorWrapOrNil(err, "failed to get assessment history")
	}

	return entries, nil
}

func (r *ResultRepository) getResult(ctx context.Context, q sqlscan.Querier, where sq.Eq, row *resultRow) error {
	query, args, err := r.psql().
		Select(resultColumns...).
		From(resultTableName).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate result query: %w", err)
	}

	err = sqlscan.Get(ctx, q, row, query, args...)
	if err != nil {
		if sqlscan.NotFound(err) {
			return types.ErrResultNotFound
		}
		return fmt.Errorf("failed to fetch result: %w", err)
	}

	return nil
}

func (r *ResultRepository) archive(ctx context.Context, tx *sql.Tx, current resultRow) error {
	entry := historyRow{
		ID:                current.ID,
		UserID:            current.UserID,
		CompletedAt:       current.CompletedAt,
		ArchivedAt:        time.Now().UTC(),
		ExemptionStatus:   current.Recommendation.V.PrimaryMethod == types.MethodExemption,
		RecommendedMethod: current.Recommendation.V.PrimaryMethod,
		Responses:         current.Responses,
		Recommendation:    current.Recommendation,
		Version:           current.Version,
	}

	query, args, err := r.psql().
		Insert(historyTableName).
		SetMap(utils.StructToMap(entry)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate archive result query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to archive result: %w", err)
	}

	query, args, err = r.psql().
		Delete(resultTableName).
		Where(sq.Eq{"id": current.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete result query: %w", err)
	}
	_, err = tx.ExecContext(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to remove archived result")
}
