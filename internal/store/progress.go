package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"hourkeep/internal/db"
	"hourkeep/internal/utils"
	"hourkeep/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/sqlscan"
)

const progressTableName = "assessment_progress"

type progressRow struct {
	ID            string                                `db:"id"`
	UserID        string                                `db:"user_id"`
	StartedAt     time.Time                             `db:"started_at"`
	LastUpdatedAt time.Time                             `db:"last_updated_at"`
	CurrentStep   int                                   `db:"current_step"`
	Responses     jsonColumn[types.AssessmentResponses] `db:"responses"`
	IsComplete    bool                                  `db:"is_complete"`
}

var progressColumns = utils.StructTagValues(progressRow{})

func (r progressRow) progress() *types.AssessmentProgress {
	return &types.AssessmentProgress{
		ID:            r.ID,
		UserID:        r.UserID,
		StartedAt:     r.StartedAt,
		LastUpdatedAt: r.LastUpdatedAt,
		CurrentStep:   r.CurrentStep,
		Responses:     r.Responses.V,
		IsComplete:    r.IsComplete,
	}
}

type ProgressRepository struct {
	queries
}

func NewProgressRepository(database *db.Database) *ProgressRepository {
	return &ProgressRepository{queries: newQueries(database)}
}

// SaveProgress upserts the user's single incomplete draft. The record id
// and start time are kept across saves.
func (r *ProgressRepository) SaveProgress(ctx context.Context, userID string, step int, responses types.AssessmentResponses) (*types.AssessmentProgress, error) {
	now := time.Now().UTC()
	row := progressRow{
		ID:            utils.NanoID(),
		UserID:        userID,
		StartedAt:     now,
		LastUpdatedAt: now,
		CurrentStep:   step,
		Responses:     jsonColumn[types.AssessmentResponses]{V: responses},
	}

	query, args, err := r.psql().
		Insert(progressTableName).
		SetMap(utils.StructToMap(row)).
		Suffix("ON CONFLICT (user_id) DO UPDATE SET " + utils.ExcludedAssignments(progressColumns, "id", "user_id", "started_at")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate upsert progress query: %w", err)
	}

	var saved progressRow
	err = r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to upsert progress: %w", err)
		}
		return r.loadProgress(ctx, tx, userID, &saved)
	})
	if err != nil {
		return nil, err
	}

	return saved.progress(), nil
}

func (r *ProgressRepository) LoadProgress(ctx context.Context, userID string) (*types.AssessmentProgress, error) {
	var row progressRow
	if err := r.loadProgress(ctx, r.db, userID, &row); err != nil {
		return nil, err
	}
	return row.progress(), nil
}

func (r *ProgressRepository) loadProgress(ctx context.Context, q sqlscan.Querier, userID string, row *progressRow) error {
	query, args, err := r.psql().
		Select(progressColumns...).
		From(progressTableName).
		Where(sq.Eq{"user_id": userID, "is_complete": false}).
		Limit(1).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate progress query: %w", err)
	}

	err = sqlscan.Get(ctx, q, row, query, args...)
	if err != nil {
		if sqlscan.NotFound(err) {
			return types.ErrProgressNotFound
		}
		return fmt.Errorf("failed to fetch progress: %w", err)
	}

	return nil
}

// CompleteProgress deletes a finished draft. Deleting a record that is
// already gone is not an error.
func (r *ProgressRepository) CompleteProgress(ctx context.Context, id string) error {
	query, args, err := r.psql().
		Delete(progressTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate complete progress query: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to complete progress")
}

// DeleteProgress discards the user's draft so the next assessment starts
// fresh.
func (r *ProgressRepository) DeleteProgress(ctx context.Context, userID string) error {
	query, args, err := r.psql().
		Delete(progressTableName).
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete progress query: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to delete progress")
}
