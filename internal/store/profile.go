package store

import (
	"context"
	"fmt"
	"time"

	"hourkeep/internal/db"
	"hourkeep/internal/utils"
	"hourkeep/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/sqlscan"
)

const profileTableName = "profiles"

var profileColumns = utils.StructTagValues(types.Profile{})

type ProfileRepository struct {
	queries
}

func NewProfileRepository(database *db.Database) *ProfileRepository {
	return &ProfileRepository{queries: newQueries(database)}
}

func (r *ProfileRepository) Profile(ctx context.Context, id string) (*types.Profile, error) {
	query, args, err := r.psql().
		Select(profileColumns...).
		From(profileTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate profile query: %w", err)
	}

	var profile types.Profile
	err = sqlscan.Get(ctx, r.db, &profile, query, args...)
	if err != nil {
		if sqlscan.NotFound(err) {
			return nil, types.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}

	return &profile, nil
}

func (r *ProfileRepository) CreateProfile(ctx context.Context, profile *types.Profile) error {
	now := time.Now().UTC()
	if profile.ID == "" {
		profile.ID = utils.NanoID()
	}
	profile.CreatedAt = now
	profile.UpdatedAt = now
	profile.DateOfBirth = dateOnly(profile.DateOfBirth)

	query, args, err := r.psql().
		Insert(profileTableName).
		SetMap(utils.StructToMap(profile)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create profile query: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}

	return nil
}

// UpsertProfile creates the profile or replaces its name and date of
// birth, keeping the original creation time.
func (r *ProfileRepository) UpsertProfile(ctx context.Context, profile *types.Profile) error {
	now := time.Now().UTC()
	if profile.ID == "" {
		profile.ID = utils.NanoID()
	}
	profile.CreatedAt = now
	profile.UpdatedAt = now
	profile.DateOfBirth = dateOnly(profile.DateOfBirth)

	query, args, err := r.psql().
		Insert(profileTableName).
		SetMap(utils.StructToMap(profile)).
		Suffix("ON CONFLICT (id) DO UPDATE SET " + utils.ExcludedAssignments(profileColumns, "id", "created_at")).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate upsert profile query: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to upsert profile")
}

// DateOfBirth returns the profile's date of birth, or nil when the
// profile has none.
func (r *ProfileRepository) DateOfBirth(ctx context.Context, id string) (*time.Time, error) {
	profile, err := r.Profile(ctx, id)
	if err != nil {
		return nil, err
	}
	return profile.DateOfBirth, nil
}

func dateOnly(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}
