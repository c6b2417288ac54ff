package seed

import (
	"context"
	"io"
	"testing"

	"hourkeep/internal/db"
	"hourkeep/internal/store"
	"hourkeep/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed(t *testing.T) {
	ctx := context.Background()

	database, err := db.OpenSQLite(ctx, db.MemoryPath)
	require.NoError(t, err)
	defer database.Close()
	require.NoError(t, store.Migrate(ctx, database))

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	profiles := store.NewProfileRepository(database)
	results := store.NewResultRepository(database)

	require.NoError(t, SeedProfiles(ctx, logger, profiles))
	require.NoError(t, SeedProfiles(ctx, logger, profiles))
	require.NoError(t, SeedAssessments(ctx, logger, results))
	require.NoError(t, SeedAssessments(ctx, logger, results))

	want := map[string]types.ComplianceMethod{
		"Ava":    types.MethodIncomeTracking,
		"Liam":   types.MethodHourTracking,
		"Noah":   types.MethodExemption,
		"Mia":    types.MethodSeasonalIncomeTracking,
		"Elijah": types.MethodHourTracking,
	}

	for _, demo := range demoProfiles {
		profile, err := profiles.Profile(ctx, demo.ID)
		require.NoError(t, err)
		assert.Equal(t, demo.DisplayName, *profile.DisplayName)

		result, err := results.LoadLatestResult(ctx, demo.ID)
		require.NoError(t, err)
		assert.Equal(t, want[demo.DisplayName], result.Recommendation.PrimaryMethod, demo.DisplayName)

		history, err := results.LoadHistory(ctx, demo.ID)
		require.NoError(t, err)
		assert.Empty(t, history, "seeding twice must not archive the demo result")
	}
}
