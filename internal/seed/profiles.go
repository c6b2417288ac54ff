// Package seed loads demo profiles and assessments into a local database.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hourkeep/internal/store"
	"hourkeep/internal/utils"
	"hourkeep/pkg/types"

	"github.com/sirupsen/logrus"
)

type demoProfile struct {
	ID          string
	DisplayName string
	DateOfBirth time.Time
}

func birthday(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

var demoProfiles = []demoProfile{
	{ID: "demoava00000000000000001", DisplayName: "Ava", DateOfBirth: birthday(1991, time.March, 14)},
	{ID: "demoliam0000000000000002", DisplayName: "Liam", DateOfBirth: birthday(1987, time.November, 2)},
	{ID: "demonoah0000000000000003", DisplayName: "Noah", DateOfBirth: birthday(1958, time.June, 21)},
	{ID: "demomia00000000000000004", DisplayName: "Mia", DateOfBirth: birthday(1999, time.January, 9)},
	{ID: "demoeli00000000000000005", DisplayName: "Elijah", DateOfBirth: birthday(1979, time.August, 30)},
}

// SeedProfiles upserts the demo profiles. Running it again resets their
// names and dates of birth.
func SeedProfiles(ctx context.Context, logger logrus.FieldLogger, profiles *store.ProfileRepository) error {
	seeded := 0
	for _, demo := range demoProfiles {
		_, err := profiles.Profile(ctx, demo.ID)
		if err != nil && !errors.Is(err, types.ErrProfileNotFound) {
			return fmt.Errorf("failed to fetch demo profile %s: %w", demo.ID, err)
		}

		profile := &types.Profile{
			ID:          demo.ID,
			DisplayName: utils.StringPtr(demo.DisplayName),
			DateOfBirth: utils.TimePtr(demo.DateOfBirth),
		}

		if errors.Is(err, types.ErrProfileNotFound) {
			err = profiles.CreateProfile(ctx, profile)
		} else {
			err = profiles.UpsertProfile(ctx, profile)
		}
		if err != nil {
			return fmt.Errorf("failed to seed demo profile %s: %w", demo.ID, err)
		}
		seeded++
	}

	logger.WithField("count", seeded).Info("demo profiles seeded")
	return nil
}
