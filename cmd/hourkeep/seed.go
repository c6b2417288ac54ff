package main

import (
	"context"
	"fmt"

	"hourkeep/internal/seed"
	"hourkeep/internal/store"

	"github.com/urfave/cli/v2"
)

var migrateCommand = &cli.Command{
	Name:  "migrate",
	Usage: "Create any missing tables",
	Action: func(c *cli.Context) error {
		_, logger, database, err := setup(context.Background(), c, false)
		if err != nil {
			return err
		}
		defer database.Close()

		logger.WithField("driver", database.Dialect).Info("schema is up to date")
		return nil
	},
}

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the database with demo profiles and assessments",
	Action: func(c *cli.Context) error {
		ctx := context.Background()

		_, logger, database, err := setup(ctx, c, false)
		if err != nil {
			return err
		}
		defer database.Close()

		logger.Info("Seeding demo profiles...")
		if err := seed.SeedProfiles(ctx, logger, store.NewProfileRepository(database)); err != nil {
			return fmt.Errorf("failed to seed profiles: %w", err)
		}

		logger.Info("Seeding demo assessments...")
		if err := seed.SeedAssessments(ctx, logger, store.NewResultRepository(database)); err != nil {
			return fmt.Errorf("failed to seed assessments: %w", err)
		}

		return nil
	},
}
