package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"hourkeep/internal/store"
	"hourkeep/pkg/types"

	"github.com/fatih/color"
	"github.com/k0kubun/pp/v3"
	"github.com/urfave/cli/v2"
)

var historyCommand = &cli.Command{
	Name:  "history",
	Usage: "Show the latest result and past assessments for a profile",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "profile",
			Usage:    "Profile to show",
			Required: true,
		},
		&cli.BoolFlag{
			Name:  "dump",
			Usage: "Pretty-print the stored records",
		},
	},
	Action: func(c *cli.Context) error {
		ctx := context.Background()

		_, _, database, err := setup(ctx, c, false)
		if err != nil {
			return err
		}
		defer database.Close()

		color.NoColor = !isTerminal(os.Stdout)

		results := store.NewResultRepository(database)
		profileID := c.String("profile")

		latest, err := results.LoadLatestResult(ctx, profileID)
		if err != nil && !errors.Is(err, types.ErrResultNotFound) {
			return err
		}

		entries, err := results.LoadHistory(ctx, profileID)
		if err != nil {
			return err
		}

		if c.Bool("dump") {
			printer := pp.New()
			printer.SetColoringEnabled(!color.NoColor)
			printer.Println(latest)
			printer.Println(entries)
			return nil
		}

		if latest == nil {
			fmt.Println("No finished assessment yet.")
		} else {
			headingColor.Println("Current result")
			fmt.Printf("  %s  %s (%s)\n", latest.CompletedAt.Local().Format("2006-01-02 15:04"), methodLabels[latest.Recommendation.PrimaryMethod], latest.Recommendation.ComplianceStatus)
		}

		if len(entries) == 0 {
			return nil
		}

		headingColor.Println("Earlier assessments")
		for _, entry := range entries {
			exempt := ""
			if entry.ExemptionStatus {
				exempt = " exempt"
			}
			fmt.Printf("  %s  %s%s\n", entry.CompletedAt.Local().Format("2006-01-02 15:04"), methodLabels[entry.RecommendedMethod], exempt)
		}
		return nil
	},
}
