package main

import (
	"fmt"

	"hourkeep/internal/utils"

	"github.com/urfave/cli/v2"
)

var nanoidCommand = &cli.Command{
	Name:  "nanoid",
	Usage: "Generate record IDs for use in seed data",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:    "count",
			Aliases: []string{"c"},
			Usage:   "Number of IDs to generate",
			Value:   1,
		},
		&cli.IntFlag{
			Name:  "size",
			Usage: "Length of each ID",
			Value: utils.RecordIDSize,
		},
	},
	Action: func(c *cli.Context) error {
		count := c.Int("count")
		size := c.Int("size")
		for range count {
			fmt.Println(utils.NanoIDSize(size))
		}
		return nil
	},
}
