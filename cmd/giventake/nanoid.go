package main

import (
	"fmt"

	"giventake/internal/utils"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
)

// User ids come from the identity provider as UUIDs; every other row uses
// a NanoID. The seed files need fixed ids of both shapes.
var nanoidCommand = &cli.Command{
	Name:  "nanoid",
	Usage: "Print fresh row ids for seed data",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:    "count",
			Aliases: []string{"c"},
			Usage:   "Number of IDs to print",
			Value:   1,
		},
		&cli.BoolFlag{
			Name:  "user",
			Usage: "Print UUIDs shaped like identity provider user ids",
		},
	},
	Action: func(c *cli.Context) error {
		if c.Int("count") < 1 {
			return cli.Exit("count must be at least 1", 1)
		}

		next := utils.NanoID
		if c.Bool("user") {
			next = uuid.NewString
		}

		for range c.Int("count") {
			fmt.Fprintln(c.App.Writer, next())
		}
		return nil
	},
}
