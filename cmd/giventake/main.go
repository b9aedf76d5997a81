package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:    "giventake",
		Usage:   "Donation matching API for donors, organizations and admins",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Override LOG_LEVEL for this run",
			},
		},
		// Commands load config from the environment, so the flag is
		// applied there.
		Before: func(c *cli.Context) error {
			if c.IsSet("log-level") {
				return os.Setenv("LOG_LEVEL", c.String("log-level"))
			}
			return nil
		},
		Commands: []*cli.Command{
			serveCommand,
			seedCommand,
			tokenCommand,
			nanoidCommand,
			configCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("application failed")
	}
}
