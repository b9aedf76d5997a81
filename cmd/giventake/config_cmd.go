package main

import (
	"github.com/k0kubun/pp/v3"
	"github.com/urfave/cli/v2"
)

const masked = "********"

var configCommand = &cli.Command{
	Name:  "config",
	Usage: "Print the resolved configuration with secrets masked",
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		for _, secret := range []*string{&cfg.DatabaseURL, &cfg.JWTSecret, &cfg.AdminSecret, &cfg.SupabaseAPIKey, &cfg.GoogleMapsAPIKey} {
			if *secret != "" {
				*secret = masked
			}
		}

		pp.Println(cfg)
		return nil
	},
}
