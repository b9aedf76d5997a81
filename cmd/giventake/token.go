package main

import (
	"fmt"
	"time"

	"giventake/internal/auth"
	"giventake/pkg/types"

	"github.com/urfave/cli/v2"
)

var tokenCommand = &cli.Command{
	Name:  "token",
	Usage: "Issue an API token for local testing",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "user-id", Aliases: []string{"u"}, Required: true},
		&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Required: true},
		&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Usage: "donor, organization or admin", Value: string(types.UserTypeDonor)},
		&cli.DurationFlag{Name: "ttl", Usage: "Token lifetime", Value: time.Hour},
	},
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if cfg.JWTSecret == "" {
			return fmt.Errorf("set JWT_SECRET")
		}

		userType := types.UserType(c.String("type"))
		if !userType.Valid() {
			return fmt.Errorf("invalid user type %q", userType)
		}

		token, err := auth.NewTokenManager(cfg.JWTSecret, c.Duration("ttl")).
			Generate(c.String("user-id"), c.String("email"), userType)
		if err != nil {
			return err
		}

		fmt.Println(token)
		return nil
	},
}
