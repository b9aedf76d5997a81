package main

import (
	"context"
	"fmt"

	"giventake/internal/db"
	"giventake/internal/seed"
	"giventake/internal/store"

	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the database with demo donors, organizations and campaigns",
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := context.Background()
		logger := newLogger(cfg)

		pool, err := db.Connect(ctx, cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		logger.Info("Connected to database")

		userRepo := store.NewUserRepository(pool)

		logger.Info("Seeding donors...")
		if err := seed.SeedDonors(ctx, userRepo, store.NewDonorRepository(pool)); err != nil {
			return fmt.Errorf("failed to seed donors: %w", err)
		}

		logger.Info("Seeding organizations...")
		if err := seed.SeedOrganizations(ctx, userRepo, store.NewOrganizationRepository(pool)); err != nil {
			return fmt.Errorf("failed to seed organizations: %w", err)
		}

		logger.Info("Seeding campaigns...")
		if err := seed.SeedCampaigns(ctx, store.NewCampaignRepository(pool), store.NewBankDetailRepository(pool)); err != nil {
			return fmt.Errorf("failed to seed campaigns: %w", err)
		}

		logger.Info("Seed data loaded successfully")

		return nil
	},
}
