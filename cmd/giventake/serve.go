package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"giventake/internal/auth"
	"giventake/internal/db"
	"giventake/internal/identity"
	"giventake/internal/places"
	"giventake/internal/server"
	"giventake/internal/service"
	"giventake/internal/storage"
	"giventake/internal/store"

	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP server",
	Action: serve,
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config, err := loadServeConfig()
	if err != nil {
		return err
	}

	logger := newLogger(config)

	awsConfig, err := loadAWSConfig(ctx)
	if err != nil {
		return err
	}

	pool, err := db.Connect(ctx, config, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	userRepo := store.NewUserRepository(pool)
	donorRepo := store.NewDonorRepository(pool)
	orgRepo := store.NewOrganizationRepository(pool)
	adminRepo := store.NewAdminRepository(pool)
	donationRepo := store.NewDonationRepository(pool)
	itemRepo := store.NewDonationItemRepository(pool)
	detailRepo := store.NewDetailRepository(pool)
	campaignRepo := store.NewCampaignRepository(pool)
	bankDetailRepo := store.NewBankDetailRepository(pool)
	feedbackRepo := store.NewFeedbackRepository(pool)
	notificationRepo := store.NewNotificationRepository(pool)

	jwkCache, jwksURL, err := identity.NewJWKSCache(context.Background(), config.CognitoIssuerURL)
	if err != nil {
		return err
	}

	cognito := identity.NewCognito(config, cognitoidentityprovider.NewFromConfig(awsConfig), jwkCache, jwksURL)
	tokens := auth.NewTokenManager(config.JWTSecret, time.Duration(config.TokenTTLMin)*time.Minute)

	var objects storage.ObjectStore
	switch config.StorageBackend {
	case "supabase":
		objects = storage.NewSupabaseStorage(config.SupabaseProjectID, config.SupabaseAPIKey, config.SupabaseBucketName)
	default:
		objects = storage.NewS3Store(s3.NewFromConfig(awsConfig), config.S3BucketName, awsConfig.Region, config.S3PublicBaseURL)
	}

	notifications := service.NewNotificationService(logger, notificationRepo, donationRepo, itemRepo, donorRepo, orgRepo)
	accounts := service.NewAccountService(config, logger, cognito, tokens, userRepo, donorRepo, orgRepo, adminRepo)
	donations := service.NewDonationService(logger, donationRepo, itemRepo, detailRepo, campaignRepo, feedbackRepo, donorRepo, orgRepo, notifications)
	campaigns := service.NewCampaignService(logger, campaignRepo, orgRepo)
	orgs := service.NewOrganizationService(logger, orgRepo, bankDetailRepo, notifications)
	profiles := service.NewProfileService(donorRepo, orgRepo)

	srv := server.New(
		config,
		logger,
		tokens,
		accounts,
		donations,
		campaigns,
		orgs,
		profiles,
		notifications,
		objects,
		places.NewClient(config.PlacesBaseURL, config.GoogleMapsAPIKey),
	)

	go func() {
		logger.WithField("port", config.ServerPort).Infof("server starting http://localhost:%d", config.ServerPort)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}
