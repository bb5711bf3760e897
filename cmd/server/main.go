package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"kwresearch/internal/config"
	"kwresearch/internal/db"
	"kwresearch/internal/googleads"
	"kwresearch/internal/handlers/api"
	"kwresearch/internal/jobs"
	"kwresearch/internal/logging"
	"kwresearch/internal/metrics"
	"kwresearch/internal/planner"
	"kwresearch/internal/server"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if missing := cfg.MissingCredentials(); len(missing) > 0 {
		logging.Warn().Str("missing", strings.Join(missing, ",")).Msg("Google Ads credentials incomplete, keyword endpoints will fail")
	}

	ads := googleads.New(ctx, googleads.Credentials{
		ClientID:        cfg.GoogleAdsClientID,
		ClientSecret:    cfg.GoogleAdsClientSecret,
		DeveloperToken:  cfg.GoogleAdsDeveloperToken,
		RefreshToken:    cfg.GoogleAdsRefreshToken,
		LoginCustomerID: cfg.GoogleAdsLoginCustomerID,
		CustomerID:      cfg.GoogleAdsCustomerID,
	},
		googleads.WithBaseURL(cfg.GoogleAdsEndpoint),
		googleads.WithAPIVersion(cfg.GoogleAdsAPIVersion),
	)

	// Lookup history is optional
	var lookups api.LookupStore
	database, err := db.New(ctx, cfg.DatabaseURL)
	switch {
	case errors.Is(err, db.ErrLookupStoreDisabled):
		logging.Info().Msg("DATABASE_URL not set, keyword lookup history disabled")
	case err != nil:
		logging.Fatal().Err(err).Msg("Failed to connect to database")
	default:
		defer database.Close()

		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			logging.Fatal().Err(err).Msg("Failed to run migrations")
		}
		logging.Info().Msg("Migrations completed successfully")

		metrics.Init(database)
		lookups = database
	}

	if cfg.CredentialsCheckInterval > 0 && len(cfg.MissingCredentials()) == 0 {
		checker := jobs.NewCredentialsChecker(ads.TokenSource(), cfg.CredentialsCheckInterval)
		go checker.Start(ctx)
	}

	srv := server.New(cfg)
	srv.RegisterRoutes(api.NewKeywordHandler(planner.New(ads), lookups))

	// Graceful shutdown
	go func() {
		if err := srv.Start(); err != nil {
			logging.Error().Err(err).Msg("Server error")
		}
	}()

	logging.Info().
		Str("addr", cfg.ServerAddr()).
		Str("health", "http://localhost:"+strconv.Itoa(cfg.Port)+"/health").
		Msg("Server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info().Msg("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Server forced to shutdown")
	}
	logging.Info().Msg("Server exited")
}
