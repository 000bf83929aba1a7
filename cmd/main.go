package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"github.com/courtsidepicks/bracket-sync/brackets"
	"github.com/courtsidepicks/bracket-sync/config"
	"github.com/courtsidepicks/bracket-sync/db"
	"github.com/courtsidepicks/bracket-sync/feed"
	"github.com/courtsidepicks/bracket-sync/handlers"
	"github.com/courtsidepicks/bracket-sync/matching"
	"github.com/courtsidepicks/bracket-sync/middleware"
	"github.com/courtsidepicks/bracket-sync/models"
	"github.com/courtsidepicks/bracket-sync/repositories"
	api "github.com/courtsidepicks/bracket-sync/routes"
	"github.com/courtsidepicks/bracket-sync/services"
	"github.com/courtsidepicks/bracket-sync/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	// Payload archiver is optional; without R2 credentials imports simply
	// skip the provenance snapshot.
	var archiver storage.FileUploader
	if cfg.R2AccountID != "" {
		archiver, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	}

	wsHub := brackets.NewHub()
	go wsHub.Run()

	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	gameRepo := repositories.NewPostgresGameRepository(dbConn)
	pickRepo := repositories.NewPostgresPickRepository(dbConn)
	logger.Info("repositories initialized")

	resolver := matching.NewResolver(teamRepo, logger)
	importService := services.NewImportService(tournamentRepo, teamRepo, gameRepo, resolver, archiver, wsHub, logger)
	bracketService := services.NewBracketService(tournamentRepo, gameRepo, pickRepo, logger)
	logger.Info("services initialized")

	// Background feed sync: one import at a time per tournament, which is
	// what keeps concurrent reconciler runs off the same rows.
	if cfg.SyncTournamentID > 0 && cfg.FeedBaseURL != "" {
		feedClient := feed.NewClient(cfg.FeedBaseURL, cfg.FeedSource)
		go runFeedSync(feedClient, importService, cfg.SyncTournamentID, cfg.SyncInterval, logger)
	}

	auth := middleware.NewAuthenticator(cfg.JWTSecretKey)
	importHandler := handlers.NewImportHandler(importService)
	bracketHandler := handlers.NewBracketHandler(bracketService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub)

	router := chi.NewRouter()
	api.SetupRoutes(router, auth, importHandler, bracketHandler, webSocketHandler)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
	}
	logger.Info("application exited")
}

// runFeedSync fetches today's games from the feed on a ticker and reconciles
// them into the tournament. Runs once at startup, then on the interval.
func runFeedSync(client *feed.Client, importService services.ImportService, tournamentID int, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	logger.Info("feed sync scheduler started",
		slog.Int("tournament_id", tournamentID),
		slog.Duration("interval", interval))

	syncOnce := func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		rawGames, err := client.FetchGames(ctx, time.Now())
		if err != nil {
			logger.Error("feed fetch failed", slog.Any("error", err))
			return
		}
		result, err := importService.ImportGames(ctx, tournamentID, rawGames, models.ImportOptions{
			UpdateExisting: true,
		})
		if err != nil {
			logger.Error("scheduled import failed", slog.Any("error", err))
			return
		}
		if !result.Success() {
			logger.Warn("scheduled import finished with errors",
				slog.String("run_id", result.RunID),
				slog.Int("errors", len(result.Errors)))
		}
	}

	syncOnce()
	for range ticker.C {
		syncOnce()
	}
}
