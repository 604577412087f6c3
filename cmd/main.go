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

	"github.com/hansol-dev/leaguedesk/config"
	"github.com/hansol-dev/leaguedesk/db"
	"github.com/hansol-dev/leaguedesk/handlers"
	"github.com/hansol-dev/leaguedesk/live"
	"github.com/hansol-dev/leaguedesk/repositories"
	api "github.com/hansol-dev/leaguedesk/routes"
	"github.com/hansol-dev/leaguedesk/services"
	"github.com/hansol-dev/leaguedesk/storage"
	"github.com/jonboulle/clockwork"
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

	uploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
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

	hub := live.NewHub(logger)
	go hub.Run()
	logger.Info("live hub started")

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	rosterRepo := repositories.NewPostgresRosterRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchEntryRepository(dbConn)

	photoService := services.NewPhotoService(uploader, clockwork.NewRealClock(), logger)
	authService := services.NewAuthService(userRepo)
	teamService := services.NewTeamService(teamRepo, hub)
	rosterService := services.NewRosterService(rosterRepo, teamRepo, hub)
	registrationService := services.NewRegistrationService(matchRepo, teamRepo, rosterService, photoService, hub)
	recordService := services.NewRecordService(matchRepo, teamRepo, photoService, hub, logger)
	logger.Info("services initialized")

	jwtSecret := []byte(cfg.JWTSecretKey)
	router := api.InitRoutes(api.Handlers{
		Auth:         handlers.NewAuthHandler(authService, jwtSecret, logger),
		Team:         handlers.NewTeamHandler(teamService, logger),
		Player:       handlers.NewPlayerHandler(rosterService, logger),
		Record:       handlers.NewRecordHandler(recordService, logger),
		Registration: handlers.NewRegistrationHandler(registrationService, logger),
		Live:         handlers.NewLiveHandler(hub, logger),
	}, jwtSecret)
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
		logger.Info("server stopped gracefully")
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
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
