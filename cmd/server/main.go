package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"fundhub/internal/api"
	"fundhub/internal/app/service"
	"fundhub/internal/app/worker"
	"fundhub/internal/common/security"
	"fundhub/internal/domain/repository"
	"fundhub/internal/platform/config"
	"fundhub/internal/platform/database"
	"fundhub/internal/platform/queue"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	// 1. Load Configuration
	cfg := config.Load()
	logger.Info().Msg("configuration loaded")

	// 2. Initialize JWT
	jwt := security.NewJWT(cfg.JWTKey, cfg.JWTExp)

	// 3. Initialize Database
	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()
	if err := database.Migrate(cfg); err != nil {
		logger.Fatal().Err(err).Msg("database migration failed")
	}
	logger.Info().Msg("database connected and migrated")

	// 4. Initialize Redis
	rdb, err := queue.Connect(context.Background(), cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()
	donationQueue := queue.NewListQueue(rdb, cfg.DonationQueueName)
	logger.Info().Msg("redis connected")

	// 5. Initialize Repositories
	userRepo := repository.NewPgUserRepository(db)
	campaignRepo := repository.NewPgCampaignRepository(db)
	donationRepo := repository.NewPgDonationRepository(db, campaignRepo)

	// 6. Initialize Services
	authService := service.NewAuthService(userRepo, campaignRepo, donationRepo, jwt)
	campaignService := service.NewCampaignService(campaignRepo, donationRepo)
	donationService := service.NewDonationService(donationRepo, campaignRepo, userRepo, donationQueue, logger)

	// 7. Initialize Notification Worker (as a goroutine)
	notificationWorker := worker.NewNotificationWorker(donationQueue, logger)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	go notificationWorker.Start(workerCtx)

	// 8. Initialize Router & HTTP Server
	router := api.NewRouter(jwt, authService, campaignService, donationService, logger)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info().Str("port", cfg.APIPort).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-stop // Wait for interrupt signal

	logger.Info().Msg("shutting down server")
	workerCancel() // Signal worker to stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}

	logger.Info().Msg("server and worker stopped gracefully")
}
