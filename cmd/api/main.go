package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/exp/slog"

	"github.com/engagehq/engagehub-backend/api/routes"
	"github.com/engagehq/engagehub-backend/internal/config"
	"github.com/engagehq/engagehub-backend/internal/handlers"
	"github.com/engagehq/engagehub-backend/internal/repositories"
	mongorepo "github.com/engagehq/engagehub-backend/internal/repositories/mongodb"
	"github.com/engagehq/engagehub-backend/internal/services"
	"github.com/engagehq/engagehub-backend/pkg/mongodb"
)

func main() {
	// .env is optional; real deployments use environment variables.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	ctx := context.Background()
	mongoClient, err := mongodb.NewClient(ctx, cfg.MongoDB.URI)
	if err != nil {
		slog.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			slog.Error("Error disconnecting from MongoDB", "error", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)

	// Repositories
	var profileRepo repositories.UserProfileRepository = mongorepo.NewUserProfileRepository(db)
	var ledgerRepo repositories.PointLedgerRepository = mongorepo.NewPointLedgerRepository(db)
	var achievementRepo repositories.AchievementRepository = mongorepo.NewAchievementRepository(db)
	var earnedRepo repositories.UserAchievementRepository = mongorepo.NewUserAchievementRepository(db)
	var onboardingRepo repositories.OnboardingProgressRepository = mongorepo.NewOnboardingProgressRepository(db)
	var snapshotRepo repositories.LeaderboardSnapshotRepository = mongorepo.NewLeaderboardSnapshotRepository(db)
	var queueRepo repositories.NotificationQueueRepository = mongorepo.NewNotificationQueueRepository(db)

	// The unique earned-achievement index is what makes unlocks idempotent,
	// so refuse to start without it.
	indexCtx, cancelIndex := context.WithTimeout(ctx, 15*time.Second)
	if err := earnedRepo.EnsureIndexes(indexCtx); err != nil {
		cancelIndex()
		slog.Error("Failed to ensure indexes", "error", err)
		os.Exit(1)
	}
	cancelIndex()

	// Services
	notifier := services.NewQueueNotificationSink(queueRepo)
	scoringService := services.NewScoringService(profileRepo, ledgerRepo, &cfg.Progression, cfg.StreakBonus, notifier)
	achievementService := services.NewAchievementService(achievementRepo, earnedRepo, profileRepo, scoringService, cfg.BadgeMappings, notifier)
	scoringService.SetUnlockEvaluator(achievementService)
	leaderboardService := services.NewLeaderboardService(snapshotRepo, &cfg.Progression)
	profileService := services.NewProfileService(profileRepo, ledgerRepo, onboardingRepo, &cfg.Progression)

	// Handlers
	h := routes.Handlers{
		Scoring:     handlers.NewScoringHandler(scoringService),
		Profile:     handlers.NewProfileHandler(profileService),
		Achievement: handlers.NewAchievementHandler(achievementService),
		Leaderboard: handlers.NewLeaderboardHandler(leaderboardService),
	}

	router := routes.SetupRouter(cfg, h)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exiting")
}

// setupLogger configures the default slog logger from the configured level.
func setupLogger(level string) {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: l})
	slog.SetDefault(slog.New(handler))
}
