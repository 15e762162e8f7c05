package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/engagehq/engagehub-backend/internal/config"
	"github.com/engagehq/engagehub-backend/internal/handlers"
	"github.com/engagehq/engagehub-backend/internal/middleware"
)

// Handlers bundles the constructed handlers for route registration.
type Handlers struct {
	Scoring     *handlers.ScoringHandler
	Profile     *handlers.ProfileHandler
	Achievement *handlers.AchievementHandler
	Leaderboard *handlers.LeaderboardHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	// Add middleware
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.MetricsMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	{
		// Scoring routes
		points := api.Group("/points")
		{
			points.POST("/award", h.Scoring.AwardPoints)
			points.POST("/redeem", h.Scoring.RedeemPoints)
		}

		// Profile routes
		profiles := api.Group("/profiles")
		{
			profiles.GET("/:userId", h.Profile.GetProfile)
			profiles.GET("/:userId/ledger", h.Profile.GetLedger)
			profiles.GET("/:userId/achievements", h.Achievement.GetUserAchievements)
		}

		// Achievement routes
		achievements := api.Group("/achievements")
		{
			achievements.POST("/sync", h.Achievement.SyncBadges)
			achievements.POST("/:userId/evaluate", h.Achievement.EvaluateUser)
		}

		// Leaderboard routes
		api.GET("/leaderboard", h.Leaderboard.GetLeaderboard)
	}

	return router
}
