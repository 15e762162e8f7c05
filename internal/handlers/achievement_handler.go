package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/engagehq/engagehub-backend/internal/models"
	"github.com/engagehq/engagehub-backend/internal/services"
)

// AchievementHandler handles achievement and badge sync HTTP requests
type AchievementHandler struct {
	achievementService services.AchievementService
}

// NewAchievementHandler creates a new AchievementHandler
func NewAchievementHandler(achievementService services.AchievementService) *AchievementHandler {
	return &AchievementHandler{
		achievementService: achievementService,
	}
}

// badgeSyncRequest is the body of POST /achievements/sync
type badgeSyncRequest struct {
	UserID   string   `json:"userId" binding:"required"`
	BadgeIDs []string `json:"badgeIds" binding:"required"`
}

// SyncBadges handles POST /achievements/sync
func (h *AchievementHandler) SyncBadges(c *gin.Context) {
	var req badgeSyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.achievementService.SyncExternalBadges(c, req.UserID, req.BadgeIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sync badges: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// EvaluateUser handles POST /achievements/:userId/evaluate
func (h *AchievementHandler) EvaluateUser(c *gin.Context) {
	userID := c.Param("userId")

	unlocked, err := h.achievementService.EvaluateUnlocks(c, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to evaluate achievements: " + err.Error()})
		return
	}
	if unlocked == nil {
		unlocked = []*models.UserAchievement{}
	}

	c.JSON(http.StatusOK, gin.H{"unlocked": unlocked})
}

// GetUserAchievements handles GET /profiles/:userId/achievements
func (h *AchievementHandler) GetUserAchievements(c *gin.Context) {
	userID := c.Param("userId")

	earned, err := h.achievementService.GetUserAchievements(c, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get achievements: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, earned)
}
