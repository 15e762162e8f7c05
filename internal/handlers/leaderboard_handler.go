package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/engagehq/engagehub-backend/internal/models"
	"github.com/engagehq/engagehub-backend/internal/services"
)

// LeaderboardHandler handles merged leaderboard HTTP requests
type LeaderboardHandler struct {
	leaderboardService services.LeaderboardService
}

// NewLeaderboardHandler creates a new LeaderboardHandler
func NewLeaderboardHandler(leaderboardService services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardService: leaderboardService,
	}
}

// GetLeaderboard handles GET /leaderboard
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	filter := models.LeaderboardFilter(c.DefaultQuery("filter", string(models.FilterAll)))
	switch filter {
	case models.FilterAll, models.FilterOnboarding, models.FilterDepartment:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filter: " + string(filter)})
		return
	}

	// The requesting user comes from the gateway header, falling back to a
	// query parameter for direct calls.
	currentUserID := c.GetHeader("X-User-Id")
	if currentUserID == "" {
		currentUserID = c.Query("userId")
	}

	entries, err := h.leaderboardService.GetMerged(c, services.LeaderboardOptions{
		Filter:        filter,
		Department:    c.Query("department"),
		CurrentUserID: currentUserID,
		Limit:         limit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get leaderboard: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"count":   len(entries),
	})
}
