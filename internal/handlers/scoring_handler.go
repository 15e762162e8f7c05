package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/engagehq/engagehub-backend/internal/models"
	"github.com/engagehq/engagehub-backend/internal/repositories"
	"github.com/engagehq/engagehub-backend/internal/services"
)

// ScoringHandler handles point award and redemption HTTP requests
type ScoringHandler struct {
	scoringService services.ScoringService
}

// NewScoringHandler creates a new ScoringHandler
func NewScoringHandler(scoringService services.ScoringService) *ScoringHandler {
	return &ScoringHandler{
		scoringService: scoringService,
	}
}

// AwardPoints handles POST /points/award
func (h *ScoringHandler) AwardPoints(c *gin.Context) {
	var req models.ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.scoringService.AwardPoints(c, &req)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Failed to award points: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, profile)
}

// redeemRequest is the body of POST /points/redeem
type redeemRequest struct {
	UserID          string `json:"userId" binding:"required"`
	Amount          int    `json:"amount" binding:"required"`
	Description     string `json:"description"`
	RelatedItemID   string `json:"relatedItemId"`
	RelatedItemType string `json:"relatedItemType"`
}

// RedeemPoints handles POST /points/redeem
func (h *ScoringHandler) RedeemPoints(c *gin.Context) {
	var req redeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.scoringService.RedeemPoints(c, &models.ScoreRequest{
		UserID:          req.UserID,
		Amount:          req.Amount,
		Description:     req.Description,
		RelatedItemID:   req.RelatedItemID,
		RelatedItemType: req.RelatedItemType,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInsufficientPoints):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Insufficient available points"})
		case errors.Is(err, repositories.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to redeem points: " + err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, profile)
}
