package services

import (
	"context"
	"errors"

	"github.com/engagehq/engagehub-backend/internal/models"
)

// ErrInsufficientPoints is returned by RedeemPoints when the user's
// available balance cannot cover the redemption.
var ErrInsufficientPoints = errors.New("insufficient available points")

// ScoringService defines the interface for scoring operations
type ScoringService interface {
	// AwardPoints applies one scoring event: multipliers, streak progression,
	// month rollover, level-up and the ledger append. Amount must be positive.
	// Returns the freshly reloaded profile so callers see the post-award
	// level, streak and balance state.
	AwardPoints(ctx context.Context, req *models.ScoreRequest) (*models.UserProfile, error)

	// RedeemPoints spends points from the user's available balance. Amount is
	// the positive number of points to spend. Returns the reloaded profile.
	RedeemPoints(ctx context.Context, req *models.ScoreRequest) (*models.UserProfile, error)

	// SetUnlockEvaluator injects the achievement unlock check invoked after
	// awards. Setter injection breaks the construction cycle between the
	// scoring and achievement services.
	SetUnlockEvaluator(evaluator UnlockEvaluator)
}

// UnlockEvaluator is the part of the achievement service the scoring engine
// calls back into after an award.
type UnlockEvaluator interface {
	EvaluateUnlocks(ctx context.Context, userID string) ([]*models.UserAchievement, error)
}

// AchievementService defines the interface for achievement operations
type AchievementService interface {
	UnlockEvaluator

	// SyncExternalBadges reconciles onboarding badges into internal
	// achievements. Idempotent: already-synced badges are reported, not
	// re-awarded.
	SyncExternalBadges(ctx context.Context, userID string, badgeIDs []string) (*models.BadgeSyncResult, error)

	GetUserAchievements(ctx context.Context, userID string) ([]*models.UserAchievement, error)
}

// LeaderboardOptions scopes a merged leaderboard query.
type LeaderboardOptions struct {
	Filter        models.LeaderboardFilter
	Department    string
	CurrentUserID string
	Limit         int
}

// LeaderboardService defines the interface for leaderboard operations
type LeaderboardService interface {
	// GetMerged merges the onboarding and enterprise leaderboards into one
	// ranked view. Derived on every call, never persisted.
	GetMerged(ctx context.Context, opts LeaderboardOptions) ([]*models.LeaderboardEntry, error)
}

// ProfileService defines the interface for unified profile reads
type ProfileService interface {
	GetUnifiedProfile(ctx context.Context, userID string) (*models.UnifiedProfile, error)
	GetLedger(ctx context.Context, userID string, page, limit int) ([]*models.PointLedgerEntry, int64, error)
}

// NotificationSink accepts fire-and-forget notifications. Delivery is owned
// by a downstream worker; enqueue failures must never fail the scoring path.
type NotificationSink interface {
	Notify(ctx context.Context, recipientEmail, subject, body string) error
}
