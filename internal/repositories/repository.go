package repositories

import (
	"context"
	"errors"

	"github.com/engagehq/engagehub-backend/internal/models"
)

// Sentinel errors returned by repository implementations. Services branch on
// these rather than on driver-specific error types.
var (
	// ErrNotFound is returned when a lookup matches no document.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when an insert violates a unique index.
	ErrDuplicate = errors.New("duplicate record")
)

// UserProfileRepository defines the interface for user profile operations
type UserProfileRepository interface {
	Create(ctx context.Context, profile *models.UserProfile) error
	FindByUserID(ctx context.Context, userID string) (*models.UserProfile, error)
	// ApplyScoreDelta applies all of a scoring event's profile effects in a
	// single atomic update.
	ApplyScoreDelta(ctx context.Context, userID string, delta *models.ProfileDelta) error
}

// PointLedgerRepository defines the interface for point ledger operations
type PointLedgerRepository interface {
	Append(ctx context.Context, entry *models.PointLedgerEntry) error
	FindByUserID(ctx context.Context, userID string, page, limit int) ([]*models.PointLedgerEntry, error)
	CountByUserID(ctx context.Context, userID string) (int64, error)
}

// AchievementRepository defines the interface for achievement definition operations
type AchievementRepository interface {
	Create(ctx context.Context, achievement *models.Achievement) error
	FindActive(ctx context.Context) ([]*models.Achievement, error)
	FindByCode(ctx context.Context, code string) (*models.Achievement, error)
}

// UserAchievementRepository defines the interface for earned achievement operations
type UserAchievementRepository interface {
	// Create inserts an earned achievement. Returns ErrDuplicate when the
	// user already holds the achievement.
	Create(ctx context.Context, ua *models.UserAchievement) error
	FindByUserID(ctx context.Context, userID string) ([]*models.UserAchievement, error)
	CodesByUserID(ctx context.Context, userID string) (map[string]bool, error)
	EnsureIndexes(ctx context.Context) error
}

// OnboardingProgressRepository reads the onboarding system's progress
// snapshots. Read-only from this side.
type OnboardingProgressRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.OnboardingProgress, error)
}

// LeaderboardSnapshotRepository reads the two pre-ranked source leaderboards.
// Read-only from this side; the merge never writes back.
type LeaderboardSnapshotRepository interface {
	FindOnboarding(ctx context.Context) ([]*models.LeaderboardSnapshotEntry, error)
	FindEnterprise(ctx context.Context) ([]*models.LeaderboardSnapshotEntry, error)
}

// NotificationQueueRepository defines the interface for the outbound
// notification queue
type NotificationQueueRepository interface {
	Enqueue(ctx context.Context, message *models.NotificationMessage) error
}
