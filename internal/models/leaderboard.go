package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Rank trend relative to the previous snapshot.
const (
	TrendUp   = "UP"
	TrendDown = "DOWN"
	TrendSame = "SAME"
)

// LeaderboardFilter scopes a merged leaderboard view. Filtering happens after
// re-ranking, so filtered views keep their global ranks.
type LeaderboardFilter string

const (
	FilterAll        LeaderboardFilter = "all"
	FilterOnboarding LeaderboardFilter = "onboarding"
	FilterDepartment LeaderboardFilter = "department"
)

// LeaderboardSnapshotEntry is the shape shared by the two independently
// maintained, pre-ranked source leaderboards (onboarding and enterprise).
// The merge treats these collections as read-only inputs.
type LeaderboardSnapshotEntry struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID       string             `bson:"userId" json:"userId"`
	DisplayName  string             `bson:"displayName" json:"displayName"`
	Department   string             `bson:"department,omitempty" json:"department,omitempty"`
	Points       int                `bson:"points" json:"points"`
	Rank         int                `bson:"rank" json:"rank"`
	PreviousRank int                `bson:"previousRank,omitempty" json:"previousRank,omitempty"`
	Trend        string             `bson:"trend,omitempty" json:"trend,omitempty"`
	BadgeCount   int                `bson:"badgeCount,omitempty" json:"badgeCount,omitempty"`
	StreakDays   int                `bson:"streakDays,omitempty" json:"streakDays,omitempty"`
	SnapshotDate time.Time          `bson:"snapshotDate,omitempty" json:"snapshotDate,omitempty"`
}

// LeaderboardEntry is one row of the merged leaderboard. Derived on every
// query, never persisted. Level and tier are recomputed from the merged point
// total; trend is carried from the contributing source and NOT recomputed for
// merged entries (PreviousRank is preserved so a later recomputation has its
// inputs).
type LeaderboardEntry struct {
	Rank          int    `json:"rank"`
	UserID        string `json:"userId"`
	DisplayName   string `json:"displayName"`
	Department    string `json:"department,omitempty"`
	Phase         string `json:"phase"`
	TotalPoints   int    `json:"totalPoints"`
	PhasePoints   int    `json:"phasePoints"`
	Level         int    `json:"level"`
	Tier          string `json:"tier"`
	BadgeCount    int    `json:"badgeCount"`
	StreakDays    int    `json:"streakDays"`
	Trend         string `json:"trend"`
	PreviousRank  int    `json:"previousRank,omitempty"`
	IsCurrentUser bool   `json:"isCurrentUser"`
}

// OnboardingProgress is the read-only onboarding snapshot consumed by the
// unified profile composer.
type OnboardingProgress struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID          string             `bson:"userId" json:"userId"`
	CompletedSteps  int                `bson:"completedSteps" json:"completedSteps"`
	TotalSteps      int                `bson:"totalSteps" json:"totalSteps"`
	PercentComplete float64            `bson:"percentComplete" json:"percentComplete"`
	CurrentPhase    string             `bson:"currentPhase,omitempty" json:"currentPhase,omitempty"`
	BadgesEarned    []string           `bson:"badgesEarned,omitempty" json:"badgesEarned,omitempty"`
	UpdatedAt       time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}
