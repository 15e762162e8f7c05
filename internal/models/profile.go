package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserProfile is the mutable per-user aggregate of point totals, level and
// streak state. One per user, created lazily on the first scoring event and
// mutated only through delta updates issued by the scoring engine.
//
// Invariants: TotalPoints equals the sum of the user's ledger entries
// (eventually, since ledger appends are best-effort after the profile write);
// AvailablePoints <= LifetimePoints; LongestStreakDays >= CurrentStreakDays;
// CurrentLevel never decreases.
type UserProfile struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID           string             `bson:"userId" json:"userId"`
	UserEmail        string             `bson:"userEmail" json:"userEmail"`
	DisplayName      string             `bson:"displayName" json:"displayName"`
	Department       string             `bson:"department,omitempty" json:"department,omitempty"`
	TotalPoints      int                `bson:"totalPoints" json:"totalPoints"`
	AvailablePoints  int                `bson:"availablePoints" json:"availablePoints"`
	LifetimePoints   int                `bson:"lifetimePoints" json:"lifetimePoints"`
	PointsThisMonth  int                `bson:"pointsThisMonth" json:"pointsThisMonth"`
	MonthAnchor      string             `bson:"monthAnchor,omitempty" json:"-"` // "2006-01" month the PointsThisMonth counter belongs to
	CurrentLevel     int                `bson:"currentLevel" json:"currentLevel"`
	CurrentLevelName string             `bson:"currentLevelName" json:"currentLevelName"`
	CurrentStreakDays int               `bson:"currentStreakDays" json:"currentStreakDays"`
	LongestStreakDays int               `bson:"longestStreakDays" json:"longestStreakDays"`
	LastActivityDate time.Time          `bson:"lastActivityDate,omitempty" json:"lastActivityDate,omitempty"`
	ReadingPoints    int                `bson:"readingPoints" json:"readingPoints"`
	QuizPoints       int                `bson:"quizPoints" json:"quizPoints"`
	AckPoints        int                `bson:"ackPoints" json:"ackPoints"`
	BonusPoints      int                `bson:"bonusPoints" json:"bonusPoints"`
	PoliciesRead     int                `bson:"policiesRead" json:"policiesRead"`
	QuizzesCompleted int                `bson:"quizzesCompleted" json:"quizzesCompleted"`
	QuizzesPassed    int                `bson:"quizzesPassed" json:"quizzesPassed"`
	BadgeCount       int                `bson:"badgeCount" json:"badgeCount"`
	LeaderboardRank  int                `bson:"leaderboardRank" json:"leaderboardRank"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ProfileDelta describes one scoring event's effect on a profile as a set of
// increments and absolute field updates, applied by the store in a single
// atomic update so that concurrent awards for the same user cannot lose
// increments.
type ProfileDelta struct {
	// Increments ($inc).
	TotalPoints      int
	AvailablePoints  int
	LifetimePoints   int
	PointsThisMonth  int
	ReadingPoints    int
	QuizPoints       int
	AckPoints        int
	BonusPoints      int
	PoliciesRead     int
	QuizzesCompleted int
	QuizzesPassed    int
	BadgeCount       int

	// Absolute updates ($set). Nil pointers leave the field untouched.
	ResetMonthTo     *int // replaces PointsThisMonth when the month rolled over
	MonthAnchor      string
	StreakDays       *int
	LastActivityDate *time.Time
	LevelName        string

	// Monotonic updates ($max).
	Level             *int
	LongestStreakDays *int
}

// ScoreRequest is the input to the scoring engine. The caller has already
// resolved the user's identity; Amount may be negative (redemption) and no
// balance floor is enforced here. QuizPassed is the explicit pass signal for
// quiz awards — pass state is never inferred from the point amount.
type ScoreRequest struct {
	UserID          string      `json:"userId" binding:"required"`
	UserEmail       string      `json:"userEmail"`
	DisplayName     string      `json:"displayName"`
	Department      string      `json:"department"`
	Amount          int         `json:"amount" binding:"required"`
	Source          PointSource `json:"source" binding:"required"`
	Description     string      `json:"description"`
	Phase           string      `json:"phase"`
	RelatedItemID   string      `json:"relatedItemId"`
	RelatedItemType string      `json:"relatedItemType"`
	QuizPassed      bool        `json:"quizPassed"`
}

// UnifiedProfile is the read-model combining the profile, onboarding progress
// and the derived tier/level/streak outputs for presentation.
type UnifiedProfile struct {
	Profile           *UserProfile        `json:"profile"`
	Onboarding        *OnboardingProgress `json:"onboarding"`
	Tier              string              `json:"tier"`
	TierMultiplier    float64             `json:"tierMultiplier"`
	TierDiscount      int                 `json:"tierDiscount"`
	StreakMultiplier  float64             `json:"streakMultiplier"`
	PointsToNextLevel int                 `json:"pointsToNextLevel"`
	PointsToNextTier  int                 `json:"pointsToNextTier"`
}
