package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Requirement types evaluated by the achievement unlock check. COMPLETION
// requires an external signal and is never evaluated from the profile.
const (
	RequirementReading    = "READING"
	RequirementQuiz       = "QUIZ"
	RequirementStreak     = "STREAK"
	RequirementMilestone  = "MILESTONE"
	RequirementCompletion = "COMPLETION"
)

// Achievement is an unlockable achievement definition.
type Achievement struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Code             string             `bson:"code" json:"code"`
	Name             string             `bson:"name" json:"name"`
	Description      string             `bson:"description,omitempty" json:"description,omitempty"`
	RequirementType  string             `bson:"requirementType" json:"requirementType"`
	RequirementValue int                `bson:"requirementValue" json:"requirementValue"`
	Points           int                `bson:"points" json:"points"`
	IsActive         bool               `bson:"isActive" json:"isActive"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
}

// UserAchievement marks one achievement as earned by one user. At most one
// record exists per (userId, achievementCode); the store enforces this with a
// unique compound index and reports violations as ErrDuplicate.
type UserAchievement struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID          string             `bson:"userId" json:"userId"`
	AchievementCode string             `bson:"achievementCode" json:"achievementCode"`
	AchievementName string             `bson:"achievementName" json:"achievementName"`
	UnlockedDate    time.Time          `bson:"unlockedDate" json:"unlockedDate"`
	SourceBadge     string             `bson:"sourceBadge,omitempty" json:"sourceBadge,omitempty"`
}

// AchievementMapping links an externally-earned onboarding badge to an
// internal achievement plus its sync effects. Static reference data loaded
// from configuration at startup.
type AchievementMapping struct {
	ExternalBadgeID         string `mapstructure:"externalBadgeId"`
	ExternalBadgeName       string `mapstructure:"externalBadgeName"`
	InternalAchievementCode string `mapstructure:"internalAchievementCode"`
	InternalAchievementName string `mapstructure:"internalAchievementName"`
	BonusPointsOnSync       int    `mapstructure:"bonusPointsOnSync"`
	TierUpgradeFloor        int    `mapstructure:"tierUpgradeFloor"`
}

// BadgeSyncResult reports the outcome of a cross-system badge sync call.
type BadgeSyncResult struct {
	Synced        []string `json:"synced"`
	AlreadySynced []string `json:"alreadySynced"`
	Unknown       []string `json:"unknown"`
	PointsAwarded int      `json:"pointsAwarded"`
}
