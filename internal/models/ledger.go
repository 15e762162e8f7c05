package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PointSource identifies the kind of activity a ledger entry was earned (or
// spent) through. Category sub-totals on the profile are keyed by it.
type PointSource string

const (
	SourceReading         PointSource = "READING"
	SourceAcknowledgement PointSource = "ACKNOWLEDGEMENT"
	SourceQuiz            PointSource = "QUIZ"
	SourceRecognition     PointSource = "RECOGNITION"
	SourceOnboardingBadge PointSource = "ONBOARDING_BADGE"
	SourceAchievement     PointSource = "ACHIEVEMENT"
	SourceStreakBonus     PointSource = "STREAK_BONUS"
	SourceBonus           PointSource = "BONUS"
	SourceRedemption      PointSource = "REDEMPTION"
)

// Lifecycle phases used to scope leaderboard views.
const (
	PhaseOnboarding = "ONBOARDING"
	PhaseActive     = "ACTIVE"
)

// PointLedgerEntry is the immutable, append-only record of a single
// point-earning or point-spending event. Entries are never mutated or deleted.
type PointLedgerEntry struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID            string             `bson:"userId" json:"userId"`
	UserEmail         string             `bson:"userEmail" json:"userEmail"`
	Points            int                `bson:"points" json:"points"` // signed; negative for redemptions
	Source            PointSource        `bson:"source" json:"source"`
	SourceDescription string             `bson:"sourceDescription,omitempty" json:"sourceDescription,omitempty"`
	Phase             string             `bson:"phase,omitempty" json:"phase,omitempty"`
	Timestamp         time.Time          `bson:"timestamp" json:"timestamp"`
	RelatedItemID     string             `bson:"relatedItemId,omitempty" json:"relatedItemId,omitempty"`
	RelatedItemType   string             `bson:"relatedItemType,omitempty" json:"relatedItemType,omitempty"`
	MultiplierApplied float64            `bson:"multiplierApplied" json:"multiplierApplied"`
	RunningTotal      int                `bson:"runningTotal" json:"runningTotal"`
}
