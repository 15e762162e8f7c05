package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/engagehq/engagehub-backend/internal/models"
	"github.com/engagehq/engagehub-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time check to ensure UserProfileRepository implements the interface
var _ repositories.UserProfileRepository = (*UserProfileRepository)(nil)

// UserProfileRepository handles MongoDB operations for UserProfile
type UserProfileRepository struct {
	collection *mongo.Collection
}

// NewUserProfileRepository creates a new UserProfileRepository
func NewUserProfileRepository(db *mongo.Database) *UserProfileRepository {
	return &UserProfileRepository{
		collection: db.Collection("user_profiles"),
	}
}

// Create inserts a new user profile
func (r *UserProfileRepository) Create(ctx context.Context, profile *models.UserProfile) error {
	profile.ID = primitive.NewObjectID()
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, profile)
	if mongo.IsDuplicateKeyError(err) {
		return repositories.ErrDuplicate
	}
	return err
}

// FindByUserID finds a profile by user ID
func (r *UserProfileRepository) FindByUserID(ctx context.Context, userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	filter := bson.M{"userId": userID}
	err := r.collection.FindOne(ctx, filter).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// ApplyScoreDelta applies a scoring event's increments, sets and monotonic
// updates to a profile in a single UpdateOne, so concurrent awards for the
// same user cannot lose increments.
func (r *UserProfileRepository) ApplyScoreDelta(ctx context.Context, userID string, delta *models.ProfileDelta) error {
	inc := bson.M{}
	addInc := func(field string, v int) {
		if v != 0 {
			inc[field] = v
		}
	}
	addInc("totalPoints", delta.TotalPoints)
	addInc("availablePoints", delta.AvailablePoints)
	addInc("lifetimePoints", delta.LifetimePoints)
	addInc("readingPoints", delta.ReadingPoints)
	addInc("quizPoints", delta.QuizPoints)
	addInc("ackPoints", delta.AckPoints)
	addInc("bonusPoints", delta.BonusPoints)
	addInc("policiesRead", delta.PoliciesRead)
	addInc("quizzesCompleted", delta.QuizzesCompleted)
	addInc("quizzesPassed", delta.QuizzesPassed)
	addInc("badgeCount", delta.BadgeCount)

	set := bson.M{"updatedAt": time.Now()}
	if delta.ResetMonthTo != nil {
		// Month rolled over: the counter restarts at this event's points
		// instead of being incremented.
		set["pointsThisMonth"] = *delta.ResetMonthTo
	} else {
		addInc("pointsThisMonth", delta.PointsThisMonth)
	}
	if delta.MonthAnchor != "" {
		set["monthAnchor"] = delta.MonthAnchor
	}
	if delta.StreakDays != nil {
		set["currentStreakDays"] = *delta.StreakDays
	}
	if delta.LastActivityDate != nil {
		set["lastActivityDate"] = *delta.LastActivityDate
	}
	if delta.LevelName != "" {
		set["currentLevelName"] = delta.LevelName
	}

	max := bson.M{}
	if delta.Level != nil {
		max["currentLevel"] = *delta.Level
	}
	if delta.LongestStreakDays != nil {
		max["longestStreakDays"] = *delta.LongestStreakDays
	}

	update := bson.M{"$set": set}
	if len(inc) > 0 {
		update["$inc"] = inc
	}
	if len(max) > 0 {
		update["$max"] = max
	}

	filter := bson.M{"userId": userID}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
