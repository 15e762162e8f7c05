package mongodb

import (
	"context"
	"time"

	"github.com/engagehq/engagehub-backend/internal/models"
	"github.com/engagehq/engagehub-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure UserAchievementRepository implements the interface
var _ repositories.UserAchievementRepository = (*UserAchievementRepository)(nil)

// UserAchievementRepository handles MongoDB operations for earned achievements
type UserAchievementRepository struct {
	collection *mongo.Collection
}

// NewUserAchievementRepository creates a new UserAchievementRepository
func NewUserAchievementRepository(db *mongo.Database) *UserAchievementRepository {
	return &UserAchievementRepository{
		collection: db.Collection("user_achievements"),
	}
}

// EnsureIndexes creates the unique (userId, achievementCode) index that
// makes unlocks idempotent under concurrency.
func (r *UserAchievementRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "userId", Value: 1},
			{Key: "achievementCode", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Create inserts an earned achievement. The unique index turns a concurrent
// double-unlock into ErrDuplicate, which callers treat as already earned.
func (r *UserAchievementRepository) Create(ctx context.Context, ua *models.UserAchievement) error {
	ua.ID = primitive.NewObjectID()
	if ua.UnlockedDate.IsZero() {
		ua.UnlockedDate = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, ua)
	if mongo.IsDuplicateKeyError(err) {
		return repositories.ErrDuplicate
	}
	return err
}

// FindByUserID retrieves a user's earned achievements, newest first
func (r *UserAchievementRepository) FindByUserID(ctx context.Context, userID string) ([]*models.UserAchievement, error) {
	var earned []*models.UserAchievement
	opts := options.Find().SetSort(bson.M{"unlockedDate": -1})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &earned); err != nil {
		return nil, err
	}
	if earned == nil {
		earned = []*models.UserAchievement{}
	}
	return earned, nil
}

// CodesByUserID returns the set of achievement codes a user has earned
func (r *UserAchievementRepository) CodesByUserID(ctx context.Context, userID string) (map[string]bool, error) {
	earned, err := r.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	codes := make(map[string]bool, len(earned))
	for _, ua := range earned {
		codes[ua.AchievementCode] = true
	}
	return codes, nil
}
