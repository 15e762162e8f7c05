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

// Compile-time check to ensure AchievementRepository implements the interface
var _ repositories.AchievementRepository = (*AchievementRepository)(nil)

// AchievementRepository handles MongoDB operations for achievement definitions
type AchievementRepository struct {
	collection *mongo.Collection
}

// NewAchievementRepository creates a new AchievementRepository
func NewAchievementRepository(db *mongo.Database) *AchievementRepository {
	return &AchievementRepository{
		collection: db.Collection("achievements"),
	}
}

// Create inserts a new achievement definition
func (r *AchievementRepository) Create(ctx context.Context, achievement *models.Achievement) error {
	achievement.ID = primitive.NewObjectID()
	achievement.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, achievement)
	if mongo.IsDuplicateKeyError(err) {
		return repositories.ErrDuplicate
	}
	return err
}

// FindActive retrieves all active achievement definitions
func (r *AchievementRepository) FindActive(ctx context.Context) ([]*models.Achievement, error) {
	var achievements []*models.Achievement
	cursor, err := r.collection.Find(ctx, bson.M{"isActive": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &achievements); err != nil {
		return nil, err
	}
	if achievements == nil {
		achievements = []*models.Achievement{}
	}
	return achievements, nil
}

// FindByCode finds an achievement definition by code
func (r *AchievementRepository) FindByCode(ctx context.Context, code string) (*models.Achievement, error) {
	var achievement models.Achievement
	err := r.collection.FindOne(ctx, bson.M{"code": code}).Decode(&achievement)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &achievement, nil
}
