package mongodb

import (
	"context"
	"errors"

	"github.com/engagehq/engagehub-backend/internal/models"
	"github.com/engagehq/engagehub-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time check to ensure OnboardingProgressRepository implements the interface
var _ repositories.OnboardingProgressRepository = (*OnboardingProgressRepository)(nil)

// OnboardingProgressRepository reads the onboarding system's progress
// snapshots. This collection is owned by the onboarding system; nothing here
// writes to it.
type OnboardingProgressRepository struct {
	collection *mongo.Collection
}

// NewOnboardingProgressRepository creates a new OnboardingProgressRepository
func NewOnboardingProgressRepository(db *mongo.Database) *OnboardingProgressRepository {
	return &OnboardingProgressRepository{
		collection: db.Collection("onboarding_progress"),
	}
}

// FindByUserID finds a user's onboarding progress snapshot
func (r *OnboardingProgressRepository) FindByUserID(ctx context.Context, userID string) (*models.OnboardingProgress, error) {
	var progress models.OnboardingProgress
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&progress)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &progress, nil
}
