package mongodb

import (
	"context"

	"github.com/engagehq/engagehub-backend/internal/models"
	"github.com/engagehq/engagehub-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure LeaderboardSnapshotRepository implements the interface
var _ repositories.LeaderboardSnapshotRepository = (*LeaderboardSnapshotRepository)(nil)

// LeaderboardSnapshotRepository reads the two independently maintained,
// pre-ranked source leaderboards. Both collections are owned by their source
// systems; the merge never writes back.
type LeaderboardSnapshotRepository struct {
	onboarding *mongo.Collection
	enterprise *mongo.Collection
}

// NewLeaderboardSnapshotRepository creates a new LeaderboardSnapshotRepository
func NewLeaderboardSnapshotRepository(db *mongo.Database) *LeaderboardSnapshotRepository {
	return &LeaderboardSnapshotRepository{
		onboarding: db.Collection("onboarding_leaderboard"),
		enterprise: db.Collection("enterprise_leaderboard"),
	}
}

// FindOnboarding retrieves the onboarding leaderboard in rank order
func (r *LeaderboardSnapshotRepository) FindOnboarding(ctx context.Context) ([]*models.LeaderboardSnapshotEntry, error) {
	return r.findAll(ctx, r.onboarding)
}

// FindEnterprise retrieves the enterprise leaderboard in rank order
func (r *LeaderboardSnapshotRepository) FindEnterprise(ctx context.Context) ([]*models.LeaderboardSnapshotEntry, error) {
	return r.findAll(ctx, r.enterprise)
}

func (r *LeaderboardSnapshotRepository) findAll(ctx context.Context, coll *mongo.Collection) ([]*models.LeaderboardSnapshotEntry, error) {
	var entries []*models.LeaderboardSnapshotEntry
	opts := options.Find().SetSort(bson.M{"rank": 1})
	cursor, err := coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*models.LeaderboardSnapshotEntry{}
	}
	return entries, nil
}
