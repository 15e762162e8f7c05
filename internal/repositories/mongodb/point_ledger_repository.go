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

// Compile-time check to ensure PointLedgerRepository implements the interface
var _ repositories.PointLedgerRepository = (*PointLedgerRepository)(nil)

// PointLedgerRepository handles MongoDB operations for the append-only
// point ledger
type PointLedgerRepository struct {
	collection *mongo.Collection
}

// NewPointLedgerRepository creates a new PointLedgerRepository
func NewPointLedgerRepository(db *mongo.Database) *PointLedgerRepository {
	return &PointLedgerRepository{
		collection: db.Collection("point_ledger"),
	}
}

// Append inserts a new ledger entry. Entries are never updated or deleted.
func (r *PointLedgerRepository) Append(ctx context.Context, entry *models.PointLedgerEntry) error {
	entry.ID = primitive.NewObjectID()
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

// FindByUserID retrieves a user's ledger entries, newest first
func (r *PointLedgerRepository) FindByUserID(ctx context.Context, userID string, page, limit int) ([]*models.PointLedgerEntry, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	var entries []*models.PointLedgerEntry
	filter := bson.M{"userId": userID}
	opts := options.Find().
		SetSort(bson.M{"timestamp": -1}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*models.PointLedgerEntry{}
	}
	return entries, nil
}

// CountByUserID counts a user's ledger entries
func (r *PointLedgerRepository) CountByUserID(ctx context.Context, userID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"userId": userID})
}
