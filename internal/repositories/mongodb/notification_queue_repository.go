package mongodb

import (
	"context"
	"time"

	"github.com/engagehq/engagehub-backend/internal/models"
	"github.com/engagehq/engagehub-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time check to ensure NotificationQueueRepository implements the interface
var _ repositories.NotificationQueueRepository = (*NotificationQueueRepository)(nil)

// NotificationQueueRepository handles MongoDB operations for the outbound
// notification queue
type NotificationQueueRepository struct {
	collection *mongo.Collection
}

// NewNotificationQueueRepository creates a new NotificationQueueRepository
func NewNotificationQueueRepository(db *mongo.Database) *NotificationQueueRepository {
	return &NotificationQueueRepository{
		collection: db.Collection("notification_queue"),
	}
}

// Enqueue inserts a queued message for the downstream delivery worker
func (r *NotificationQueueRepository) Enqueue(ctx context.Context, message *models.NotificationMessage) error {
	message.ID = primitive.NewObjectID()
	message.Status = models.NotificationQueued
	message.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, message)
	return err
}
