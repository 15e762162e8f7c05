package services

import (
	"context"

	"github.com/engagehq/engagehub-backend/internal/models"
	"github.com/engagehq/engagehub-backend/internal/repositories"
	"github.com/engagehq/engagehub-backend/internal/utils"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure QueueNotificationSink implements the interface
var _ NotificationSink = (*QueueNotificationSink)(nil)

// QueueNotificationSink writes notifications to the outbound queue collection.
// A downstream delivery worker owns sending; the engine only ever enqueues.
type QueueNotificationSink struct {
	queueRepo repositories.NotificationQueueRepository
}

// NewQueueNotificationSink creates a new QueueNotificationSink
func NewQueueNotificationSink(queueRepo repositories.NotificationQueueRepository) *QueueNotificationSink {
	return &QueueNotificationSink{queueRepo: queueRepo}
}

// Notify enqueues one message for delivery
func (s *QueueNotificationSink) Notify(ctx context.Context, recipientEmail, subject, body string) error {
	message := &models.NotificationMessage{
		RecipientEmail: recipientEmail,
		Subject:        subject,
		Body:           body,
		Channel:        models.ChannelEmail,
	}
	if err := s.queueRepo.Enqueue(ctx, message); err != nil {
		return err
	}
	slog.Info("Notification queued", "recipient", utils.MaskEmail(recipientEmail), "subject", subject)
	return nil
}
