package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification delivery channels.
const (
	ChannelEmail = "EMAIL"
	ChannelTeams = "TEAMS"
)

// Queue statuses. The engine only ever writes QUEUED; the downstream
// delivery worker owns the rest of the lifecycle.
const (
	NotificationQueued = "QUEUED"
	NotificationSent   = "SENT"
	NotificationFailed = "FAILED"
)

// NotificationMessage is a fire-and-forget message handed to the notification
// sink. The engine enqueues; delivery is entirely out of scope.
type NotificationMessage struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	RecipientEmail string             `bson:"recipientEmail" json:"recipientEmail"`
	Subject        string             `bson:"subject" json:"subject"`
	Body           string             `bson:"body" json:"body"`
	Channel        string             `bson:"channel" json:"channel"` // EMAIL, TEAMS
	Status         string             `bson:"status" json:"status"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}
