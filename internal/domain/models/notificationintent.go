// internal/domain/models/notificationintent.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification intent kinds.
const (
	IntentKindPost    = "post"
	IntentKindComment = "comment"
)

// Notification intent statuses.
const (
	IntentPending = "pending"
	IntentDone    = "done"
	IntentFailed  = "failed"
)

// NotificationIntent is one outbox row per content-creation event. The
// write path appends an intent and returns; the fan-out worker claims
// pending intents and performs the per-recipient sends.
type NotificationIntent struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Key         string             `bson:"key" json:"key"` // uuid, unique; guards against double-enqueue
	Kind        string             `bson:"kind" json:"kind"`
	PostID      primitive.ObjectID `bson:"post_id" json:"post_id"`
	CommunityID primitive.ObjectID `bson:"community_id" json:"community_id"`
	ActorID     primitive.ObjectID `bson:"actor_id" json:"actor_id"`
	Body        string             `bson:"body" json:"body"` // message text to deliver

	Status    string `bson:"status" json:"status"`
	Attempted int    `bson:"attempted" json:"attempted"`
	Sent      int    `bson:"sent" json:"sent"`
	Failed    int    `bson:"failed" json:"failed"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	ClaimedAt *time.Time `bson:"claimed_at,omitempty" json:"claimed_at,omitempty"`
	SettledAt *time.Time `bson:"settled_at,omitempty" json:"settled_at,omitempty"`
}
