// internal/app/store/intents/intentstore.go
package intentstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/parishhub/internal/domain/models"
	"github.com/google/uuid"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is the notification outbox. The write path appends intents;
// the fan-out worker claims and settles them.
type Store struct {
	c *mongo.Collection
}

var ErrDuplicateIntent = errors.New("an intent with this key already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("notification_intents")}
}

// Append enqueues one pending intent. A fresh uuid key is assigned when
// the caller leaves Key blank.
func (s *Store) Append(ctx context.Context, intent models.NotificationIntent) (models.NotificationIntent, error) {
	intent.ID = primitive.NewObjectID()
	if intent.Key == "" {
		intent.Key = uuid.NewString()
	}
	intent.Status = models.IntentPending
	intent.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, intent); err != nil {
		if wafflemongo.IsDup(err) {
			return models.NotificationIntent{}, ErrDuplicateIntent
		}
		return models.NotificationIntent{}, err
	}
	return intent, nil
}

// ClaimNext atomically claims the oldest pending intent that is not
// already held by a live claim. A claim older than staleAfter is
// considered abandoned (worker crashed mid-dispatch) and may be
// re-claimed. Returns mongo.ErrNoDocuments when the outbox is drained.
func (s *Store) ClaimNext(ctx context.Context, staleAfter time.Duration) (models.NotificationIntent, error) {
	now := time.Now().UTC()
	opts := options.FindOneAndUpdate().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetReturnDocument(options.After)
	var intent models.NotificationIntent
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{
			"status": models.IntentPending,
			"$or": bson.A{
				bson.M{"claimed_at": bson.M{"$exists": false}},
				bson.M{"claimed_at": nil},
				bson.M{"claimed_at": bson.M{"$lt": now.Add(-staleAfter)}},
			},
		},
		bson.M{"$set": bson.M{"claimed_at": now}},
		opts,
	).Decode(&intent)
	if err != nil {
		return models.NotificationIntent{}, err
	}
	return intent, nil
}

// Settle records the delivery summary and final status for an intent.
// An intent with zero successful sends out of a non-empty batch settles
// as failed; anything else is done (including empty recipient sets).
func (s *Store) Settle(ctx context.Context, id primitive.ObjectID, attempted, sent, failed int) error {
	status := models.IntentDone
	if attempted > 0 && sent == 0 {
		status = models.IntentFailed
	}
	now := time.Now().UTC()
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"status":     status,
		"attempted":  attempted,
		"sent":       sent,
		"failed":     failed,
		"settled_at": now,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// CountPending returns the current outbox depth.
func (s *Store) CountPending(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"status": models.IntentPending})
}
