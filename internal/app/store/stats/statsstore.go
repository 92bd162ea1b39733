// internal/app/store/stats/statsstore.go
package statsstore

import (
	"context"
	"time"

	"github.com/dalemusser/parishhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("daily_stats")}
}

// Upsert writes the rollup row for its date. Running twice for the same
// date overwrites the existing row; the unique date index guarantees a
// single row per day.
func (s *Store) Upsert(ctx context.Context, stats models.DailyStats) error {
	stats.ComputedAt = time.Now().UTC()
	opts := options.Replace().SetUpsert(true)
	_, err := s.c.ReplaceOne(ctx, bson.M{"date": stats.Date}, stats, opts)
	return err
}

// GetByDate loads one rollup row; mongo.ErrNoDocuments when absent.
func (s *Store) GetByDate(ctx context.Context, date string) (models.DailyStats, error) {
	var stats models.DailyStats
	if err := s.c.FindOne(ctx, bson.M{"date": date}).Decode(&stats); err != nil {
		return models.DailyStats{}, err
	}
	return stats, nil
}

// Count returns the number of rollup rows matching the filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}
