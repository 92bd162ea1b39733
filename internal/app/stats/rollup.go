// internal/app/stats/rollup.go

// Package stats computes the daily activity rollup.
package stats

import (
	"context"
	"fmt"
	"time"

	communitystore "github.com/dalemusser/parishhub/internal/app/store/communities"
	organizationstore "github.com/dalemusser/parishhub/internal/app/store/organizations"
	poststore "github.com/dalemusser/parishhub/internal/app/store/posts"
	statsstore "github.com/dalemusser/parishhub/internal/app/store/stats"
	userstore "github.com/dalemusser/parishhub/internal/app/store/users"
	"github.com/dalemusser/parishhub/internal/app/system/apperr"
	"github.com/dalemusser/parishhub/internal/app/system/tasks"
	"github.com/dalemusser/parishhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// ActivitySource counts users active inside a window. The default is
// last_seen_at on the users collection; deployments with an external
// analytics pipeline can substitute their own.
type ActivitySource interface {
	CountActiveBetween(ctx context.Context, from, to time.Time) (int64, error)
}

// Aggregator computes and persists one rollup row per calendar day.
// Day boundaries follow the configured location.
type Aggregator struct {
	users       *userstore.Store
	orgs        *organizationstore.Store
	communities *communitystore.Store
	posts       *poststore.Store
	stats       *statsstore.Store
	activity    ActivitySource
	loc         *time.Location
	log         *zap.Logger
}

// New builds an Aggregator. A nil activity falls back to the users
// collection's last-seen tracking.
func New(db *mongo.Database, activity ActivitySource, loc *time.Location, logger *zap.Logger) *Aggregator {
	users := userstore.New(db)
	if activity == nil {
		activity = users
	}
	return &Aggregator{
		users:       users,
		orgs:        organizationstore.New(db),
		communities: communitystore.New(db),
		posts:       poststore.New(db),
		stats:       statsstore.New(db),
		activity:    activity,
		loc:         loc,
		log:         logger,
	}
}

// ComputeAndPersist recomputes the rollup for the given date
// (YYYY-MM-DD) and upserts it. Any count failure aborts the whole run;
// a partial row is never written. Recomputation overwrites.
func (a *Aggregator) ComputeAndPersist(ctx context.Context, date string) (models.DailyStats, error) {
	day, err := time.ParseInLocation(dateLayout, date, a.loc)
	if err != nil {
		return models.DailyStats{}, fmt.Errorf("date %q: %w", date, apperr.ErrInvalidQuery)
	}
	from := day
	to := day.AddDate(0, 0, 1)

	row := models.DailyStats{Date: date}

	if row.NewUsers, err = a.users.CountCreatedBetween(ctx, from, to); err != nil {
		return models.DailyStats{}, fmt.Errorf("count new users: %w", apperr.FromStore(err))
	}
	if row.NewOrganizations, err = a.orgs.CountCreatedBetween(ctx, from, to); err != nil {
		return models.DailyStats{}, fmt.Errorf("count new organizations: %w", apperr.FromStore(err))
	}
	if row.NewCommunities, err = a.communities.CountCreatedBetween(ctx, from, to); err != nil {
		return models.DailyStats{}, fmt.Errorf("count new communities: %w", apperr.FromStore(err))
	}
	if row.NewPosts, err = a.posts.CountCreatedBetween(ctx, from, to); err != nil {
		return models.DailyStats{}, fmt.Errorf("count new posts: %w", apperr.FromStore(err))
	}
	if row.ActiveUsers, err = a.activity.CountActiveBetween(ctx, from, to); err != nil {
		return models.DailyStats{}, fmt.Errorf("count active users: %w", apperr.FromStore(err))
	}

	if err := a.stats.Upsert(ctx, row); err != nil {
		return models.DailyStats{}, fmt.Errorf("persist rollup: %w", apperr.FromStore(err))
	}
	a.log.Info("daily rollup persisted",
		zap.String("date", date),
		zap.Int64("new_users", row.NewUsers),
		zap.Int64("new_posts", row.NewPosts),
		zap.Int64("active_users", row.ActiveUsers))
	return row, nil
}

// Today returns the current date string in the aggregator's time zone.
func (a *Aggregator) Today() string {
	return time.Now().In(a.loc).Format(dateLayout)
}

// Job returns the periodic task that rolls up the previous day. Running
// every interval is safe because recomputation is idempotent.
func (a *Aggregator) Job(interval time.Duration) tasks.Job {
	return tasks.Job{
		Name:     "daily_stats_rollup",
		Interval: interval,
		Run: func(ctx context.Context) error {
			yesterday := time.Now().In(a.loc).AddDate(0, 0, -1).Format(dateLayout)
			_, err := a.ComputeAndPersist(ctx, yesterday)
			return err
		},
	}
}
