// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
Errors are aggregated so every problem is visible and startup can fail
fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureOrganizations(ctx, db); err != nil {
		problems = append(problems, "organizations: "+err.Error())
	}
	if err := ensureCommunities(ctx, db); err != nil {
		problems = append(problems, "communities: "+err.Error())
	}
	if err := ensurePosts(ctx, db); err != nil {
		problems = append(problems, "posts: "+err.Error())
	}
	if err := ensureNotificationIntents(ctx, db); err != nil {
		problems = append(problems, "notification_intents: "+err.Error())
	}
	if err := ensureDailyStats(ctx, db); err != nil {
		problems = append(problems, "daily_stats: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	logger.Info("indexes ensured")
	return nil
}

// Mongo/DocDB returns IndexOptionsConflict when an index with the same
// keys already exists under a different name. Treated as already-ensured.
func isOptionsConflictErr(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "IndexOptionsConflict")
}

func create(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	_, err := coll.Indexes().CreateMany(ctx, models)
	if isOptionsConflictErr(err) {
		return nil
	}
	return err
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db.Collection("users"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_users_email"),
		},
		{
			Keys:    bson.D{{Key: "community_ids", Value: 1}},
			Options: options.Index().SetName("idx_users_communities"),
		},
		{
			// Daily active-user window scan.
			Keys:    bson.D{{Key: "last_seen_at", Value: -1}},
			Options: options.Index().SetName("idx_users_last_seen"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_users_created"),
		},
	})
}

func ensureOrganizations(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db.Collection("organizations"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_orgs_name_ci"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_orgs_created"),
		},
	})
}

func ensureCommunities(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db.Collection("communities"), []mongo.IndexModel{
		{
			// Name unique within one organization, not globally.
			Keys:    bson.D{{Key: "organization_id", Value: 1}, {Key: "name_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_communities_org_name"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_communities_created"),
		},
	})
}

func ensurePosts(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db.Collection("posts"), []mongo.IndexModel{
		{
			// Threaded comment retrieval.
			Keys:    bson.D{{Key: "parent_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_posts_parent_created"),
		},
		{
			// Community feed scan.
			Keys:    bson.D{{Key: "community_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_posts_community_created"),
		},
		{
			// Organization feed scan.
			Keys:    bson.D{{Key: "organization_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_posts_org_created"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_posts_created"),
		},
	})
}

func ensureNotificationIntents(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db.Collection("notification_intents"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "key", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_intents_key"),
		},
		{
			// Worker claim scan.
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("idx_intents_status_created"),
		},
	})
}

func ensureDailyStats(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db.Collection("daily_stats"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_daily_stats_date"),
		},
	})
}
