// internal/app/store/posts/poststore.go
package poststore

import (
	"context"
	"time"

	"github.com/dalemusser/parishhub/internal/app/system/paging"
	"github.com/dalemusser/parishhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("posts")}
}

// Create inserts a post (or comment, when ParentID is set).
func (s *Store) Create(ctx context.Context, post models.Post) (models.Post, error) {
	now := time.Now().UTC()
	post.ID = primitive.NewObjectID()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	post.UpdatedAt = post.CreatedAt
	if _, err := s.c.InsertOne(ctx, post); err != nil {
		return models.Post{}, err
	}
	return post, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Post, error) {
	var post models.Post
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		return models.Post{}, err
	}
	return post, nil
}

// FeedFilter narrows a feed query. Organization and community are
// combined with logical AND when both are present.
type FeedFilter struct {
	OrganizationID *primitive.ObjectID
	CommunityID    *primitive.ObjectID

	// Cursor position; zero CursorID means first page.
	CursorCreatedAt time.Time
	CursorID        primitive.ObjectID
}

func (f FeedFilter) query() bson.M {
	filter := bson.M{"parent_id": bson.M{"$exists": false}}
	if f.OrganizationID != nil {
		filter["organization_id"] = *f.OrganizationID
	}
	if f.CommunityID != nil {
		filter["community_id"] = *f.CommunityID
	}
	if f.CursorID != primitive.NilObjectID {
		filter["$or"] = paging.FeedWindow(f.CursorCreatedAt, f.CursorID)["$or"]
	}
	return filter
}

// FindFeed returns up to limit top-level posts, newest-first.
func (s *Store) FindFeed(ctx context.Context, filter FeedFilter, limit int) ([]models.Post, error) {
	find := options.Find().
		SetSort(paging.FeedSort()).
		SetLimit(int64(limit))
	cur, err := s.c.Find(ctx, filter.query(), find)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var posts []models.Post
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// ListComments returns one offset page of comments for a parent post,
// newest-first.
func (s *Store) ListComments(ctx context.Context, parentID primitive.ObjectID, page paging.CommentPage) ([]models.Post, error) {
	find := options.Find().
		SetSort(paging.FeedSort()).
		SetSkip(page.Skip()).
		SetLimit(page.Limit())
	cur, err := s.c.Find(ctx, bson.M{"parent_id": parentID}, find)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var comments []models.Post
	if err := cur.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// CountComments returns the number of comments on a post. Kept as a
// separate count query so listings can report totals without a second
// full fetch.
func (s *Store) CountComments(ctx context.Context, parentID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"parent_id": parentID})
}

// CountCommentsForParents returns comment counts per parent in one
// aggregation round trip. Parents without comments are absent from the map.
func (s *Store) CountCommentsForParents(ctx context.Context, parentIDs []primitive.ObjectID) (map[primitive.ObjectID]int64, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"parent_id": bson.M{"$in": parentIDs}}}},
		{{Key: "$group", Value: bson.M{"_id": "$parent_id", "count": bson.M{"$sum": 1}}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		ParentID primitive.ObjectID `bson:"_id"`
		Count    int64              `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	counts := make(map[primitive.ObjectID]int64, len(rows))
	for _, row := range rows {
		counts[row.ParentID] = row.Count
	}
	return counts, nil
}

// LatestCommentsForParents returns up to perParent newest comments for
// each parent, for feed previews.
func (s *Store) LatestCommentsForParents(ctx context.Context, parentIDs []primitive.ObjectID, perParent int) (map[primitive.ObjectID][]models.Post, error) {
	if len(parentIDs) == 0 || perParent <= 0 {
		return nil, nil
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"parent_id": bson.M{"$in": parentIDs}}}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}}},
		{{Key: "$group", Value: bson.M{"_id": "$parent_id", "comments": bson.M{"$push": "$$ROOT"}}}},
		{{Key: "$project", Value: bson.M{"comments": bson.M{"$slice": bson.A{"$comments", perParent}}}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		ParentID primitive.ObjectID `bson:"_id"`
		Comments []models.Post      `bson:"comments"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	previews := make(map[primitive.ObjectID][]models.Post, len(rows))
	for _, row := range rows {
		previews[row.ParentID] = row.Comments
	}
	return previews, nil
}

// ToggleLike adds the user's like if absent, removes it if present, and
// reports whether the post ends up liked. $addToSet keeps the likes
// array a set regardless of interleaving.
func (s *Store) ToggleLike(ctx context.Context, postID, userID primitive.ObjectID) (liked bool, err error) {
	res, err := s.c.UpdateByID(ctx, postID, bson.M{
		"$addToSet": bson.M{"likes": userID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, mongo.ErrNoDocuments
	}
	if res.ModifiedCount > 0 {
		return true, nil
	}
	// Already liked: toggle off.
	if _, err := s.c.UpdateByID(ctx, postID, bson.M{
		"$pull": bson.M{"likes": userID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}); err != nil {
		return true, err
	}
	return false, nil
}

// AddLike records a like without toggle semantics (at most once).
func (s *Store) AddLike(ctx context.Context, postID, userID primitive.ObjectID) error {
	res, err := s.c.UpdateByID(ctx, postID, bson.M{
		"$addToSet": bson.M{"likes": userID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// CountCreatedBetween counts posts (comments included) created in [from, to).
func (s *Store) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"created_at": bson.M{"$gte": from, "$lt": to}})
}
