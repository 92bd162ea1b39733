// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/parishhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var ErrDuplicateEmail = errors.New("a user with this email already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// Create inserts a user record. Called on first sign-in with the
// profile mirrored from the identity provider.
func (s *Store) Create(ctx context.Context, user models.User) (models.User, error) {
	now := time.Now().UTC()
	user.ID = primitive.NewObjectID()
	user.FullNameCI = text.Fold(user.FullName)
	if user.Status == "" {
		user.Status = "active"
	}
	user.CreatedAt = now
	user.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, user); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var user models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// GetByIDs loads multiple users by their ObjectIDs. Missing IDs are
// silently absent from the result; callers that populate views treat
// absence as a degraded field, not an error.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// TouchLastSeen records recent activity for the active-user rollup.
func (s *Store) TouchLastSeen(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{"last_seen_at": time.Now().UTC()}})
	return err
}

// SetSelectedOrganization updates the user's default home-feed scope.
func (s *Store) SetSelectedOrganization(ctx context.Context, id primitive.ObjectID, orgID *primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{"updated_at": time.Now().UTC()}}
	if orgID == nil {
		update["$unset"] = bson.M{"selected_organization_id": ""}
	} else {
		update["$set"].(bson.M)["selected_organization_id"] = *orgID
	}
	res, err := s.c.UpdateByID(ctx, id, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// JoinCommunity records community membership on the user document.
func (s *Store) JoinCommunity(ctx context.Context, userID, communityID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, userID, bson.M{
		"$addToSet": bson.M{"community_ids": communityID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// LeaveCommunity removes community membership from the user document.
func (s *Store) LeaveCommunity(ctx context.Context, userID, communityID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, userID, bson.M{
		"$pull": bson.M{"community_ids": communityID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// CountCreatedBetween counts users created in [from, to).
func (s *Store) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"created_at": bson.M{"$gte": from, "$lt": to}})
}

// CountActiveBetween counts users whose last activity falls in [from, to).
func (s *Store) CountActiveBetween(ctx context.Context, from, to time.Time) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"last_seen_at": bson.M{"$gte": from, "$lt": to}})
}

// Find returns users matching the given filter with optional find options.
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.User, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}
