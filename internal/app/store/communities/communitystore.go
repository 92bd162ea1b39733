// internal/app/store/communities/communitystore.go
package communitystore

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
)

type Store struct {
	c *mongo.Collection
}

var ErrDuplicateCommunityName = errors.New("a community with this name already exists in the organization")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("communities")}
}

// Create inserts a community under its organization.
func (s *Store) Create(ctx context.Context, com models.Community) (models.Community, error) {
	now := time.Now().UTC()
	com.ID = primitive.NewObjectID()
	com.NameCI = text.Fold(com.Name)
	if com.Visibility == "" {
		com.Visibility = models.VisibilityPublic
	}
	if com.Status == "" {
		com.Status = "active"
	}
	com.CreatedAt = now
	com.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, com); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Community{}, ErrDuplicateCommunityName
		}
		return models.Community{}, err
	}
	return com, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Community, error) {
	var com models.Community
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&com); err != nil {
		return models.Community{}, err
	}
	return com, nil
}

// GetByIDs loads multiple communities by their ObjectIDs.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Community, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var coms []models.Community
	if err := cur.All(ctx, &coms); err != nil {
		return nil, err
	}
	return coms, nil
}

// AddMember adds the user to the community member list (at most once).
func (s *Store) AddMember(ctx context.Context, communityID, userID primitive.ObjectID) error {
	res, err := s.c.UpdateByID(ctx, communityID, bson.M{
		"$addToSet": bson.M{"member_ids": userID},
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

// RemoveMember removes the user from the community member list.
func (s *Store) RemoveMember(ctx context.Context, communityID, userID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, communityID, bson.M{
		"$pull": bson.M{"member_ids": userID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// IsMember reports whether the user appears in the member list.
func (s *Store) IsMember(ctx context.Context, communityID, userID primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"_id": communityID, "member_ids": userID}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListByOrganization returns the organization's communities.
func (s *Store) ListByOrganization(ctx context.Context, orgID primitive.ObjectID) ([]models.Community, error) {
	cur, err := s.c.Find(ctx, bson.M{"organization_id": orgID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var coms []models.Community
	if err := cur.All(ctx, &coms); err != nil {
		return nil, err
	}
	return coms, nil
}

// Delete removes a community by ID.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// CountCreatedBetween counts communities created in [from, to).
func (s *Store) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"created_at": bson.M{"$gte": from, "$lt": to}})
}
