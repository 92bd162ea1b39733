// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/parishhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateOrganization creates a test organization with the given name and owner.
func (f *Fixtures) CreateOrganization(ctx context.Context, name string, ownerID primitive.ObjectID) models.Organization {
	f.t.Helper()

	now := time.Now().UTC()
	org := models.Organization{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		OwnerID:   ownerID,
		MemberIDs: []primitive.ObjectID{ownerID},
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("organizations").InsertOne(ctx, org); err != nil {
		f.t.Fatalf("failed to create test organization: %v", err)
	}
	return org
}

// CreateCommunity creates a public test community inside the organization.
func (f *Fixtures) CreateCommunity(ctx context.Context, name string, orgID primitive.ObjectID, memberIDs ...primitive.ObjectID) models.Community {
	f.t.Helper()

	now := time.Now().UTC()
	com := models.Community{
		ID:             primitive.NewObjectID(),
		Name:           name,
		NameCI:         text.Fold(name),
		Visibility:     models.VisibilityPublic,
		OrganizationID: orgID,
		MemberIDs:      memberIDs,
		Status:         "active",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := f.db.Collection("communities").InsertOne(ctx, com); err != nil {
		f.t.Fatalf("failed to create test community: %v", err)
	}
	return com
}

// CreateUser creates a test user. phone may be blank for members not
// contactable by SMS.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email, phone string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Email:      email,
		Phone:      phone,
		Status:     "active",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// JoinCommunity adds the user to the community's member list and the
// community to the user's membership list.
func (f *Fixtures) JoinCommunity(ctx context.Context, userID, communityID primitive.ObjectID) {
	f.t.Helper()

	if _, err := f.db.Collection("communities").UpdateByID(ctx, communityID,
		map[string]any{"$addToSet": map[string]any{"member_ids": userID}}); err != nil {
		f.t.Fatalf("failed to add community member: %v", err)
	}
	if _, err := f.db.Collection("users").UpdateByID(ctx, userID,
		map[string]any{"$addToSet": map[string]any{"community_ids": communityID}}); err != nil {
		f.t.Fatalf("failed to record user membership: %v", err)
	}
}

// CreatePost inserts a top-level post authored by the given user.
// createdAt controls feed ordering in tests.
func (f *Fixtures) CreatePost(ctx context.Context, body string, authorID primitive.ObjectID, com models.Community, createdAt time.Time) models.Post {
	f.t.Helper()

	post := models.Post{
		ID:             primitive.NewObjectID(),
		Body:           body,
		AuthorID:       authorID,
		OrganizationID: com.OrganizationID,
		CommunityID:    com.ID,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}
	if _, err := f.db.Collection("posts").InsertOne(ctx, post); err != nil {
		f.t.Fatalf("failed to create test post: %v", err)
	}
	return post
}

// CreateComment inserts a comment on the given parent post.
func (f *Fixtures) CreateComment(ctx context.Context, body string, authorID primitive.ObjectID, parent models.Post, createdAt time.Time) models.Post {
	f.t.Helper()

	parentID := parent.ID
	comment := models.Post{
		ID:             primitive.NewObjectID(),
		Body:           body,
		AuthorID:       authorID,
		OrganizationID: parent.OrganizationID,
		CommunityID:    parent.CommunityID,
		ParentID:       &parentID,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}
	if _, err := f.db.Collection("posts").InsertOne(ctx, comment); err != nil {
		f.t.Fatalf("failed to create test comment: %v", err)
	}
	return comment
}
