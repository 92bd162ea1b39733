// internal/app/policy/postpolicy/postpolicy.go

// Package postpolicy decides who may write into a community's feed.
package postpolicy

import (
	"context"

	communitystore "github.com/dalemusser/parishhub/internal/app/store/communities"
	organizationstore "github.com/dalemusser/parishhub/internal/app/store/organizations"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Policy answers authorization questions for posts, comments, and
// likes. Membership in the community or in its owning organization is
// sufficient for all three.
type Policy struct {
	communities *communitystore.Store
	orgs        *organizationstore.Store
}

func New(db *mongo.Database) *Policy {
	return &Policy{
		communities: communitystore.New(db),
		orgs:        organizationstore.New(db),
	}
}

func (p *Policy) canInteract(ctx context.Context, communityID, orgID, userID primitive.ObjectID) (bool, error) {
	ok, err := p.communities.IsMember(ctx, communityID, userID)
	if err != nil || ok {
		return ok, err
	}
	return p.orgs.IsMember(ctx, orgID, userID)
}

// CanPost reports whether the user may create a post in the community.
func (p *Policy) CanPost(ctx context.Context, communityID, orgID, userID primitive.ObjectID) (bool, error) {
	return p.canInteract(ctx, communityID, orgID, userID)
}

// CanComment reports whether the user may comment within the community.
func (p *Policy) CanComment(ctx context.Context, communityID, orgID, userID primitive.ObjectID) (bool, error) {
	return p.canInteract(ctx, communityID, orgID, userID)
}

// CanLike reports whether the user may like a post in the community.
func (p *Policy) CanLike(ctx context.Context, communityID, orgID, userID primitive.ObjectID) (bool, error) {
	return p.canInteract(ctx, communityID, orgID, userID)
}
