// internal/domain/models/community.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Community visibility values.
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// Community is a child of exactly one Organization.
type Community struct {
	ID             primitive.ObjectID   `bson:"_id" json:"id"`
	Name           string               `bson:"name" json:"name"`
	NameCI         string               `bson:"name_ci" json:"name_ci"`
	Visibility     string               `bson:"visibility" json:"visibility"` // public | private
	OrganizationID primitive.ObjectID   `bson:"organization_id" json:"organization_id"`
	MemberIDs      []primitive.ObjectID `bson:"member_ids,omitempty" json:"member_ids,omitempty"`
	Status         string               `bson:"status" json:"status"`
	CreatedAt      time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time            `bson:"updated_at" json:"updated_at"`
}
