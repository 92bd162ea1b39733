// internal/domain/models/organization.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Organization is the root scope for communities.
type Organization struct {
	ID        primitive.ObjectID   `bson:"_id" json:"id"`
	Name      string               `bson:"name" json:"name"`
	NameCI    string               `bson:"name_ci" json:"name_ci"` // lowercase, diacritics-stripped
	OwnerID   primitive.ObjectID   `bson:"owner_id" json:"owner_id"`
	MemberIDs []primitive.ObjectID `bson:"member_ids,omitempty" json:"member_ids,omitempty"`
	Status    string               `bson:"status" json:"status"`
	CreatedAt time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time            `bson:"updated_at" json:"updated_at"`
}
