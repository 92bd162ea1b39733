// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrgMembership ties a user to an organization with a role.
type OrgMembership struct {
	OrganizationID primitive.ObjectID `bson:"organization_id" json:"organization_id"`
	Role           string             `bson:"role" json:"role"` // owner | leader | member
}

// User represents a platform member.
//
// NOTE:
//   - Auth fields (email, external subject) are owned by the identity
//     provider; the application only mirrors them on first sign-in.
//   - SelectedOrganizationID is a default scope for the home feed; every
//     scoped query still takes the organization explicitly.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName   string             `bson:"full_name" json:"full_name"`
	FullNameCI string             `bson:"full_name_ci" json:"full_name_ci"` // lowercase, diacritics-stripped
	Email      string             `bson:"email" json:"email"`
	Phone      string             `bson:"phone,omitempty" json:"phone,omitempty"` // E.164; blank means not contactable by SMS
	AvatarURL  string             `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`
	Status     string             `bson:"status,omitempty" json:"status,omitempty"`

	Organizations          []OrgMembership      `bson:"organizations,omitempty" json:"organizations,omitempty"`
	CommunityIDs           []primitive.ObjectID `bson:"community_ids,omitempty" json:"community_ids,omitempty"`
	SelectedOrganizationID *primitive.ObjectID  `bson:"selected_organization_id,omitempty" json:"selected_organization_id,omitempty"`

	LastSeenAt time.Time `bson:"last_seen_at,omitempty" json:"last_seen_at,omitempty"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updated_at"`
}

// InOrganization reports whether the user belongs to the given organization.
func (u User) InOrganization(orgID primitive.ObjectID) bool {
	for _, m := range u.Organizations {
		if m.OrganizationID == orgID {
			return true
		}
	}
	return false
}

// InCommunity reports whether the user belongs to the given community.
func (u User) InCommunity(communityID primitive.ObjectID) bool {
	for _, id := range u.CommunityIDs {
		if id == communityID {
			return true
		}
	}
	return false
}
