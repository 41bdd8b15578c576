// internal/domain/models/membership.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Membership roles.
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Membership statuses. Only active and left are reachable through the
// join/leave endpoint today; the others are accepted by the schema so
// invite/moderation flows can land without a migration.
const (
	StatusInvited   = "invited"
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusLeft      = "left"
	StatusSuspended = "suspended"
)

// MembershipStatuses is the closed set of valid status values.
var MembershipStatuses = []string{
	StatusInvited, StatusPending, StatusActive, StatusLeft, StatusSuspended,
}

// ValidMembershipStatus reports whether s is one of MembershipStatuses.
func ValidMembershipStatus(s string) bool {
	for _, v := range MembershipStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Membership is the authoritative join between users and communities.
// Exactly one document per (community_id, user_id); membership records
// are never hard-deleted — leaving a community sets status to "left".
type Membership struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CommunityID primitive.ObjectID `bson:"community_id" json:"community_id"`
	UserID      primitive.ObjectID `bson:"user_id" json:"user_id"`
	Role        string             `bson:"role" json:"role"`     // owner | admin | member
	Status      string             `bson:"status" json:"status"` // invited | pending | active | left | suspended
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}
