// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account that can join communities, open discussions,
// reply, and vote.
//
// NOTE:
//   - Community membership is not embedded on User.
//     Use the memberships collection to discover a user's communities.
//   - EmailCI is the case-folded email used for the unique login index.
type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email         string             `bson:"email" json:"email"`
	EmailCI       string             `bson:"email_ci" json:"-"`
	DisplayName   string             `bson:"display_name" json:"display_name"`
	DisplayNameCI string             `bson:"display_name_ci" json:"-"`
	PasswordHash  string             `bson:"password_hash" json:"-"`
	Bio           string             `bson:"bio,omitempty" json:"bio,omitempty"`
	AvatarURL     string             `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`

	Status string `bson:"status" json:"status"` // active | disabled

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
