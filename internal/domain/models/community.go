// internal/domain/models/community.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Community is a named space that discussions belong to.
//
// NOTE:
//   - Member lists are not embedded on Community.
//     All membership is stored in the memberships collection.
//   - Slug is globally unique (unique index on slug) and derived from
//     Name at creation unless explicitly supplied.
//   - MemberCount is denormalized: it is recomputed from active
//     memberships on every membership status change, never hand-edited.
type Community struct {
	ID          primitive.ObjectID   `bson:"_id" json:"id"`
	Name        string               `bson:"name" json:"name"`
	NameCI      string               `bson:"name_ci" json:"-"`
	Slug        string               `bson:"slug" json:"slug"`
	OwnerID     primitive.ObjectID   `bson:"owner_id" json:"owner_id"`
	Description string               `bson:"description" json:"description"`
	IsPrivate   bool                 `bson:"is_private" json:"is_private"`
	TopicIDs    []primitive.ObjectID `bson:"topic_ids,omitempty" json:"topic_ids,omitempty"`
	MemberCount int64                `bson:"member_count" json:"member_count"`
	Guidelines  []string             `bson:"guidelines,omitempty" json:"guidelines,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Topic is a tag communities can be filed under.
type Topic struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Name      string             `bson:"name" json:"name"`
	NameCI    string             `bson:"name_ci" json:"-"`
	Slug      string             `bson:"slug" json:"slug"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
