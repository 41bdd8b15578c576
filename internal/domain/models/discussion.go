// internal/domain/models/discussion.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Discussion is a top-level thread inside a community.
//
// NOTE:
//   - Slug is unique within the parent community (compound unique index
//     on community_id + slug), not globally.
//   - ReplyCount, UpVoteCount, DownVoteCount and LastActivityAt are
//     denormalized. Reply creation bumps ReplyCount/LastActivityAt; the
//     vote store owns the vote counters. Nothing else writes them.
type Discussion struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	CommunityID primitive.ObjectID `bson:"community_id" json:"community_id"`
	AuthorID    primitive.ObjectID `bson:"author_id" json:"author_id"`
	Title       string             `bson:"title" json:"title"`
	TitleCI     string             `bson:"title_ci" json:"-"`
	Slug        string             `bson:"slug" json:"slug"`
	Body        string             `bson:"body" json:"body"`

	IsLocked      bool  `bson:"is_locked" json:"is_locked"`
	ReplyCount    int64 `bson:"reply_count" json:"reply_count"`
	UpVoteCount   int64 `bson:"up_vote_count" json:"up_vote_count"`
	DownVoteCount int64 `bson:"down_vote_count" json:"down_vote_count"`

	LastActivityAt time.Time `bson:"last_activity_at" json:"last_activity_at"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}
