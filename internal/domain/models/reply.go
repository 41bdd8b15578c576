// internal/domain/models/reply.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reply tags.
const (
	TagAnswer   = "answer"
	TagTip      = "tip"
	TagQuestion = "question"
)

// ValidReplyTag reports whether t is a recognized reply tag.
func ValidReplyTag(t string) bool {
	return t == TagAnswer || t == TagTip || t == TagQuestion
}

// Reply is a comment on a discussion, optionally nested under another
// reply in the same discussion.
//
// Replies are soft-deleted: the author's delete clears Body and sets
// IsDeleted so the thread structure (and vote counters) survive.
type Reply struct {
	ID           primitive.ObjectID  `bson:"_id" json:"id"`
	DiscussionID primitive.ObjectID  `bson:"discussion_id" json:"discussion_id"`
	AuthorID     primitive.ObjectID  `bson:"author_id" json:"author_id"`
	Body         string              `bson:"body" json:"body"`
	ParentID     *primitive.ObjectID `bson:"parent_id,omitempty" json:"parent_id,omitempty"`
	Tag          string              `bson:"tag" json:"tag"` // answer | tip | question

	UpVoteCount   int64 `bson:"up_vote_count" json:"up_vote_count"`
	DownVoteCount int64 `bson:"down_vote_count" json:"down_vote_count"`
	IsDeleted     bool  `bson:"is_deleted" json:"is_deleted"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
