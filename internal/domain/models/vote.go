// internal/domain/models/vote.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Vote directions.
const (
	VoteUp   = "up"
	VoteDown = "down"
)

// ValidVoteDirection reports whether d is "up" or "down".
func ValidVoteDirection(d string) bool {
	return d == VoteUp || d == VoteDown
}

// Vote is one voter's current directional opinion on one target
// (a discussion or a reply, depending on the collection it lives in).
// Exactly one document per (voter_id, target_id); a repeat vote in the
// opposite direction flips Direction in place. Votes are never deleted.
type Vote struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VoterID   primitive.ObjectID `bson:"voter_id" json:"voter_id"`
	TargetID  primitive.ObjectID `bson:"target_id" json:"target_id"`
	Direction string             `bson:"direction" json:"direction"` // up | down
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
