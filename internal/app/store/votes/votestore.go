// internal/app/store/votes/votestore.go
package votestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/agorahub/internal/app/system/txn"
	"github.com/dalemusser/agorahub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Store is the vote ledger for one kind of target. The same code backs
// discussion votes and reply votes; only the collection pair differs.
type Store struct {
	db      *mongo.Database
	c       *mongo.Collection
	targets *mongo.Collection
	log     *zap.Logger
}

// NewForDiscussions returns the ledger for votes on discussions.
func NewForDiscussions(db *mongo.Database, log *zap.Logger) *Store {
	return &Store{
		db:      db,
		c:       db.Collection("discussion_votes"),
		targets: db.Collection("discussions"),
		log:     log,
	}
}

// NewForReplies returns the ledger for votes on replies.
func NewForReplies(db *mongo.Database, log *zap.Logger) *Store {
	return &Store{
		db:      db,
		c:       db.Collection("reply_votes"),
		targets: db.Collection("replies"),
		log:     log,
	}
}

var (
	ErrInvalidDirection = errors.New("invalid vote direction")
	ErrTargetNotFound   = errors.New("vote target not found")
)

func countField(direction string) string {
	if direction == models.VoteUp {
		return "up_vote_count"
	}
	return "down_vote_count"
}

// Cast records the voter's directional vote on the target and keeps the
// target's denormalized counters in step.
//
// Three cases, all in one unit of work:
//   - no prior vote: insert the record, bump the direction's counter
//   - prior vote, same direction: no-op, counters untouched
//   - prior vote, other direction: flip the record in place, decrement
//     the old counter and increment the new one
//
// There is no un-vote. A vote, once cast, can only change direction.
// Cast returns the vote record as it stands after the call.
func (s *Store) Cast(ctx context.Context, voterID, targetID primitive.ObjectID, direction string) (models.Vote, error) {
	if !models.ValidVoteDirection(direction) {
		return models.Vote{}, ErrInvalidDirection
	}
	v, err := s.cast(ctx, voterID, targetID, direction)
	if wafflemongo.IsDup(err) {
		// Lost an insert race on (voter_id, target_id); the second
		// attempt finds the winner's record and takes the flip path.
		v, err = s.cast(ctx, voterID, targetID, direction)
	}
	return v, err
}

func (s *Store) cast(ctx context.Context, voterID, targetID primitive.ObjectID, direction string) (models.Vote, error) {
	now := time.Now().UTC()
	var out models.Vote

	err := txn.Run(ctx, s.db, s.log, func(ctx context.Context) error {
		var existing models.Vote
		err := s.c.FindOne(ctx, bson.M{
			"voter_id":  voterID,
			"target_id": targetID,
		}).Decode(&existing)

		switch {
		case err == mongo.ErrNoDocuments:
			out = models.Vote{
				ID:        primitive.NewObjectID(),
				VoterID:   voterID,
				TargetID:  targetID,
				Direction: direction,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if _, err := s.c.InsertOne(ctx, out); err != nil {
				return err
			}
			return s.bump(ctx, targetID, bson.M{countField(direction): 1})

		case err != nil:
			return err

		case existing.Direction == direction:
			out = existing
			return nil

		default:
			if _, err := s.c.UpdateByID(ctx, existing.ID, bson.M{"$set": bson.M{
				"direction":  direction,
				"updated_at": now,
			}}); err != nil {
				return err
			}
			out = existing
			out.Direction = direction
			out.UpdatedAt = now
			return s.bump(ctx, targetID, bson.M{
				countField(existing.Direction): -1,
				countField(direction):          1,
			})
		}
	})
	if err != nil {
		return models.Vote{}, err
	}
	return out, nil
}

func (s *Store) bump(ctx context.Context, targetID primitive.ObjectID, inc bson.M) error {
	res, err := s.targets.UpdateByID(ctx, targetID, bson.M{"$inc": inc})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrTargetNotFound
	}
	return nil
}

// Get returns the voter's current vote on the target, if any.
func (s *Store) Get(ctx context.Context, voterID, targetID primitive.ObjectID) (models.Vote, bool, error) {
	var v models.Vote
	err := s.c.FindOne(ctx, bson.M{
		"voter_id":  voterID,
		"target_id": targetID,
	}).Decode(&v)
	if err == mongo.ErrNoDocuments {
		return models.Vote{}, false, nil
	}
	if err != nil {
		return models.Vote{}, false, err
	}
	return v, true, nil
}

// DirectionsFor maps target IDs to the voter's vote direction, for
// decorating list responses with the caller's votes in one query.
func (s *Store) DirectionsFor(ctx context.Context, voterID primitive.ObjectID, targetIDs []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	out := make(map[primitive.ObjectID]string, len(targetIDs))
	if len(targetIDs) == 0 {
		return out, nil
	}
	cur, err := s.c.Find(ctx, bson.M{
		"voter_id":  voterID,
		"target_id": bson.M{"$in": targetIDs},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var votes []models.Vote
	if err := cur.All(ctx, &votes); err != nil {
		return nil, err
	}
	for _, v := range votes {
		out[v.TargetID] = v.Direction
	}
	return out, nil
}

// Tally is a recomputed counter pair for one target.
type Tally struct {
	Up   int64
	Down int64
}

// Recount recomputes the target's counters from the ledger and writes
// them back, repairing any drift in the denormalized values.
func (s *Store) Recount(ctx context.Context, targetID primitive.ObjectID) (Tally, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"target_id": targetID}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$direction",
			"count": bson.M{"$sum": 1},
		}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return Tally{}, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Direction string `bson:"_id"`
		Count     int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return Tally{}, err
	}

	var t Tally
	for _, r := range rows {
		switch r.Direction {
		case models.VoteUp:
			t.Up = r.Count
		case models.VoteDown:
			t.Down = r.Count
		}
	}

	res, err := s.targets.UpdateByID(ctx, targetID, bson.M{"$set": bson.M{
		"up_vote_count":   t.Up,
		"down_vote_count": t.Down,
	}})
	if err != nil {
		return Tally{}, err
	}
	if res.MatchedCount == 0 {
		return Tally{}, ErrTargetNotFound
	}
	return t, nil
}
