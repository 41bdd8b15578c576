// internal/app/store/memberships/membershipstore.go
package membershipstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/agorahub/internal/app/system/txn"
	"github.com/dalemusser/agorahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type Store struct {
	db          *mongo.Database
	c           *mongo.Collection
	communities *mongo.Collection
	log         *zap.Logger
}

func New(db *mongo.Database, log *zap.Logger) *Store {
	return &Store{
		db:          db,
		c:           db.Collection("memberships"),
		communities: db.Collection("communities"),
		log:         log,
	}
}

var (
	ErrInvalidStatus = errors.New("invalid membership status")
	ErrNotFound      = errors.New("membership not found")
)

// SetStatus upserts the caller's membership in a community.
//
// First touch creates the record with role "member". Subsequent calls
// overwrite status only: role survives leave/rejoin cycles, so an owner
// who leaves and rejoins is still the owner. After the write the
// community's member_count is recomputed from active memberships rather
// than incremented, which keeps the counter self-healing.
func (s *Store) SetStatus(ctx context.Context, communityID, userID primitive.ObjectID, status string) (models.Membership, error) {
	if !models.ValidMembershipStatus(status) {
		return models.Membership{}, ErrInvalidStatus
	}

	now := time.Now().UTC()
	var m models.Membership
	err := txn.Run(ctx, s.db, s.log, func(ctx context.Context) error {
		after := options.After
		err := s.c.FindOneAndUpdate(ctx,
			bson.M{"community_id": communityID, "user_id": userID},
			bson.M{
				"$set": bson.M{"status": status, "updated_at": now},
				"$setOnInsert": bson.M{
					"community_id": communityID,
					"user_id":      userID,
					"role":         models.RoleMember,
					"created_at":   now,
				},
			},
			options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(after),
		).Decode(&m)
		if err != nil {
			return err
		}
		return s.recount(ctx, communityID)
	})
	if err != nil {
		return models.Membership{}, err
	}
	return m, nil
}

// SetRole changes a member's role. The membership must already exist.
func (s *Store) SetRole(ctx context.Context, communityID, userID primitive.ObjectID, role string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"community_id": communityID, "user_id": userID},
		bson.M{"$set": bson.M{"role": role, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Get returns the membership for (community, user), ErrNotFound when the
// user has never touched the community.
func (s *Store) Get(ctx context.Context, communityID, userID primitive.ObjectID) (models.Membership, error) {
	var m models.Membership
	err := s.c.FindOne(ctx, bson.M{"community_id": communityID, "user_id": userID}).Decode(&m)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Membership{}, ErrNotFound
		}
		return models.Membership{}, err
	}
	return m, nil
}

// IsActiveMember reports whether the user currently has an active
// membership in the community.
func (s *Store) IsActiveMember(ctx context.Context, communityID, userID primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{
		"community_id": communityID,
		"user_id":      userID,
		"status":       models.StatusActive,
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Member pairs a membership with its user's public fields for listing.
type Member struct {
	Membership models.Membership `bson:",inline" json:"membership"`
	User       MemberUser        `bson:"user" json:"user"`
}

// MemberUser is the subset of user fields exposed in member listings.
type MemberUser struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	DisplayName string             `bson:"display_name" json:"display_name"`
	AvatarURL   string             `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`
}

// ListActive returns the community's active members joined with their
// user records, oldest membership first.
func (s *Store) ListActive(ctx context.Context, communityID primitive.ObjectID, limit int) ([]Member, error) {
	if limit <= 0 {
		limit = 100
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"community_id": communityID,
			"status":       models.StatusActive,
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: int64(limit)}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "user_id",
			"foreignField": "_id",
			"as":           "user",
		}}},
		{{Key: "$unwind", Value: "$user"}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []Member
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListForUser returns the communities a user belongs to with the given
// status, most recently joined first.
func (s *Store) ListForUser(ctx context.Context, userID primitive.ObjectID, status string) ([]models.Membership, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"user_id": userID, "status": status},
		options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Membership
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountActive counts active memberships for a community.
func (s *Store) CountActive(ctx context.Context, communityID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{
		"community_id": communityID,
		"status":       models.StatusActive,
	})
}

func (s *Store) recount(ctx context.Context, communityID primitive.ObjectID) error {
	n, err := s.CountActive(ctx, communityID)
	if err != nil {
		return err
	}
	_, err = s.communities.UpdateByID(ctx, communityID, bson.M{"$set": bson.M{
		"member_count": n,
		"updated_at":   time.Now().UTC(),
	}})
	return err
}
