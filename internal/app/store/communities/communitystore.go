// internal/app/store/communities/communitystore.go
package communitystore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/agorahub/internal/app/system/paging"
	"github.com/dalemusser/agorahub/internal/app/system/slug"
	"github.com/dalemusser/agorahub/internal/app/system/txn"
	"github.com/dalemusser/agorahub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type Store struct {
	db          *mongo.Database
	c           *mongo.Collection
	memberships *mongo.Collection
	log         *zap.Logger
}

func New(db *mongo.Database, log *zap.Logger) *Store {
	return &Store{
		db:          db,
		c:           db.Collection("communities"),
		memberships: db.Collection("memberships"),
		log:         log,
	}
}

var (
	ErrSlugTaken   = errors.New("a community with this slug already exists")
	ErrInvalidName = errors.New("name does not produce a usable slug")
	ErrNotFound    = errors.New("community not found")
)

// CreateInput carries the fields for a new community.
type CreateInput struct {
	Name        string
	Slug        string // optional; derived from Name when empty
	OwnerID     primitive.ObjectID
	Description string
	IsPrivate   bool
	TopicIDs    []primitive.ObjectID
	Guidelines  []string
}

// Create inserts the community and the owner's active membership in one
// logical unit of work, leaving member_count at 1.
//
// Slug uniqueness is decided by the unique index at insert time; there
// is deliberately no advisory pre-check, so two concurrent creates with
// the same derived slug race cleanly — the loser gets ErrSlugTaken.
func (s *Store) Create(ctx context.Context, in CreateInput) (models.Community, error) {
	sl := in.Slug
	if sl == "" {
		sl = slug.Make(in.Name)
	} else if !slug.Valid(sl) {
		return models.Community{}, ErrInvalidName
	}
	if sl == "" {
		return models.Community{}, ErrInvalidName
	}

	now := time.Now().UTC()
	c := models.Community{
		ID:          primitive.NewObjectID(),
		Name:        strings.TrimSpace(in.Name),
		NameCI:      text.Fold(strings.TrimSpace(in.Name)),
		Slug:        sl,
		OwnerID:     in.OwnerID,
		Description: in.Description,
		IsPrivate:   in.IsPrivate,
		TopicIDs:    in.TopicIDs,
		MemberCount: 1,
		Guidelines:  in.Guidelines,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := txn.Run(ctx, s.db, s.log, func(ctx context.Context) error {
		if _, err := s.c.InsertOne(ctx, c); err != nil {
			return err
		}
		_, err := s.memberships.InsertOne(ctx, models.Membership{
			ID:          primitive.NewObjectID(),
			CommunityID: c.ID,
			UserID:      in.OwnerID,
			Role:        models.RoleOwner,
			Status:      models.StatusActive,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		return err
	})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Community{}, ErrSlugTaken
		}
		return models.Community{}, err
	}
	return c, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Community, error) {
	var c models.Community
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Community{}, ErrNotFound
		}
		return models.Community{}, err
	}
	return c, nil
}

func (s *Store) GetBySlug(ctx context.Context, sl string) (models.Community, error) {
	var c models.Community
	if err := s.c.FindOne(ctx, bson.M{"slug": sl}).Decode(&c); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Community{}, ErrNotFound
		}
		return models.Community{}, err
	}
	return c, nil
}

// UpdateInfo lets the owner change description, privacy, topics and
// guidelines. Name and slug are immutable after creation.
func (s *Store) UpdateInfo(ctx context.Context, id primitive.ObjectID, description string, isPrivate bool, topicIDs []primitive.ObjectID, guidelines []string) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"description": description,
		"is_private":  isPrivate,
		"topic_ids":   topicIDs,
		"guidelines":  guidelines,
		"updated_at":  time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByIDs fetches the given communities in one query. Missing IDs
// are silently absent from the result.
func (s *Store) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Community, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Community
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListParams filters and pages the community list.
type ListParams struct {
	Search  string // matches folded name prefix
	TopicID *primitive.ObjectID
	Before  string
	After   string
	Limit   int
}

// ListPage is one page of communities plus cursors.
type ListPage struct {
	Communities []models.Community
	PrevCursor  string
	NextCursor  string
	HasPrev     bool
	HasNext     bool
}

// List returns communities sorted by folded name with keyset pagination.
func (s *Store) List(ctx context.Context, p ListParams) (ListPage, error) {
	if p.Limit <= 0 {
		p.Limit = paging.DefaultPageSize
	}
	cfg := paging.Configure(p.Before, p.After, 1, p.Limit)

	conds := []bson.M{}
	if q := text.Fold(strings.TrimSpace(p.Search)); q != "" {
		conds = append(conds, bson.M{"name_ci": bson.M{"$gte": q, "$lt": q + "￿"}})
	}
	if p.TopicID != nil {
		conds = append(conds, bson.M{"topic_ids": *p.TopicID})
	}
	if ks := cfg.Window("name_ci"); ks != nil {
		conds = append(conds, ks)
	}
	filter := bson.M{}
	if len(conds) == 1 {
		filter = conds[0]
	} else if len(conds) > 1 {
		filter = bson.M{"$and": conds}
	}

	find := options.Find()
	cfg.ApplyToFind(find, "name_ci")

	cur, err := s.c.Find(ctx, filter, find)
	if err != nil {
		return ListPage{}, err
	}
	defer cur.Close(ctx)

	var rows []models.Community
	if err := cur.All(ctx, &rows); err != nil {
		return ListPage{}, err
	}

	if cfg.Direction == paging.Backward {
		paging.Reverse(rows)
	}
	res := paging.Trim(&rows, cfg)

	prev, next := paging.BuildCursors(rows,
		func(c models.Community) string { return c.NameCI },
		func(c models.Community) primitive.ObjectID { return c.ID },
	)
	return ListPage{
		Communities: rows,
		PrevCursor:  prev,
		NextCursor:  next,
		HasPrev:     res.HasPrev,
		HasNext:     res.HasNext,
	}, nil
}
