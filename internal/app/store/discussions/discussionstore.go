// internal/app/store/discussions/discussionstore.go
package discussionstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/agorahub/internal/app/system/paging"
	"github.com/dalemusser/agorahub/internal/app/system/slug"
	"github.com/dalemusser/agorahub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("discussions")}
}

var (
	ErrSlugTaken    = errors.New("a discussion with this slug already exists in the community")
	ErrInvalidTitle = errors.New("title does not produce a usable slug")
	ErrNotFound     = errors.New("discussion not found")
)

// CreateInput carries the fields for a new discussion.
type CreateInput struct {
	CommunityID primitive.ObjectID
	AuthorID    primitive.ObjectID
	Title       string
	Slug        string // optional; derived from Title when empty
	Body        string
}

// Create inserts a discussion with a slug derived from the title,
// unique within the community. LastActivityAt starts at creation time
// so a fresh discussion sorts ahead of stale ones.
func (s *Store) Create(ctx context.Context, in CreateInput) (models.Discussion, error) {
	title := strings.TrimSpace(in.Title)
	sl := in.Slug
	if sl == "" {
		sl = slug.Make(title)
	} else if !slug.Valid(sl) {
		return models.Discussion{}, ErrInvalidTitle
	}
	if sl == "" {
		return models.Discussion{}, ErrInvalidTitle
	}

	now := time.Now().UTC()
	d := models.Discussion{
		ID:             primitive.NewObjectID(),
		CommunityID:    in.CommunityID,
		AuthorID:       in.AuthorID,
		Title:          title,
		TitleCI:        text.Fold(title),
		Slug:           sl,
		Body:           in.Body,
		LastActivityAt: now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := s.c.InsertOne(ctx, d); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Discussion{}, ErrSlugTaken
		}
		return models.Discussion{}, err
	}
	return d, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Discussion, error) {
	var d models.Discussion
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Discussion{}, ErrNotFound
		}
		return models.Discussion{}, err
	}
	return d, nil
}

func (s *Store) GetBySlug(ctx context.Context, communityID primitive.ObjectID, sl string) (models.Discussion, error) {
	var d models.Discussion
	err := s.c.FindOne(ctx, bson.M{"community_id": communityID, "slug": sl}).Decode(&d)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Discussion{}, ErrNotFound
		}
		return models.Discussion{}, err
	}
	return d, nil
}

// UpdateBody replaces the body. Title and slug are immutable.
func (s *Store) UpdateBody(ctx context.Context, id primitive.ObjectID, body string) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"body":       body,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetLocked flips the lock flag. A locked discussion rejects new
// replies and votes at the handler layer.
func (s *Store) SetLocked(ctx context.Context, id primitive.ObjectID, locked bool) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"is_locked":  locked,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the discussion document. Replies and votes keep their
// rows; they become unreachable once the parent is gone.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListParams filters and pages a community's discussion list.
type ListParams struct {
	CommunityID primitive.ObjectID
	Search      string // folded title prefix
	Before      string
	After       string
	Limit       int
}

// ListPage is one page of discussions plus cursors.
type ListPage struct {
	Discussions []models.Discussion
	PrevCursor  string
	NextCursor  string
	HasPrev     bool
	HasNext     bool
}

// List returns a community's discussions newest activity first, paged
// by a (last_activity_at, _id) keyset cursor. The activity timestamp is
// encoded in the cursor as RFC 3339 with nanoseconds so the window
// filter compares the same precision Mongo stored.
func (s *Store) List(ctx context.Context, p ListParams) (ListPage, error) {
	if p.Limit <= 0 {
		p.Limit = paging.DefaultPageSize
	}
	cfg := paging.Configure(p.Before, p.After, -1, p.Limit)

	conds := []bson.M{{"community_id": p.CommunityID}}
	if q := text.Fold(strings.TrimSpace(p.Search)); q != "" {
		conds = append(conds, bson.M{"title_ci": bson.M{"$gte": q, "$lt": q + "￿"}})
	}
	if ks := cfg.TimeWindow("last_activity_at"); ks != nil {
		conds = append(conds, ks)
	}
	filter := bson.M{"$and": conds}
	if len(conds) == 1 {
		filter = conds[0]
	}

	find := options.Find()
	cfg.ApplyToFind(find, "last_activity_at")

	cur, err := s.c.Find(ctx, filter, find)
	if err != nil {
		return ListPage{}, err
	}
	defer cur.Close(ctx)

	var rows []models.Discussion
	if err := cur.All(ctx, &rows); err != nil {
		return ListPage{}, err
	}

	if cfg.Direction == paging.Backward {
		paging.Reverse(rows)
	}
	res := paging.Trim(&rows, cfg)

	prev, next := paging.BuildCursors(rows,
		func(d models.Discussion) string { return paging.TimeKey(d.LastActivityAt) },
		func(d models.Discussion) primitive.ObjectID { return d.ID },
	)
	return ListPage{
		Discussions: rows,
		PrevCursor:  prev,
		NextCursor:  next,
		HasPrev:     res.HasPrev,
		HasNext:     res.HasNext,
	}, nil
}

// Search finds discussions across all communities whose folded title
// starts with the folded query.
func (s *Store) Search(ctx context.Context, q string, limit int) ([]models.Discussion, error) {
	folded := text.Fold(strings.TrimSpace(q))
	if folded == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = paging.DefaultPageSize
	}
	cur, err := s.c.Find(ctx,
		bson.M{"title_ci": bson.M{"$gte": folded, "$lt": folded + "￿"}},
		options.Find().
			SetSort(bson.D{{Key: "title_ci", Value: 1}, {Key: "_id", Value: 1}}).
			SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Discussion
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
