// internal/app/store/replies/replystore.go
package replystore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/agorahub/internal/app/system/paging"
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
	discussions *mongo.Collection
	log         *zap.Logger
}

func New(db *mongo.Database, log *zap.Logger) *Store {
	return &Store{
		db:          db,
		c:           db.Collection("replies"),
		discussions: db.Collection("discussions"),
		log:         log,
	}
}

var (
	ErrNotFound       = errors.New("reply not found")
	ErrBadParent      = errors.New("parent reply does not belong to this discussion")
	ErrNotAuthor      = errors.New("only the author can delete a reply")
	ErrInvalidTag     = errors.New("invalid reply tag")
	ErrAlreadyDeleted = errors.New("reply is already deleted")
)

// CreateInput carries the fields for a new reply.
type CreateInput struct {
	DiscussionID primitive.ObjectID
	AuthorID     primitive.ObjectID
	Body         string
	ParentID     *primitive.ObjectID
	Tag          string
}

// Create inserts a reply and bumps the parent discussion's reply_count
// and last_activity_at in the same unit of work.
//
// When ParentID is set, the parent must be an existing reply of the
// same discussion. A deleted parent is still a valid parent: the thread
// under it stays writable.
func (s *Store) Create(ctx context.Context, in CreateInput) (models.Reply, error) {
	if in.Tag != "" && !models.ValidReplyTag(in.Tag) {
		return models.Reply{}, ErrInvalidTag
	}

	now := time.Now().UTC()
	r := models.Reply{
		ID:           primitive.NewObjectID(),
		DiscussionID: in.DiscussionID,
		AuthorID:     in.AuthorID,
		Body:         in.Body,
		ParentID:     in.ParentID,
		Tag:          in.Tag,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := txn.Run(ctx, s.db, s.log, func(ctx context.Context) error {
		if in.ParentID != nil {
			n, err := s.c.CountDocuments(ctx, bson.M{
				"_id":           *in.ParentID,
				"discussion_id": in.DiscussionID,
			})
			if err != nil {
				return err
			}
			if n == 0 {
				return ErrBadParent
			}
		}
		if _, err := s.c.InsertOne(ctx, r); err != nil {
			return err
		}
		_, err := s.discussions.UpdateByID(ctx, in.DiscussionID, bson.M{
			"$inc": bson.M{"reply_count": 1},
			"$set": bson.M{"last_activity_at": now, "updated_at": now},
		})
		return err
	})
	if err != nil {
		return models.Reply{}, err
	}
	return r, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Reply, error) {
	var r models.Reply
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Reply{}, ErrNotFound
		}
		return models.Reply{}, err
	}
	return r, nil
}

// SoftDelete blanks the body and marks the reply deleted, preserving
// its place in the thread. Only the author may delete; the counters on
// the discussion are left alone so reply_count stays a count of rows.
func (s *Store) SoftDelete(ctx context.Context, id, callerID primitive.ObjectID) error {
	r, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if r.AuthorID != callerID {
		return ErrNotAuthor
	}
	if r.IsDeleted {
		return ErrAlreadyDeleted
	}
	_, err = s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"body":       "",
		"is_deleted": true,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// SetTag updates the tag on a reply. Empty clears it.
func (s *Store) SetTag(ctx context.Context, id, callerID primitive.ObjectID, tag string) error {
	if tag != "" && !models.ValidReplyTag(tag) {
		return ErrInvalidTag
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "author_id": callerID},
		bson.M{"$set": bson.M{"tag": tag, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListParams pages a discussion's replies.
type ListParams struct {
	DiscussionID primitive.ObjectID
	Before       string
	After        string
	Limit        int
}

// ListPage is one page of replies plus cursors.
type ListPage struct {
	Replies    []models.Reply
	PrevCursor string
	NextCursor string
	HasPrev    bool
	HasNext    bool
}

// List returns replies in creation order. Nesting is flattened here;
// clients rebuild the tree from parent_id. Deleted replies are included
// with empty bodies so children keep their anchors.
func (s *Store) List(ctx context.Context, p ListParams) (ListPage, error) {
	if p.Limit <= 0 {
		p.Limit = paging.DefaultPageSize
	}
	cfg := paging.Configure(p.Before, p.After, 1, p.Limit)

	conds := []bson.M{{"discussion_id": p.DiscussionID}}
	if ks := cfg.TimeWindow("created_at"); ks != nil {
		conds = append(conds, ks)
	}
	filter := bson.M{"$and": conds}
	if len(conds) == 1 {
		filter = conds[0]
	}

	find := options.Find()
	cfg.ApplyToFind(find, "created_at")

	cur, err := s.c.Find(ctx, filter, find)
	if err != nil {
		return ListPage{}, err
	}
	defer cur.Close(ctx)

	var rows []models.Reply
	if err := cur.All(ctx, &rows); err != nil {
		return ListPage{}, err
	}

	if cfg.Direction == paging.Backward {
		paging.Reverse(rows)
	}
	res := paging.Trim(&rows, cfg)

	prev, next := paging.BuildCursors(rows,
		func(r models.Reply) string { return paging.TimeKey(r.CreatedAt) },
		func(r models.Reply) primitive.ObjectID { return r.ID },
	)
	return ListPage{
		Replies:    rows,
		PrevCursor: prev,
		NextCursor: next,
		HasPrev:    res.HasPrev,
		HasNext:    res.HasNext,
	}, nil
}
