// internal/app/store/topics/topicstore.go
package topicstore

import (
	"context"
	"errors"
	"strings"
	"time"

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
	return &Store{c: db.Collection("topics")}
}

var (
	ErrDuplicateName = errors.New("a topic with this name already exists")
	ErrInvalidName   = errors.New("name does not produce a usable slug")
	ErrNotFound      = errors.New("topic not found")
)

// Create inserts a topic. Names are unique case-insensitively.
func (s *Store) Create(ctx context.Context, name string) (models.Topic, error) {
	name = strings.TrimSpace(name)
	sl := slug.Make(name)
	if sl == "" {
		return models.Topic{}, ErrInvalidName
	}
	t := models.Topic{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Slug:      sl,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Topic{}, ErrDuplicateName
		}
		return models.Topic{}, err
	}
	return t, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Topic, error) {
	var t models.Topic
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Topic{}, ErrNotFound
		}
		return models.Topic{}, err
	}
	return t, nil
}

// List returns all topics sorted by folded name. The topic set is
// small and curated, so this is unpaged.
func (s *Store) List(ctx context.Context) ([]models.Topic, error) {
	cur, err := s.c.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Topic
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Exist verifies every id refers to a topic, for validating community
// topic assignments.
func (s *Store) Exist(ctx context.Context, ids []primitive.ObjectID) (bool, error) {
	if len(ids) == 0 {
		return true, nil
	}
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return false, err
	}
	return n == int64(len(ids)), nil
}
