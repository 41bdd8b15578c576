// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/agorahub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

var (
	ErrDuplicateEmail = errors.New("an account with this email already exists")
	ErrNotFound       = errors.New("user not found")
	ErrBadCredentials = errors.New("email or password is incorrect")
)

// CreateInput carries the fields for a new account.
type CreateInput struct {
	Email       string
	DisplayName string
	Password    string
}

// Create registers a new user. Email uniqueness is enforced by the
// case-folded unique index; duplicates surface as ErrDuplicateEmail.
func (s *Store) Create(ctx context.Context, in CreateInput) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	now := time.Now().UTC()
	u := models.User{
		ID:            primitive.NewObjectID(),
		Email:         strings.TrimSpace(in.Email),
		EmailCI:       text.Fold(strings.TrimSpace(in.Email)),
		DisplayName:   strings.TrimSpace(in.DisplayName),
		DisplayNameCI: text.Fold(strings.TrimSpace(in.DisplayName)),
		PasswordHash:  string(hash),
		Status:        "active",
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return u, nil
}

// GetByEmail looks up a user by case-folded email.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	filter := bson.M{"email_ci": text.Fold(strings.TrimSpace(email))}
	if err := s.c.FindOne(ctx, filter).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return u, nil
}

// Authenticate verifies email+password and returns the user. Both a
// missing account and a wrong password come back as ErrBadCredentials
// so callers cannot probe which emails exist.
func (s *Store) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	u, err := s.GetByEmail(ctx, email)
	if err != nil {
		if err == ErrNotFound {
			return models.User{}, ErrBadCredentials
		}
		return models.User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrBadCredentials
	}
	return u, nil
}

// UpdateProfile sets display name and/or bio. Empty displayName keeps
// the current one; bio can be cleared.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, displayName, bio string) error {
	set := bson.M{
		"bio":        bio,
		"updated_at": time.Now().UTC(),
	}
	if strings.TrimSpace(displayName) != "" {
		set["display_name"] = strings.TrimSpace(displayName)
		set["display_name_ci"] = text.Fold(strings.TrimSpace(displayName))
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetAvatarURL records the public URL of a freshly uploaded avatar.
func (s *Store) SetAvatarURL(ctx context.Context, id primitive.ObjectID, url string) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"avatar_url": url,
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
