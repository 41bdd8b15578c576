package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/agorahub/internal/app/system/slug"
	"github.com/dalemusser/agorahub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given display name and email.
func (f *Fixtures) CreateUser(ctx context.Context, displayName, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:            primitive.NewObjectID(),
		Email:         email,
		EmailCI:       text.Fold(email),
		DisplayName:   displayName,
		DisplayNameCI: text.Fold(displayName),
		PasswordHash:  "$2a$10$fixture.not.a.real.hash.000000000000000000000000000000",
		Status:        "active",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateCommunity creates a test community owned by ownerID, with the
// owner's active membership and member_count=1, mirroring the create
// path's end state.
func (f *Fixtures) CreateCommunity(ctx context.Context, name string, ownerID primitive.ObjectID) models.Community {
	f.t.Helper()

	now := time.Now().UTC()
	c := models.Community{
		ID:          primitive.NewObjectID(),
		Name:        name,
		NameCI:      text.Fold(name),
		Slug:        slug.Make(name),
		OwnerID:     ownerID,
		Description: "Test community description",
		MemberCount: 1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("communities").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test community: %v", err)
	}

	m := models.Membership{
		ID:          primitive.NewObjectID(),
		CommunityID: c.ID,
		UserID:      ownerID,
		Role:        models.RoleOwner,
		Status:      models.StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("memberships").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create owner membership: %v", err)
	}
	return c
}

// CreateMembership creates a membership record directly.
func (f *Fixtures) CreateMembership(ctx context.Context, communityID, userID primitive.ObjectID, role, status string) models.Membership {
	f.t.Helper()

	now := time.Now().UTC()
	m := models.Membership{
		ID:          primitive.NewObjectID(),
		CommunityID: communityID,
		UserID:      userID,
		Role:        role,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("memberships").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test membership: %v", err)
	}
	return m
}

// CreateDiscussion creates a test discussion in the given community.
func (f *Fixtures) CreateDiscussion(ctx context.Context, communityID, authorID primitive.ObjectID, title string) models.Discussion {
	f.t.Helper()

	now := time.Now().UTC()
	d := models.Discussion{
		ID:             primitive.NewObjectID(),
		CommunityID:    communityID,
		AuthorID:       authorID,
		Title:          title,
		TitleCI:        text.Fold(title),
		Slug:           slug.Make(title),
		Body:           "Test discussion body",
		LastActivityAt: now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := f.db.Collection("discussions").InsertOne(ctx, d); err != nil {
		f.t.Fatalf("failed to create test discussion: %v", err)
	}
	return d
}

// CreateReply creates a test reply on the given discussion.
func (f *Fixtures) CreateReply(ctx context.Context, discussionID, authorID primitive.ObjectID, body string) models.Reply {
	f.t.Helper()

	now := time.Now().UTC()
	r := models.Reply{
		ID:           primitive.NewObjectID(),
		DiscussionID: discussionID,
		AuthorID:     authorID,
		Body:         body,
		Tag:          models.TagAnswer,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("replies").InsertOne(ctx, r); err != nil {
		f.t.Fatalf("failed to create test reply: %v", err)
	}
	return r
}

// CreateTopic creates a test topic.
func (f *Fixtures) CreateTopic(ctx context.Context, name string) models.Topic {
	f.t.Helper()

	tp := models.Topic{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Slug:      slug.Make(name),
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("topics").InsertOne(ctx, tp); err != nil {
		f.t.Fatalf("failed to create test topic: %v", err)
	}
	return tp
}
