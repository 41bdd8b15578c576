package discussionstore_test

import (
	"testing"
	"time"

	discussionstore "github.com/dalemusser/agorahub/internal/app/store/discussions"
	"github.com/dalemusser/agorahub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := discussionstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	c := fixtures.CreateCommunity(ctx, "Talk", owner.ID)

	created, err := store.Create(ctx, discussionstore.CreateInput{
		CommunityID: c.ID,
		AuthorID:    owner.ID,
		Title:       "What's up?",
		Body:        "First post.",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.Slug != "whats-up" {
		t.Errorf("Slug: got %q, want %q", created.Slug, "whats-up")
	}
	if created.LastActivityAt.IsZero() {
		t.Error("expected LastActivityAt to be set")
	}
	if created.ReplyCount != 0 {
		t.Errorf("ReplyCount: got %d, want 0", created.ReplyCount)
	}
}

func TestStore_Create_SlugScopedToCommunity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := discussionstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	c1 := fixtures.CreateCommunity(ctx, "First Community", owner.ID)
	c2 := fixtures.CreateCommunity(ctx, "Second Community", owner.ID)

	_, err := store.Create(ctx, discussionstore.CreateInput{
		CommunityID: c1.ID, AuthorID: owner.ID, Title: "Shared Title",
	})
	if err != nil {
		t.Fatalf("Create in c1 failed: %v", err)
	}

	// Same slug in another community is fine.
	_, err = store.Create(ctx, discussionstore.CreateInput{
		CommunityID: c2.ID, AuthorID: owner.ID, Title: "Shared Title",
	})
	if err != nil {
		t.Fatalf("Create in c2 failed: %v", err)
	}

	// Same slug in the same community is not.
	_, err = store.Create(ctx, discussionstore.CreateInput{
		CommunityID: c1.ID, AuthorID: owner.ID, Title: "SHARED TITLE!",
	})
	if err != discussionstore.ErrSlugTaken {
		t.Errorf("expected ErrSlugTaken, got %v", err)
	}
}

func TestStore_SetLocked(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := discussionstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	c := fixtures.CreateCommunity(ctx, "Lockable", owner.ID)
	d := fixtures.CreateDiscussion(ctx, c.ID, owner.ID, "Lock Me")

	if err := store.SetLocked(ctx, d.ID, true); err != nil {
		t.Fatalf("SetLocked failed: %v", err)
	}
	got, err := store.GetByID(ctx, d.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if !got.IsLocked {
		t.Error("expected discussion to be locked")
	}

	if err := store.SetLocked(ctx, primitive.NewObjectID(), true); err != discussionstore.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := discussionstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	c := fixtures.CreateCommunity(ctx, "Deletable", owner.ID)
	d := fixtures.CreateDiscussion(ctx, c.ID, owner.ID, "Going Away")

	if err := store.Delete(ctx, d.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.GetByID(ctx, d.ID); err != discussionstore.ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, d.ID); err != discussionstore.ErrNotFound {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestStore_List_ActivityOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := discussionstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	c := fixtures.CreateCommunity(ctx, "Busy", owner.ID)

	oldD := fixtures.CreateDiscussion(ctx, c.ID, owner.ID, "Old News")
	newD := fixtures.CreateDiscussion(ctx, c.ID, owner.ID, "Fresh News")

	// Push the older discussion's activity into the future; it should
	// then sort first despite being created earlier.
	_, err := db.Collection("discussions").UpdateByID(ctx, oldD.ID, bson.M{
		"$set": bson.M{"last_activity_at": time.Now().UTC().Add(time.Hour)},
	})
	if err != nil {
		t.Fatalf("bump activity: %v", err)
	}

	page, err := store.List(ctx, discussionstore.ListParams{CommunityID: c.ID})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(page.Discussions) != 2 {
		t.Fatalf("expected 2 discussions, got %d", len(page.Discussions))
	}
	if page.Discussions[0].ID != oldD.ID {
		t.Errorf("expected most recently active first, got %q", page.Discussions[0].Title)
	}
	if page.Discussions[1].ID != newD.ID {
		t.Errorf("expected %q second, got %q", "Fresh News", page.Discussions[1].Title)
	}
}

func TestStore_List_Paging(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := discussionstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	c := fixtures.CreateCommunity(ctx, "Paged", owner.ID)

	titles := []string{"One", "Two", "Three", "Four", "Five"}
	for _, title := range titles {
		fixtures.CreateDiscussion(ctx, c.ID, owner.ID, title)
	}

	seen := map[string]bool{}
	page, err := store.List(ctx, discussionstore.ListParams{CommunityID: c.ID, Limit: 2})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	for {
		for _, d := range page.Discussions {
			if seen[d.Title] {
				t.Fatalf("discussion %q appeared on two pages", d.Title)
			}
			seen[d.Title] = true
		}
		if !page.HasNext {
			break
		}
		page, err = store.List(ctx, discussionstore.ListParams{
			CommunityID: c.ID, Limit: 2, After: page.NextCursor,
		})
		if err != nil {
			t.Fatalf("List next page failed: %v", err)
		}
	}
	if len(seen) != len(titles) {
		t.Errorf("paged through %d discussions, want %d", len(seen), len(titles))
	}
}
