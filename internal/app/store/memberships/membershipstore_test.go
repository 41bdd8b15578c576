package membershipstore_test

import (
	"testing"

	membershipstore "github.com/dalemusser/agorahub/internal/app/store/memberships"
	"github.com/dalemusser/agorahub/internal/domain/models"
	"github.com/dalemusser/agorahub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func memberCount(t *testing.T, fixtures *testutil.Fixtures, c models.Community) int64 {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	var got models.Community
	if err := fixtures.DB().Collection("communities").FindOne(ctx, bson.M{"_id": c.ID}).Decode(&got); err != nil {
		t.Fatalf("reload community: %v", err)
	}
	return got.MemberCount
}

func TestStore_SetStatus_Join(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	joiner := fixtures.CreateUser(ctx, "Joiner", "joiner@example.com")
	c := fixtures.CreateCommunity(ctx, "Joinable", owner.ID)

	m, err := store.SetStatus(ctx, c.ID, joiner.ID, models.StatusActive)
	if err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	if m.Role != models.RoleMember {
		t.Errorf("new membership role: got %q, want %q", m.Role, models.RoleMember)
	}
	if m.Status != models.StatusActive {
		t.Errorf("status: got %q, want %q", m.Status, models.StatusActive)
	}

	// Owner plus joiner.
	if n := memberCount(t, fixtures, c); n != 2 {
		t.Errorf("member_count after join: got %d, want 2", n)
	}
}

func TestStore_SetStatus_RepeatJoinIsIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	joiner := fixtures.CreateUser(ctx, "Joiner", "joiner@example.com")
	c := fixtures.CreateCommunity(ctx, "Echo Chamber", owner.ID)

	first, err := store.SetStatus(ctx, c.ID, joiner.ID, models.StatusActive)
	if err != nil {
		t.Fatalf("join failed: %v", err)
	}
	second, err := store.SetStatus(ctx, c.ID, joiner.ID, models.StatusActive)
	if err != nil {
		t.Fatalf("repeat join failed: %v", err)
	}
	if second.ID != first.ID {
		t.Error("repeat join created a second membership record")
	}

	n, err := db.Collection("memberships").CountDocuments(ctx,
		bson.M{"community_id": c.ID, "user_id": joiner.ID})
	if err != nil {
		t.Fatalf("count memberships: %v", err)
	}
	if n != 1 {
		t.Errorf("membership records: got %d, want 1", n)
	}
	if got := memberCount(t, fixtures, c); got != 2 {
		t.Errorf("member_count after repeat join: got %d, want 2", got)
	}
}

func TestStore_SetStatus_LeaveAndRejoin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	joiner := fixtures.CreateUser(ctx, "Joiner", "joiner@example.com")
	c := fixtures.CreateCommunity(ctx, "Revolving Door", owner.ID)

	if _, err := store.SetStatus(ctx, c.ID, joiner.ID, models.StatusActive); err != nil {
		t.Fatalf("join failed: %v", err)
	}

	left, err := store.SetStatus(ctx, c.ID, joiner.ID, models.StatusLeft)
	if err != nil {
		t.Fatalf("leave failed: %v", err)
	}
	if left.Status != models.StatusLeft {
		t.Errorf("status after leave: got %q, want %q", left.Status, models.StatusLeft)
	}
	if n := memberCount(t, fixtures, c); n != 1 {
		t.Errorf("member_count after leave: got %d, want 1", n)
	}

	// Leaving must not delete the record; rejoining reuses it.
	rejoined, err := store.SetStatus(ctx, c.ID, joiner.ID, models.StatusActive)
	if err != nil {
		t.Fatalf("rejoin failed: %v", err)
	}
	if rejoined.ID != left.ID {
		t.Error("rejoin created a second membership record")
	}
	if n := memberCount(t, fixtures, c); n != 2 {
		t.Errorf("member_count after rejoin: got %d, want 2", n)
	}
}

func TestStore_SetStatus_RoleSurvivesStatusChange(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	c := fixtures.CreateCommunity(ctx, "Owned", owner.ID)

	// The owner steps out and back in; the owner role must survive
	// because SetStatus only ever writes status on existing records.
	if _, err := store.SetStatus(ctx, c.ID, owner.ID, models.StatusLeft); err != nil {
		t.Fatalf("leave failed: %v", err)
	}
	m, err := store.SetStatus(ctx, c.ID, owner.ID, models.StatusActive)
	if err != nil {
		t.Fatalf("rejoin failed: %v", err)
	}
	if m.Role != models.RoleOwner {
		t.Errorf("role after rejoin: got %q, want %q", m.Role, models.RoleOwner)
	}
}

func TestStore_SetStatus_InvalidStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	c := fixtures.CreateCommunity(ctx, "Strict", owner.ID)

	if _, err := store.SetStatus(ctx, c.ID, owner.ID, "banned"); err != membershipstore.ErrInvalidStatus {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestStore_IsActiveMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	stranger := fixtures.CreateUser(ctx, "Stranger", "stranger@example.com")
	c := fixtures.CreateCommunity(ctx, "Members Only", owner.ID)

	ok, err := store.IsActiveMember(ctx, c.ID, owner.ID)
	if err != nil {
		t.Fatalf("IsActiveMember failed: %v", err)
	}
	if !ok {
		t.Error("owner should be an active member")
	}

	ok, err = store.IsActiveMember(ctx, c.ID, stranger.ID)
	if err != nil {
		t.Fatalf("IsActiveMember failed: %v", err)
	}
	if ok {
		t.Error("stranger should not be an active member")
	}
}

func TestStore_ListActive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	active := fixtures.CreateUser(ctx, "Active", "active@example.com")
	gone := fixtures.CreateUser(ctx, "Gone", "gone@example.com")
	c := fixtures.CreateCommunity(ctx, "Roster", owner.ID)

	fixtures.CreateMembership(ctx, c.ID, active.ID, models.RoleMember, models.StatusActive)
	fixtures.CreateMembership(ctx, c.ID, gone.ID, models.RoleMember, models.StatusLeft)

	members, err := store.ListActive(ctx, c.ID, 0)
	if err != nil {
		t.Fatalf("ListActive failed: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 active members, got %d", len(members))
	}
	for _, m := range members {
		if m.User.DisplayName == "" {
			t.Error("expected joined user fields to be populated")
		}
		if m.Membership.UserID == gone.ID {
			t.Error("left member included in active roster")
		}
	}
}

func TestStore_SetRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	member := fixtures.CreateUser(ctx, "Member", "member@example.com")
	outsider := fixtures.CreateUser(ctx, "Outsider", "outsider@example.com")
	c := fixtures.CreateCommunity(ctx, "Promotable", owner.ID)
	fixtures.CreateMembership(ctx, c.ID, member.ID, models.RoleMember, models.StatusActive)

	if err := store.SetRole(ctx, c.ID, member.ID, models.RoleAdmin); err != nil {
		t.Fatalf("SetRole failed: %v", err)
	}
	m, err := store.Get(ctx, c.ID, member.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if m.Role != models.RoleAdmin {
		t.Errorf("Role: got %q, want %q", m.Role, models.RoleAdmin)
	}

	// Promotion only changes existing memberships.
	if err := store.SetRole(ctx, c.ID, outsider.ID, models.RoleAdmin); err != membershipstore.ErrNotFound {
		t.Errorf("SetRole on missing membership: got %v, want ErrNotFound", err)
	}
}

func TestStore_ListForUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	user := fixtures.CreateUser(ctx, "Wanderer", "wanderer@example.com")
	c1 := fixtures.CreateCommunity(ctx, "First Stop", owner.ID)
	c2 := fixtures.CreateCommunity(ctx, "Second Stop", owner.ID)
	c3 := fixtures.CreateCommunity(ctx, "Departed", owner.ID)

	fixtures.CreateMembership(ctx, c1.ID, user.ID, models.RoleMember, models.StatusActive)
	fixtures.CreateMembership(ctx, c2.ID, user.ID, models.RoleAdmin, models.StatusActive)
	fixtures.CreateMembership(ctx, c3.ID, user.ID, models.RoleMember, models.StatusLeft)

	out, err := store.ListForUser(ctx, user.ID, models.StatusActive)
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 active memberships, got %d", len(out))
	}
	for _, m := range out {
		if m.CommunityID == c3.ID {
			t.Error("left community included in active list")
		}
	}
}
