package discussions_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/agorahub/internal/app/features/discussions"
	"github.com/dalemusser/agorahub/internal/domain/models"
	"github.com/dalemusser/agorahub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*discussions.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return discussions.NewHandler(db, zap.NewNop()), db
}

func withSlugs(req *http.Request, slug, dslug string) *http.Request {
	req = testutil.WithChiURLParam(req, "slug", slug)
	if dslug != "" {
		req = testutil.WithChiURLParam(req, "dslug", dslug)
	}
	return req
}

func TestHandleCreate(t *testing.T) {
	h, db := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	fixtures.CreateCommunity(ctx, "Forum", owner.ID)

	req := testutil.JSONRequest("POST", "/api/communities/forum/discussions",
		`{"title":"What's up?","body":"Opening post."}`)
	req = withSlugs(req, "forum", "")
	req = testutil.AsUser(req, owner)
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}
	var d models.Discussion
	if err := json.Unmarshal(rec.Body.Bytes(), &d); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if d.Slug != "whats-up" {
		t.Errorf("Slug: got %q, want %q", d.Slug, "whats-up")
	}
}

func TestHandleCreate_NonMemberForbidden(t *testing.T) {
	h, db := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	stranger := fixtures.CreateUser(ctx, "Stranger", "stranger@example.com")
	fixtures.CreateCommunity(ctx, "Forum", owner.ID)

	req := testutil.JSONRequest("POST", "/api/communities/forum/discussions",
		`{"title":"Drive-by Post","body":"..."}`)
	req = withSlugs(req, "forum", "")
	req = testutil.AsUser(req, stranger)
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want 403", rec.Code)
	}
}

func TestServeGet_WithVote(t *testing.T) {
	h, db := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	c := fixtures.CreateCommunity(ctx, "Forum", owner.ID)
	d := fixtures.CreateDiscussion(ctx, c.ID, owner.ID, "Voted Thread")

	// Cast a vote through the handler, then fetch.
	req := testutil.JSONRequest("POST", "/api/communities/forum/discussions/voted-thread/vote",
		`{"vote":"up"}`)
	req = withSlugs(req, "forum", "voted-thread")
	req = testutil.AsUser(req, owner)
	rec := httptest.NewRecorder()
	h.HandleVote(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("vote: got %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest("GET", "/api/communities/forum/discussions/voted-thread", nil)
	req = withSlugs(req, "forum", "voted-thread")
	req = testutil.AsUser(req, owner)
	rec = httptest.NewRecorder()
	h.ServeGet(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: got %d, want 200", rec.Code)
	}

	var resp struct {
		ID          string `json:"id"`
		UpVoteCount int64  `json:"up_vote_count"`
		MyVote      string `json:"my_vote"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID != d.ID.Hex() {
		t.Errorf("wrong discussion: %s", resp.ID)
	}
	if resp.UpVoteCount != 1 {
		t.Errorf("UpVoteCount: got %d, want 1", resp.UpVoteCount)
	}
	if resp.MyVote != models.VoteUp {
		t.Errorf("MyVote: got %q, want %q", resp.MyVote, models.VoteUp)
	}
}

func TestHandleVote_Flip(t *testing.T) {
	h, db := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	c := fixtures.CreateCommunity(ctx, "Forum", owner.ID)
	fixtures.CreateDiscussion(ctx, c.ID, owner.ID, "Contested")

	vote := func(direction string) *httptest.ResponseRecorder {
		req := testutil.JSONRequest("POST", "/api/communities/forum/discussions/contested/vote",
			`{"vote":"`+direction+`"}`)
		req = withSlugs(req, "forum", "contested")
		req = testutil.AsUser(req, owner)
		rec := httptest.NewRecorder()
		h.HandleVote(rec, req)
		return rec
	}

	if rec := vote("up"); rec.Code != http.StatusOK {
		t.Fatalf("up vote: got %d (body %s)", rec.Code, rec.Body.String())
	}
	rec := vote("down")
	if rec.Code != http.StatusOK {
		t.Fatalf("down vote: got %d", rec.Code)
	}

	var d models.Discussion
	if err := json.Unmarshal(rec.Body.Bytes(), &d); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if d.UpVoteCount != 0 || d.DownVoteCount != 1 {
		t.Errorf("counters after flip: up=%d down=%d, want up=0 down=1",
			d.UpVoteCount, d.DownVoteCount)
	}

	if rec := vote("sideways"); rec.Code != http.StatusBadRequest {
		t.Errorf("bad direction: got %d, want 400", rec.Code)
	}
}

func TestHandleLockToggle(t *testing.T) {
	h, db := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	author := fixtures.CreateUser(ctx, "Author", "author@example.com")
	stranger := fixtures.CreateUser(ctx, "Stranger", "stranger@example.com")
	c := fixtures.CreateCommunity(ctx, "Forum", owner.ID)
	fixtures.CreateMembership(ctx, c.ID, author.ID, models.RoleMember, models.StatusActive)
	fixtures.CreateDiscussion(ctx, c.ID, author.ID, "Hot Take")

	lock := func(u models.User) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/api/communities/forum/discussions/hot-take/lock", nil)
		req = withSlugs(req, "forum", "hot-take")
		req = testutil.AsUser(req, u)
		rec := httptest.NewRecorder()
		h.HandleLockToggle(rec, req)
		return rec
	}

	if rec := lock(stranger); rec.Code != http.StatusForbidden {
		t.Errorf("stranger lock: got %d, want 403", rec.Code)
	}

	rec := lock(author)
	if rec.Code != http.StatusOK {
		t.Fatalf("author lock: got %d (body %s)", rec.Code, rec.Body.String())
	}
	var d models.Discussion
	if err := json.Unmarshal(rec.Body.Bytes(), &d); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !d.IsLocked {
		t.Error("expected discussion locked after toggle")
	}

	// A locked discussion rejects votes.
	req := testutil.JSONRequest("POST", "/api/communities/forum/discussions/hot-take/vote",
		`{"vote":"up"}`)
	req = withSlugs(req, "forum", "hot-take")
	req = testutil.AsUser(req, owner)
	rec = httptest.NewRecorder()
	h.HandleVote(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("vote on locked: got %d, want 403", rec.Code)
	}

	// The community owner can unlock.
	if rec := lock(owner); rec.Code != http.StatusOK {
		t.Errorf("owner unlock: got %d, want 200", rec.Code)
	}
}

func TestHandleDelete_AuthorOnly(t *testing.T) {
	h, db := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	author := fixtures.CreateUser(ctx, "Author", "author@example.com")
	c := fixtures.CreateCommunity(ctx, "Forum", owner.ID)
	fixtures.CreateMembership(ctx, c.ID, author.ID, models.RoleMember, models.StatusActive)
	fixtures.CreateDiscussion(ctx, c.ID, author.ID, "Mine To Remove")

	del := func(u models.User) *httptest.ResponseRecorder {
		req := httptest.NewRequest("DELETE", "/api/communities/forum/discussions/mine-to-remove", nil)
		req = withSlugs(req, "forum", "mine-to-remove")
		req = testutil.AsUser(req, u)
		rec := httptest.NewRecorder()
		h.HandleDelete(rec, req)
		return rec
	}

	// Even the community owner cannot delete someone else's discussion.
	if rec := del(owner); rec.Code != http.StatusForbidden {
		t.Errorf("owner delete: got %d, want 403", rec.Code)
	}
	if rec := del(author); rec.Code != http.StatusOK {
		t.Errorf("author delete: got %d, want 200", rec.Code)
	}
	if rec := del(author); rec.Code != http.StatusNotFound {
		t.Errorf("delete after delete: got %d, want 404", rec.Code)
	}
}

func TestServeList(t *testing.T) {
	h, db := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	c := fixtures.CreateCommunity(ctx, "Forum", owner.ID)
	fixtures.CreateDiscussion(ctx, c.ID, owner.ID, "First Thread")
	fixtures.CreateDiscussion(ctx, c.ID, owner.ID, "Second Thread")

	req := httptest.NewRequest("GET", "/api/communities/forum/discussions", nil)
	req = withSlugs(req, "forum", "")
	rec := httptest.NewRecorder()
	h.ServeList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	var resp struct {
		Discussions []models.Discussion `json:"discussions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Discussions) != 2 {
		t.Errorf("discussions: got %d, want 2", len(resp.Discussions))
	}
}

func TestHandleEdit(t *testing.T) {
	h, db := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	author := fixtures.CreateUser(ctx, "Author", "author@example.com")
	c := fixtures.CreateCommunity(ctx, "Forum", owner.ID)
	fixtures.CreateMembership(ctx, c.ID, author.ID, models.RoleMember, models.StatusActive)
	fixtures.CreateDiscussion(ctx, c.ID, author.ID, "Work In Progress")

	edit := func(u models.User, body string) *httptest.ResponseRecorder {
		req := testutil.JSONRequest("PATCH", "/api/communities/forum/discussions/work-in-progress",
			`{"body":"`+body+`"}`)
		req = withSlugs(req, "forum", "work-in-progress")
		req = testutil.AsUser(req, u)
		rec := httptest.NewRecorder()
		h.HandleEdit(rec, req)
		return rec
	}

	// The community owner is not the author here.
	if rec := edit(owner, "hijacked"); rec.Code != http.StatusForbidden {
		t.Errorf("non-author edit: got %d, want 403", rec.Code)
	}

	rec := edit(author, "Revised text.")
	if rec.Code != http.StatusOK {
		t.Fatalf("author edit: got %d (body %s)", rec.Code, rec.Body.String())
	}
	var d models.Discussion
	if err := json.Unmarshal(rec.Body.Bytes(), &d); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if d.Body != "Revised text." {
		t.Errorf("Body: got %q, want %q", d.Body, "Revised text.")
	}
	if d.Slug != "work-in-progress" {
		t.Errorf("slug changed on edit: %q", d.Slug)
	}
}
