package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestManager(t *testing.T) *SessionManager {
	t.Helper()
	sm, err := NewSessionManager("0123456789abcdef0123456789abcdef", "agorahub-test", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	return sm
}

func TestNewSessionManager_RejectsWeakKey(t *testing.T) {
	if _, err := NewSessionManager("short", "agorahub-test", "", false, zap.NewNop()); err == nil {
		t.Fatal("expected error for short session key")
	}
	if _, err := NewSessionManager("0123456789abcdef0123456789abcdef", "", "", false, zap.NewNop()); err == nil {
		t.Fatal("expected error for empty session name")
	}
}

func TestSignInThenLoad(t *testing.T) {
	sm := newTestManager(t)
	uid := primitive.NewObjectID().Hex()

	// Sign in and capture the cookie.
	signinRec := httptest.NewRecorder()
	signinReq := httptest.NewRequest("POST", "/api/auth/login", nil)
	err := sm.SignIn(signinRec, signinReq, SessionUser{ID: uid, Name: "Ada", Email: "ada@example.com"})
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	cookies := signinRec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("SignIn set no cookie")
	}

	// Replay the cookie through LoadSessionUser.
	var got *SessionUser
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = CurrentUser(r)
	})
	req := httptest.NewRequest("GET", "/api/me", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	sm.LoadSessionUser(next).ServeHTTP(httptest.NewRecorder(), req)

	if got == nil {
		t.Fatal("no user loaded from session")
	}
	if got.ID != uid || got.Name != "Ada" || got.Email != "ada@example.com" {
		t.Errorf("loaded user = %+v", got)
	}
}

func TestRequireSignedIn(t *testing.T) {
	sm := newTestManager(t)
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

	// Without a user: 401, next not called.
	rec := httptest.NewRecorder()
	sm.RequireSignedIn(next).ServeHTTP(rec, httptest.NewRequest("GET", "/api/me", nil))
	if called {
		t.Error("next handler ran without a signed-in user")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}

	// With a user injected: passes through.
	rec = httptest.NewRecorder()
	req := WithTestUser(httptest.NewRequest("GET", "/api/me", nil), &SessionUser{ID: primitive.NewObjectID().Hex()})
	sm.RequireSignedIn(next).ServeHTTP(rec, req)
	if !called {
		t.Error("next handler did not run for signed-in user")
	}
}

func TestSignOutClearsSession(t *testing.T) {
	sm := newTestManager(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/auth/logout", nil)
	if err := sm.SignOut(rec, req); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("SignOut set no cookie")
	}
	if cookies[0].MaxAge != -1 {
		t.Errorf("cookie MaxAge = %d, want -1", cookies[0].MaxAge)
	}
}

func TestCurrentUserID(t *testing.T) {
	id := primitive.NewObjectID()
	req := WithTestUser(httptest.NewRequest("GET", "/", nil), &SessionUser{ID: id.Hex()})
	got, ok := CurrentUserID(req)
	if !ok || got != id {
		t.Errorf("CurrentUserID = %v, %v", got, ok)
	}

	req = WithTestUser(httptest.NewRequest("GET", "/", nil), &SessionUser{ID: "not-an-oid"})
	if _, ok := CurrentUserID(req); ok {
		t.Error("CurrentUserID accepted a malformed ID")
	}

	if _, ok := CurrentUserID(httptest.NewRequest("GET", "/", nil)); ok {
		t.Error("CurrentUserID found a user on a bare request")
	}
}

func TestRandomSessionKey(t *testing.T) {
	k1, err := RandomSessionKey()
	if err != nil {
		t.Fatalf("RandomSessionKey: %v", err)
	}
	if len(k1) != 64 {
		t.Errorf("key length = %d, want 64 hex chars", len(k1))
	}
	k2, _ := RandomSessionKey()
	if k1 == k2 {
		t.Error("two keys are identical")
	}
}
