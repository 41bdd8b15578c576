// internal/app/features/authapi/login.go
package authapi

import (
	"context"
	"net/http"

	userstore "github.com/dalemusser/agorahub/internal/app/store/users"
	"github.com/dalemusser/agorahub/internal/app/system/apperr"
	"github.com/dalemusser/agorahub/internal/app/system/auth"
	"github.com/dalemusser/agorahub/internal/app/system/httpjson"
	"github.com/dalemusser/agorahub/internal/app/system/timeouts"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin verifies credentials and sets the session cookie.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.InvalidArgument, "email and password are required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if err == userstore.ErrBadCredentials {
			httpjson.WriteError(w, h.Log, apperr.New(apperr.Unauthenticated, "invalid email or password"))
			return
		}
		httpjson.WriteError(w, h.Log, apperr.Wrap(apperr.Internal, "could not sign in", err))
		return
	}

	if err := h.Sessions.SignIn(w, r, auth.SessionUser{
		ID:    u.ID.Hex(),
		Name:  u.DisplayName,
		Email: u.Email,
	}); err != nil {
		httpjson.WriteError(w, h.Log, apperr.Wrap(apperr.Internal, "could not start session", err))
		return
	}

	httpjson.Write(w, http.StatusOK, u)
}

// HandleLogout clears the session.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.SignOut(w, r); err != nil {
		httpjson.WriteError(w, h.Log, apperr.Wrap(apperr.Internal, "could not end session", err))
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]bool{"success": true})
}
