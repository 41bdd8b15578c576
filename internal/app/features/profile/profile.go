// internal/app/features/profile/profile.go
package profile

import (
	"context"
	"net/http"
	"strings"

	userstore "github.com/dalemusser/agorahub/internal/app/store/users"
	"github.com/dalemusser/agorahub/internal/app/system/apperr"
	"github.com/dalemusser/agorahub/internal/app/system/auth"
	"github.com/dalemusser/agorahub/internal/app/system/httpjson"
	"github.com/dalemusser/agorahub/internal/app/system/timeouts"
)

const maxDisplayNameLen = 80
const maxBioLen = 1000

// ServeMe returns the signed-in user's full profile.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.CurrentUserID(r)
	if !ok {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.Unauthenticated, "sign in required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if err == userstore.ErrNotFound {
			// Session names an account that no longer exists.
			httpjson.WriteError(w, h.Log, apperr.New(apperr.Unauthenticated, "sign in required"))
			return
		}
		httpjson.WriteError(w, h.Log, apperr.Wrap(apperr.Internal, "could not load profile", err))
		return
	}
	httpjson.Write(w, http.StatusOK, u)
}

type updateRequest struct {
	DisplayName string `json:"display_name"`
	Bio         string `json:"bio"`
}

// HandleUpdate changes display name and bio.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.CurrentUserID(r)
	if !ok {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.Unauthenticated, "sign in required"))
		return
	}

	var req updateRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	req.Bio = strings.TrimSpace(req.Bio)
	if req.DisplayName == "" {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.InvalidArgument, "display_name is required"))
		return
	}
	if len(req.DisplayName) > maxDisplayNameLen {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.InvalidArgument, "display_name is too long"))
		return
	}
	if len(req.Bio) > maxBioLen {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.InvalidArgument, "bio is too long"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Users.UpdateProfile(ctx, uid, req.DisplayName, req.Bio); err != nil {
		httpjson.WriteError(w, h.Log, apperr.Wrap(apperr.Internal, "could not update profile", err))
		return
	}

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		httpjson.WriteError(w, h.Log, apperr.Wrap(apperr.Internal, "could not load profile", err))
		return
	}
	httpjson.Write(w, http.StatusOK, u)
}
