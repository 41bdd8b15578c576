// internal/app/features/discussions/moderate.go
package discussions

import (
	"context"
	"net/http"

	discussionstore "github.com/dalemusser/agorahub/internal/app/store/discussions"
	votestore "github.com/dalemusser/agorahub/internal/app/store/votes"
	"github.com/dalemusser/agorahub/internal/app/system/apperr"
	"github.com/dalemusser/agorahub/internal/app/system/auth"
	"github.com/dalemusser/agorahub/internal/app/system/httpjson"
	"github.com/dalemusser/agorahub/internal/app/system/timeouts"
)

// HandleLockToggle flips the lock flag. The discussion author and the
// community owner may lock and unlock.
func (h *Handler) HandleLockToggle(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.CurrentUserID(r)
	if !ok {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.Unauthenticated, "sign in required"))
		return
	}
	c, ok := h.loadCommunity(w, r)
	if !ok {
		return
	}
	d, ok := h.loadDiscussion(w, r, c)
	if !ok {
		return
	}
	if uid != d.AuthorID && uid != c.OwnerID {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.Forbidden, "only the author or community owner can lock a discussion"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Discussions.SetLocked(ctx, d.ID, !d.IsLocked); err != nil {
		httpjson.WriteError(w, h.Log, apperr.Wrap(apperr.Internal, "could not update lock state", err))
		return
	}
	d.IsLocked = !d.IsLocked
	httpjson.Write(w, http.StatusOK, d)
}

// HandleDelete removes the discussion. Author only.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.CurrentUserID(r)
	if !ok {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.Unauthenticated, "sign in required"))
		return
	}
	c, ok := h.loadCommunity(w, r)
	if !ok {
		return
	}
	d, ok := h.loadDiscussion(w, r, c)
	if !ok {
		return
	}
	if uid != d.AuthorID {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.Forbidden, "only the author can delete a discussion"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Discussions.Delete(ctx, d.ID); err != nil {
		httpjson.WriteError(w, h.Log, apperr.Wrap(apperr.Internal, "could not delete discussion", err))
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]bool{"success": true})
}

type voteRequest struct {
	Direction string `json:"vote"`
}

// HandleVote casts or flips the caller's vote on the discussion and
// returns the discussion with fresh counters.
func (h *Handler) HandleVote(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.CurrentUserID(r)
	if !ok {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.Unauthenticated, "sign in required"))
		return
	}
	c, ok := h.loadCommunity(w, r)
	if !ok {
		return
	}
	d, ok := h.loadDiscussion(w, r, c)
	if !ok {
		return
	}
	if d.IsLocked {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.Forbidden, "discussion is locked"))
		return
	}

	var req voteRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Votes.Cast(ctx, uid, d.ID, req.Direction); err != nil {
		switch err {
		case votestore.ErrInvalidDirection:
			httpjson.WriteError(w, h.Log, apperr.New(apperr.InvalidArgument, "vote must be up or down"))
		case votestore.ErrTargetNotFound:
			httpjson.WriteError(w, h.Log, apperr.New(apperr.NotFound, "discussion not found"))
		default:
			httpjson.WriteError(w, h.Log, apperr.Wrap(apperr.Internal, "could not record vote", err))
		}
		return
	}

	updated, err := h.Discussions.GetByID(ctx, d.ID)
	if err != nil {
		if err == discussionstore.ErrNotFound {
			httpjson.WriteError(w, h.Log, apperr.New(apperr.NotFound, "discussion not found"))
			return
		}
		httpjson.WriteError(w, h.Log, apperr.Wrap(apperr.Internal, "could not load discussion", err))
		return
	}
	httpjson.Write(w, http.StatusOK, updated)
}
