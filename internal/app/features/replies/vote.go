// internal/app/features/replies/vote.go
package replies

import (
	"context"
	"net/http"

	replystore "github.com/dalemusser/agorahub/internal/app/store/replies"
	votestore "github.com/dalemusser/agorahub/internal/app/store/votes"
	"github.com/dalemusser/agorahub/internal/app/system/apperr"
	"github.com/dalemusser/agorahub/internal/app/system/auth"
	"github.com/dalemusser/agorahub/internal/app/system/httpjson"
	"github.com/dalemusser/agorahub/internal/app/system/timeouts"
	"github.com/dalemusser/agorahub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// loadReply resolves the {id} route parameter to a reply.
func (h *Handler) loadReply(w http.ResponseWriter, r *http.Request) (models.Reply, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.InvalidArgument, "reply id is not valid"))
		return models.Reply{}, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	reply, err := h.Replies.GetByID(ctx, id)
	if err != nil {
		if err == replystore.ErrNotFound {
			httpjson.WriteError(w, h.Log, apperr.New(apperr.NotFound, "reply not found"))
		} else {
			httpjson.WriteError(w, h.Log, apperr.Wrap(apperr.Internal, "could not load reply", err))
		}
		return models.Reply{}, false
	}
	return reply, true
}

type voteRequest struct {
	Direction string `json:"vote"`
}

// HandleVote casts or flips the caller's vote on a reply and returns
// the reply with fresh counters.
func (h *Handler) HandleVote(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.CurrentUserID(r)
	if !ok {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.Unauthenticated, "sign in required"))
		return
	}
	reply, ok := h.loadReply(w, r)
	if !ok {
		return
	}

	var req voteRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Votes.Cast(ctx, uid, reply.ID, req.Direction); err != nil {
		switch err {
		case votestore.ErrInvalidDirection:
			httpjson.WriteError(w, h.Log, apperr.New(apperr.InvalidArgument, "vote must be up or down"))
		case votestore.ErrTargetNotFound:
			httpjson.WriteError(w, h.Log, apperr.New(apperr.NotFound, "reply not found"))
		default:
			httpjson.WriteError(w, h.Log, apperr.Wrap(apperr.Internal, "could not record vote", err))
		}
		return
	}

	updated, err := h.Replies.GetByID(ctx, reply.ID)
	if err != nil {
		httpjson.WriteError(w, h.Log, apperr.Wrap(apperr.Internal, "could not load reply", err))
		return
	}
	httpjson.Write(w, http.StatusOK, updated)
}

// HandleDelete soft-deletes the caller's own reply.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.CurrentUserID(r)
	if !ok {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.Unauthenticated, "sign in required"))
		return
	}
	reply, ok := h.loadReply(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Replies.SoftDelete(ctx, reply.ID, uid); err != nil {
		switch err {
		case replystore.ErrNotAuthor:
			httpjson.WriteError(w, h.Log, apperr.New(apperr.Forbidden, "only the author can delete a reply"))
		case replystore.ErrAlreadyDeleted:
			httpjson.WriteError(w, h.Log, apperr.New(apperr.Conflict, "reply is already deleted"))
		case replystore.ErrNotFound:
			httpjson.WriteError(w, h.Log, apperr.New(apperr.NotFound, "reply not found"))
		default:
			httpjson.WriteError(w, h.Log, apperr.Wrap(apperr.Internal, "could not delete reply", err))
		}
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]bool{"success": true})
}
