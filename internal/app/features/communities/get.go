// internal/app/features/communities/get.go
package communities

import (
	"context"
	"net/http"
	"strings"

	communitystore "github.com/dalemusser/agorahub/internal/app/store/communities"
	"github.com/dalemusser/agorahub/internal/app/system/apperr"
	"github.com/dalemusser/agorahub/internal/app/system/auth"
	"github.com/dalemusser/agorahub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/agorahub/internal/app/system/httpjson"
	"github.com/dalemusser/agorahub/internal/app/system/timeouts"
	"github.com/dalemusser/agorahub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// loadCommunity resolves the {slug} route parameter. It answers the
// error response itself; callers just return on !ok.
func (h *Handler) loadCommunity(w http.ResponseWriter, r *http.Request) (models.Community, bool) {
	sl := chi.URLParam(r, "slug")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, err := h.Communities.GetBySlug(ctx, sl)
	if err != nil {
		if err == communitystore.ErrNotFound {
			httpjson.WriteError(w, h.Log, apperr.New(apperr.NotFound, "community not found"))
		} else {
			httpjson.WriteError(w, h.Log, apperr.Wrap(apperr.Internal, "could not load community", err))
		}
		return models.Community{}, false
	}
	return c, true
}

// requireVisible enforces private-community access: a private community
// is visible only to active members.
func (h *Handler) requireVisible(w http.ResponseWriter, r *http.Request, c models.Community) bool {
	if !c.IsPrivate {
		return true
	}
	uid, ok := auth.CurrentUserID(r)
	if !ok {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.Unauthenticated, "sign in required"))
		return false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	member, err := h.Memberships.IsActiveMember(ctx, c.ID, uid)
	if err != nil {
		httpjson.WriteError(w, h.Log, apperr.Wrap(apperr.Internal, "could not check membership", err))
		return false
	}
	if !member {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.Forbidden, "this community is private"))
		return false
	}
	return true
}

// ServeGet returns one community by slug.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	c, ok := h.loadCommunity(w, r)
	if !ok {
		return
	}
	if !h.requireVisible(w, r, c) {
		return
	}
	httpjson.Write(w, http.StatusOK, c)
}

type updateRequest struct {
	Description string   `json:"description"`
	IsPrivate   bool     `json:"is_private"`
	TopicIDs    []string `json:"topic_ids,omitempty"`
	Guidelines  []string `json:"guidelines,omitempty"`
}

// HandleUpdate lets the owner change the community's mutable fields.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.CurrentUserID(r)
	if !ok {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.Unauthenticated, "sign in required"))
		return
	}
	c, ok := h.loadCommunity(w, r)
	if !ok {
		return
	}
	if c.OwnerID != uid {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.Forbidden, "only the owner can update the community"))
		return
	}

	var req updateRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}
	if len(req.Guidelines) > maxGuidelines {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.InvalidArgument, "too many guidelines"))
		return
	}
	topicIDs, err := parseObjectIDs(req.TopicIDs)
	if err != nil {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.InvalidArgument, "topic_ids contains an invalid id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if len(topicIDs) > 0 {
		ok, err := h.Topics.Exist(ctx, topicIDs)
		if err != nil {
			httpjson.WriteError(w, h.Log, apperr.Wrap(apperr.Internal, "could not verify topics", err))
			return
		}
		if !ok {
			httpjson.WriteError(w, h.Log, apperr.New(apperr.InvalidArgument, "topic_ids contains an unknown topic"))
			return
		}
	}

	desc := htmlsanitize.Sanitize(strings.TrimSpace(req.Description))
	if err := h.Communities.UpdateInfo(ctx, c.ID, desc, req.IsPrivate, topicIDs, req.Guidelines); err != nil {
		httpjson.WriteError(w, h.Log, apperr.Wrap(apperr.Internal, "could not update community", err))
		return
	}

	updated, err := h.Communities.GetByID(ctx, c.ID)
	if err != nil {
		httpjson.WriteError(w, h.Log, apperr.Wrap(apperr.Internal, "could not load community", err))
		return
	}
	httpjson.Write(w, http.StatusOK, updated)
}
