// internal/app/features/replies/replies.go
package replies

import (
	"context"
	"net/http"
	"strings"

	discussionstore "github.com/dalemusser/agorahub/internal/app/store/discussions"
	replystore "github.com/dalemusser/agorahub/internal/app/store/replies"
	"github.com/dalemusser/agorahub/internal/app/system/apperr"
	"github.com/dalemusser/agorahub/internal/app/system/auth"
	"github.com/dalemusser/agorahub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/agorahub/internal/app/system/httpjson"
	"github.com/dalemusser/agorahub/internal/app/system/paging"
	"github.com/dalemusser/agorahub/internal/app/system/timeouts"
	"github.com/dalemusser/agorahub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const maxReplyLen = 20000

// loadDiscussion resolves the {id} route parameter to a discussion.
func (h *Handler) loadDiscussion(w http.ResponseWriter, r *http.Request) (models.Discussion, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.InvalidArgument, "discussion id is not valid"))
		return models.Discussion{}, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	d, err := h.Discussions.GetByID(ctx, id)
	if err != nil {
		if err == discussionstore.ErrNotFound {
			httpjson.WriteError(w, h.Log, apperr.New(apperr.NotFound, "discussion not found"))
		} else {
			httpjson.WriteError(w, h.Log, apperr.Wrap(apperr.Internal, "could not load discussion", err))
		}
		return models.Discussion{}, false
	}
	return d, true
}

type createRequest struct {
	Body     string `json:"body"`
	ParentID string `json:"parent_id,omitempty"`
	Tag      string `json:"tag,omitempty"`
}

// HandleCreate posts a reply to a discussion, optionally nested under
// an existing reply of the same discussion.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.CurrentUserID(r)
	if !ok {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.Unauthenticated, "sign in required"))
		return
	}
	d, ok := h.loadDiscussion(w, r)
	if !ok {
		return
	}
	if d.IsLocked {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.Forbidden, "discussion is locked"))
		return
	}

	var req createRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}
	body := strings.TrimSpace(req.Body)
	if body == "" {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.InvalidArgument, "body is required"))
		return
	}
	if len(body) > maxReplyLen {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.InvalidArgument, "body is too long"))
		return
	}

	var parentID *primitive.ObjectID
	if req.ParentID != "" {
		pid, err := primitive.ObjectIDFromHex(req.ParentID)
		if err != nil {
			httpjson.WriteError(w, h.Log, apperr.New(apperr.InvalidArgument, "parent_id is not valid"))
			return
		}
		parentID = &pid
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	reply, err := h.Replies.Create(ctx, replystore.CreateInput{
		DiscussionID: d.ID,
		AuthorID:     uid,
		Body:         htmlsanitize.Sanitize(body),
		ParentID:     parentID,
		Tag:          req.Tag,
	})
	if err != nil {
		switch err {
		case replystore.ErrBadParent:
			httpjson.WriteError(w, h.Log, apperr.New(apperr.InvalidArgument, "parent reply does not belong to this discussion"))
		case replystore.ErrInvalidTag:
			httpjson.WriteError(w, h.Log, apperr.New(apperr.InvalidArgument, "tag must be answer, tip or question"))
		default:
			httpjson.WriteError(w, h.Log, apperr.Wrap(apperr.Internal, "could not create reply", err))
		}
		return
	}

	httpjson.Write(w, http.StatusCreated, reply)
}

type listResponse struct {
	Replies    []models.Reply `json:"replies"`
	PrevCursor string         `json:"prev_cursor,omitempty"`
	NextCursor string         `json:"next_cursor,omitempty"`
	HasPrev    bool           `json:"has_prev"`
	HasNext    bool           `json:"has_next"`
}

// ServeList lists a discussion's replies in creation order. Clients
// rebuild the thread from parent_id.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	d, ok := h.loadDiscussion(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	page, err := h.Replies.List(ctx, replystore.ListParams{
		DiscussionID: d.ID,
		Before:       query.Get(r, "before"),
		After:        query.Get(r, "after"),
		Limit:        paging.ParseLimit(r),
	})
	if err != nil {
		httpjson.WriteError(w, h.Log, apperr.Wrap(apperr.Internal, "could not list replies", err))
		return
	}

	httpjson.Write(w, http.StatusOK, listResponse{
		Replies:    page.Replies,
		PrevCursor: page.PrevCursor,
		NextCursor: page.NextCursor,
		HasPrev:    page.HasPrev,
		HasNext:    page.HasNext,
	})
}
