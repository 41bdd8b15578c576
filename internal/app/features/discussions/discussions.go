// internal/app/features/discussions/discussions.go
package discussions

import (
	"context"
	"net/http"
	"strings"

	communitystore "github.com/dalemusser/agorahub/internal/app/store/communities"
	discussionstore "github.com/dalemusser/agorahub/internal/app/store/discussions"
	"github.com/dalemusser/agorahub/internal/app/system/apperr"
	"github.com/dalemusser/agorahub/internal/app/system/auth"
	"github.com/dalemusser/agorahub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/agorahub/internal/app/system/httpjson"
	"github.com/dalemusser/agorahub/internal/app/system/paging"
	"github.com/dalemusser/agorahub/internal/app/system/timeouts"
	"github.com/dalemusser/agorahub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
)

const maxTitleLen = 200
const maxBodyLen = 50000

// loadCommunity resolves the {slug} route parameter, answering the
// error response itself on failure.
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

// loadDiscussion resolves {dslug} within an already resolved community.
func (h *Handler) loadDiscussion(w http.ResponseWriter, r *http.Request, c models.Community) (models.Discussion, bool) {
	dslug := chi.URLParam(r, "dslug")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	d, err := h.Discussions.GetBySlug(ctx, c.ID, dslug)
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
	Title string `json:"title"`
	Body  string `json:"body"`
	// Slug overrides the title-derived slug when supplied.
	Slug string `json:"slug,omitempty"`
}

// HandleCreate opens a discussion. The caller must be an active member
// of the community.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.CurrentUserID(r)
	if !ok {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.Unauthenticated, "sign in required"))
		return
	}
	c, ok := h.loadCommunity(w, r)
	if !ok {
		return
	}

	var req createRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.InvalidArgument, "title is required"))
		return
	}
	if len(req.Title) > maxTitleLen {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.InvalidArgument, "title is too long"))
		return
	}
	if len(req.Body) > maxBodyLen {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.InvalidArgument, "body is too long"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	member, err := h.Memberships.IsActiveMember(ctx, c.ID, uid)
	if err != nil {
		httpjson.WriteError(w, h.Log, apperr.Wrap(apperr.Internal, "could not check membership", err))
		return
	}
	if !member {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.Forbidden, "only members can open discussions"))
		return
	}

	d, err := h.Discussions.Create(ctx, discussionstore.CreateInput{
		CommunityID: c.ID,
		AuthorID:    uid,
		Title:       req.Title,
		Slug:        strings.TrimSpace(req.Slug),
		Body:        htmlsanitize.Sanitize(req.Body),
	})
	if err != nil {
		switch err {
		case discussionstore.ErrSlugTaken:
			httpjson.WriteError(w, h.Log, apperr.New(apperr.Conflict, "a discussion with this title already exists in the community"))
		case discussionstore.ErrInvalidTitle:
			httpjson.WriteError(w, h.Log, apperr.New(apperr.InvalidArgument, "title does not produce a usable slug"))
		default:
			httpjson.WriteError(w, h.Log, apperr.Wrap(apperr.Internal, "could not create discussion", err))
		}
		return
	}

	httpjson.Write(w, http.StatusCreated, d)
}

type editRequest struct {
	Body string `json:"body"`
}

// HandleEdit replaces the discussion body. Author only; title and slug
// never change after creation.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
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
		httpjson.WriteError(w, h.Log, apperr.New(apperr.Forbidden, "only the author can edit a discussion"))
		return
	}
	if d.IsLocked {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.Forbidden, "discussion is locked"))
		return
	}

	var req editRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}
	if len(req.Body) > maxBodyLen {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.InvalidArgument, "body is too long"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Discussions.UpdateBody(ctx, d.ID, htmlsanitize.Sanitize(req.Body)); err != nil {
		httpjson.WriteError(w, h.Log, apperr.Wrap(apperr.Internal, "could not update discussion", err))
		return
	}
	updated, err := h.Discussions.GetByID(ctx, d.ID)
	if err != nil {
		httpjson.WriteError(w, h.Log, apperr.Wrap(apperr.Internal, "could not load discussion", err))
		return
	}
	httpjson.Write(w, http.StatusOK, updated)
}

type listResponse struct {
	Discussions []models.Discussion `json:"discussions"`
	PrevCursor  string              `json:"prev_cursor,omitempty"`
	NextCursor  string              `json:"next_cursor,omitempty"`
	HasPrev     bool                `json:"has_prev"`
	HasNext     bool                `json:"has_next"`
}

// ServeList lists the community's discussions, most recent activity
// first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	c, ok := h.loadCommunity(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	page, err := h.Discussions.List(ctx, discussionstore.ListParams{
		CommunityID: c.ID,
		Search:      query.Get(r, "search"),
		Before:      query.Get(r, "before"),
		After:       query.Get(r, "after"),
		Limit:       paging.ParseLimit(r),
	})
	if err != nil {
		httpjson.WriteError(w, h.Log, apperr.Wrap(apperr.Internal, "could not list discussions", err))
		return
	}

	httpjson.Write(w, http.StatusOK, listResponse{
		Discussions: page.Discussions,
		PrevCursor:  page.PrevCursor,
		NextCursor:  page.NextCursor,
		HasPrev:     page.HasPrev,
		HasNext:     page.HasNext,
	})
}

type getResponse struct {
	models.Discussion
	// MyVote is the caller's current vote direction, empty when signed
	// out or not yet voted.
	MyVote string `json:"my_vote,omitempty"`
}

// ServeGet returns one discussion with its counters, decorated with the
// caller's vote when signed in.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	c, ok := h.loadCommunity(w, r)
	if !ok {
		return
	}
	d, ok := h.loadDiscussion(w, r, c)
	if !ok {
		return
	}

	resp := getResponse{Discussion: d}
	if uid, signedIn := auth.CurrentUserID(r); signedIn {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()

		if v, found, err := h.Votes.Get(ctx, uid, d.ID); err == nil && found {
			resp.MyVote = v.Direction
		}
	}
	httpjson.Write(w, http.StatusOK, resp)
}
