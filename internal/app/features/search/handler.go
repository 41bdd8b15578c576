// internal/app/features/search/handler.go
package search

import (
	"context"
	"net/http"
	"strings"

	communitystore "github.com/dalemusser/agorahub/internal/app/store/communities"
	discussionstore "github.com/dalemusser/agorahub/internal/app/store/discussions"
	"github.com/dalemusser/agorahub/internal/app/system/apperr"
	"github.com/dalemusser/agorahub/internal/app/system/httpjson"
	"github.com/dalemusser/agorahub/internal/app/system/paging"
	"github.com/dalemusser/agorahub/internal/app/system/timeouts"
	"github.com/dalemusser/agorahub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the combined community and discussion search.
type Handler struct {
	Communities *communitystore.Store
	Discussions *discussionstore.Store
	Log         *zap.Logger
}

func NewHandler(db *mongo.Database, log *zap.Logger) *Handler {
	return &Handler{
		Communities: communitystore.New(db, log),
		Discussions: discussionstore.New(db),
		Log:         log,
	}
}

type response struct {
	Communities []models.Community  `json:"communities"`
	Discussions []models.Discussion `json:"discussions"`
}

// ServeSearch matches the case-folded query against community names and
// discussion titles as a prefix. Matching is accent and case
// insensitive; "café" and "Cafe" find the same rows.
func (h *Handler) ServeSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(query.Get(r, "q"))
	if q == "" {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.InvalidArgument, "q is required"))
		return
	}
	limit := paging.ParseLimit(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	page, err := h.Communities.List(ctx, communitystore.ListParams{Search: q, Limit: limit})
	if err != nil {
		httpjson.WriteError(w, h.Log, apperr.Wrap(apperr.Internal, "search failed", err))
		return
	}
	discussions, err := h.Discussions.Search(ctx, q, limit)
	if err != nil {
		httpjson.WriteError(w, h.Log, apperr.Wrap(apperr.Internal, "search failed", err))
		return
	}

	resp := response{
		Communities: page.Communities,
		Discussions: discussions,
	}
	if resp.Communities == nil {
		resp.Communities = []models.Community{}
	}
	if resp.Discussions == nil {
		resp.Discussions = []models.Discussion{}
	}
	httpjson.Write(w, http.StatusOK, resp)
}

// Routes mounts the search endpoint.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeSearch)
	return r
}
