// internal/app/features/communities/list.go
package communities

import (
	"context"
	"net/http"

	communitystore "github.com/dalemusser/agorahub/internal/app/store/communities"
	"github.com/dalemusser/agorahub/internal/app/system/apperr"
	"github.com/dalemusser/agorahub/internal/app/system/httpjson"
	"github.com/dalemusser/agorahub/internal/app/system/paging"
	"github.com/dalemusser/agorahub/internal/app/system/timeouts"
	"github.com/dalemusser/agorahub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type listResponse struct {
	Communities []models.Community `json:"communities"`
	PrevCursor  string             `json:"prev_cursor,omitempty"`
	NextCursor  string             `json:"next_cursor,omitempty"`
	HasPrev     bool               `json:"has_prev"`
	HasNext     bool               `json:"has_next"`
}

// ServeList lists communities, filterable by search prefix and topic,
// paged by cursor.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	params := communitystore.ListParams{
		Search: query.Get(r, "search"),
		Before: query.Get(r, "before"),
		After:  query.Get(r, "after"),
		Limit:  paging.ParseLimit(r),
	}
	if s := query.Get(r, "topic_id"); s != "" {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			httpjson.WriteError(w, h.Log, apperr.New(apperr.InvalidArgument, "topic_id is not a valid id"))
			return
		}
		params.TopicID = &id
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	page, err := h.Communities.List(ctx, params)
	if err != nil {
		httpjson.WriteError(w, h.Log, apperr.Wrap(apperr.Internal, "could not list communities", err))
		return
	}

	httpjson.Write(w, http.StatusOK, listResponse{
		Communities: page.Communities,
		PrevCursor:  page.PrevCursor,
		NextCursor:  page.NextCursor,
		HasPrev:     page.HasPrev,
		HasNext:     page.HasNext,
	})
}
