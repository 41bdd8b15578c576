// internal/app/features/profile/communities.go
package profile

import (
	"context"
	"net/http"

	"github.com/dalemusser/agorahub/internal/app/system/apperr"
	"github.com/dalemusser/agorahub/internal/app/system/auth"
	"github.com/dalemusser/agorahub/internal/app/system/httpjson"
	"github.com/dalemusser/agorahub/internal/app/system/timeouts"
	"github.com/dalemusser/agorahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type myCommunity struct {
	models.Community
	// Role is the caller's role in this community.
	Role string `json:"role"`
}

// ServeMyCommunities lists the communities the caller is an active
// member of, most recently joined first.
func (h *Handler) ServeMyCommunities(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.CurrentUserID(r)
	if !ok {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.Unauthenticated, "sign in required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	members, err := h.Memberships.ListForUser(ctx, uid, models.StatusActive)
	if err != nil {
		httpjson.WriteError(w, h.Log, apperr.Wrap(apperr.Internal, "could not list memberships", err))
		return
	}

	ids := make([]primitive.ObjectID, 0, len(members))
	roles := make(map[primitive.ObjectID]string, len(members))
	for _, m := range members {
		ids = append(ids, m.CommunityID)
		roles[m.CommunityID] = m.Role
	}

	communities, err := h.Communities.ListByIDs(ctx, ids)
	if err != nil {
		httpjson.WriteError(w, h.Log, apperr.Wrap(apperr.Internal, "could not load communities", err))
		return
	}

	// Preserve the membership ordering.
	byID := make(map[primitive.ObjectID]models.Community, len(communities))
	for _, c := range communities {
		byID[c.ID] = c
	}
	out := make([]myCommunity, 0, len(members))
	for _, m := range members {
		if c, ok := byID[m.CommunityID]; ok {
			out = append(out, myCommunity{Community: c, Role: m.Role})
		}
	}

	httpjson.Write(w, http.StatusOK, map[string]any{"communities": out})
}
