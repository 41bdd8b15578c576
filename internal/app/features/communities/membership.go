// internal/app/features/communities/membership.go
package communities

import (
	"context"
	"net/http"

	membershipstore "github.com/dalemusser/agorahub/internal/app/store/memberships"
	"github.com/dalemusser/agorahub/internal/app/system/apperr"
	"github.com/dalemusser/agorahub/internal/app/system/auth"
	"github.com/dalemusser/agorahub/internal/app/system/httpjson"
	"github.com/dalemusser/agorahub/internal/app/system/timeouts"
	"github.com/dalemusser/agorahub/internal/domain/models"
)

type membershipRequest struct {
	Status string `json:"status"`
}

type membershipResponse struct {
	Success    bool              `json:"success"`
	Membership models.Membership `json:"membership"`
}

// HandleMembership joins or leaves a community on behalf of the caller.
// The body carries the desired status; "active" joins, "left" leaves.
// Repeating a request is harmless.
func (h *Handler) HandleMembership(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.CurrentUserID(r)
	if !ok {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.Unauthenticated, "sign in required"))
		return
	}
	c, ok := h.loadCommunity(w, r)
	if !ok {
		return
	}

	var req membershipRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	// Callers may only join or leave on their own behalf; the other
	// membership statuses are moderation state and never client-settable.
	if req.Status != models.StatusActive && req.Status != models.StatusLeft {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.InvalidArgument, "status must be active or left"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	// A suspended member cannot change their own status.
	if cur, err := h.Memberships.Get(ctx, c.ID, uid); err == nil && cur.Status == models.StatusSuspended {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.Forbidden, "membership is suspended"))
		return
	} else if err != nil && err != membershipstore.ErrNotFound {
		httpjson.WriteError(w, h.Log, apperr.Wrap(apperr.Internal, "could not check membership", err))
		return
	}

	m, err := h.Memberships.SetStatus(ctx, c.ID, uid, req.Status)
	if err != nil {
		if err == membershipstore.ErrInvalidStatus {
			httpjson.WriteError(w, h.Log, apperr.New(apperr.InvalidArgument, "status must be active or left"))
			return
		}
		httpjson.WriteError(w, h.Log, apperr.Wrap(apperr.Internal, "could not update membership", err))
		return
	}

	httpjson.Write(w, http.StatusOK, membershipResponse{Success: true, Membership: m})
}

type membersResponse struct {
	Members []membershipstore.Member `json:"members"`
}

// ServeMembers lists the community's active members. Only active
// members may see the roster.
func (h *Handler) ServeMembers(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.CurrentUserID(r)
	if !ok {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.Unauthenticated, "sign in required"))
		return
	}
	c, ok := h.loadCommunity(w, r)
	if !ok {
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
		httpjson.WriteError(w, h.Log, apperr.New(apperr.Forbidden, "only members can view the member list"))
		return
	}

	members, err := h.Memberships.ListActive(ctx, c.ID, 0)
	if err != nil {
		httpjson.WriteError(w, h.Log, apperr.Wrap(apperr.Internal, "could not list members", err))
		return
	}
	httpjson.Write(w, http.StatusOK, membersResponse{Members: members})
}
