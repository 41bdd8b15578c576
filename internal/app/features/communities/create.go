// internal/app/features/communities/create.go
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
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const maxCommunityNameLen = 120
const maxGuidelines = 20

type createRequest struct {
	Name        string   `json:"name"`
	Slug        string   `json:"slug,omitempty"`
	Description string   `json:"description"`
	IsPrivate   bool     `json:"is_private"`
	TopicIDs    []string `json:"topic_ids,omitempty"`
	Guidelines  []string `json:"guidelines,omitempty"`
}

// HandleCreate creates a community owned by the caller.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.CurrentUserID(r)
	if !ok {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.Unauthenticated, "sign in required"))
		return
	}

	var req createRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.InvalidArgument, "name is required"))
		return
	}
	if len(req.Name) > maxCommunityNameLen {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.InvalidArgument, "name is too long"))
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

	c, err := h.Communities.Create(ctx, communitystore.CreateInput{
		Name:        req.Name,
		Slug:        strings.TrimSpace(req.Slug),
		OwnerID:     uid,
		Description: htmlsanitize.Sanitize(req.Description),
		IsPrivate:   req.IsPrivate,
		TopicIDs:    topicIDs,
		Guidelines:  req.Guidelines,
	})
	if err != nil {
		switch err {
		case communitystore.ErrSlugTaken:
			httpjson.WriteError(w, h.Log, apperr.New(apperr.Conflict, "a community with this name already exists"))
		case communitystore.ErrInvalidName:
			httpjson.WriteError(w, h.Log, apperr.New(apperr.InvalidArgument, "name does not produce a usable slug"))
		default:
			httpjson.WriteError(w, h.Log, apperr.Wrap(apperr.Internal, "could not create community", err))
		}
		return
	}

	httpjson.Write(w, http.StatusCreated, c)
}

func parseObjectIDs(in []string) ([]primitive.ObjectID, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]primitive.ObjectID, 0, len(in))
	for _, s := range in {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
