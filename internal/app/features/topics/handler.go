// internal/app/features/topics/handler.go
package topics

import (
	"context"
	"net/http"

	topicstore "github.com/dalemusser/agorahub/internal/app/store/topics"
	"github.com/dalemusser/agorahub/internal/app/system/apperr"
	"github.com/dalemusser/agorahub/internal/app/system/httpjson"
	"github.com/dalemusser/agorahub/internal/app/system/timeouts"
	"github.com/dalemusser/agorahub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the curated topic list.
type Handler struct {
	Topics *topicstore.Store
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, log *zap.Logger) *Handler {
	return &Handler{Topics: topicstore.New(db), Log: log}
}

type listResponse struct {
	Topics []models.Topic `json:"topics"`
}

// ServeList returns all topics sorted by name.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	topics, err := h.Topics.List(ctx)
	if err != nil {
		httpjson.WriteError(w, h.Log, apperr.Wrap(apperr.Internal, "could not list topics", err))
		return
	}
	httpjson.Write(w, http.StatusOK, listResponse{Topics: topics})
}

// Routes mounts the topic endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	return r
}
