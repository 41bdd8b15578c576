// internal/app/features/replies/routes.go
package replies

import (
	"github.com/dalemusser/agorahub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// DiscussionRoutes mounts reply creation and listing under
// /discussions/{id}/replies.
func DiscussionRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeList)
	r.With(sm.RequireSignedIn).Post("/", h.HandleCreate)

	return r
}

// Routes mounts per-reply endpoints under /replies.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Use(sm.RequireSignedIn)

	r.Patch("/{id}/vote", h.HandleVote)
	r.Delete("/{id}", h.HandleDelete)

	return r
}
