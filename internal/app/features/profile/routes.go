// internal/app/features/profile/routes.go
package profile

import (
	"github.com/dalemusser/agorahub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the current-user profile endpoints.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Use(sm.RequireSignedIn)

	r.Get("/", h.ServeMe)
	r.Patch("/", h.HandleUpdate)
	r.Get("/communities", h.ServeMyCommunities)
	r.Post("/avatar", h.HandleAvatarUpload)

	return r
}
