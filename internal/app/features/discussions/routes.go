// internal/app/features/discussions/routes.go
package discussions

import (
	"github.com/dalemusser/agorahub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts discussion endpoints. The router is mounted under
// /communities/{slug}/discussions, so {slug} resolves here too.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeList)
	r.Get("/{dslug}", h.ServeGet)

	r.Group(func(r chi.Router) {
		r.Use(sm.RequireSignedIn)

		r.Post("/", h.HandleCreate)
		r.Patch("/{dslug}", h.HandleEdit)
		r.Post("/{dslug}/vote", h.HandleVote)
		r.Post("/{dslug}/lock", h.HandleLockToggle)
		r.Delete("/{dslug}", h.HandleDelete)
	})

	return r
}
