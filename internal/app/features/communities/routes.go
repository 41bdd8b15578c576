// internal/app/features/communities/routes.go
package communities

import (
	"github.com/dalemusser/agorahub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts community CRUD and membership endpoints. Discussion
// routes nest under {slug} from the bootstrap router, not here.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeList)
	r.Get("/{slug}", h.ServeGet)

	r.Group(func(r chi.Router) {
		r.Use(sm.RequireSignedIn)

		r.Post("/", h.HandleCreate)
		r.Patch("/{slug}", h.HandleUpdate)
		r.Post("/{slug}/membership", h.HandleMembership)
		r.Get("/{slug}/members", h.ServeMembers)
	})

	return r
}
