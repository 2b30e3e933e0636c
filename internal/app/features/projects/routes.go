// internal/app/features/projects/routes.go
package projects

import (
	"github.com/dalemusser/taskhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Post("/", h.HandleCreate)
	r.Get("/", h.HandleList)
	r.Put("/{projectID}", h.HandleUpdate)
	r.Delete("/{projectID}", h.HandleDelete)

	return r
}
