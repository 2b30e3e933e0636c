// internal/app/features/invitations/routes.go
package invitations

import (
	"github.com/dalemusser/taskhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// ProjectRoutes serves POST /projects/{projectID}/invitations.
func ProjectRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Post("/", h.HandleInvite)
	return r
}

// Routes serves POST /invitations (accept) and POST /invitations/decline.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Post("/", h.HandleAccept)
	r.Post("/decline", h.HandleDecline)
	return r
}
