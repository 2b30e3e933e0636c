// internal/app/features/userinfo/handler.go
package userinfo

import (
	"net/http"

	"github.com/dalemusser/taskhub/internal/app/system/auth"
	"github.com/dalemusser/taskhub/internal/app/system/httpjson"
)

// Handler serves identity information for the current session.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// ServeUserInfo returns the caller's authentication status and identity.
// Unauthenticated requests still get 200 with isAuthenticated false, so
// frontend code can probe the session without triggering a redirect.
func (h *Handler) ServeUserInfo(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Respond(w, http.StatusOK, map[string]any{
			"isAuthenticated": false,
			"id":              "",
			"name":            "",
			"email":           "",
		})
		return
	}

	httpjson.Respond(w, http.StatusOK, map[string]any{
		"isAuthenticated": true,
		"id":              user.ID,
		"name":            user.Name,
		"email":           user.Email,
	})
}
