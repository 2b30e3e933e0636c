// internal/app/features/users/handler.go
package users

import (
	"context"
	"net/http"

	userstore "github.com/dalemusser/taskhub/internal/app/store/users"
	"github.com/dalemusser/taskhub/internal/app/system/httpjson"
	"github.com/dalemusser/taskhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the user directory that assignment pickers consume.
type Handler struct {
	Users *userstore.Store
	Log   *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{Users: userstore.New(db), Log: logger}
}

// HandleList answers GET /users with every account's id and display name.
// Email, password, and token fields stay out of the response.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	users, err := h.Users.Directory(ctx)
	if err != nil {
		h.Log.Error("list user directory failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to load users")
		return
	}

	httpjson.Respond(w, http.StatusOK, map[string]any{"users": users})
}
