// internal/app/features/register/handler.go
package register

import (
	"context"
	"encoding/json"
	"net/http"

	userstore "github.com/dalemusser/taskhub/internal/app/store/users"
	"github.com/dalemusser/taskhub/internal/app/system/authutil"
	"github.com/dalemusser/taskhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/taskhub/internal/app/system/httpjson"
	"github.com/dalemusser/taskhub/internal/app/system/schemas"
	"github.com/dalemusser/taskhub/internal/app/system/timeouts"
	"github.com/dalemusser/taskhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Users *userstore.Store
	Log   *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Users: userstore.New(db),
		Log:   logger,
	}
}

type registerRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerResponse struct {
	Message string            `json:"message"`
	User    models.PublicUser `json:"user"`
}

// HandleRegister creates a new account. The password is hashed before it
// ever reaches the store, and the response never includes it.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	raw, err := httpjson.DecodeRaw(r)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := schemas.Validate(schemas.Register, raw); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	var req registerRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	hash, err := authutil.HashPassword(req.Password)
	if err != nil {
		h.Log.Error("hash password failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to register user")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.Users.Create(ctx, models.User{
		FullName:     htmlsanitize.Plain(req.FullName),
		Email:        req.Email,
		PasswordHash: hash,
	})
	switch err {
	case nil:
		// created
	case userstore.ErrDuplicateEmail:
		httpjson.Error(w, http.StatusConflict, "user with this email already exists")
		return
	default:
		h.Log.Error("create user failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to register user")
		return
	}

	h.Log.Info("user registered", zap.String("user_id", created.ID.Hex()))

	httpjson.Respond(w, http.StatusCreated, registerResponse{
		Message: "user registered successfully",
		User:    models.PublicUser{ID: created.ID, FullName: created.FullName, Email: created.Email},
	})
}
