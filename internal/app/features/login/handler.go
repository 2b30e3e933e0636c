// internal/app/features/login/handler.go
package login

import (
	"context"
	"encoding/json"
	"net/http"

	userstore "github.com/dalemusser/taskhub/internal/app/store/users"
	"github.com/dalemusser/taskhub/internal/app/system/auth"
	"github.com/dalemusser/taskhub/internal/app/system/authutil"
	"github.com/dalemusser/taskhub/internal/app/system/httpjson"
	"github.com/dalemusser/taskhub/internal/app/system/schemas"
	"github.com/dalemusser/taskhub/internal/app/system/timeouts"
	"github.com/dalemusser/taskhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Users      *userstore.Store
	SessionMgr *auth.SessionManager
	Log        *zap.Logger
}

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		Users:      userstore.New(db),
		SessionMgr: sessionMgr,
		Log:        logger,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message string            `json:"message"`
	User    models.PublicUser `json:"user"`
}

// HandleLogin verifies credentials and establishes a session. Unknown
// email and wrong password both answer 401 with the same message, so the
// endpoint cannot be used to probe which addresses have accounts.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	raw, err := httpjson.DecodeRaw(r)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := schemas.Validate(schemas.Login, raw); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	var req loginRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	switch err {
	case nil:
		// found
	case mongo.ErrNoDocuments:
		httpjson.Error(w, http.StatusUnauthorized, "invalid email or password")
		return
	default:
		h.Log.Error("load user for login failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to log in")
		return
	}

	if !authutil.CheckPassword(u.PasswordHash, req.Password) {
		httpjson.Error(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	if err := h.SessionMgr.SignIn(w, r, auth.SessionUser{
		ID:    u.ID.Hex(),
		Name:  u.FullName,
		Email: u.Email,
	}); err != nil {
		h.Log.Error("sign in failed", zap.Error(err), zap.String("user_id", u.ID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "failed to log in")
		return
	}

	h.Log.Info("user logged in", zap.String("user_id", u.ID.Hex()))

	httpjson.Respond(w, http.StatusOK, loginResponse{
		Message: "logged in successfully",
		User:    models.PublicUser{ID: u.ID, FullName: u.FullName, Email: u.Email},
	})
}
