// internal/app/features/invitations/handler.go
package invitations

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dalemusser/taskhub/internal/app/policy/projectpolicy"
	memberstore "github.com/dalemusser/taskhub/internal/app/store/members"
	projectstore "github.com/dalemusser/taskhub/internal/app/store/projects"
	userstore "github.com/dalemusser/taskhub/internal/app/store/users"
	"github.com/dalemusser/taskhub/internal/app/system/auth"
	"github.com/dalemusser/taskhub/internal/app/system/httpjson"
	"github.com/dalemusser/taskhub/internal/app/system/invites"
	"github.com/dalemusser/taskhub/internal/app/system/mailer"
	"github.com/dalemusser/taskhub/internal/app/system/schemas"
	"github.com/dalemusser/taskhub/internal/app/system/timeouts"
	"github.com/dalemusser/taskhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Sender delivers one email. Satisfied by *mailer.Mailer; tests swap in a
// recorder.
type Sender interface {
	Send(e mailer.Email) error
}

type Handler struct {
	Projects *projectstore.Store
	Members  *memberstore.Store
	Users    *userstore.Store
	Tokens   *invites.Tokens
	Mail     Sender
	BaseURL  string
	SiteName string
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, tokens *invites.Tokens, mail Sender, baseURL, siteName string, logger *zap.Logger) *Handler {
	return &Handler{
		Projects: projectstore.New(db),
		Members:  memberstore.New(db),
		Users:    userstore.New(db),
		Tokens:   tokens,
		Mail:     mail,
		BaseURL:  baseURL,
		SiteName: siteName,
		Log:      logger,
	}
}

type inviteRequest struct {
	Email string `json:"email"`
}

type actionRequest struct {
	Token string `json:"token"`
}

func currentUserID(r *http.Request) (primitive.ObjectID, bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

// HandleInvite creates a pending editor membership for an existing user
// and emails them a signed acceptance link. The caller must hold an
// accepted owner or editor membership on the project. Any existing
// membership for the invitee, whatever its status, is a conflict.
func (h *Handler) HandleInvite(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	projectID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "projectID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid project id")
		return
	}

	raw, err := httpjson.DecodeRaw(r)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := schemas.Validate(schemas.Invite, raw); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	var req inviteRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	project, err := h.Projects.GetByID(ctx, projectID)
	switch err {
	case nil:
		// found
	case mongo.ErrNoDocuments:
		httpjson.Error(w, http.StatusNotFound, "project not found")
		return
	default:
		h.Log.Error("load project failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to send invitation")
		return
	}

	callerMember, err := h.Members.GetByUserAndProject(ctx, userID, projectID)
	if err != nil && err != mongo.ErrNoDocuments {
		h.Log.Error("load caller membership failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to send invitation")
		return
	}
	if !projectpolicy.CanInvite(callerMember) {
		httpjson.Error(w, http.StatusForbidden, "you do not have permission to invite members to this project")
		return
	}

	invitee, err := h.Users.GetByEmail(ctx, req.Email)
	switch err {
	case nil:
		// found
	case mongo.ErrNoDocuments:
		httpjson.Error(w, http.StatusConflict, "no account exists for this email")
		return
	default:
		h.Log.Error("load invitee failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to send invitation")
		return
	}

	member, err := h.Members.Create(ctx, models.Member{
		UserID:    invitee.ID,
		ProjectID: projectID,
		Role:      models.RoleEditor,
	})
	switch err {
	case nil:
		// created
	case memberstore.ErrDuplicateMember:
		httpjson.Error(w, http.StatusConflict, "user is already a member of this project")
		return
	default:
		h.Log.Error("create pending membership failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to send invitation")
		return
	}

	token, err := h.Tokens.Issue(member.ID)
	if err != nil {
		h.Log.Error("issue invitation token failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to send invitation")
		return
	}

	inviter, _ := auth.CurrentUser(r)
	email := mailer.BuildInvitationEmail(mailer.InvitationEmailData{
		SiteName:    h.SiteName,
		InviterName: inviter.Name,
		ProjectName: project.Name,
		AcceptURL:   fmt.Sprintf("%s/invitations/accept?token=%s", h.BaseURL, token),
		ExpiresIn:   "3 days",
	})
	email.To = invitee.Email

	if err := h.Mail.Send(email); err != nil {
		h.Log.Error("send invitation email failed", zap.Error(err),
			zap.String("member_id", member.ID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "failed to send invitation email")
		return
	}

	h.Log.Info("invitation sent",
		zap.String("project_id", projectID.Hex()),
		zap.String("invitee_id", invitee.ID.Hex()))

	httpjson.Respond(w, http.StatusOK, map[string]string{"message": "invitation sent successfully"})
}

// resolveToken decodes the invitation token from the body and loads the
// membership it names, enforcing that it belongs to the caller. It writes
// the error response itself on failure.
func (h *Handler) resolveToken(ctx context.Context, w http.ResponseWriter, r *http.Request, userID primitive.ObjectID) (*models.Member, bool) {
	raw, err := httpjson.DecodeRaw(r)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid JSON body")
		return nil, false
	}
	if err := schemas.Validate(schemas.InvitationAction, raw); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	var req actionRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid JSON body")
		return nil, false
	}

	memberID, err := h.Tokens.Verify(req.Token)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid or expired invitation token")
		return nil, false
	}

	member, err := h.Members.GetByID(ctx, memberID)
	switch err {
	case nil:
		// found
	case mongo.ErrNoDocuments:
		httpjson.Error(w, http.StatusNotFound, "invitation not found")
		return nil, false
	default:
		h.Log.Error("load membership failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to process invitation")
		return nil, false
	}

	// A token forwarded to or replayed by another account must not work.
	if member.UserID != userID {
		httpjson.Error(w, http.StatusForbidden, "this invitation belongs to a different account")
		return nil, false
	}
	return member, true
}

// HandleAccept flips the caller's pending invitation to accepted. Retrying
// an already-resolved invitation answers 404 rather than double-applying.
func (h *Handler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	member, ok := h.resolveToken(ctx, w, r, userID)
	if !ok {
		return
	}

	accepted, err := h.Members.AcceptPending(ctx, member.ID)
	switch err {
	case nil:
		// accepted
	case memberstore.ErrNotPending, mongo.ErrNoDocuments:
		httpjson.Error(w, http.StatusNotFound, "invitation not found or already accepted")
		return
	default:
		h.Log.Error("accept invitation failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to process invitation")
		return
	}

	h.Log.Info("invitation accepted",
		zap.String("member_id", accepted.ID.Hex()),
		zap.String("project_id", accepted.ProjectID.Hex()))

	httpjson.Respond(w, http.StatusOK, map[string]string{"message": "invitation accepted successfully"})
}

// HandleDecline flips the caller's pending invitation to declined, a
// terminal state. The membership row is kept so re-inviting still
// conflicts.
func (h *Handler) HandleDecline(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	member, ok := h.resolveToken(ctx, w, r, userID)
	if !ok {
		return
	}

	declined, err := h.Members.DeclinePending(ctx, member.ID)
	switch err {
	case nil:
		// declined
	case memberstore.ErrNotPending, mongo.ErrNoDocuments:
		httpjson.Error(w, http.StatusNotFound, "invitation not found or already resolved")
		return
	default:
		h.Log.Error("decline invitation failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to process invitation")
		return
	}

	h.Log.Info("invitation declined",
		zap.String("member_id", declined.ID.Hex()),
		zap.String("project_id", declined.ProjectID.Hex()))

	httpjson.Respond(w, http.StatusOK, map[string]string{"message": "invitation declined"})
}
