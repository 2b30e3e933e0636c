// internal/app/features/projects/handler.go
package projects

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/taskhub/internal/app/policy/projectpolicy"
	memberstore "github.com/dalemusser/taskhub/internal/app/store/members"
	projectstore "github.com/dalemusser/taskhub/internal/app/store/projects"
	taskstore "github.com/dalemusser/taskhub/internal/app/store/tasks"
	userstore "github.com/dalemusser/taskhub/internal/app/store/users"
	"github.com/dalemusser/taskhub/internal/app/system/auth"
	"github.com/dalemusser/taskhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/taskhub/internal/app/system/httpjson"
	"github.com/dalemusser/taskhub/internal/app/system/schemas"
	"github.com/dalemusser/taskhub/internal/app/system/timeouts"
	"github.com/dalemusser/taskhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Projects *projectstore.Store
	Members  *memberstore.Store
	Tasks    *taskstore.Store
	Users    *userstore.Store
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Projects: projectstore.New(db),
		Members:  memberstore.New(db),
		Tasks:    taskstore.New(db),
		Users:    userstore.New(db),
		Log:      logger,
	}
}

type createRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type updateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// currentUserID pulls the signed-in user's ObjectID out of the request.
// RequireSignedIn runs before every route here, so a miss means the
// session cookie carried a malformed id.
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

// HandleCreate makes a project and the creator's owner membership. If the
// membership insert fails the project is rolled back, so a project is never
// visible without its owner row.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	raw, err := httpjson.DecodeRaw(r)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := schemas.Validate(schemas.ProjectCreate, raw); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	var req createRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	project, err := h.Projects.Create(ctx, models.Project{
		Name:        htmlsanitize.Plain(req.Name),
		Description: htmlsanitize.Plain(req.Description),
		OwnerID:     userID,
	})
	if err != nil {
		h.Log.Error("create project failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to create project")
		return
	}

	_, err = h.Members.Create(ctx, models.Member{
		UserID:           userID,
		ProjectID:        project.ID,
		Role:             models.RoleOwner,
		InvitationStatus: models.InviteAccepted,
	})
	if err != nil {
		// Roll back the project so no project exists without its owner row.
		if _, delErr := h.Projects.Delete(ctx, project.ID); delErr != nil {
			h.Log.Error("rollback project after member failure", zap.Error(delErr),
				zap.String("project_id", project.ID.Hex()))
		}
		h.Log.Error("create owner membership failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to create project")
		return
	}

	h.Log.Info("project created",
		zap.String("project_id", project.ID.Hex()),
		zap.String("owner_id", userID.Hex()))

	httpjson.Respond(w, http.StatusCreated, map[string]any{
		"message": "project created successfully",
		"project": project,
	})
}

// HandleList returns the caller's projects: those where they hold an
// accepted membership, with the owner's public fields attached.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	memberships, err := h.Members.ListAcceptedByUser(ctx, userID)
	if err != nil {
		h.Log.Error("list memberships failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to load projects")
		return
	}

	projectIDs := make([]primitive.ObjectID, 0, len(memberships))
	for _, m := range memberships {
		projectIDs = append(projectIDs, m.ProjectID)
	}

	list, err := h.Projects.ListByIDs(ctx, projectIDs)
	if err != nil {
		h.Log.Error("list projects failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to load projects")
		return
	}

	ownerIDs := make([]primitive.ObjectID, 0, len(list))
	for _, p := range list {
		ownerIDs = append(ownerIDs, p.OwnerID)
	}
	owners, err := h.Users.PublicByIDs(ctx, ownerIDs)
	if err != nil {
		h.Log.Error("load project owners failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to load projects")
		return
	}

	out := make([]models.ProjectWithOwner, 0, len(list))
	for _, p := range list {
		pwo := models.ProjectWithOwner{Project: p}
		if owner, ok := owners[p.OwnerID]; ok {
			pwo.Owner = &owner
		}
		out = append(out, pwo)
	}

	httpjson.Respond(w, http.StatusOK, map[string]any{"projects": out})
}

// loadOwnedProject fetches the project named in the URL and checks the
// caller owns it. It writes the error response itself on failure.
func (h *Handler) loadOwnedProject(ctx context.Context, w http.ResponseWriter, r *http.Request, userID primitive.ObjectID) (*models.Project, bool) {
	projectID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "projectID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid project id")
		return nil, false
	}

	project, err := h.Projects.GetByID(ctx, projectID)
	switch err {
	case nil:
		// found
	case mongo.ErrNoDocuments:
		httpjson.Error(w, http.StatusNotFound, "project not found")
		return nil, false
	default:
		h.Log.Error("load project failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to load project")
		return nil, false
	}

	if !projectpolicy.IsOwner(project, userID) {
		httpjson.Error(w, http.StatusForbidden, "only the project owner may do this")
		return nil, false
	}
	return project, true
}

// HandleUpdate applies a partial update to an owned project. At least one
// of name/description must be present.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	raw, err := httpjson.DecodeRaw(r)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := schemas.Validate(schemas.ProjectUpdate, raw); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	var req updateRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Name == nil && req.Description == nil {
		httpjson.Error(w, http.StatusBadRequest, "nothing to update")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	project, ok := h.loadOwnedProject(ctx, w, r, userID)
	if !ok {
		return
	}

	upd := projectstore.Update{}
	if req.Name != nil {
		clean := htmlsanitize.Plain(*req.Name)
		upd.Name = &clean
	}
	if req.Description != nil {
		clean := htmlsanitize.Plain(*req.Description)
		upd.Description = &clean
	}

	updated, err := h.Projects.Update(ctx, project.ID, upd)
	if err != nil {
		h.Log.Error("update project failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to update project")
		return
	}

	httpjson.Respond(w, http.StatusOK, map[string]any{
		"message": "project updated successfully",
		"project": updated,
	})
}

// HandleDelete removes an owned project together with its tasks and
// memberships, leaving no orphaned documents behind.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	project, ok := h.loadOwnedProject(ctx, w, r, userID)
	if !ok {
		return
	}

	if _, err := h.Tasks.DeleteByProject(ctx, project.ID); err != nil {
		h.Log.Error("delete project tasks failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to delete project")
		return
	}
	if _, err := h.Members.DeleteByProject(ctx, project.ID); err != nil {
		h.Log.Error("delete project members failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to delete project")
		return
	}
	if _, err := h.Projects.Delete(ctx, project.ID); err != nil {
		h.Log.Error("delete project failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to delete project")
		return
	}

	h.Log.Info("project deleted", zap.String("project_id", project.ID.Hex()))

	httpjson.Respond(w, http.StatusOK, map[string]string{"message": "project deleted successfully"})
}
