// internal/app/features/tasks/handler.go
package tasks

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/dalemusser/taskhub/internal/app/policy/projectpolicy"
	memberstore "github.com/dalemusser/taskhub/internal/app/store/members"
	taskstore "github.com/dalemusser/taskhub/internal/app/store/tasks"
	"github.com/dalemusser/taskhub/internal/app/system/auth"
	"github.com/dalemusser/taskhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/taskhub/internal/app/system/httpjson"
	"github.com/dalemusser/taskhub/internal/app/system/paging"
	"github.com/dalemusser/taskhub/internal/app/system/schemas"
	"github.com/dalemusser/taskhub/internal/app/system/timeouts"
	"github.com/dalemusser/taskhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Tasks   *taskstore.Store
	Members *memberstore.Store
	Log     *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Tasks:   taskstore.New(db),
		Members: memberstore.New(db),
		Log:     logger,
	}
}

type createRequest struct {
	ProjectID   string   `json:"projectId"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Priority    string   `json:"priority"`
	DueDate     string   `json:"dueDate"`
	AssignedTo  []string `json:"assignedTo"`
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

// requireTaskAccess checks the caller holds an accepted membership on the
// project. It writes the error response itself on failure.
func (h *Handler) requireTaskAccess(ctx context.Context, w http.ResponseWriter, userID, projectID primitive.ObjectID) bool {
	member, err := h.Members.GetByUserAndProject(ctx, userID, projectID)
	if err != nil && err != mongo.ErrNoDocuments {
		h.Log.Error("load membership failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to check project access")
		return false
	}
	if !projectpolicy.HasTaskAccess(member) {
		httpjson.Error(w, http.StatusForbidden, "you do not have access to this project")
		return false
	}
	return true
}

// parseDueDate accepts RFC 3339 timestamps and bare dates.
func parseDueDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// HandleCreate adds a task to a project the caller is an accepted member
// of, optionally recording assignees.
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
	if err := schemas.Validate(schemas.TaskCreate, raw); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	var req createRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	projectID, err := primitive.ObjectIDFromHex(req.ProjectID)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid project id")
		return
	}
	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid due date")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if !h.requireTaskAccess(ctx, w, userID, projectID) {
		return
	}

	task, err := h.Tasks.Create(ctx, models.Task{
		ProjectID:   projectID,
		Title:       htmlsanitize.Plain(req.Title),
		Description: htmlsanitize.Plain(req.Description),
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     dueDate,
	})
	if err != nil {
		h.Log.Error("create task failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to create task")
		return
	}

	for _, hexID := range req.AssignedTo {
		assigneeID, err := primitive.ObjectIDFromHex(hexID)
		if err != nil {
			continue
		}
		if err := h.Tasks.Assign(ctx, task.ID, assigneeID); err != nil {
			h.Log.Warn("assign task failed", zap.Error(err),
				zap.String("task_id", task.ID.Hex()))
		}
	}

	h.Log.Info("task created",
		zap.String("task_id", task.ID.Hex()),
		zap.String("project_id", projectID.Hex()))

	httpjson.Respond(w, http.StatusCreated, map[string]any{
		"message": "task created successfully",
		"task":    task,
	})
}

// HandleList pages through tasks across every project the caller is an
// accepted member of. Status and priority filters narrow both the rows
// and the total the pagination metadata reports.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	params := paging.Parse(r)
	status := query.Get(r, "status")
	priority := query.Get(r, "priority")
	if status != "" && !models.IsValidStatus(status) {
		httpjson.Error(w, http.StatusBadRequest, "invalid status filter")
		return
	}
	if priority != "" && !models.IsValidPriority(priority) {
		httpjson.Error(w, http.StatusBadRequest, "invalid priority filter")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	memberships, err := h.Members.ListAcceptedByUser(ctx, userID)
	if err != nil {
		h.Log.Error("list memberships failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to load tasks")
		return
	}
	projectIDs := make([]primitive.ObjectID, 0, len(memberships))
	for _, m := range memberships {
		projectIDs = append(projectIDs, m.ProjectID)
	}

	filter := taskstore.Filter{ProjectIDs: projectIDs, Status: status, Priority: priority}

	total, err := h.Tasks.Count(ctx, filter)
	if err != nil {
		h.Log.Error("count tasks failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to load tasks")
		return
	}
	list, err := h.Tasks.ListPage(ctx, filter, params)
	if err != nil {
		h.Log.Error("list tasks failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to load tasks")
		return
	}

	httpjson.Respond(w, http.StatusOK, map[string]any{
		"tasks":      list,
		"pagination": paging.NewMeta(params, total),
	})
}

// HandleDelete removes a task after verifying the caller's membership on
// its project.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	taskID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "taskID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid task id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	task, err := h.Tasks.GetByID(ctx, taskID)
	switch err {
	case nil:
		// found
	case mongo.ErrNoDocuments:
		httpjson.Error(w, http.StatusNotFound, "task not found")
		return
	default:
		h.Log.Error("load task failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to delete task")
		return
	}

	if !h.requireTaskAccess(ctx, w, userID, task.ProjectID) {
		return
	}

	if _, err := h.Tasks.Delete(ctx, taskID); err != nil {
		h.Log.Error("delete task failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to delete task")
		return
	}

	h.Log.Info("task deleted", zap.String("task_id", taskID.Hex()))

	httpjson.Respond(w, http.StatusOK, map[string]string{"message": "task deleted successfully"})
}
