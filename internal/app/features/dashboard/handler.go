// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"net/http"
	"time"

	memberstore "github.com/dalemusser/taskhub/internal/app/store/members"
	taskstore "github.com/dalemusser/taskhub/internal/app/store/tasks"
	"github.com/dalemusser/taskhub/internal/app/system/auth"
	"github.com/dalemusser/taskhub/internal/app/system/httpjson"
	"github.com/dalemusser/taskhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Members *memberstore.Store
	Tasks   *taskstore.Store
	Log     *zap.Logger

	// now is swappable so tests can pin the clock.
	now func() time.Time
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Members: memberstore.New(db),
		Tasks:   taskstore.New(db),
		Log:     logger,
		now:     time.Now,
	}
}

// SetClock overrides the handler's clock. For tests.
func (h *Handler) SetClock(now func() time.Time) { h.now = now }

// HandleStats aggregates every task across the caller's accepted projects.
// Callers with no projects get the zeroed shape without touching the tasks
// collection.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	userID, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	memberships, err := h.Members.ListAcceptedByUser(ctx, userID)
	if err != nil {
		h.Log.Error("list memberships failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to load dashboard stats")
		return
	}

	if len(memberships) == 0 {
		httpjson.Respond(w, http.StatusOK, EmptyStats(h.now()))
		return
	}

	projectIDs := make([]primitive.ObjectID, 0, len(memberships))
	for _, m := range memberships {
		projectIDs = append(projectIDs, m.ProjectID)
	}

	tasks, err := h.Tasks.ListByProjects(ctx, projectIDs)
	if err != nil {
		h.Log.Error("load tasks for dashboard failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to load dashboard stats")
		return
	}

	httpjson.Respond(w, http.StatusOK, ComputeStats(tasks, h.now()))
}
