package dashboard_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/taskhub/internal/app/features/dashboard"
	"github.com/dalemusser/taskhub/internal/domain/models"
	"github.com/dalemusser/taskhub/internal/testutil"
	"go.uber.org/zap"
)

func TestHandleStats_EmptyProjectSet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := dashboard.NewHandler(db, zap.NewNop())
	h.SetClock(func() time.Time { return statsNow })
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	loner := fixtures.CreateUser(ctx, "Loner", "loner@example.com")

	req := testutil.WithUser(httptest.NewRequest(http.MethodGet, "/dashboard/stats", nil), loner)
	rec := httptest.NewRecorder()
	h.HandleStats(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (body: %s)", rec.Code, rec.Body.String())
	}

	var s dashboard.Stats
	if err := testutil.DecodeJSON(rec, &s); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if s.TotalTasks != 0 || s.CompletionRate != 0 {
		t.Errorf("expected zeroed stats: %+v", s)
	}
	if len(s.YearlyStats) != 0 {
		t.Errorf("yearlyStats: got %d entries, want 0", len(s.YearlyStats))
	}
	if s.CurrentYear != statsNow.Year() {
		t.Errorf("currentYear: got %d", s.CurrentYear)
	}
}

func TestHandleStats_AggregatesAcceptedProjectsOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := dashboard.NewHandler(db, zap.NewNop())
	h.SetClock(func() time.Time { return statsNow })
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	caller := fixtures.CreateUser(ctx, "Caller", "caller@example.com")
	other := fixtures.CreateUser(ctx, "Other", "other@example.com")

	mine := fixtures.CreateProject(ctx, "Mine", caller.ID)
	fixtures.CreateTask(ctx, mine.ID, "a", models.StatusDone, models.PriorityLow)
	fixtures.CreateTask(ctx, mine.ID, "b", models.StatusTodo, models.PriorityUrgent)

	theirs := fixtures.CreateProject(ctx, "Theirs", other.ID)
	fixtures.CreateTask(ctx, theirs.ID, "hidden", models.StatusTodo, models.PriorityHigh)

	req := testutil.WithUser(httptest.NewRequest(http.MethodGet, "/dashboard/stats", nil), caller)
	rec := httptest.NewRecorder()
	h.HandleStats(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (body: %s)", rec.Code, rec.Body.String())
	}

	var s dashboard.Stats
	if err := testutil.DecodeJSON(rec, &s); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if s.TotalTasks != 2 {
		t.Errorf("totalTasks: got %d, want 2", s.TotalTasks)
	}
	if s.CompletedTasks != 1 {
		t.Errorf("completedTasks: got %d, want 1", s.CompletedTasks)
	}
	if s.CompletionRate != 50 {
		t.Errorf("completionRate: got %d, want 50", s.CompletionRate)
	}
	if s.PriorityBreakdown.Urgent != 1 || s.PriorityBreakdown.High != 0 {
		t.Errorf("priorityBreakdown: %+v", s.PriorityBreakdown)
	}
}
