package taskstore_test

import (
	"testing"

	taskstore "github.com/dalemusser/taskhub/internal/app/store/tasks"
	"github.com/dalemusser/taskhub/internal/app/system/paging"
	"github.com/dalemusser/taskhub/internal/domain/models"
	"github.com/dalemusser/taskhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func seedTasks(t *testing.T, store *taskstore.Store, projectID primitive.ObjectID, n int, status, priority string) []models.Task {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	out := make([]models.Task, 0, n)
	for i := 0; i < n; i++ {
		task, err := store.Create(ctx, models.Task{
			ProjectID: projectID,
			Title:     "Task",
			Status:    status,
			Priority:  priority,
		})
		if err != nil {
			t.Fatalf("seed Create failed: %v", err)
		}
		out = append(out, task)
	}
	return out
}

func TestStore_Create_Defaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := taskstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Task{
		ProjectID: primitive.NewObjectID(),
		Title:     "  Write release notes  ",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.Title != "Write release notes" {
		t.Errorf("Title: got %q", created.Title)
	}
	if created.Status != models.StatusTodo {
		t.Errorf("Status: got %q, want %q", created.Status, models.StatusTodo)
	}
	if created.Priority != models.PriorityMedium {
		t.Errorf("Priority: got %q, want %q", created.Priority, models.PriorityMedium)
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestStore_Create_Invalid(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := taskstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tests := []struct {
		name string
		task models.Task
	}{
		{"blank title", models.Task{ProjectID: primitive.NewObjectID(), Title: "   "}},
		{"bad status", models.Task{ProjectID: primitive.NewObjectID(), Title: "t", Status: "archived"}},
		{"bad priority", models.Task{ProjectID: primitive.NewObjectID(), Title: "t", Priority: "critical"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := store.Create(ctx, tt.task); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestStore_CountAndListPage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := taskstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	projectID := primitive.NewObjectID()
	seedTasks(t, store, projectID, 7, models.StatusTodo, models.PriorityLow)
	seedTasks(t, store, projectID, 3, models.StatusDone, models.PriorityHigh)
	seedTasks(t, store, primitive.NewObjectID(), 5, models.StatusTodo, models.PriorityLow)

	filter := taskstore.Filter{ProjectIDs: []primitive.ObjectID{projectID}}

	total, err := store.Count(ctx, filter)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if total != 10 {
		t.Errorf("Count: got %d, want 10", total)
	}

	page1, err := store.ListPage(ctx, filter, paging.Params{Page: 1, Limit: 8})
	if err != nil {
		t.Fatalf("ListPage failed: %v", err)
	}
	if len(page1) != 8 {
		t.Errorf("page 1: got %d tasks, want 8", len(page1))
	}

	page2, err := store.ListPage(ctx, filter, paging.Params{Page: 2, Limit: 8})
	if err != nil {
		t.Fatalf("ListPage failed: %v", err)
	}
	if len(page2) != 2 {
		t.Errorf("page 2: got %d tasks, want 2", len(page2))
	}

	// Newest first across the page boundary.
	if len(page1) > 0 && len(page2) > 0 {
		if page2[0].CreatedAt.After(page1[len(page1)-1].CreatedAt) {
			t.Error("expected page 2 tasks to be older than page 1")
		}
	}
}

func TestStore_Count_Filters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := taskstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	projectID := primitive.NewObjectID()
	seedTasks(t, store, projectID, 4, models.StatusTodo, models.PriorityLow)
	seedTasks(t, store, projectID, 2, models.StatusDone, models.PriorityHigh)

	tests := []struct {
		name   string
		filter taskstore.Filter
		want   int64
	}{
		{"by status", taskstore.Filter{ProjectIDs: []primitive.ObjectID{projectID}, Status: models.StatusDone}, 2},
		{"by priority", taskstore.Filter{ProjectIDs: []primitive.ObjectID{projectID}, Priority: models.PriorityLow}, 4},
		{"both", taskstore.Filter{ProjectIDs: []primitive.ObjectID{projectID}, Status: models.StatusTodo, Priority: models.PriorityHigh}, 0},
		{"no projects", taskstore.Filter{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.Count(ctx, tt.filter)
			if err != nil {
				t.Fatalf("Count failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Count: got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStore_Assign_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := taskstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	task, err := store.Create(ctx, models.Task{ProjectID: primitive.NewObjectID(), Title: "assigned"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	userID := primitive.NewObjectID()

	if err := store.Assign(ctx, task.ID, userID); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	if err := store.Assign(ctx, task.ID, userID); err != nil {
		t.Fatalf("second Assign failed: %v", err)
	}

	count, err := db.Collection("task_users").CountDocuments(ctx, map[string]any{"task_id": task.ID})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 assignment, got %d", count)
	}
}

func TestStore_Delete_RemovesAssignments(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := taskstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	task, err := store.Create(ctx, models.Task{ProjectID: primitive.NewObjectID(), Title: "doomed"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.Assign(ctx, task.ID, primitive.NewObjectID()); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}

	count, err := store.Delete(ctx, task.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 deleted, got %d", count)
	}

	if _, err := store.GetByID(ctx, task.ID); err != mongo.ErrNoDocuments {
		t.Errorf("expected mongo.ErrNoDocuments, got %v", err)
	}
	left, err := db.Collection("task_users").CountDocuments(ctx, map[string]any{"task_id": task.ID})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if left != 0 {
		t.Errorf("expected assignments to be removed, %d left", left)
	}
}

func TestStore_DeleteByProject(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := taskstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	projectID := primitive.NewObjectID()
	tasks := seedTasks(t, store, projectID, 3, models.StatusTodo, models.PriorityLow)
	if err := store.Assign(ctx, tasks[0].ID, primitive.NewObjectID()); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	survivor := seedTasks(t, store, primitive.NewObjectID(), 1, models.StatusTodo, models.PriorityLow)[0]

	count, err := store.DeleteByProject(ctx, projectID)
	if err != nil {
		t.Fatalf("DeleteByProject failed: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 deleted, got %d", count)
	}

	if _, err := store.GetByID(ctx, survivor.ID); err != nil {
		t.Errorf("unrelated task should survive: %v", err)
	}
}

func TestStore_ListByProjects(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := taskstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p1 := primitive.NewObjectID()
	p2 := primitive.NewObjectID()
	seedTasks(t, store, p1, 2, models.StatusTodo, models.PriorityLow)
	seedTasks(t, store, p2, 3, models.StatusDone, models.PriorityHigh)
	seedTasks(t, store, primitive.NewObjectID(), 1, models.StatusTodo, models.PriorityLow)

	got, err := store.ListByProjects(ctx, []primitive.ObjectID{p1, p2})
	if err != nil {
		t.Fatalf("ListByProjects failed: %v", err)
	}
	if len(got) != 5 {
		t.Errorf("expected 5 tasks, got %d", len(got))
	}

	empty, err := store.ListByProjects(ctx, nil)
	if err != nil {
		t.Fatalf("ListByProjects(nil) failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected empty list, got %d", len(empty))
	}
}
