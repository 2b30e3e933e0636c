package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/taskhub/internal/app/system/normalize"
	"github.com/dalemusser/taskhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a user with the given name and email. The password
// hash is a placeholder; use authutil.HashPassword in tests that sign in.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		FullName:     fullName,
		FullNameCI:   text.Fold(fullName),
		Email:        normalize.Email(email),
		PasswordHash: "test-hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("fixture CreateUser: %v", err)
	}
	return u
}

// CreateProject inserts a project owned by ownerID, plus the owner's
// accepted membership, mirroring what project creation does.
func (f *Fixtures) CreateProject(ctx context.Context, name string, ownerID primitive.ObjectID) models.Project {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Project{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("projects").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("fixture CreateProject: %v", err)
	}
	f.CreateMember(ctx, ownerID, p.ID, models.RoleOwner, models.InviteAccepted)
	return p
}

// CreateMember inserts a membership with the given role and status.
func (f *Fixtures) CreateMember(ctx context.Context, userID, projectID primitive.ObjectID, role, status string) models.Member {
	f.t.Helper()

	now := time.Now().UTC()
	m := models.Member{
		ID:               primitive.NewObjectID(),
		UserID:           userID,
		ProjectID:        projectID,
		Role:             role,
		InvitationStatus: status,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if status == models.InviteAccepted {
		m.JoinedAt = &now
	}
	if _, err := f.db.Collection("members").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("fixture CreateMember: %v", err)
	}
	return m
}

// CreateTask inserts a task in the given project.
func (f *Fixtures) CreateTask(ctx context.Context, projectID primitive.ObjectID, title, status, priority string) models.Task {
	f.t.Helper()

	now := time.Now().UTC()
	task := models.Task{
		ID:        primitive.NewObjectID(),
		ProjectID: projectID,
		Title:     title,
		Status:    status,
		Priority:  priority,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("tasks").InsertOne(ctx, task); err != nil {
		f.t.Fatalf("fixture CreateTask: %v", err)
	}
	return task
}
