package memberstore_test

import (
	"testing"

	memberstore "github.com/dalemusser/taskhub/internal/app/store/members"
	"github.com/dalemusser/taskhub/internal/domain/models"
	"github.com/dalemusser/taskhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_Create_PendingByDefault(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Member{
		UserID:    primitive.NewObjectID(),
		ProjectID: primitive.NewObjectID(),
		Role:      models.RoleEditor,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.InvitationStatus != models.InvitePending {
		t.Errorf("InvitationStatus: got %q, want %q", created.InvitationStatus, models.InvitePending)
	}
	if created.JoinedAt != nil {
		t.Error("pending membership should not have joined_at")
	}
}

func TestStore_Create_AcceptedOwnerStampsJoinedAt(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Member{
		UserID:           primitive.NewObjectID(),
		ProjectID:        primitive.NewObjectID(),
		Role:             models.RoleOwner,
		InvitationStatus: models.InviteAccepted,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.JoinedAt == nil {
		t.Error("accepted membership should have joined_at")
	}
}

func TestStore_Create_InvalidRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Create(ctx, models.Member{
		UserID:    primitive.NewObjectID(),
		ProjectID: primitive.NewObjectID(),
		Role:      "superuser",
	})
	if err == nil {
		t.Fatal("expected error for invalid role")
	}
}

func TestStore_Create_DuplicatePair(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	projectID := primitive.NewObjectID()

	first := models.Member{UserID: userID, ProjectID: projectID, Role: models.RoleEditor}
	if _, err := store.Create(ctx, first); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	// Same pair again, even with a different role, must conflict.
	second := models.Member{UserID: userID, ProjectID: projectID, Role: models.RoleViewer}
	if _, err := store.Create(ctx, second); err != memberstore.ErrDuplicateMember {
		t.Errorf("expected ErrDuplicateMember, got %v", err)
	}
}

func TestStore_AcceptPending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Member{
		UserID:    primitive.NewObjectID(),
		ProjectID: primitive.NewObjectID(),
		Role:      models.RoleEditor,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	accepted, err := store.AcceptPending(ctx, created.ID)
	if err != nil {
		t.Fatalf("AcceptPending failed: %v", err)
	}
	if accepted.InvitationStatus != models.InviteAccepted {
		t.Errorf("InvitationStatus: got %q, want %q", accepted.InvitationStatus, models.InviteAccepted)
	}
	if accepted.JoinedAt == nil {
		t.Error("expected joined_at to be stamped")
	}

	// Accepting twice must fail; the first resolution wins.
	if _, err := store.AcceptPending(ctx, created.ID); err != memberstore.ErrNotPending {
		t.Errorf("expected ErrNotPending, got %v", err)
	}
}

func TestStore_AcceptPending_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.AcceptPending(ctx, primitive.NewObjectID()); err != mongo.ErrNoDocuments {
		t.Errorf("expected mongo.ErrNoDocuments, got %v", err)
	}
}

func TestStore_DeclinePending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Member{
		UserID:    primitive.NewObjectID(),
		ProjectID: primitive.NewObjectID(),
		Role:      models.RoleEditor,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	declined, err := store.DeclinePending(ctx, created.ID)
	if err != nil {
		t.Fatalf("DeclinePending failed: %v", err)
	}
	if declined.InvitationStatus != models.InviteDeclined {
		t.Errorf("InvitationStatus: got %q, want %q", declined.InvitationStatus, models.InviteDeclined)
	}
	if declined.JoinedAt != nil {
		t.Error("declined membership should not have joined_at")
	}

	// A declined invitation cannot later be accepted.
	if _, err := store.AcceptPending(ctx, created.ID); err != memberstore.ErrNotPending {
		t.Errorf("expected ErrNotPending, got %v", err)
	}
}

func TestStore_ListAcceptedByUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()

	accepted, err := store.Create(ctx, models.Member{
		UserID:           userID,
		ProjectID:        primitive.NewObjectID(),
		Role:             models.RoleOwner,
		InvitationStatus: models.InviteAccepted,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, models.Member{
		UserID:    userID,
		ProjectID: primitive.NewObjectID(),
		Role:      models.RoleEditor,
	}); err != nil {
		t.Fatalf("Create pending failed: %v", err)
	}
	if _, err := store.Create(ctx, models.Member{
		UserID:           primitive.NewObjectID(),
		ProjectID:        primitive.NewObjectID(),
		Role:             models.RoleOwner,
		InvitationStatus: models.InviteAccepted,
	}); err != nil {
		t.Fatalf("Create other user failed: %v", err)
	}

	got, err := store.ListAcceptedByUser(ctx, userID)
	if err != nil {
		t.Fatalf("ListAcceptedByUser failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 membership, got %d", len(got))
	}
	if got[0].ID != accepted.ID {
		t.Errorf("ID: got %v, want %v", got[0].ID, accepted.ID)
	}
}

func TestStore_DeleteByProject(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	projectID := primitive.NewObjectID()
	for i := 0; i < 3; i++ {
		if _, err := store.Create(ctx, models.Member{
			UserID:    primitive.NewObjectID(),
			ProjectID: projectID,
			Role:      models.RoleEditor,
		}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	survivor, err := store.Create(ctx, models.Member{
		UserID:    primitive.NewObjectID(),
		ProjectID: primitive.NewObjectID(),
		Role:      models.RoleEditor,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	count, err := store.DeleteByProject(ctx, projectID)
	if err != nil {
		t.Fatalf("DeleteByProject failed: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 deleted, got %d", count)
	}

	if _, err := store.GetByID(ctx, survivor.ID); err != nil {
		t.Errorf("unrelated membership should survive: %v", err)
	}
}
