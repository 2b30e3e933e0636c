package userstore_test

import (
	"testing"

	userstore "github.com/dalemusser/taskhub/internal/app/store/users"
	"github.com/dalemusser/taskhub/internal/domain/models"
	"github.com/dalemusser/taskhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := models.User{
		FullName:     "  Jane   Doe  ",
		Email:        "Jane@Example.COM",
		PasswordHash: "not-a-real-hash",
	}

	created, err := store.Create(ctx, user)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.FullName != "Jane Doe" {
		t.Errorf("FullName: got %q, want %q", created.FullName, "Jane Doe")
	}
	if created.FullNameCI == "" {
		t.Error("expected FullNameCI to be set")
	}
	if created.Email != "jane@example.com" {
		t.Errorf("Email: got %q, want %q", created.Email, "jane@example.com")
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
	if created.UpdatedAt.IsZero() {
		t.Error("expected UpdatedAt to be set")
	}
}

func TestStore_Create_EmptyName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := models.User{
		FullName: "   ",
		Email:    "blank@example.com",
	}

	if _, err := store.Create(ctx, user); err == nil {
		t.Fatal("expected error for blank name")
	}
}

func TestStore_Create_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user1 := models.User{FullName: "User One", Email: "duplicate@example.com"}
	if _, err := store.Create(ctx, user1); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	// Same address with different case must still conflict.
	user2 := models.User{FullName: "User Two", Email: "Duplicate@Example.com"}
	if _, err := store.Create(ctx, user2); err != userstore.ErrDuplicateEmail {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestStore_GetByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		FullName: "Email Test User",
		Email:    "FindMe@Example.COM",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Search with different case
	found, err := store.GetByEmail(ctx, "findme@example.com")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID: got %v, want %v", found.ID, created.ID)
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.GetByID(ctx, primitive.NewObjectID()); err != mongo.ErrNoDocuments {
		t.Errorf("expected mongo.ErrNoDocuments, got %v", err)
	}
}

func TestStore_LinkGoogle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		FullName: "Google User",
		Email:    "google@example.com",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.LinkGoogle(ctx, created.ID, "goog-123", "access-token", "refresh-token"); err != nil {
		t.Fatalf("LinkGoogle failed: %v", err)
	}

	found, err := store.GetByGoogleID(ctx, "goog-123")
	if err != nil {
		t.Fatalf("GetByGoogleID failed: %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID: got %v, want %v", found.ID, created.ID)
	}
	if found.GoogleRefreshToken != "refresh-token" {
		t.Errorf("GoogleRefreshToken: got %q", found.GoogleRefreshToken)
	}

	// Linking again without a refresh token must keep the stored one.
	if err := store.LinkGoogle(ctx, created.ID, "goog-123", "newer-access", ""); err != nil {
		t.Fatalf("second LinkGoogle failed: %v", err)
	}
	found, err = store.GetByGoogleID(ctx, "goog-123")
	if err != nil {
		t.Fatalf("GetByGoogleID failed: %v", err)
	}
	if found.GoogleRefreshToken != "refresh-token" {
		t.Errorf("refresh token was clobbered: got %q", found.GoogleRefreshToken)
	}
}

func TestStore_PublicByIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u1, err := store.Create(ctx, models.User{FullName: "First User", Email: "first@example.com"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	u2, err := store.Create(ctx, models.User{FullName: "Second User", Email: "second@example.com"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.PublicByIDs(ctx, []primitive.ObjectID{u1.ID, u2.ID, primitive.NewObjectID()})
	if err != nil {
		t.Fatalf("PublicByIDs failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 users, got %d", len(got))
	}
	if got[u1.ID].FullName != "First User" {
		t.Errorf("FullName: got %q", got[u1.ID].FullName)
	}
	if got[u2.ID].Email != "second@example.com" {
		t.Errorf("Email: got %q", got[u2.ID].Email)
	}
}

func TestFetcher_FetchSessionUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fetcher := userstore.NewFetcher(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		FullName: "Session User",
		Email:    "session@example.com",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	su, err := fetcher.FetchSessionUser(ctx, created.ID.Hex())
	if err != nil {
		t.Fatalf("FetchSessionUser failed: %v", err)
	}
	if su.ID != created.ID.Hex() {
		t.Errorf("ID: got %q, want %q", su.ID, created.ID.Hex())
	}
	if su.Name != "Session User" || su.Email != "session@example.com" {
		t.Errorf("unexpected session user: %+v", su)
	}

	if _, err := fetcher.FetchSessionUser(ctx, "not-a-hex-id"); err == nil {
		t.Error("expected error for malformed id")
	}
	if _, err := fetcher.FetchSessionUser(ctx, primitive.NewObjectID().Hex()); err == nil {
		t.Error("expected error for missing user")
	}
}
