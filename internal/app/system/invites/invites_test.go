package invites_test

import (
	"testing"
	"time"

	"github.com/dalemusser/taskhub/internal/app/system/invites"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testKey = "invite-signing-key-for-tests-32ch"

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	tokens, err := invites.New(testKey, time.Hour)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	memberID := primitive.NewObjectID()
	token, err := tokens.Issue(memberID)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	got, err := tokens.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if got != memberID {
		t.Errorf("member id: got %s, want %s", got.Hex(), memberID.Hex())
	}
}

func TestVerify_GarbageToken(t *testing.T) {
	tokens, err := invites.New(testKey, time.Hour)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := tokens.Verify("not-a-real-token"); err != invites.ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerify_WrongKey(t *testing.T) {
	issuer, err := invites.New(testKey, time.Hour)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	verifier, err := invites.New("a-completely-different-signing-key", time.Hour)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	token, err := issuer.Issue(primitive.NewObjectID())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if _, err := verifier.Verify(token); err != invites.ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken for cross-key token, got %v", err)
	}
}

func TestNew_EmptyKey(t *testing.T) {
	if _, err := invites.New("", time.Hour); err == nil {
		t.Fatal("expected error for empty signing key")
	}
}
