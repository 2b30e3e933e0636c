package authutil_test

import (
	"testing"

	"github.com/dalemusser/taskhub/internal/app/system/authutil"
)

func TestHashPassword_NeverStoresPlaintext(t *testing.T) {
	hash, err := authutil.HashPassword("hunter22")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "hunter22" {
		t.Error("hash equals plaintext")
	}
	if hash == "" {
		t.Error("hash is empty")
	}
}

func TestCheckPassword(t *testing.T) {
	hash, err := authutil.HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	tests := []struct {
		name  string
		hash  string
		plain string
		want  bool
	}{
		{"matching password", hash, "correct horse", true},
		{"wrong password", hash, "battery staple", false},
		{"blank hash never matches", "", "anything", false},
		// The hash goes first. Passing the plaintext in the hash slot
		// must fail, not silently verify.
		{"swapped arguments never match", "correct horse", hash, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := authutil.CheckPassword(tt.hash, tt.plain); got != tt.want {
				t.Errorf("CheckPassword: got %v, want %v", got, tt.want)
			}
		})
	}
}
