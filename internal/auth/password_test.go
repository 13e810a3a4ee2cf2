package auth

import (
	"errors"
	"testing"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("review-queue-42")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !VerifyPassword("review-queue-42", hash) {
		t.Fatal("hashed password must verify")
	}
	if VerifyPassword("review-queue-43", hash) {
		t.Fatal("wrong password must not verify")
	}
}

func TestHashPasswordRejectsBlank(t *testing.T) {
	t.Parallel()

	if _, err := HashPassword("   "); !errors.Is(err, ErrBlankPassword) {
		t.Fatalf("expected ErrBlankPassword, got %v", err)
	}
}

func TestVerifyPasswordRejectsBlankInputs(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("secret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if VerifyPassword("", hash) {
		t.Fatal("blank password must not verify")
	}
	if VerifyPassword("secret", "") {
		t.Fatal("blank hash must not verify")
	}
}

func TestNormalizeUsername(t *testing.T) {
	t.Parallel()

	if got := NormalizeUsername("  Admin "); got != "admin" {
		t.Fatalf("NormalizeUsername = %q, want %q", got, "admin")
	}
}
