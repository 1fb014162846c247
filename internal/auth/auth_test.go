package auth_test

import (
	"testing"

	"github.com/KnightCoder27/Skael/internal/auth"
)

// ── Password hashing ───────────────────────────────────────────────────────

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := auth.HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword returned unexpected error: %v", err)
	}
	if hash == "s3cret" {
		t.Error("hash must not equal the plaintext")
	}
	if !auth.CheckPassword(hash, "s3cret") {
		t.Error("CheckPassword should accept the original password")
	}
	if auth.CheckPassword(hash, "wrong") {
		t.Error("CheckPassword should reject a wrong password")
	}
}

// ── Token issue / verify ───────────────────────────────────────────────────

func TestIssueAndVerifyToken(t *testing.T) {
	m := auth.NewManager("test-secret")

	token, err := m.IssueToken(42, "dev@example.com")
	if err != nil {
		t.Fatalf("IssueToken returned unexpected error: %v", err)
	}

	claims, err := m.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken returned unexpected error: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Email != "dev@example.com" {
		t.Errorf("Email = %q, want dev@example.com", claims.Email)
	}
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	token, err := auth.NewManager("secret-a").IssueToken(1, "a@example.com")
	if err != nil {
		t.Fatalf("IssueToken returned unexpected error: %v", err)
	}

	if _, err := auth.NewManager("secret-b").VerifyToken(token); err == nil {
		t.Error("VerifyToken should reject a token signed with another secret")
	}
}

func TestVerifyToken_Garbage(t *testing.T) {
	if _, err := auth.NewManager("secret").VerifyToken("not.a.token"); err == nil {
		t.Error("VerifyToken should reject a malformed token")
	}
}
