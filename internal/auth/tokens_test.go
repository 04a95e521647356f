package auth

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := &TokenIssuer{
		Secret: []byte("test-secret-at-least-32-bytes-long!!"),
		TTL:    30 * time.Minute,
	}

	token, err := issuer.Issue("user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	userID, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if userID != "user-1" {
		t.Fatalf("unexpected subject: %s", userID)
	}
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	issuer := &TokenIssuer{Secret: []byte("secret-one-is-quite-long-enough!"), TTL: time.Hour}
	other := &TokenIssuer{Secret: []byte("secret-two-is-quite-long-enough!"), TTL: time.Hour}

	token, err := issuer.Issue("user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := other.Parse(token); err == nil {
		t.Fatal("expected parse to fail with wrong secret")
	}
}

func TestTokenRejectsExpired(t *testing.T) {
	past := time.Now().Add(-2 * time.Hour)
	issuer := &TokenIssuer{
		Secret: []byte("test-secret-at-least-32-bytes-long!!"),
		TTL:    time.Hour,
		Now:    func() time.Time { return past },
	}

	token, err := issuer.Issue("user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := issuer.Parse(token); err == nil {
		t.Fatal("expected expired token to fail")
	}
}

func TestTokenRejectsGarbage(t *testing.T) {
	issuer := &TokenIssuer{Secret: []byte("test-secret-at-least-32-bytes-long!!"), TTL: time.Hour}
	if _, err := issuer.Parse("not-a-jwt"); err == nil {
		t.Fatal("expected parse to fail")
	}
}
