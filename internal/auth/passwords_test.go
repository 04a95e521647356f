package auth

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$") {
		t.Fatalf("unexpected hash format: %s", hash)
	}

	ok, err := VerifyPassword(hash, "correct horse battery staple")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Fatal("expected password to verify")
	}

	ok, err = VerifyPassword(hash, "wrong password")
	if err != nil {
		t.Fatalf("verify wrong: %v", err)
	}
	if ok {
		t.Fatal("expected wrong password to fail")
	}
}

func TestVerifyPasswordRejectsForeignHash(t *testing.T) {
	// pbkdf2-style hash from the legacy backend must error, not panic.
	_, err := VerifyPassword("$pbkdf2-sha256$29000$abc$def", "whatever")
	if err == nil {
		t.Fatal("expected error for foreign hash scheme")
	}
}

func TestHashesAreSalted(t *testing.T) {
	h1, err := HashPassword("same password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	h2, err := HashPassword("same password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if h1 == h2 {
		t.Fatal("two hashes of the same password should differ")
	}
}
