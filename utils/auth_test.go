package utils

import (
	"testing"

	"campus-connect-server/config"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("hash must not equal the plaintext password")
	}

	if !CheckPasswordHash("s3cret-pass", hash) {
		t.Error("correct password rejected")
	}
	if CheckPasswordHash("wrong-pass", hash) {
		t.Error("wrong password accepted")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	config.Load()

	token, err := GenerateToken(42, "admin")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Role != "admin" {
		t.Errorf("Role = %q, want admin", claims.Role)
	}
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	config.Load()

	if _, err := VerifyToken("not.a.token"); err == nil {
		t.Error("garbage token accepted")
	}
	if _, err := VerifyToken(""); err == nil {
		t.Error("empty token accepted")
	}
}

func TestValidateEmail(t *testing.T) {
	valid := []string{"student@campus.edu", "first.last@gmail.com"}
	invalid := []string{"", "not-an-email", "a@", "Name <a@b.com>"}

	for _, email := range valid {
		if !ValidateEmail(email) {
			t.Errorf("ValidateEmail(%q) = false, want true", email)
		}
	}
	for _, email := range invalid {
		if ValidateEmail(email) {
			t.Errorf("ValidateEmail(%q) = true, want false", email)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Student@Campus.EDU "); got != "student@campus.edu" {
		t.Errorf("NormalizeEmail = %q", got)
	}
}
