package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestGenerateAndParseJWT(t *testing.T) {
	userID := uuid.New()
	secret := "test-secret"

	token, err := GenerateJWT(secret, userID, "user@example.com", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}

	claims, err := ParseJWT(secret, token)
	if err != nil {
		t.Fatalf("ParseJWT failed: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("UserID = %v, want %v", claims.UserID, userID)
	}
	if claims.Email != "user@example.com" {
		t.Errorf("Email = %q, want user@example.com", claims.Email)
	}
	if claims.Issuer != "bruteosaur" {
		t.Errorf("Issuer = %q, want bruteosaur", claims.Issuer)
	}
}

func TestParseJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT("right-secret", uuid.New(), "user@example.com", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ParseJWT("wrong-secret", token); err == nil {
		t.Error("expected error parsing with the wrong secret")
	}
}

func TestGenerateJWTDefaultExpiration(t *testing.T) {
	// Non-positive expiration falls back to 7 days.
	token, err := GenerateJWT("secret", uuid.New(), "user@example.com", 0)
	if err != nil {
		t.Fatal(err)
	}

	claims, err := ParseJWT("secret", token)
	if err != nil {
		t.Fatal(err)
	}
	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining < 167*time.Hour || remaining > 169*time.Hour {
		t.Errorf("token lifetime = %v, want about 168h", remaining)
	}
}

func TestParseJWTGarbage(t *testing.T) {
	if _, err := ParseJWT("secret", "not.a.token"); err == nil {
		t.Error("expected error parsing garbage")
	}
}
