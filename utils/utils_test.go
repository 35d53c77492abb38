package utils

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HarshalBhogawade/project-management-backend/config"
)

func TestTokenRoundTrip(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	id := primitive.NewObjectID().Hex()

	token, err := GenerateToken(id, "admin")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.ID != id || claims.Role != "admin" {
		t.Fatalf("claims = %+v", claims)
	}
	if claims.ExpiresAt == nil {
		t.Fatal("token should carry an expiry")
	}

	if _, err := ValidateToken(token + "tampered"); err == nil {
		t.Fatal("tampered token should be rejected")
	}

	config.AppConfig.JWTSecret = "other-secret"
	if _, err := ValidateToken(token); err == nil {
		t.Fatal("token signed with another secret should be rejected")
	}
	config.AppConfig.JWTSecret = "test-secret"
}

func TestPasswordHashing(t *testing.T) {
	hashed, err := HashPassword("Sup3rSecret!")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hashed == "Sup3rSecret!" {
		t.Fatal("hash must differ from the plaintext")
	}
	if !CheckPassword(hashed, "Sup3rSecret!") {
		t.Fatal("correct password should verify")
	}
	if CheckPassword(hashed, "WrongSecret1!") {
		t.Fatal("wrong password should not verify")
	}
}
