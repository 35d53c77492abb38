package services

import (
	"context"
	"testing"

	"github.com/HarshalBhogawade/project-management-backend/apperr"
	"github.com/HarshalBhogawade/project-management-backend/config"
	"github.com/HarshalBhogawade/project-management-backend/models"
	"github.com/HarshalBhogawade/project-management-backend/store"
)

func newUserService() *UserService {
	return NewUserService(
		store.NewMemory([]string{"email"}),
		map[string]bool{"Password1!": true},
	)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a user with a hashed password", func(t *testing.T) {
		s := newUserService()
		user, err := s.Register(ctx, "Ana", "ana@example.com", "Sup3rSecret!", models.RoleUser)
		if err != nil {
			t.Fatalf("register: %v", err)
		}
		if user.Password == "Sup3rSecret!" {
			t.Fatal("password must not be stored in plaintext")
		}
		if user.Role != models.RoleUser {
			t.Fatalf("role = %q", user.Role)
		}
	})

	t.Run("empty role defaults to user", func(t *testing.T) {
		s := newUserService()
		user, err := s.Register(ctx, "Ana", "ana@example.com", "Sup3rSecret!", "")
		if err != nil {
			t.Fatalf("register: %v", err)
		}
		if user.Role != models.RoleUser {
			t.Fatalf("role = %q, want user", user.Role)
		}
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		s := newUserService()
		_, err := s.Register(ctx, "Ana", "ana@example.com", "Sup3rSecret!", "superadmin")
		if apperr.KindOf(err) != apperr.Validation {
			t.Fatalf("expected Validation, got %v", err)
		}
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		s := newUserService()
		if _, err := s.Register(ctx, "Ana", "ana@example.com", "Sup3rSecret!", models.RoleUser); err != nil {
			t.Fatalf("first register: %v", err)
		}
		_, err := s.Register(ctx, "Other", "ana@example.com", "An0therSecret!", models.RoleAdmin)
		if apperr.KindOf(err) != apperr.Conflict {
			t.Fatalf("expected Conflict, got %v", err)
		}
	})
}

func TestValidatePassword(t *testing.T) {
	s := newUserService()

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "Sup3rSecret!", false},
		{"too short", "Ab1!", true},
		{"no uppercase", "sup3rsecret!", true},
		{"no digit", "SuperSecret!", true},
		{"no special character", "Sup3rSecret", true},
		{"blacklisted", "Password1!", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.ValidatePassword(tt.password)
			if tt.wantErr && apperr.KindOf(err) != apperr.Validation {
				t.Fatalf("expected Validation error, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestAuthenticate(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	ctx := context.Background()

	s := newUserService()
	if _, err := s.Register(ctx, "Ana", "ana@example.com", "Sup3rSecret!", models.RoleAdmin); err != nil {
		t.Fatalf("register: %v", err)
	}

	t.Run("valid credentials return a token", func(t *testing.T) {
		user, token, err := s.Authenticate(ctx, "ana@example.com", "Sup3rSecret!")
		if err != nil {
			t.Fatalf("authenticate: %v", err)
		}
		if token == "" {
			t.Fatal("expected a signed token")
		}
		if user.Role != models.RoleAdmin {
			t.Fatalf("role = %q", user.Role)
		}
	})

	t.Run("wrong password is unauthenticated", func(t *testing.T) {
		_, _, err := s.Authenticate(ctx, "ana@example.com", "WrongSecret1!")
		if apperr.KindOf(err) != apperr.Unauthenticated {
			t.Fatalf("expected Unauthenticated, got %v", err)
		}
	})

	t.Run("unknown email is not found", func(t *testing.T) {
		_, _, err := s.Authenticate(ctx, "nobody@example.com", "Sup3rSecret!")
		if apperr.KindOf(err) != apperr.NotFound {
			t.Fatalf("expected NotFound, got %v", err)
		}
	})
}
