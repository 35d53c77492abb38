package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HarshalBhogawade/project-management-backend/apperr"
	"github.com/HarshalBhogawade/project-management-backend/models"
	"github.com/HarshalBhogawade/project-management-backend/store"
	"github.com/HarshalBhogawade/project-management-backend/utils"
)

// UserService handles signup and signin: credential hashing, the unique
// email constraint and token issuance.
type UserService struct {
	Users     store.Collection
	BlackList map[string]bool
}

func NewUserService(users store.Collection, blackList map[string]bool) *UserService {
	return &UserService{Users: users, BlackList: blackList}
}

// Register creates a new user with a hashed password. An empty role
// defaults to "user".
func (s *UserService) Register(ctx context.Context, name, email, password string, role models.Role) (*models.User, error) {
	if role == "" {
		role = models.RoleUser
	}
	if !role.IsValid() {
		return nil, apperr.New(apperr.Validation, "role must be one of: user admin")
	}
	if err := s.ValidatePassword(password); err != nil {
		return nil, err
	}

	// Pre-check for a friendlier error; the unique index on email is the
	// authoritative guard against concurrent signups.
	var existing models.User
	err := s.Users.FindOne(ctx, bson.M{"email": email}, &existing)
	if err == nil {
		return nil, apperr.New(apperr.Conflict, "user with this email already exists")
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, apperr.Wrap(apperr.Internal, "failed to check existing user", err)
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to hash password", err)
	}

	user := &models.User{
		ID:       primitive.NewObjectID(),
		Name:     html.EscapeString(name),
		Email:    email,
		Password: hashed,
		Role:     role,
	}

	if _, err := s.Users.InsertOne(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, apperr.New(apperr.Conflict, "user with this email already exists")
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to save user", err)
	}
	return user, nil
}

// Authenticate verifies credentials and returns the user with a signed
// bearer token carrying id and role.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, string, error) {
	var user models.User
	if err := s.Users.FindOne(ctx, bson.M{"email": email}, &user); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", apperr.New(apperr.NotFound, "no account with this email")
		}
		return nil, "", apperr.Wrap(apperr.Internal, "failed to look up user", err)
	}

	if !utils.CheckPassword(user.Password, password) {
		return nil, "", apperr.New(apperr.Unauthenticated, "invalid password")
	}

	token, err := utils.GenerateToken(user.ID.Hex(), string(user.Role))
	if err != nil {
		return nil, "", apperr.Wrap(apperr.Internal, "failed to issue token", err)
	}
	return &user, token, nil
}

// ValidatePassword enforces the password policy: minimum length, an
// uppercase letter, a digit, a special character and not on the blacklist
// of common passwords.
func (s *UserService) ValidatePassword(password string) error {
	if len(password) < 8 {
		return apperr.New(apperr.Validation, "password must be at least 8 characters long")
	}

	hasUppercase := false
	hasDigit := false
	for _, char := range password {
		if char >= 'A' && char <= 'Z' {
			hasUppercase = true
		}
		if char >= '0' && char <= '9' {
			hasDigit = true
		}
	}
	if !hasUppercase {
		return apperr.New(apperr.Validation, "password must contain at least one uppercase letter")
	}
	if !hasDigit {
		return apperr.New(apperr.Validation, "password must contain at least one number")
	}

	hasSpecial := false
	for _, char := range password {
		if strings.ContainsRune("!@#$%^&*.,", char) {
			hasSpecial = true
			break
		}
	}
	if !hasSpecial {
		return apperr.New(apperr.Validation, fmt.Sprintf("password must contain at least one special character (%s)", "!@#$%^&*.,"))
	}

	if s.BlackList[password] {
		return apperr.New(apperr.Validation, "password is too common, please choose a stronger one")
	}
	return nil
}
