package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/RakeshRawat91/StayNest/internal/model"
	"github.com/RakeshRawat91/StayNest/internal/repository"
)

var (
	ErrDuplicateIdentity  = errors.New("username or email already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// AuthService handles registration and credential checks. Plaintext passwords
// are hashed immediately and never stored or logged.
type AuthService struct {
	users repository.UserRepository
}

func NewAuthService(users repository.UserRepository) *AuthService {
	return &AuthService{users: users}
}

func (s *AuthService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("AuthService.Register: hash password: %w", err)
	}

	u := &model.User{
		Username:     strings.TrimSpace(username),
		Email:        strings.TrimSpace(email),
		PasswordHash: string(hash),
	}

	if err := s.users.Create(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateIdentity
		}
		return nil, fmt.Errorf("AuthService.Register: create user: %w", err)
	}
	return u, nil
}

// Authenticate verifies the username/password pair. Unknown users and hash
// mismatches are indistinguishable to the caller.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	u, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("AuthService.Authenticate: lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}
