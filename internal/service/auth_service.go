package service

import (
	"context"
	"errors"
	"fmt"

	"userdir/internal/auth"
	apperrors "userdir/internal/errors"
	"userdir/internal/model"
	"userdir/internal/repository"
)

// AuthService verifies credentials and issues session tokens.
type AuthService interface {
	Login(ctx context.Context, email, secret string) (token string, user *model.User, err error)
}

type authService struct {
	users      repository.UserRepository
	jwtService *auth.JWTService
	hasher     *auth.PasswordHasher
	dummyHash  string
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, jwtService *auth.JWTService, hasher *auth.PasswordHasher) AuthService {
	// Hashing a throwaway secret once gives Login something to compare against
	// when the email is unknown, so response timing does not reveal which
	// emails are registered.
	dummyHash, _ := hasher.Hash("userdir-unknown-identity")
	return &authService{
		users:      users,
		jwtService: jwtService,
		hasher:     hasher,
		dummyHash:  dummyHash,
	}
}

// Login returns a signed token for the identity on success. An unknown email
// and a wrong secret fail identically with ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, email, secret string) (string, *model.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			s.hasher.Verify(secret, s.dummyHash)
			return "", nil, apperrors.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(secret, user.PasswordHash) {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}

	return token, user, nil
}
