package service

import (
	"context"
	"fmt"

	"userdir/internal/auth"
	"userdir/internal/model"
	"userdir/internal/repository"
)

// UserService exposes directory operations.
type UserService interface {
	CreateUser(ctx context.Context, name, email, secret string) (*model.User, error)
	GetUser(ctx context.Context, id uint) (*model.User, error)
	ListUsers(ctx context.Context, query string, offset, limit int) ([]model.User, error)
	UpdateUser(ctx context.Context, id uint, name, email *string) (*model.User, error)
	DeleteUser(ctx context.Context, id uint) (*model.User, error)
}

type userService struct {
	repo         repository.UserRepository
	hasher       *auth.PasswordHasher
	defaultLimit int
	maxLimit     int
}

// NewUserService builds a UserService. defaultLimit applies when a list call
// names no page size; maxLimit caps whatever the caller asks for. Limits that
// cannot bound a page are a configuration error; callers treat it as fatal at
// startup rather than as a per-request condition.
func NewUserService(repo repository.UserRepository, hasher *auth.PasswordHasher, defaultLimit, maxLimit int) (UserService, error) {
	if defaultLimit < 1 {
		return nil, fmt.Errorf("default list limit must be positive, got %d", defaultLimit)
	}
	if maxLimit < defaultLimit {
		return nil, fmt.Errorf("max list limit %d is below the default %d", maxLimit, defaultLimit)
	}
	return &userService{
		repo:         repo,
		hasher:       hasher,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}, nil
}

// CreateUser hashes the secret and inserts the record. Email uniqueness is
// enforced by the store, not re-checked here first; a conflict surfaces as
// ErrEmailTaken with nothing written.
func (s *userService) CreateUser(ctx context.Context, name, email, secret string) (*model.User, error) {
	hash, err := s.hasher.Hash(secret)
	if err != nil {
		return nil, fmt.Errorf("hash secret: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	return s.repo.FindByID(ctx, id)
}

// ListUsers pages through records in insertion order, optionally narrowed by
// a case-insensitive name filter. The limit is silently clamped to the
// configured maximum regardless of what the caller requested.
func (s *userService) ListUsers(ctx context.Context, query string, offset, limit int) ([]model.User, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}

	users, err := s.repo.List(ctx, query, offset, limit)
	if err != nil {
		return nil, err
	}
	if users == nil {
		// An empty page serializes as [], not null.
		users = []model.User{}
	}
	return users, nil
}

// UpdateUser applies a partial update: nil fields keep their stored value. An
// email change re-enters the uniqueness gate at the store.
func (s *userService) UpdateUser(ctx context.Context, id uint, name, email *string) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name != nil {
		user.Name = *name
	}
	if email != nil {
		user.Email = *email
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes the record and returns its last state. Deleting an id
// that never existed, or was already deleted, reports ErrUserNotFound.
func (s *userService) DeleteUser(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}
	return user, nil
}
