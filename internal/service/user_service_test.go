package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"userdir/internal/auth"
	apperrors "userdir/internal/errors"
	"userdir/internal/model"
	"userdir/internal/repository"
)

func newTestUserService(t *testing.T, repo repository.UserRepository, defaultLimit, maxLimit int) UserService {
	t.Helper()
	service, err := NewUserService(repo, auth.NewPasswordHasher(), defaultLimit, maxLimit)
	assert.NoError(t, err)
	return service
}

func TestNewUserService(t *testing.T) {
	tests := []struct {
		name         string
		defaultLimit int
		maxLimit     int
		wantErr      bool
	}{
		{name: "valid limits", defaultLimit: 20, maxLimit: 100, wantErr: false},
		{name: "default equal to max", defaultLimit: 100, maxLimit: 100, wantErr: false},
		{name: "zero default", defaultLimit: 0, maxLimit: 100, wantErr: true},
		{name: "negative max", defaultLimit: 20, maxLimit: -1, wantErr: true},
		{name: "max below default", defaultLimit: 50, maxLimit: 10, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, err := NewUserService(new(MockUserRepository), auth.NewPasswordHasher(), tt.defaultLimit, tt.maxLimit)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, service)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, service)
			}
		})
	}
}

func TestUserService_CreateUser(t *testing.T) {
	tests := []struct {
		name          string
		userName      string
		email         string
		secret        string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful create",
			userName: "Alice Example",
			email:    "alice@example.com",
			secret:   "s3cret!",
			setupMock: func(m *MockUserRepository) {
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:     "duplicate email",
			userName: "Alice Again",
			email:    "alice@example.com",
			secret:   "s3cret!",
			setupMock: func(m *MockUserRepository) {
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(apperrors.ErrEmailTaken)
			},
			expectedError: apperrors.ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			service := newTestUserService(t, mockRepo, 20, 100)
			user, err := service.CreateUser(context.Background(), tt.userName, tt.email, tt.secret)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				assert.Equal(t, tt.userName, user.Name)
				assert.Equal(t, tt.email, user.Email)

				// The stored credential must be a salted hash, never the secret itself.
				assert.NotEqual(t, tt.secret, user.PasswordHash)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(tt.secret)))
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestUserService_ListUsers_ClampsPaging(t *testing.T) {
	tests := []struct {
		name           string
		offset         int
		limit          int
		expectedOffset int
		expectedLimit  int
	}{
		{name: "values in range pass through", offset: 5, limit: 50, expectedOffset: 5, expectedLimit: 50},
		{name: "negative offset becomes zero", offset: -3, limit: 50, expectedOffset: 0, expectedLimit: 50},
		{name: "zero limit uses default", offset: 0, limit: 0, expectedOffset: 0, expectedLimit: 20},
		{name: "negative limit uses default", offset: 0, limit: -1, expectedOffset: 0, expectedLimit: 20},
		{name: "oversized limit capped at max", offset: 0, limit: 9999, expectedOffset: 0, expectedLimit: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockRepo.On("List", mock.Anything, "", tt.expectedOffset, tt.expectedLimit).Return([]model.User{}, nil)

			service := newTestUserService(t, mockRepo, 20, 100)
			users, err := service.ListUsers(context.Background(), "", tt.offset, tt.limit)

			assert.NoError(t, err)
			assert.NotNil(t, users)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestUserService_ListUsers_PassesFilterThrough(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("List", mock.Anything, "ali", 0, 20).Return([]model.User{}, nil)

	service := newTestUserService(t, mockRepo, 20, 100)
	_, err := service.ListUsers(context.Background(), "ali", 0, 0)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestUserService_UpdateUser(t *testing.T) {
	newName := "Alice Renamed"
	newEmail := "alice.renamed@example.com"

	tests := []struct {
		name          string
		id            uint
		nameField     *string
		email         *string
		setupMock     func(*MockUserRepository)
		expectedError error
		check         func(*testing.T, *model.User)
	}{
		{
			name:      "name only changes name",
			id:        1,
			nameField: &newName,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, uint(1)).Return(&model.User{
					ID: 1, Name: "Alice Example", Email: "alice@example.com",
				}, nil)
				m.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			check: func(t *testing.T, u *model.User) {
				assert.Equal(t, "Alice Renamed", u.Name)
				assert.Equal(t, "alice@example.com", u.Email)
			},
		},
		{
			name:  "email only changes email",
			id:    1,
			email: &newEmail,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, uint(1)).Return(&model.User{
					ID: 1, Name: "Alice Example", Email: "alice@example.com",
				}, nil)
				m.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			check: func(t *testing.T, u *model.User) {
				assert.Equal(t, "Alice Example", u.Name)
				assert.Equal(t, "alice.renamed@example.com", u.Email)
			},
		},
		{
			name:  "email conflict surfaces from store",
			id:    1,
			email: &newEmail,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, uint(1)).Return(&model.User{
					ID: 1, Name: "Alice Example", Email: "alice@example.com",
				}, nil)
				m.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(apperrors.ErrEmailTaken)
			},
			expectedError: apperrors.ErrEmailTaken,
		},
		{
			name:      "unknown id",
			id:        42,
			nameField: &newName,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, uint(42)).Return(nil, apperrors.ErrUserNotFound)
			},
			expectedError: apperrors.ErrUserNotFound,
		},
		{
			name:      "record deleted between load and save",
			id:        1,
			nameField: &newName,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, uint(1)).Return(&model.User{
					ID: 1, Name: "Alice Example", Email: "alice@example.com",
				}, nil)
				m.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(apperrors.ErrUserNotFound)
			},
			expectedError: apperrors.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			service := newTestUserService(t, mockRepo, 20, 100)
			user, err := service.UpdateUser(context.Background(), tt.id, tt.nameField, tt.email)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				tt.check(t, user)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestUserService_DeleteUser(t *testing.T) {
	tests := []struct {
		name          string
		id            uint
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name: "delete returns the removed record",
			id:   1,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, uint(1)).Return(&model.User{
					ID: 1, Name: "Alice Example", Email: "alice@example.com",
				}, nil)
				m.On("Delete", mock.Anything, uint(1)).Return(nil)
			},
		},
		{
			name: "unknown id",
			id:   42,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, uint(42)).Return(nil, apperrors.ErrUserNotFound)
			},
			expectedError: apperrors.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			service := newTestUserService(t, mockRepo, 20, 100)
			user, err := service.DeleteUser(context.Background(), tt.id)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				assert.Equal(t, uint(1), user.ID)
				assert.Equal(t, "alice@example.com", user.Email)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}
