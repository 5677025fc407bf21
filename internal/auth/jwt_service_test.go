package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func TestNewJWTService(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		ttl     time.Duration
		wantErr bool
	}{
		{name: "valid configuration", secret: "test-secret", ttl: 15 * time.Minute, wantErr: false},
		{name: "empty secret rejected", secret: "", ttl: 15 * time.Minute, wantErr: true},
		{name: "zero ttl rejected", secret: "test-secret", ttl: 0, wantErr: true},
		{name: "negative ttl rejected", secret: "test-secret", ttl: -time.Minute, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, err := NewJWTService(tt.secret, tt.ttl)
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

func TestJWTService_GenerateAndValidate(t *testing.T) {
	service, err := NewJWTService("test-secret", 15*time.Minute)
	assert.NoError(t, err)

	token, err := service.GenerateToken(1, "alice@example.com")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, uint(1), claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "alice@example.com", claims.Subject)
	assert.NotEmpty(t, claims.ID)

	// Expiry sits one TTL past issuance.
	assert.WithinDuration(t, claims.IssuedAt.Add(15*time.Minute), claims.ExpiresAt.Time, time.Second)
}

// Two tokens for the same identity differ because each carries a fresh token id.
func TestJWTService_TokensAreUnique(t *testing.T) {
	service, err := NewJWTService("test-secret", 15*time.Minute)
	assert.NoError(t, err)

	first, err := service.GenerateToken(1, "alice@example.com")
	assert.NoError(t, err)
	second, err := service.GenerateToken(1, "alice@example.com")
	assert.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestJWTService_ValidateToken_Expired(t *testing.T) {
	service, err := NewJWTService("test-secret", time.Millisecond)
	assert.NoError(t, err)

	token, err := service.GenerateToken(1, "alice@example.com")
	assert.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	claims, err := service.ValidateToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTService_ValidateToken_WrongSecret(t *testing.T) {
	issuer, err := NewJWTService("issuer-secret", 15*time.Minute)
	assert.NoError(t, err)
	verifier, err := NewJWTService("other-secret", 15*time.Minute)
	assert.NoError(t, err)

	token, err := issuer.GenerateToken(1, "alice@example.com")
	assert.NoError(t, err)

	claims, err := verifier.ValidateToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_ValidateToken_Garbage(t *testing.T) {
	service, err := NewJWTService("test-secret", 15*time.Minute)
	assert.NoError(t, err)

	for _, tokenString := range []string{"", "not-a-token", "a.b.c"} {
		claims, err := service.ValidateToken(tokenString)
		assert.Error(t, err)
		assert.Nil(t, claims)
	}
}

// A structurally valid token that asserts no identity is rejected even when
// its signature checks out.
func TestJWTService_ValidateToken_EmptyEmail(t *testing.T) {
	service, err := NewJWTService("test-secret", 15*time.Minute)
	assert.NoError(t, err)

	now := time.Now()
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	token, err := raw.SignedString([]byte("test-secret"))
	assert.NoError(t, err)

	claims, err := service.ValidateToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}
