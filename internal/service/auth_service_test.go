package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/announcement-portal-api/internal/models"
	"github.com/noah-isme/announcement-portal-api/pkg/config"
	appErrors "github.com/noah-isme/announcement-portal-api/pkg/errors"
)

func signTestToken(t *testing.T, secret string, method jwt.SigningMethod) string {
	t.Helper()
	claims := &models.JWTClaims{
		UserID: "user-1",
		Email:  "admin@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestAuthServiceValidateToken(t *testing.T) {
	svc := NewAuthService(config.JWTConfig{Secret: "secret"})
	claims, err := svc.ValidateToken(signTestToken(t, "secret", jwt.SigningMethodHS256))
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestAuthServiceRejectsWrongSecret(t *testing.T) {
	svc := NewAuthService(config.JWTConfig{Secret: "secret"})
	_, err := svc.ValidateToken(signTestToken(t, "other", jwt.SigningMethodHS256))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceRejectsWrongMethod(t *testing.T) {
	svc := NewAuthService(config.JWTConfig{Secret: "secret"})
	_, err := svc.ValidateToken(signTestToken(t, "secret", jwt.SigningMethodHS512))
	require.Error(t, err)
}

func TestAuthServiceRejectsExpiredToken(t *testing.T) {
	svc := NewAuthService(config.JWTConfig{Secret: "secret"})
	claims := &models.JWTClaims{
		Email: "admin@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
}
