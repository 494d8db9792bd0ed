package auth

import (
	"context"
	"testing"

	"github.com/cdma-ap/cmsnr-directory/internal/domain/auth"
	"github.com/cdma-ap/cmsnr-directory/internal/pkg/jwt"
	"github.com/cdma-ap/cmsnr-directory/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAccessExp = "1h"
	testSecret    = "test-secret-key-for-jwt"
)

func newTestAuthService(t *testing.T, secret string) (auth.AuthService, jwt.Service) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	jwtSvc := jwt.NewJWTService(secret, testAccessExp)
	return NewAuthService("admin", string(hash), jwtSvc), jwtSvc
}

func TestLogin_Success(t *testing.T) {
	svc, jwtSvc := newTestAuthService(t, testSecret)

	resp, err := svc.Login(context.Background(), auth.LoginRequest{Username: "admin", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.InDelta(t, 3600, resp.AccessTokenExpiresIn, 5)

	username, err := jwtSvc.ValidateAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", username)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, _ := newTestAuthService(t, testSecret)

	_, err := svc.Login(context.Background(), auth.LoginRequest{Username: "admin", Password: "wrong"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), auth.LoginRequest{Username: "root", Password: "password123"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_ValidationError(t *testing.T) {
	svc, _ := newTestAuthService(t, testSecret)

	_, err := svc.Login(context.Background(), auth.LoginRequest{})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 2)
}

func TestLogin_NotConfigured(t *testing.T) {
	svc, _ := newTestAuthService(t, "")
	_, err := svc.Login(context.Background(), auth.LoginRequest{Username: "admin", Password: "password123"})
	assert.ErrorIs(t, err, auth.ErrAuthNotConfigured)

	noHash := NewAuthService("admin", "", jwt.NewJWTService(testSecret, testAccessExp))
	_, err = noHash.Login(context.Background(), auth.LoginRequest{Username: "admin", Password: "password123"})
	assert.ErrorIs(t, err, auth.ErrAuthNotConfigured)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))

	_, err = HashPassword("")
	assert.Error(t, err)
}
