package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"time"

	"github.com/cdma-ap/cmsnr-directory/internal/domain/auth"
	"github.com/cdma-ap/cmsnr-directory/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	username     string
	passwordHash string
	jwt.Service
}

// NewAuthService checks logins against the single configured admin account.
func NewAuthService(username, passwordHash string, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		username:     username,
		passwordHash: passwordHash,
		Service:      jwtService,
	}
}

// HashPassword produces the value expected in ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.AccessTokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.AccessTokenResponse{}, err
	}

	if a.passwordHash == "" || !a.Service.Enabled() {
		return auth.AccessTokenResponse{}, auth.ErrAuthNotConfigured
	}

	// Always run bcrypt so a wrong username costs the same as a wrong password.
	pwErr := bcrypt.CompareHashAndPassword([]byte(a.passwordHash), []byte(req.Password))
	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(a.username)) == 1
	if pwErr != nil || !userOK {
		slog.Warn("admin login rejected", "username", req.Username)
		return auth.AccessTokenResponse{}, auth.ErrInvalidCredentials
	}

	token, expiresAt, err := a.Service.GenerateAccessToken(a.username)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	return auth.AccessTokenResponse{
		AccessToken:          token,
		AccessTokenExpiresIn: expiresAt - time.Now().Unix(),
		TokenType:            "Bearer",
	}, nil
}
