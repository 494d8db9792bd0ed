package jwt

import (
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const TokenTypeAccess = "access"

type Service interface {
	GenerateAccessToken(username string) (token string, expiresAt int64, err error)
	// ValidateAccessToken returns the username carried by an admin access token.
	ValidateAccessToken(tokenString string) (username string, err error)
	JWTAuth() *jwtauth.JWTAuth
	// Enabled is false when no signing secret is configured.
	Enabled() bool
}

type JWTService struct {
	secretKey                 string
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
	now                       func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) Enabled() bool {
	return j.secretKey != ""
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		secretKey:                 secretKey,
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:                       time.Now,
	}
}

func (j *JWTService) GenerateAccessToken(username string) (token string, expiresAt int64, err error) {
	if !j.Enabled() {
		return "", 0, errors.New("jwt secret is not configured")
	}
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	now := j.now()
	expiresAt = now.Add(expDuration).Unix()

	claims := map[string]interface{}{
		"sub":      username,
		"username": username,
		"is_admin": true,
		"type":     TokenTypeAccess,
		"iat":      now.Unix(),
		"exp":      expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

func (j *JWTService) ValidateAccessToken(tokenString string) (string, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return "", err
	}

	// Check token type
	tokenType, ok := token.Get("type")
	if !ok || tokenType != TokenTypeAccess {
		return "", jwt.ErrInvalidJWT()
	}

	isAdmin, ok := token.Get("is_admin")
	if !ok || isAdmin != true {
		return "", jwt.ErrInvalidJWT()
	}

	username, ok := token.Get("username")
	if !ok {
		return "", jwt.ErrInvalidJWT()
	}
	name, ok := username.(string)
	if !ok || name == "" {
		return "", jwt.ErrInvalidJWT()
	}

	return name, nil
}
