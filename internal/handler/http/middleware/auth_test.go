package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cdma-ap/cmsnr-directory/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func serve(h http.Handler, bearer string) int {
	req := httptest.NewRequest(http.MethodPost, "/api/employees", nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestAdmin_OpenWithoutSecret(t *testing.T) {
	h := Admin(jwt.NewJWTService("", "1h"))(okHandler)
	assert.Equal(t, http.StatusNoContent, serve(h, ""))
}

func TestAdmin_RequiresValidToken(t *testing.T) {
	svc := jwt.NewJWTService("test-secret-key-for-jwt", "1h")
	h := Admin(svc)(okHandler)

	assert.Equal(t, http.StatusUnauthorized, serve(h, ""))
	assert.Equal(t, http.StatusUnauthorized, serve(h, "not-a-token"))

	token, _, err := svc.GenerateAccessToken("admin")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, serve(h, token))

	other := jwt.NewJWTService("another-secret", "1h")
	foreign, _, err := other.GenerateAccessToken("admin")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, serve(h, foreign))
}

func TestAdmin_RejectsNonAdminClaims(t *testing.T) {
	svc := jwt.NewJWTService("test-secret-key-for-jwt", "1h")
	_, token, err := svc.JWTAuth().Encode(map[string]interface{}{
		"type": jwt.TokenTypeAccess,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, serve(Admin(svc)(okHandler), token))
}
