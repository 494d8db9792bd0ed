package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cdma-ap/cmsnr-directory/internal/domain/auth"
	"github.com/cdma-ap/cmsnr-directory/internal/domain/directory"
	"github.com/cdma-ap/cmsnr-directory/internal/domain/master"
	"github.com/cdma-ap/cmsnr-directory/internal/domain/staff"
	"github.com/cdma-ap/cmsnr-directory/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHandleError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", validator.ValidationErrors{{Field: "cfms_id", Message: "required"}}, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"bad login", auth.ErrInvalidCredentials, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"not admin", auth.ErrAdminRequired, http.StatusForbidden, "FORBIDDEN"},
		{"entry missing", fmt.Errorf("get: %w", directory.ErrEntryNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"staff missing", master.ErrStaffNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"cfms taken", directory.ErrCFMSIDExists, http.StatusConflict, "CONFLICT"},
		{"employee id taken", directory.ErrEmployeeIDExists, http.StatusConflict, "CONFLICT"},
		{"cfms required", directory.ErrCFMSIDRequired, http.StatusBadRequest, "BAD_REQUEST"},
		{"pool exhausted", fmt.Errorf("list: %w", staff.ErrPoolExhausted), http.StatusServiceUnavailable, "TOO_MANY_CONNECTIONS"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, c.err)

			assert.Equal(t, c.status, rec.Code)
			resp := decode(t, rec)
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Message)
			require.NotNil(t, resp.Error)
			assert.Equal(t, c.code, resp.Error.Code)
		})
	}
}

func TestInternalServerError_DetailOnlyInDevelopment(t *testing.T) {
	t.Cleanup(func() { SetDevelopment(false) })

	SetDevelopment(false)
	rec := httptest.NewRecorder()
	InternalServerError(rec, "failed", errors.New("relation does not exist"))
	assert.Empty(t, decode(t, rec).Detail)

	SetDevelopment(true)
	rec = httptest.NewRecorder()
	InternalServerError(rec, "failed", errors.New("relation does not exist"))
	assert.Equal(t, "relation does not exist", decode(t, rec).Detail)
}

func TestValidationError_Details(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, validator.ValidationErrors{{Field: "email", Message: "email must be valid"}})

	resp := decode(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "email must be valid", resp.Error.Details["email"])
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}
