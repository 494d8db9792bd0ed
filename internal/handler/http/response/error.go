package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cdma-ap/cmsnr-directory/internal/domain/auth"
	"github.com/cdma-ap/cmsnr-directory/internal/domain/directory"
	"github.com/cdma-ap/cmsnr-directory/internal/domain/master"
	"github.com/cdma-ap/cmsnr-directory/internal/domain/staff"
	"github.com/cdma-ap/cmsnr-directory/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid username or password")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrAdminRequired):
		Forbidden(w, "Admin privilege required")
	case errors.Is(err, auth.ErrAuthNotConfigured):
		ServiceUnavailable(w, "AUTH_NOT_CONFIGURED", "Admin login is not configured")

	// Directory domain errors
	case errors.Is(err, directory.ErrEntryNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, master.ErrStaffNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, directory.ErrCFMSIDExists):
		Conflict(w, "Employee with this CFMS ID already exists")
	case errors.Is(err, directory.ErrEmployeeIDExists):
		Conflict(w, "Employee with this Employee ID already exists")
	case errors.Is(err, directory.ErrCFMSIDRequired):
		BadRequest(w, "CFMS ID is required", nil)

	// Store capacity
	case errors.Is(err, staff.ErrPoolExhausted):
		slog.Warn("database connection limit reached", "error", err)
		ServiceUnavailable(w, "TOO_MANY_CONNECTIONS", "Too many database connections, please retry shortly")

	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred", err)
	}
}
