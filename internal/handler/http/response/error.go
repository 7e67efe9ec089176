package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/usermanager/internal/domain/auth"
	"github.com/cmlabs-hris/usermanager/internal/domain/employee"
	"github.com/cmlabs-hris/usermanager/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid username or password")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrInvalidImageType):
		ValidationError(w, map[string]string{"image": "image must be a jpg, jpeg, png, gif or webp file"})
	case errors.Is(err, employee.ErrImageTooLarge):
		ValidationError(w, map[string]string{"image": "image must not exceed 5MB"})

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
