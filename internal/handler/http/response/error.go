package response

import (
	"errors"
	"net/http"

	"github.com/chronotrack/attendance-backend-go/internal/domain/attendance"
	"github.com/chronotrack/attendance-backend-go/internal/domain/auth"
	"github.com/chronotrack/attendance-backend-go/internal/domain/employee"
	"github.com/chronotrack/attendance-backend-go/internal/domain/location"
	"github.com/chronotrack/attendance-backend-go/internal/domain/qrpass"
	"github.com/chronotrack/attendance-backend-go/internal/domain/shift"
	"github.com/chronotrack/attendance-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Geofence rejections carry the measured distance.
	var outOfRange *attendance.OutOfRangeError
	if errors.As(err, &outOfRange) {
		BadRequest(w, outOfRange.Error(), nil)
		return
	}

	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "Already checked in today")
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, "Already checked out today")
	case errors.Is(err, attendance.ErrNotCheckedIn):
		BadRequest(w, "No check-in recorded for today", nil)
	case errors.Is(err, attendance.ErrInvalidTimestamp):
		BadRequest(w, "Check-out time must be after check-in time", nil)
	case errors.Is(err, attendance.ErrInvalidState):
		BadRequest(w, "Action is not allowed in the current state", nil)
	case errors.Is(err, attendance.ErrOutOfRange):
		BadRequest(w, "You are outside the allowed location radius", nil)
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")

	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid employee code or password")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrNotAuthenticated):
		Unauthorized(w, "Not authenticated")

	// Lookup errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, location.ErrLocationNotFound):
		NotFound(w, "Location not found")
	case errors.Is(err, shift.ErrShiftNotFound):
		NotFound(w, "Shift not found")
	case errors.Is(err, shift.ErrAssignmentNotFound):
		NotFound(w, "Shift assignment not found")

	// QR pass errors
	case errors.Is(err, qrpass.ErrPassNotFound):
		NotFound(w, "QR pass not found")
	case errors.Is(err, qrpass.ErrPassExpired):
		BadRequest(w, "QR pass has expired", nil)
	case errors.Is(err, qrpass.ErrPassUsed):
		Conflict(w, "QR pass has already been used")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
