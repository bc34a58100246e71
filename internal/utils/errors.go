package utils

import (
	"fmt"
	"math"
	"time"
)

// AppError is the closed error type every store and actor returns.
// Callers branch on Code, never on message content; the structured
// fields carry enough detail to render a specific user-facing message.
type AppError struct {
	Code    string
	Message string
	Origin  error // Original error that caused this error, if any

	// HoursRemaining is set for ErrCooldownActive: the wait before the
	// next vote is accepted, rounded up to the next whole hour.
	HoursRemaining int

	// FieldErrors is set for ErrValidation: field name to problem.
	FieldErrors map[string]string
}

func (appErr *AppError) Error() string {
	if appErr.Origin != nil {
		return appErr.Message + ": " + appErr.Origin.Error()
	}
	return appErr.Message
}

// Standard error codes for the application
const (
	// Resource errors
	ErrNotFound   = "NOT_FOUND"
	ErrDuplicate  = "DUPLICATE"
	ErrValidation = "VALIDATION_ERROR"

	// Authentication/Authorization errors
	ErrUnauthorized    = "UNAUTHORIZED"
	ErrUnauthenticated = "UNAUTHENTICATED"
	ErrInvalidToken    = "INVALID_TOKEN"

	// Voting errors
	ErrCooldownActive = "COOLDOWN_ACTIVE"
	ErrNotApproved    = "NOT_APPROVED"

	// Auth-surface errors
	ErrInvalidCredentials = "INVALID_CREDENTIALS"

	// Actor communication errors
	ErrActorTimeout = "ACTOR_TIMEOUT"

	// Systemic outage, distinct from any listing-level error
	ErrStoreUnavailable = "STORE_UNAVAILABLE"

	// Stats refresher failure; always absorbed, never surfaced
	ErrProbeFailure = "PROBE_FAILURE"
)

// Error creation helper functions
func NewAppError(code string, message string, originalErr error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Origin:  originalErr,
	}
}

func NewNotFoundError(what string) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: what + " not found",
	}
}

func NewUnauthorizedError(reason string) *AppError {
	return &AppError{
		Code:    ErrUnauthorized,
		Message: "Unauthorized: " + reason,
	}
}

func NewUnauthenticatedError() *AppError {
	return &AppError{
		Code:    ErrUnauthenticated,
		Message: "You must be signed in to do this",
	}
}

// NewValidationError carries the failed fields so the caller can render
// per-field messages.
func NewValidationError(fields map[string]string) *AppError {
	return &AppError{
		Code:        ErrValidation,
		Message:     "One or more fields are invalid",
		FieldErrors: fields,
	}
}

// CeilHours rounds a duration up to the next whole hour.
func CeilHours(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Hours()))
}

// NewCooldownError reports the remaining wait rounded up to whole hours.
func NewCooldownError(remaining time.Duration) *AppError {
	hours := CeilHours(remaining)
	if hours < 1 {
		hours = 1
	}
	return &AppError{
		Code:           ErrCooldownActive,
		Message:        fmt.Sprintf("You have already voted for this server. Please wait approximately %d hour(s) before voting again.", hours),
		HoursRemaining: hours,
	}
}

func NewNotApprovedError() *AppError {
	return &AppError{
		Code:    ErrNotApproved,
		Message: "This server is not currently approved for voting",
	}
}

func NewStoreUnavailableError(originalErr error) *AppError {
	return &AppError{
		Code:    ErrStoreUnavailable,
		Message: "The directory is temporarily unavailable, please try again later",
		Origin:  originalErr,
	}
}

// Helper method to check if an error is of a specific type
func IsErrorCode(err error, code string) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}

// AppErrorToHTTPStatus converts an AppError code to an HTTP status code.
func AppErrorToHTTPStatus(errorCode string) int {
	switch errorCode {
	case ErrNotFound:
		return 404 // http.StatusNotFound
	case ErrValidation, ErrInvalidCredentials:
		return 400 // http.StatusBadRequest
	case ErrUnauthenticated, ErrInvalidToken:
		return 401 // http.StatusUnauthorized
	case ErrUnauthorized:
		return 403 // http.StatusForbidden
	case ErrDuplicate:
		return 409 // http.StatusConflict
	case ErrCooldownActive:
		return 429 // http.StatusTooManyRequests
	case ErrNotApproved:
		return 409 // http.StatusConflict
	case ErrStoreUnavailable, ErrActorTimeout, ErrProbeFailure:
		return 503 // http.StatusServiceUnavailable
	default:
		return 500 // http.StatusInternalServerError for unknown errors
	}
}
