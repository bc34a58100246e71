package utils

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCeilHours(t *testing.T) {
	assert.Equal(t, 0, CeilHours(0))
	assert.Equal(t, 0, CeilHours(-time.Hour))
	assert.Equal(t, 1, CeilHours(time.Minute))
	assert.Equal(t, 1, CeilHours(time.Hour))
	assert.Equal(t, 2, CeilHours(time.Hour+time.Second))
	assert.Equal(t, 24, CeilHours(24*time.Hour))
}

func TestNewCooldownError(t *testing.T) {
	// One minute left still reads as one hour.
	err := NewCooldownError(time.Minute)
	assert.Equal(t, ErrCooldownActive, err.Code)
	assert.Equal(t, 1, err.HoursRemaining)
	assert.Contains(t, err.Message, "1 hour(s)")

	err = NewCooldownError(23*time.Hour + 59*time.Minute)
	assert.Equal(t, 24, err.HoursRemaining)
	assert.Contains(t, err.Message, "24 hour(s)")
}

func TestIsErrorCode(t *testing.T) {
	assert.True(t, IsErrorCode(NewNotFoundError("Listing"), ErrNotFound))
	assert.False(t, IsErrorCode(NewNotFoundError("Listing"), ErrValidation))
	assert.False(t, IsErrorCode(nil, ErrNotFound))
	assert.False(t, IsErrorCode(assert.AnError, ErrNotFound))
}

func TestAppErrorToHTTPStatus(t *testing.T) {
	cases := map[string]int{
		ErrNotFound:           http.StatusNotFound,
		ErrValidation:         http.StatusBadRequest,
		ErrInvalidCredentials: http.StatusBadRequest,
		ErrUnauthenticated:    http.StatusUnauthorized,
		ErrInvalidToken:       http.StatusUnauthorized,
		ErrUnauthorized:       http.StatusForbidden,
		ErrDuplicate:          http.StatusConflict,
		ErrNotApproved:        http.StatusConflict,
		ErrCooldownActive:     http.StatusTooManyRequests,
		ErrStoreUnavailable:   http.StatusServiceUnavailable,
		ErrActorTimeout:       http.StatusServiceUnavailable,
		"SOMETHING_ELSE":      http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, AppErrorToHTTPStatus(code), code)
	}
}

func TestAppErrorMessage(t *testing.T) {
	plain := NewNotFoundError("Listing")
	assert.Equal(t, "Listing not found", plain.Error())

	wrapped := NewStoreUnavailableError(assert.AnError)
	assert.Contains(t, wrapped.Error(), assert.AnError.Error())
}
