// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// This file centralizes symbolic error code constants that are mapped to HTTP
// responses (via the `fail()` helper in this package), and failErr, which
// translates service errors into status + code pairs. Codes give clients a
// stable, machine-readable taxonomy that supplements human-readable messages.
//
// Conventions:
//   - Codes are lowercase snake_case.
//   - Generic codes mirror common HTTP status semantics.
//   - Missing and foreign resources share not_found with an identical message,
//     so a caller cannot probe for another user's ids.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "not_found",
//	  "message": "workout not found"
//	}
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/trainflow-backend/internal/http/middleware"
	"github.com/tbourn/trainflow-backend/internal/services"
)

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	// Domain-specific:
	ErrCodeEmailTaken       = "email_taken"
	ErrCodeToggleConflict   = "toggle_conflict"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)

// failErr maps a service error onto the error envelope. Unknown errors become
// 500 with a generic message; the cause is logged, never echoed.
func failErr(c *gin.Context, err error) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, ve.Error())
	case errors.Is(err, services.ErrEmptyMessage):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content required")
	case errors.Is(err, services.ErrMessageTooLong):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content too long")
	case errors.Is(err, services.ErrWorkoutNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "workout not found")
	case errors.Is(err, services.ErrVideoNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "video not found")
	case errors.Is(err, services.ErrUserNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "user not found")
	case errors.Is(err, services.ErrEmailTaken):
		fail(c, http.StatusConflict, ErrCodeEmailTaken, "email already registered")
	case errors.Is(err, services.ErrToggleConflict):
		fail(c, http.StatusConflict, ErrCodeToggleConflict, "workout was modified concurrently, retry")
	case errors.Is(err, services.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid email or password")
	default:
		middleware.LoggerFrom(c).Error().Err(err).Str("path", c.FullPath()).Msg("unhandled service error")
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal error")
	}
}
