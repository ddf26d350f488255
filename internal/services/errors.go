// Package services defines the business logic for scheduling, preferences,
// the video catalog, the chat log, and accounts. This file centralizes
// service-level error values so that they can be consistently returned by
// service methods and checked by callers.
//
// Translation into user-facing messages or HTTP status codes is performed at
// the handler layer.
package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/tbourn/trainflow-backend/internal/repo"
)

// Scheduling errors.
var (
	// ErrWorkoutNotFound indicates that the scheduled workout does not exist
	// or belongs to another user. Callers cannot tell the two apart.
	ErrWorkoutNotFound = errors.New("workout not found")

	// ErrVideoNotFound is returned when a referenced catalog video is missing.
	ErrVideoNotFound = errors.New("video not found")

	// ErrToggleConflict is returned when a completion toggle lost the race
	// against concurrent writers twice in a row.
	ErrToggleConflict = errors.New("workout was modified concurrently")
)

// Chat errors.
var (
	// ErrEmptyMessage is returned when the trimmed content is empty.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrMessageTooLong is returned when content exceeds the rune limit.
	ErrMessageTooLong = errors.New("message too long")
)

// Account errors.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// isNotFound treats repo-level not found sentinels as "not found" in a
// driver-agnostic way.
func isNotFound(err error) bool {
	return errors.Is(err, repo.ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}

// isDuplicate detects unique-constraint violations across drivers.
func isDuplicate(err error) bool {
	return repo.IsDuplicate(err)
}
