// Package repository defines error values that are reused across multiple
// repositories. These sentinel values let handlers distinguish between
// failure scenarios without inspecting driver-specific errors. For
// example, ErrDuplicateRegistration signals that the uniqueness
// constraint on (event_id, user_id) rejected an insert, which handlers
// translate into a user-facing conflict rather than a server fault.
package repository

import (
	"errors"
	"strings"
)

// ErrDuplicateRegistration is returned by Register when the user already
// holds a live registration for the event. Handlers should translate
// this into an HTTP 409 response.
var ErrDuplicateRegistration = errors.New("already registered for this event")

// ErrEventNotFound is returned when an event lookup matches no row.
// Handlers should translate this into an HTTP 404 response.
var ErrEventNotFound = errors.New("event not found")

// ErrUserExists is returned when creating a user whose username or email
// is already taken.
var ErrUserExists = errors.New("username or email already exists")

// isDuplicateEntry reports whether err is a unique-constraint violation.
// MySQL surfaces these as error 1062; SQLite (used by the test suite)
// reports "UNIQUE constraint failed". The constraint violation is the
// authoritative duplicate detection, so both spellings map to the same
// sentinel upstream.
func isDuplicateEntry(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "1062") || strings.Contains(msg, "unique constraint")
}
