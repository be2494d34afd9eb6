// Package repository implements raw-SQL data access for users, food
// listings and listing events.  The sentinel errors below let handlers
// distinguish failure scenarios without inspecting driver errors: a lost
// conditional update and a missing row both surface as not-found, while a
// duplicate email maps to its own sentinel so the handler can answer 409.
package repository

import (
	"errors"
	"strings"
)

// ErrEmailExists is returned when an insert hits the unique index on
// users.email.  Uniqueness is enforced by the store itself; there is no
// pre-insert lookup, so concurrent signups cannot slip past it.
var ErrEmailExists = errors.New("email already exists")

// ErrUserNotFound is returned when a user lookup or profile update matches
// no row.
var ErrUserNotFound = errors.New("user not found")

// ErrListingNotFound is returned when a listing lookup matches no row, and
// also when a conditional status update affects zero rows (the listing is
// absent or not in the required state).
var ErrListingNotFound = errors.New("listing not found")

// isDuplicateKey reports whether err is a unique-constraint violation.
// MySQL reports error 1062; sqlite (used by the test store) reports
// "UNIQUE constraint failed".
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "1062") || strings.Contains(msg, "unique constraint")
}
