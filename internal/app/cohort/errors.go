// internal/app/cohort/errors.go
package cohort

import (
	"errors"
	"net/http"
)

// Error is a typed operation failure carrying an HTTP-style status hint
// for transport layers. Storage failures are not wrapped in Error; they
// propagate as-is.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

// Membership failures. Kicking a member on a different team reports the
// same not-found error as a missing member: callers learn nothing about
// cohort internals outside their own team.
var (
	ErrNotInCohort     = &Error{Status: http.StatusNotFound, Message: "user is not in a cohort"}
	ErrMemberNotFound  = &Error{Status: http.StatusNotFound, Message: "member is not in user's cohort"}
	ErrMemberNotInTeam = &Error{Status: http.StatusNotFound, Message: "member is not in user's team"}
	ErrCodeNotFound    = &Error{Status: http.StatusNotFound, Message: "failed to find team with invite code"}
	ErrTeamFull        = &Error{Status: http.StatusConflict, Message: "team has no remaining member slots"}
)

// IsNotFound reports whether err is an operation failure with a 404 hint.
func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Status == http.StatusNotFound
}

// StatusOf returns the HTTP status hint for err, or 500 for storage and
// unknown errors.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return http.StatusInternalServerError
}
