// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to act on a row owned by someone else, while ErrConflict
// signals that a status transition is not allowed from the current state
// (e.g. paying for a booking that was never confirmed).
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an update cannot be performed because
// of conflicting state. Handlers should translate this into an HTTP 409
// response.
var ErrConflict = errors.New("conflict")

// isDuplicate reports whether err is a unique-key violation. MySQL reports
// error 1062; the SQLite driver used in tests reports a constraint message.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
