// Package repository holds the persistence gateways, one per entity.  All of
// them issue parameterized SQL against *sql.DB, roll back transactions before
// returning errors, and translate the driver's conflict errors into sentinel
// values so handlers can map them to HTTP status codes.
package repository

import (
	"errors"
	"strings"
)

// ErrConflict is returned when an operation cannot proceed because of
// dependent state, such as deleting an employee who still has attendance or
// item-usage history. Handlers translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// isDuplicateKey reports whether err is MySQL error 1062 (duplicate entry
// for a unique key).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}

// isRestricted reports whether err is MySQL error 1451 (row is referenced by
// a RESTRICT foreign key).
func isRestricted(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1451")
}
