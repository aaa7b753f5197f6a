// Package repository is the data access layer over MySQL.  Each
// repository wraps *sql.DB with hand-written SQL for one table.  Missing
// rows are reported as sql.ErrNoRows so the service layer can translate
// them into its own error kinds; the sentinel below covers the one
// failure that is not a lookup miss.
package repository

import "errors"

// ErrConflict is returned when a delete cannot proceed because of
// dependent state, such as removing a table that still has an open
// session.  Handlers should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")
