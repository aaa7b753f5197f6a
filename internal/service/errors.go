// Package service enforces the session lifecycle rules of the hall: at
// most one open session per table, stop exactly once, price frozen at
// stop.  The sentinel errors below let handlers map each failure to a
// distinct HTTP status instead of a generic 500.
package service

import "errors"

// ErrTableNotFound is returned when the referenced table does not exist.
var ErrTableNotFound = errors.New("table not found")

// ErrSessionNotFound is returned when the referenced session does not exist.
var ErrSessionNotFound = errors.New("session not found")

// ErrClientNotFound is returned when a session start references a client
// by ID that does not exist.  Unknown names are created instead.
var ErrClientNotFound = errors.New("client not found")

// ErrTableBusy is returned when a session start targets a table that
// already has an open session.  The existing session is left untouched.
var ErrTableBusy = errors.New("table busy")

// ErrSessionClosed is returned when stopping a session that has already
// been stopped.  A double stop is a caller error, not a no-op.
var ErrSessionClosed = errors.New("session already closed")

// ErrEmptyClientName is returned when a session start carries no client
// reference at all.
var ErrEmptyClientName = errors.New("client name required")
