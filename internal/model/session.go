package model

import "time"

// Session records one timed occupancy of a table by a client, from start
// to stop.  While open, EndedAt is nil and the price is recomputed live
// from the elapsed time; when the session is stopped the price is frozen
// into PriceMillimes and never recalculated.  Closed sessions form the
// historical ledger and are never deleted; only the Paid flag may still
// change after close.  This struct corresponds to a row in the
// `sessions` table.
//
// Fields:
//
//	ID            – primary key identifier.
//	TableID       – table occupied by this session.
//	ClientID      – client who opened the session (nil for walk-ins).
//	StartedAt     – when the session was started.
//	EndedAt       – when the session was stopped (nil while open).
//	PriceMillimes – total price in millimes (1 DT = 1000), frozen at stop.
//	Paid          – whether the session has been settled.
//	NextPlayer    – optional label of the player queued for this table.
//	Loser         – optional label of the losing player, set at stop.
//	CreatedAt     – creation timestamp.
//	UpdatedAt     – last update timestamp.
type Session struct {
	ID            uint64     // sessions.id
	TableID       uint64     // sessions.table_id
	ClientID      *uint64    // sessions.client_id (nullable)
	StartedAt     time.Time  // sessions.started_at
	EndedAt       *time.Time // sessions.ended_at (nullable)
	PriceMillimes int64      // sessions.price_millimes
	Paid          bool       // sessions.paid
	NextPlayer    *string    // sessions.next_player (nullable)
	Loser         *string    // sessions.loser (nullable)
	CreatedAt     time.Time  // sessions.created_at
	UpdatedAt     time.Time  // sessions.updated_at
}

// Open reports whether the session is still running, i.e. has no end
// timestamp yet.
func (s Session) Open() bool { return s.EndedAt == nil }
