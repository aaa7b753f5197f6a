package model

import "time"

// Table represents a physical billiard table in the hall.  Tables are
// addressable by a numeric index shown on the floor and carry a display
// name.  Availability is not stored as a column: a table is available
// iff no open session references it, so the flag is derived at query
// time by the session repository.  This struct corresponds to a row in
// the `tables` table.
//
// Fields:
//
//	ID        – primary key identifier.
//	Number    – numeric index of the table (unique, printed on the table).
//	Name      – display name (e.g. "Billard A").
//	CreatedAt – timestamp when the table was created.
//	UpdatedAt – timestamp of last update.
type Table struct {
	ID        uint64    // tables.id
	Number    uint32    // tables.number
	Name      string    // tables.name
	CreatedAt time.Time // tables.created_at
	UpdatedAt time.Time // tables.updated_at
}
