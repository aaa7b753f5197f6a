package model

import "time"

// Client is a named patron of the hall.  Clients are created on demand
// the first time a session is started for an unknown name, and are never
// deleted by this service so that historical sessions keep a valid
// reference.  Name uniqueness is relied upon for lookups but is not a
// hard constraint.  This struct corresponds to a row in the `clients`
// table.
//
// Fields:
//
//	ID        – primary key identifier.
//	Name      – client name, used for lookup and prefix search.
//	Phone     – optional phone number (nil when unknown).
//	CreatedAt – timestamp when the client was first seen.
//	UpdatedAt – timestamp of last update.
type Client struct {
	ID        uint64    // clients.id
	Name      string    // clients.name
	Phone     *string   // clients.phone (nullable)
	CreatedAt time.Time // clients.created_at
	UpdatedAt time.Time // clients.updated_at
}
