// Package queue defines the message payloads exchanged over the broker
// and the background consumer that persists them to the session log.
package queue

// SessionClosedEvent is published when a session is stopped and its
// price frozen.  It carries enough information for downstream consumers
// to log, notify, or feed analytics without querying the primary
// database.
type SessionClosedEvent struct {
	SessionID     uint64 `json:"session_id"`
	TableID       uint64 `json:"table_id"`
	TableName     string `json:"table_name"`
	ClientName    string `json:"client_name"`
	StartedAt     string `json:"started_at"`
	EndedAt       string `json:"ended_at"`
	PriceMillimes int64  `json:"price_millimes"`
	Currency      string `json:"currency"`
	Loser         string `json:"loser,omitempty"`
	ClosedBy      uint64 `json:"closed_by"` // staff user who stopped the session
}
