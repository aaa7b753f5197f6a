package service

import (
	"context"
	"time"

	"github.com/skanderbh/billiard-hall/internal/model"
)

// The lifecycle service talks to persistence through these small
// interfaces rather than the concrete MySQL repositories, so the session
// rules can be exercised in tests against in-memory stores.  The MySQL
// repositories in internal/repository satisfy them.  Stores signal a
// missing row with sql.ErrNoRows, which the service translates into its
// own sentinel errors.

// TableStore loads tables.
type TableStore interface {
	GetByID(ctx context.Context, id uint64) (model.Table, error)
}

// ClientStore resolves and creates clients.  Create returns the new
// client's ID.
type ClientStore interface {
	GetByID(ctx context.Context, id uint64) (model.Client, error)
	GetByName(ctx context.Context, name string) (model.Client, error)
	Create(ctx context.Context, name string, phone *string) (uint64, error)
}

// SessionStore persists sessions.  GetOpenByTable returns (nil, nil)
// when the table has no open session.  Close freezes the final price and
// Create fills in the generated ID and timestamps on the given session.
type SessionStore interface {
	GetByID(ctx context.Context, id uint64) (model.Session, error)
	GetOpenByTable(ctx context.Context, tableID uint64) (*model.Session, error)
	Create(ctx context.Context, s *model.Session) error
	Close(ctx context.Context, id uint64, end time.Time, price int64, loser *string) error
	SetPaid(ctx context.Context, id uint64, paid bool) error
}

// RateStore yields the room's current billing policy.
type RateStore interface {
	Current(ctx context.Context) (model.RateConfig, error)
}
