package service

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/skanderbh/billiard-hall/internal/billing"
	"github.com/skanderbh/billiard-hall/internal/model"
)

// Lifecycle is the sole mutator of sessions.  Every mutation for a given
// table runs under that table's lock, which is what upholds the
// one-open-session-per-table invariant when requests race.  Reads
// (OpenSession) take no lock: the live price is an idempotent
// computation that may be repeated freely.
type Lifecycle struct {
	tables   TableStore
	clients  ClientStore
	sessions SessionStore
	rates    RateStore
	locks    *tableLocks
	now      func() time.Time
}

// NewLifecycle constructs the lifecycle service.  All stores must be
// non-nil.
func NewLifecycle(tables TableStore, clients ClientStore, sessions SessionStore, rates RateStore) *Lifecycle {
	if tables == nil || clients == nil || sessions == nil || rates == nil {
		panic("nil store passed to NewLifecycle")
	}
	return &Lifecycle{
		tables:   tables,
		clients:  clients,
		sessions: sessions,
		rates:    rates,
		locks:    newTableLocks(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Start opens a new session on the given table.  clientRef is either a
// numeric client ID or a client name; unknown names are registered on
// the fly, unknown IDs fail with ErrClientNotFound.  It fails with
// ErrTableNotFound for an unknown table, ErrTableBusy when the table
// already has an open session and ErrEmptyClientName when no client is
// given.
func (l *Lifecycle) Start(ctx context.Context, tableID uint64, clientRef string, nextPlayer *string) (model.Session, error) {
	clientRef = strings.TrimSpace(clientRef)
	if clientRef == "" {
		return model.Session{}, ErrEmptyClientName
	}

	mu := l.locks.forTable(tableID)
	mu.Lock()
	defer mu.Unlock()

	if _, err := l.tables.GetByID(ctx, tableID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Session{}, ErrTableNotFound
		}
		return model.Session{}, err
	}
	open, err := l.sessions.GetOpenByTable(ctx, tableID)
	if err != nil {
		return model.Session{}, err
	}
	if open != nil {
		return model.Session{}, ErrTableBusy
	}

	clientID, err := l.resolveClient(ctx, clientRef)
	if err != nil {
		return model.Session{}, err
	}

	s := model.Session{
		TableID:    tableID,
		ClientID:   &clientID,
		StartedAt:  l.now(),
		Paid:       false,
		NextPlayer: nextPlayer,
	}
	if err := l.sessions.Create(ctx, &s); err != nil {
		return model.Session{}, err
	}
	return s, nil
}

// Stop closes an open session: it stamps the end time, freezes the final
// price under the current rate config and records the losing player when
// given.  The table becomes available again.  Unknown IDs fail with
// ErrSessionNotFound, a second stop with ErrSessionClosed.
func (l *Lifecycle) Stop(ctx context.Context, sessionID uint64, loser *string) (model.Session, error) {
	s, err := l.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Session{}, ErrSessionNotFound
		}
		return model.Session{}, err
	}

	mu := l.locks.forTable(s.TableID)
	mu.Lock()
	defer mu.Unlock()

	// Re-read under the lock: a racing Stop may have closed it between
	// the first load and lock acquisition.
	s, err = l.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Session{}, ErrSessionNotFound
		}
		return model.Session{}, err
	}
	if !s.Open() {
		return model.Session{}, ErrSessionClosed
	}

	rate, err := l.rates.Current(ctx)
	if err != nil {
		return model.Session{}, err
	}
	end := l.now()
	price, err := billing.ComputePrice(s.StartedAt, end, rate)
	if err != nil {
		return model.Session{}, err
	}
	if err := l.sessions.Close(ctx, s.ID, end, price, loser); err != nil {
		return model.Session{}, err
	}

	s.EndedAt = &end
	s.PriceMillimes = price
	s.Loser = loser
	return s, nil
}

// OpenSession returns the table's open session together with its live
// price computed at wall-clock now, or (nil, 0, nil) when the table is
// free or unknown.  It is a pure lookup and never mutates state.
func (l *Lifecycle) OpenSession(ctx context.Context, tableID uint64) (*model.Session, int64, error) {
	s, err := l.sessions.GetOpenByTable(ctx, tableID)
	if err != nil || s == nil {
		return nil, 0, err
	}
	rate, err := l.rates.Current(ctx)
	if err != nil {
		return nil, 0, err
	}
	price, err := billing.ComputePrice(s.StartedAt, l.now(), rate)
	if err != nil {
		return nil, 0, err
	}
	return s, price, nil
}

// TogglePaid flips the paid flag of a session, open or closed.  No other
// field changes.  Unknown IDs fail with ErrSessionNotFound.
func (l *Lifecycle) TogglePaid(ctx context.Context, sessionID uint64) (model.Session, error) {
	s, err := l.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Session{}, ErrSessionNotFound
		}
		return model.Session{}, err
	}

	mu := l.locks.forTable(s.TableID)
	mu.Lock()
	defer mu.Unlock()

	s, err = l.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Session{}, ErrSessionNotFound
		}
		return model.Session{}, err
	}
	if err := l.sessions.SetPaid(ctx, s.ID, !s.Paid); err != nil {
		return model.Session{}, err
	}
	s.Paid = !s.Paid
	return s, nil
}

// resolveClient turns a client reference into a client ID.  A reference
// that parses as a positive integer is treated as an existing client ID;
// anything else is a name, looked up and created when absent.
func (l *Lifecycle) resolveClient(ctx context.Context, ref string) (uint64, error) {
	if id, err := strconv.ParseUint(ref, 10, 64); err == nil && id > 0 {
		if _, err := l.clients.GetByID(ctx, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return 0, ErrClientNotFound
			}
			return 0, err
		}
		return id, nil
	}
	c, err := l.clients.GetByName(ctx, ref)
	if err == nil {
		return c.ID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	return l.clients.Create(ctx, ref, nil)
}
