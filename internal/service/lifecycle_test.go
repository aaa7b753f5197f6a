package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skanderbh/billiard-hall/internal/model"
)

// memStore is an in-memory implementation of all four store ports.  It
// mirrors the repository contract: missing rows come back as
// sql.ErrNoRows and GetOpenByTable returns (nil, nil) for a free table.
type memStore struct {
	mu       sync.Mutex
	tables   map[uint64]model.Table
	clients  map[uint64]model.Client
	sessions map[uint64]model.Session
	nextID   uint64
	rate     model.RateConfig
}

func newMemStore() *memStore {
	return &memStore{
		tables:   make(map[uint64]model.Table),
		clients:  make(map[uint64]model.Client),
		sessions: make(map[uint64]model.Session),
		rate:     model.RateConfig{BaseRate: 200, ReducedRate: 100, Threshold: 3000, Currency: "DT"},
	}
}

func (m *memStore) id() uint64 { m.nextID++; return m.nextID }

func (m *memStore) GetByID(ctx context.Context, id uint64) (model.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tables[id]
	if !ok {
		return model.Table{}, sql.ErrNoRows
	}
	return t, nil
}

// clientStore adapts memStore to the ClientStore port; TableStore and
// ClientStore both want a GetByID so they cannot share one receiver.
type clientStore struct{ *memStore }

func (m clientStore) GetByID(ctx context.Context, id uint64) (model.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.clients[id]
	if !ok {
		return model.Client{}, sql.ErrNoRows
	}
	return c, nil
}

func (m clientStore) GetByName(ctx context.Context, name string) (model.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.clients {
		if c.Name == name {
			return c, nil
		}
	}
	return model.Client{}, sql.ErrNoRows
}

func (m clientStore) Create(ctx context.Context, name string, phone *string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.id()
	m.clients[id] = model.Client{ID: id, Name: name, Phone: phone}
	return id, nil
}

type sessionStore struct{ *memStore }

func (m sessionStore) GetByID(ctx context.Context, id uint64) (model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return model.Session{}, sql.ErrNoRows
	}
	return s, nil
}

func (m sessionStore) GetOpenByTable(ctx context.Context, tableID uint64) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		if s.TableID == tableID && s.EndedAt == nil {
			cp := s
			return &cp, nil
		}
	}
	return nil, nil
}

func (m sessionStore) Create(ctx context.Context, s *model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.ID = m.id()
	m.sessions[s.ID] = *s
	return nil
}

func (m sessionStore) Close(ctx context.Context, id uint64, end time.Time, price int64, loser *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return sql.ErrNoRows
	}
	s.EndedAt = &end
	s.PriceMillimes = price
	s.Loser = loser
	m.sessions[id] = s
	return nil
}

func (m sessionStore) SetPaid(ctx context.Context, id uint64, paid bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return sql.ErrNoRows
	}
	s.Paid = paid
	m.sessions[id] = s
	return nil
}

type rateStore struct{ *memStore }

func (m rateStore) Current(ctx context.Context) (model.RateConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rate, nil
}

// newTestLifecycle wires a Lifecycle over a fresh memStore with one
// table and a clock frozen at the returned base time.
func newTestLifecycle(t *testing.T) (*Lifecycle, *memStore, *time.Time) {
	t.Helper()
	store := newMemStore()
	store.tables[1] = model.Table{ID: 1, Number: 1, Name: "Billard A"}

	l := NewLifecycle(store, clientStore{store}, sessionStore{store}, rateStore{store})
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	clock := base
	l.now = func() time.Time { return clock }
	return l, store, &clock
}

func TestStartCreatesOpenSession(t *testing.T) {
	l, store, clock := newTestLifecycle(t)

	s, err := l.Start(context.Background(), 1, "Moez", nil)
	require.NoError(t, err)
	assert.True(t, s.Open())
	assert.Equal(t, *clock, s.StartedAt)
	assert.False(t, s.Paid)
	assert.Zero(t, s.PriceMillimes)

	// Unknown name registered on the fly.
	require.NotNil(t, s.ClientID)
	assert.Equal(t, "Moez", store.clients[*s.ClientID].Name)
}

func TestStartResolvesClientByID(t *testing.T) {
	l, store, _ := newTestLifecycle(t)
	store.clients[7] = model.Client{ID: 7, Name: "Sami"}
	store.nextID = 7

	s, err := l.Start(context.Background(), 1, "7", nil)
	require.NoError(t, err)
	require.NotNil(t, s.ClientID)
	assert.Equal(t, uint64(7), *s.ClientID)

	_, err = l.Stop(context.Background(), s.ID, nil)
	require.NoError(t, err)

	_, err = l.Start(context.Background(), 1, "99", nil)
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestStartBusyTable(t *testing.T) {
	l, _, _ := newTestLifecycle(t)

	first, err := l.Start(context.Background(), 1, "Moez", nil)
	require.NoError(t, err)

	_, err = l.Start(context.Background(), 1, "Sami", nil)
	assert.ErrorIs(t, err, ErrTableBusy)

	// The original open session is unaffected.
	open, _, err := l.OpenSession(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, first.ID, open.ID)
}

func TestStartValidation(t *testing.T) {
	l, _, _ := newTestLifecycle(t)

	_, err := l.Start(context.Background(), 42, "Moez", nil)
	assert.ErrorIs(t, err, ErrTableNotFound)

	_, err = l.Start(context.Background(), 1, "   ", nil)
	assert.ErrorIs(t, err, ErrEmptyClientName)
}

func TestStopFreezesTieredPrice(t *testing.T) {
	l, _, clock := newTestLifecycle(t)

	s, err := l.Start(context.Background(), 1, "Moez", nil)
	require.NoError(t, err)

	// 20 minutes of play under the standard policy: 15 minutes reach the
	// 3.000 DT threshold, the remaining 5 bill at the reduced rate.
	*clock = clock.Add(20 * time.Minute)
	loser := "Moez"
	closed, err := l.Stop(context.Background(), s.ID, &loser)
	require.NoError(t, err)

	require.NotNil(t, closed.EndedAt)
	assert.True(t, !closed.EndedAt.Before(closed.StartedAt))
	assert.Equal(t, int64(3500), closed.PriceMillimes)
	assert.False(t, closed.Paid)
	require.NotNil(t, closed.Loser)
	assert.Equal(t, "Moez", *closed.Loser)

	// The table is free again.
	open, _, err := l.OpenSession(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, open)
}

func TestStopTwiceRejected(t *testing.T) {
	l, _, clock := newTestLifecycle(t)

	s, err := l.Start(context.Background(), 1, "Moez", nil)
	require.NoError(t, err)

	*clock = clock.Add(5 * time.Minute)
	_, err = l.Stop(context.Background(), s.ID, nil)
	require.NoError(t, err)

	_, err = l.Stop(context.Background(), s.ID, nil)
	assert.ErrorIs(t, err, ErrSessionClosed)

	_, err = l.Stop(context.Background(), 999, nil)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestOpenSessionLivePrice(t *testing.T) {
	l, _, clock := newTestLifecycle(t)

	// Free table: no session, no error.
	open, price, err := l.OpenSession(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, open)
	assert.Zero(t, price)

	s, err := l.Start(context.Background(), 1, "Moez", nil)
	require.NoError(t, err)

	*clock = clock.Add(10 * time.Minute)
	open, price, err = l.OpenSession(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, s.ID, open.ID)
	assert.Equal(t, int64(2000), price) // 10 min * 0.200 DT

	// Repeating the read yields the same figure; nothing mutated.
	_, again, err := l.OpenSession(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, price, again)
}

func TestTogglePaidIsItsOwnInverse(t *testing.T) {
	l, _, clock := newTestLifecycle(t)

	s, err := l.Start(context.Background(), 1, "Moez", nil)
	require.NoError(t, err)

	// Works on open sessions.
	s1, err := l.TogglePaid(context.Background(), s.ID)
	require.NoError(t, err)
	assert.True(t, s1.Paid)

	s2, err := l.TogglePaid(context.Background(), s.ID)
	require.NoError(t, err)
	assert.False(t, s2.Paid)

	// And on closed ones.
	*clock = clock.Add(time.Minute)
	closed, err := l.Stop(context.Background(), s.ID, nil)
	require.NoError(t, err)

	s3, err := l.TogglePaid(context.Background(), closed.ID)
	require.NoError(t, err)
	assert.True(t, s3.Paid)

	_, err = l.TogglePaid(context.Background(), 999)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestConcurrentStartsSingleWinner(t *testing.T) {
	l, _, _ := newTestLifecycle(t)

	const n = 16
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.Start(context.Background(), 1, "Moez", nil)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	won := 0
	for err := range errs {
		if err == nil {
			won++
		} else {
			assert.ErrorIs(t, err, ErrTableBusy)
		}
	}
	assert.Equal(t, 1, won)
}
