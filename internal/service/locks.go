package service

import "sync"

// tableLocks hands out one mutex per table ID so that start/stop/paid
// mutations against the same table are serialized while different tables
// proceed independently.  Locks are created lazily and never discarded;
// a hall has a handful of tables, so the map stays tiny.
type tableLocks struct {
	mu sync.Mutex
	m  map[uint64]*sync.Mutex
}

func newTableLocks() *tableLocks {
	return &tableLocks{m: make(map[uint64]*sync.Mutex)}
}

// forTable returns the mutex guarding the given table, allocating it on
// first use.
func (l *tableLocks) forTable(id uint64) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	mu, ok := l.m[id]
	if !ok {
		mu = &sync.Mutex{}
		l.m[id] = mu
	}
	return mu
}
