package ledger

import (
	"bytes"
	"sync"

	"github.com/google/uuid"
)

// lockTable serializes balance mutations per account id. Locks are
// created on first use and kept for the life of the process.
type lockTable struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (t *lockTable) lock(id uuid.UUID) func() {
	t.mu.Lock()
	m, ok := t.locks[id]
	if !ok {
		m = &sync.Mutex{}
		t.locks[id] = m
	}
	t.mu.Unlock()
	m.Lock()
	return m.Unlock
}

// lockPair acquires both account locks in a fixed global order so two
// transfers moving money in opposite directions between the same pair
// cannot deadlock.
func (t *lockTable) lockPair(a, b uuid.UUID) func() {
	if bytes.Compare(a[:], b[:]) > 0 {
		a, b = b, a
	}
	unlockA := t.lock(a)
	unlockB := t.lock(b)
	return func() {
		unlockB()
		unlockA()
	}
}
