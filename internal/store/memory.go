package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sort"
	"sync"
	"time"

	"budget/internal/core"
)

// Memory is the authoritative in-memory transaction store. It owns its
// collection exclusively: the mutex serializes appends and id assignment,
// and every read hands out copies so callers never observe a partial write.
type Memory struct {
	mu    sync.Mutex
	items []core.Transaction
	ids   map[string]struct{}
}

func NewMemory() *Memory {
	return &Memory{ids: make(map[string]struct{})}
}

// NewMemoryWithData builds a store pre-populated with a seed batch, keeping
// the batch order as insertion order. Seed records must already satisfy the
// transaction invariants; records with duplicate or empty ids are rejected.
func NewMemoryWithData(seed []core.Transaction) (*Memory, error) {
	s := NewMemory()
	for _, tx := range seed {
		if tx.ID == "" {
			return nil, fmt.Errorf("seed transaction %q has no id", tx.Description)
		}
		if _, dup := s.ids[tx.ID]; dup {
			return nil, fmt.Errorf("seed transaction id %q is not unique", tx.ID)
		}
		s.ids[tx.ID] = struct{}{}
		s.items = append(s.items, tx)
	}
	return s, nil
}

// List applies the filters in their fixed order: type, then category, then
// the limit truncation, and only then the date-descending sort. The limit
// caps the filtered set in insertion order before chronological reordering,
// so the returned page is not necessarily the k most recent records. That
// ordering is the documented contract; do not "fix" it here.
func (s *Memory) List(_ context.Context, q Query) ([]core.Transaction, error) {
	s.mu.Lock()
	snapshot := make([]core.Transaction, len(s.items))
	copy(snapshot, s.items)
	s.mu.Unlock()

	return applyQuery(snapshot, q), nil
}

// applyQuery runs the filter → limit → sort pipeline over a snapshot the
// caller owns. Shared with the sqlite backend's post-processing.
func applyQuery(items []core.Transaction, q Query) []core.Transaction {
	filtered := items[:0]
	for _, tx := range items {
		if q.Type != "" && tx.Type != q.Type {
			continue
		}
		if q.Category != "" && tx.Category != q.Category {
			continue
		}
		filtered = append(filtered, tx)
	}
	if q.Limit > 0 && len(filtered) > q.Limit {
		filtered = filtered[:q.Limit]
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Date.After(filtered[j].Date)
	})
	return filtered
}

// Create validates, assigns an id and appends atomically. The id stays
// unique across the process lifetime even under concurrent creates: the
// generator runs under the store lock and re-rolls on collision.
func (s *Memory) Create(_ context.Context, in core.TransactionInput) (core.Transaction, error) {
	tx, err := in.Transaction()
	if err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := newID()
	for _, taken := s.ids[id]; taken; _, taken = s.ids[id] {
		id = newID()
	}
	tx.ID = id
	s.ids[id] = struct{}{}
	s.items = append(s.items, tx)
	return tx, nil
}

// Size returns the number of stored transactions.
func (s *Memory) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// NewID generates a transaction identifier: creation unix-millis plus a
// random hex suffix. Uniqueness is ultimately enforced by the store's id
// index, not by the generator alone.
func NewID() string { return newID() }

func newID() string {
	buf := make([]byte, 5)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("%d-%d", time.Now().UnixMilli(), time.Now().UnixNano()%1_000_000)
	}
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), hex.EncodeToString(buf))
}
