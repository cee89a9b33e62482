package mockapi

import (
	"slices"
	"sync"
)

type row[T any] struct {
	owner int64
	value T
}

// table holds one resource type for every user, keyed by record id.
type table[T any] struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]row[T]
	setID  func(*T, int64)
}

func newTable[T any](setID func(*T, int64)) *table[T] {
	return &table[T]{rows: make(map[int64]row[T]), setID: setID}
}

// list returns the owner's records in id order.
func (t *table[T]) list(owner int64, keep func(T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ids := make([]int64, 0, len(t.rows))
	for id, r := range t.rows {
		if r.owner == owner && (keep == nil || keep(r.value)) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.rows[id].value)
	}
	return out
}

func (t *table[T]) insert(owner int64, v T) T {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.nextID++
	t.setID(&v, t.nextID)
	t.rows[t.nextID] = row[T]{owner: owner, value: v}
	return v
}

// ownerOf reports who owns id.
func (t *table[T]) ownerOf(id int64) (int64, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	r, ok := t.rows[id]
	return r.owner, ok
}

func (t *table[T]) replace(id int64, v T) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	r, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, false
	}
	t.setID(&v, id)
	t.rows[id] = row[T]{owner: r.owner, value: v}
	return v, true
}

func (t *table[T]) remove(id int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	return true
}

func (t *table[T]) count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}
