package session

import (
	"context"
	"sync"

	"github.com/octabyte/bm-health-portal/models"
)

// MemoryStore keeps the session for the lifetime of the process.
type MemoryStore struct {
	mu      sync.RWMutex
	current models.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Save(ctx context.Context, s models.Session) error {
	if !s.Valid() {
		return ErrIncompleteSession
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = models.Session{Token: s.Token, User: cloneUser(s.User)}
	return nil
}

func (m *MemoryStore) Load(ctx context.Context) (models.Session, error) {
	if err := ctx.Err(); err != nil {
		return models.Session{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return models.Session{Token: m.current.Token, User: cloneUser(m.current.User)}, nil
}

func (m *MemoryStore) Clear(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cleared := m.current.Authenticated()
	m.current = models.Session{}
	return cleared, nil
}
