package database

import (
	"context"
	"sync"
)

// MemoryUserStore keeps the record in process memory. It is the fallback
// when redis is unreachable, and the spill target for failed redis writes.
type MemoryUserStore struct {
	mu   sync.RWMutex
	user User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{}
}

func (s *MemoryUserStore) GetUser(_ context.Context) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.clone()
}

func (s *MemoryUserStore) StoreUser(_ context.Context, u User) error {
	c, err := u.clone()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = c
	return nil
}

func (s *MemoryUserStore) Backend() Backend {
	return BackendMemory
}
