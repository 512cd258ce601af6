package session

import (
	"context"
	"sync"
)

// Keys used in session and persistent storage
const (
	TokenKey           = "token"
	RememberedTokenKey = "authToken"
	RememberedUserKey  = "user"
)

// Store is a key-value store scoped to a single session
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Remove(key string)
}

// PersistentStore holds "remember me" artifacts that outlive a session
type PersistentStore interface {
	Remove(ctx context.Context, key string) error
}

// MemoryStore is an in-process Store. Its contents die with the process.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryStore returns an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

func (s *MemoryStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

func (s *MemoryStore) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
}
