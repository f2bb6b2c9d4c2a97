package store

import (
	"context"
	"sync"
)

// MemoryStore keeps state in process memory. Used for tests and local runs.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, clientID, key string) (string, bool, error) {
	if clientID == "" {
		return "", false, ErrEmptyClientID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[docID(clientID, key)]
	return v, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, clientID, key, value string) error {
	if clientID == "" {
		return ErrEmptyClientID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[docID(clientID, key)] = value
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, clientID string, keys ...string) error {
	if clientID == "" {
		return ErrEmptyClientID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.data, docID(clientID, k))
	}
	return nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }
