// Package memory provides a volatile BlobStore for tests and for platforms
// without durable storage. Data is lost when the process exits.
package memory

import (
	"context"
	"sync"
)

// Store implements core.BlobStore in memory.
type Store struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{blobs: make(map[string][]byte)}
}

// Get returns a copy of the blob stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.blobs[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, true, nil
}

// Put stores a copy of data under key.
func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	s.blobs[key] = stored
	return nil
}

// Delete removes key. Missing keys are a no-op.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error { return nil }

// Len reports the number of stored keys. Used by tests.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
