package storage

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// MemoryStorage is an in-memory implementation of ObjectStorage. It backs
// dev mode (no Cloudinary configured) and tests.
type MemoryStorage struct {
	objects map[string]map[string][]byte // bucket -> key -> bytes
	mu      sync.RWMutex
}

// NewMemoryStorage creates a new instance of MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		objects: make(map[string]map[string][]byte),
	}
}

// Upload stores the object bytes in memory.
func (s *MemoryStorage) Upload(ctx context.Context, bucket, key string, data io.Reader, overwrite bool) error {
	body, err := io.ReadAll(data)
	if err != nil {
		return fmt.Errorf("failed to read object body for %s/%s: %w", bucket, key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.objects[bucket] == nil {
		s.objects[bucket] = make(map[string][]byte)
	}
	if _, exists := s.objects[bucket][key]; exists && !overwrite {
		return fmt.Errorf("object %s/%s already exists", bucket, key)
	}
	s.objects[bucket][key] = body
	return nil
}

// PublicURL returns a synthetic URL for the key.
func (s *MemoryStorage) PublicURL(bucket, key string) string {
	return fmt.Sprintf("https://storage.local/%s/%s", bucket, key)
}

// Remove deletes the given keys; missing keys are ignored.
func (s *MemoryStorage) Remove(ctx context.Context, bucket string, keys []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		delete(s.objects[bucket], key)
	}
	return nil
}

// Object returns the stored bytes for a key, if present.
func (s *MemoryStorage) Object(bucket, key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	body, ok := s.objects[bucket][key]
	return body, ok
}

// Count returns the number of objects held in a bucket.
func (s *MemoryStorage) Count(bucket string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.objects[bucket])
}
