package mediastore

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps media in process memory. Development and test backend.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
	baseURL string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		objects: make(map[string][]byte),
		baseURL: "mem://media",
	}
}

func (s *MemoryStore) Put(_ context.Context, data []byte, meta Metadata) (Ref, error) {
	path := fmt.Sprintf("media/%s/%s", uuid.New().String()[:8], meta.Filename)

	s.mu.Lock()
	s.objects[path] = append([]byte(nil), data...)
	s.mu.Unlock()

	return Ref{
		PublicURL:   s.baseURL + "/" + path,
		StoragePath: path,
	}, nil
}

func (s *MemoryStore) Get(_ context.Context, storagePath string) ([]byte, error) {
	s.mu.RLock()
	data, ok := s.objects[storagePath]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("object not found: %s", storagePath)
	}

	return append([]byte(nil), data...), nil
}

func (s *MemoryStore) Delete(_ context.Context, storagePath string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.objects[storagePath]; !ok {
		return false, nil
	}

	delete(s.objects, storagePath)

	return true, nil
}

// Len reports the number of stored objects.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.objects)
}
