package localstore

import "sync"

// MemoryStore is the in-memory BlobStore used in tests and throwaway
// tooling. Safe for concurrent use, unlike the contract it fakes.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte

	// FailKeys forces storage faults in tests: any access to a listed
	// key returns FailErr.
	FailKeys map[string]bool
	FailErr  error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func (s *MemoryStore) Get(key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.FailKeys[key] {
		return nil, false, s.FailErr
	}
	data, ok := s.blobs[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, true, nil
}

func (s *MemoryStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailKeys[key] {
		return s.FailErr
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	s.blobs[key] = stored
	return nil
}

func (s *MemoryStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailKeys[key] {
		return s.FailErr
	}
	delete(s.blobs, key)
	return nil
}
