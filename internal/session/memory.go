package session

import (
	"context"
	"encoding/json"
	"sync"

	"buildkit-store/internal/domain"
)

// MemoryStore keeps session data in process memory. It backs tests and
// single-instance deployments without a database-backed session table.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]Data
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]Data)}
}

func (s *MemoryStore) Load(_ context.Context, id string) (Data, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneData(data)
}

func (s *MemoryStore) Save(_ context.Context, id string, data Data) error {
	cloned, err := cloneData(data)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = cloned
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// cloneData round-trips through JSON so callers never share maps with the
// store, and stored values behave exactly as they would coming back from a
// JSON-backed store.
func cloneData(data Data) (Data, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var out Data
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = Data{}
	}
	return out, nil
}
