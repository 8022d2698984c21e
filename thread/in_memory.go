package thread

import (
	"sort"
	"sync"
	"time"

	"github.com/maestro-agents/maestro/core"
)

// InMemoryStore is a volatile ThreadStore implementation keeping threads in a
// process local map. It is safe for concurrent access. Unlike snapshot-style
// stores it returns live thread pointers: the embedded Conversation is
// internally synchronized and append-only, so concurrent runs over the same
// thread share one history.
type InMemoryStore struct {
	mu      sync.Mutex
	threads map[string]*core.Thread
}

// NewInMemoryStore constructs an empty in‑memory thread store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{threads: make(map[string]*core.Thread)}
}

// Get returns the thread with the given id, creating it lazily.
func (s *InMemoryStore) Get(id string) (*core.Thread, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if th, ok := s.threads[id]; ok {
		return th, nil
	}
	th := core.NewThread(id)
	s.threads[id] = th
	return th, nil
}

// Touch records activity on a thread, creating it if needed.
func (s *InMemoryStore) Touch(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	th, ok := s.threads[id]
	if !ok {
		th = core.NewThread(id)
		s.threads[id] = th
	}
	th.Updated = time.Now().UTC()
	return nil
}

// List returns the ids of all known threads in lexical order.
func (s *InMemoryStore) List() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.threads))
	for id := range s.threads {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
