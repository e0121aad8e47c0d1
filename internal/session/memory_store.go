package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type memoryEntry struct {
	data    []byte
	expires time.Time
}

// MemoryStore keeps session state in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates a MemoryStore whose entries expire after ttl of
// inactivity.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Load returns a copy of the stored state.
func (m *MemoryStore) Load(_ context.Context, sid string) (*State, error) {
	m.mu.Lock()
	e, ok := m.entries[sid]
	if ok && m.now().After(e.expires) {
		delete(m.entries, sid)
		ok = false
	}
	m.mu.Unlock()

	if !ok {
		return nil, ErrNoSession
	}

	var st State
	if err := json.Unmarshal(e.data, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Save stores a snapshot of st.
func (m *MemoryStore) Save(_ context.Context, st *State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[st.ID] = memoryEntry{data: data, expires: m.now().Add(m.ttl)}
	return nil
}

// Sweep drops expired entries.
func (m *MemoryStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	now := m.now()
	for sid, e := range m.entries {
		if now.After(e.expires) {
			delete(m.entries, sid)
			n++
		}
	}
	return n
}
