package history

import (
	"context"
	"sort"
	"sync"
	"time"
)

type memoryEntry struct {
	session Session
	seq     uint64
}

// MemoryStore keeps sessions in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	entries []memoryEntry
	seq     uint64
	max     int
	now     clock
}

// NewMemoryStore returns an empty store holding at most maxSessions sessions.
func NewMemoryStore(maxSessions int) *MemoryStore {
	return &MemoryStore{max: capacity(maxSessions), now: time.Now}
}

// Save implements Store.
func (m *MemoryStore) Save(_ context.Context, s Session) (*Session, error) {
	s, ok, err := normalize(s, m.now())
	if err != nil || !ok {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	replaced := false
	for i := range m.entries {
		if m.entries[i].session.ID == s.ID {
			s.CreatedAt = m.entries[i].session.CreatedAt
			m.entries[i].session = s
			replaced = true
			break
		}
	}
	if !replaced {
		m.seq++
		m.entries = append(m.entries, memoryEntry{session: s, seq: m.seq})
	}

	if len(m.entries) > m.max {
		m.sortOldestFirst()
		m.entries = append([]memoryEntry(nil), m.entries[len(m.entries)-m.max:]...)
	}

	for _, e := range m.entries {
		if e.session.ID == s.ID {
			out := clone(e.session)
			return &out, nil
		}
	}
	// older than everything kept, evicted by its own insert
	return nil, nil
}

// List implements Store.
func (m *MemoryStore) List(_ context.Context) ([]Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sortOldestFirst()
	out := make([]Session, 0, len(m.entries))
	for i := len(m.entries) - 1; i >= 0; i-- {
		out = append(out, clone(m.entries[i].session))
	}
	return out, nil
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.entries {
		if e.session.ID == id {
			out := clone(e.session)
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

// Delete implements Store.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, e := range m.entries {
		if e.session.ID == id {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// DeleteAll implements Store.
func (m *MemoryStore) DeleteAll(_ context.Context) error {
	m.mu.Lock()
	m.entries = nil
	m.mu.Unlock()
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) sortOldestFirst() {
	sort.SliceStable(m.entries, func(i, j int) bool {
		a, b := m.entries[i], m.entries[j]
		if !a.session.CreatedAt.Equal(b.session.CreatedAt) {
			return a.session.CreatedAt.Before(b.session.CreatedAt)
		}
		return a.seq < b.seq
	})
}

func clone(s Session) Session {
	s.Messages = append([]Message(nil), s.Messages...)
	return s
}
