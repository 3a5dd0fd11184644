package ledger

import (
	"context"
	"sync"
)

// Store is the durable collection behind a Ledger. Implementations need
// not serialize concurrent callers; the Ledger does.
type Store interface {
	// Load returns every stored entry.
	Load(ctx context.Context) ([]Entry, error)
	// Put inserts e, or replaces the entry with the same key.
	Put(ctx context.Context, e Entry) error
	// Clear removes all entries.
	Clear(ctx context.Context) error
}

// MemoryStore is a Store that lives only as long as the process.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[Key]Entry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[Key]Entry)}
}

func (m *MemoryStore) Load(_ context.Context) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e)
	}
	return out, nil
}

func (m *MemoryStore) Put(_ context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[e.Key()] = e
	return nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[Key]Entry)
	return nil
}
