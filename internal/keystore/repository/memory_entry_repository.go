package repository

import (
	"context"
	"maps"
	"sync"

	keystoreDomain "github.com/allisson/omnichat/internal/keystore/domain"
)

// MemoryEntryRepository keeps keystore entries in process memory.
//
// It also implements database.TxManager: WithTx snapshots the entries and restores them
// when the function fails, so multi-entry writes stay all-or-nothing without a database.
// Transactions are serialized.
type MemoryEntryRepository struct {
	mu      sync.RWMutex
	txMu    sync.Mutex
	entries map[string]string
}

// NewMemoryEntryRepository creates an empty in-memory repository.
func NewMemoryEntryRepository() *MemoryEntryRepository {
	return &MemoryEntryRepository{entries: make(map[string]string)}
}

// Get returns the value stored under name or ErrEntryNotFound.
func (m *MemoryEntryRepository) Get(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.entries[name]
	if !ok {
		return "", keystoreDomain.ErrEntryNotFound
	}
	return value, nil
}

// Set stores value under name.
func (m *MemoryEntryRepository) Set(ctx context.Context, name, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[name] = value
	return nil
}

// Delete removes the entry.
func (m *MemoryEntryRepository) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, name)
	return nil
}

type memoryTxKey struct{}

// WithTx runs fn and rolls every entry back to its previous value when fn returns an error.
// A nested call joins the outer transaction.
func (m *MemoryEntryRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if owner, ok := ctx.Value(memoryTxKey{}).(*MemoryEntryRepository); ok && owner == m {
		return fn(ctx)
	}

	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.RLock()
	saved := maps.Clone(m.entries)
	m.mu.RUnlock()

	if err := fn(context.WithValue(ctx, memoryTxKey{}, m)); err != nil {
		m.mu.Lock()
		m.entries = saved
		m.mu.Unlock()
		return err
	}
	return nil
}

// Len returns the number of stored entries.
func (m *MemoryEntryRepository) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
