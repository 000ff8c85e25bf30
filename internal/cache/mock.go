package cache

import (
	"context"
	"sync"

	"fjacquet/finance-peres/internal/models"
)

// MemoryCache is an in-process SnapshotCache for tests.
type MemoryCache struct {
	mu      sync.Mutex
	records []models.Transaction
	writes  int

	// FailWrites drops writes, simulating a full or read-only storage.
	FailWrites bool
}

// NewMemoryCache creates a cache pre-populated with records.
func NewMemoryCache(records ...models.Transaction) *MemoryCache {
	return &MemoryCache{records: models.CloneTransactions(records)}
}

// ReadSnapshot returns a copy of the stored records.
func (m *MemoryCache) ReadSnapshot(_ context.Context) []models.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return models.CloneTransactions(m.records)
}

// WriteSnapshot stores a copy of records unless FailWrites is set.
func (m *MemoryCache) WriteSnapshot(_ context.Context, records []models.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return
	}
	m.records = models.CloneTransactions(records)
	m.writes++
}

// Writes returns the number of stored snapshots.
func (m *MemoryCache) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
