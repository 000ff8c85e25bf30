package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/finance-peres/internal/logging"
	"fjacquet/finance-peres/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []models.Transaction {
	return []models.Transaction{
		{
			ID:          "123456",
			Description: "Aluguel",
			Amount:      decimal.RequireFromString("1200"),
			Date:        "2024-03-01",
			Category:    "Moradia",
			Kind:        models.KindExpense,
			Status:      models.StatusPending,
			Frequency:   models.FrequencyFixed,
		},
		{
			ID:          "654321",
			Description: "Salário",
			Amount:      decimal.RequireFromString("4500.75"),
			Date:        "2024-03-05",
			Category:    "Salário",
			Kind:        models.KindIncome,
			Status:      models.StatusPaid,
			Frequency:   models.FrequencyFixed,
		},
	}
}

func newTestRedisCache(t *testing.T, logger logging.Logger) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := NewRedisClient(mr.Addr(), 0)
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCache(client, DefaultKey, logger), mr
}

func TestFileCache_MissingFileIsEmpty(t *testing.T) {
	logger := logging.NewMockLogger()
	c := NewFileCache(t.TempDir(), "", logger)

	records := c.ReadSnapshot(context.Background())
	assert.NotNil(t, records)
	assert.Empty(t, records)
	assert.Empty(t, logger.GetEntriesByLevel("WARN"))
	assert.Equal(t, DefaultKey+".json", filepath.Base(c.Path()))
}

func TestFileCache_RoundTripIsIdempotent(t *testing.T) {
	ctx := context.Background()
	c := NewFileCache(filepath.Join(t.TempDir(), "nested"), DefaultKey, nil)

	c.WriteSnapshot(ctx, sampleRecords())
	first := c.ReadSnapshot(ctx)
	require.Len(t, first, 2)

	for i := 0; i < 3; i++ {
		c.WriteSnapshot(ctx, c.ReadSnapshot(ctx))
	}
	assert.Equal(t, first, c.ReadSnapshot(ctx))
	assert.True(t, first[1].Amount.Equal(decimal.RequireFromString("4500.75")))
}

func TestFileCache_MalformedIsEmpty(t *testing.T) {
	dir := t.TempDir()
	logger := logging.NewMockLogger()
	c := NewFileCache(dir, DefaultKey, logger)
	require.NoError(t, os.WriteFile(c.Path(), []byte(`{"not":"an array"}`), 0600))

	assert.Empty(t, c.ReadSnapshot(context.Background()))
	assert.True(t, logger.HasEntry("WARN", "Malformed snapshot, starting empty"))
}

func TestFileCache_WriteFailureIsSwallowed(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))

	logger := logging.NewMockLogger()
	// The cache directory is a regular file, so every write fails.
	c := NewFileCache(blocker, DefaultKey, logger)

	assert.NotPanics(t, func() { c.WriteSnapshot(context.Background(), sampleRecords()) })
	assert.True(t, logger.HasEntry("ERROR", "Failed to write snapshot"))
}

func TestRedisCache_RoundTripIsIdempotent(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedisCache(t, nil)

	assert.Empty(t, c.ReadSnapshot(ctx))

	c.WriteSnapshot(ctx, sampleRecords())
	first := c.ReadSnapshot(ctx)
	require.Len(t, first, 2)
	assert.Equal(t, "Aluguel", first[0].Description)

	c.WriteSnapshot(ctx, c.ReadSnapshot(ctx))
	assert.Equal(t, first, c.ReadSnapshot(ctx))
	assert.True(t, mr.Exists(DefaultKey))
	assert.Zero(t, mr.TTL(DefaultKey))
}

func TestRedisCache_MalformedIsEmpty(t *testing.T) {
	logger := logging.NewMockLogger()
	c, mr := newTestRedisCache(t, logger)
	require.NoError(t, mr.Set(DefaultKey, "not json"))

	assert.Empty(t, c.ReadSnapshot(context.Background()))
	assert.True(t, logger.HasEntry("WARN", "Malformed snapshot, starting empty"))
}

func TestRedisCache_UnreachableIsSwallowed(t *testing.T) {
	logger := logging.NewMockLogger()
	c, mr := newTestRedisCache(t, logger)
	mr.Close()

	ctx := context.Background()
	assert.NotPanics(t, func() { c.WriteSnapshot(ctx, sampleRecords()) })
	assert.Empty(t, c.ReadSnapshot(ctx))
	assert.True(t, logger.HasEntry("ERROR", "Failed to write snapshot"))
	assert.True(t, logger.HasEntry("WARN", "Failed to read snapshot, starting empty"))
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryCache(sampleRecords()[0])
	assert.Len(t, m.ReadSnapshot(ctx), 1)

	m.WriteSnapshot(ctx, sampleRecords())
	assert.Len(t, m.ReadSnapshot(ctx), 2)
	assert.Equal(t, 1, m.Writes())

	m.FailWrites = true
	m.WriteSnapshot(ctx, nil)
	assert.Len(t, m.ReadSnapshot(ctx), 2)
}

func TestDecodeSnapshot_NullIsEmpty(t *testing.T) {
	records, ok := decodeSnapshot([]byte("null"))
	assert.True(t, ok)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

var (
	_ SnapshotCache = (*FileCache)(nil)
	_ SnapshotCache = (*RedisCache)(nil)
	_ SnapshotCache = (*MemoryCache)(nil)
)
