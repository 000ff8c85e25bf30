// Package cache persists full transaction snapshots on the device.
//
// A snapshot cache never fails from the caller's point of view: unreadable or
// malformed data reads as an empty snapshot and write failures are logged and
// dropped, leaving the application on its in-memory state.
package cache

import (
	"context"
	"encoding/json"

	"fjacquet/finance-peres/internal/models"
)

// DefaultKey is the well-known key the snapshot is stored under.
const DefaultKey = "ff_transactions"

// SnapshotCache reads and writes the full transaction snapshot.
type SnapshotCache interface {
	ReadSnapshot(ctx context.Context) []models.Transaction
	WriteSnapshot(ctx context.Context, records []models.Transaction)
}

// decodeSnapshot parses a stored snapshot. ok is false when data is not a JSON
// array of transactions.
func decodeSnapshot(data []byte) (records []models.Transaction, ok bool) {
	if len(data) == 0 {
		return []models.Transaction{}, true
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return []models.Transaction{}, false
	}
	if records == nil {
		records = []models.Transaction{}
	}
	return records, true
}

func encodeSnapshot(records []models.Transaction) ([]byte, error) {
	return json.Marshal(models.CloneTransactions(records))
}
