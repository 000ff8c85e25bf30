package store

import (
	"context"
	"errors"
	"sync"

	"fjacquet/finance-peres/internal/models"
	"fjacquet/finance-peres/internal/sheets"
	"fjacquet/finance-peres/internal/syncerror"
)

// RemoteCall is one write received by MockRemote.
type RemoteCall struct {
	Action  string
	Record  models.Transaction
	ID      string
	Records []models.Transaction
}

// MockRemote is an in-memory Remote for tests.
type MockRemote struct {
	mu    sync.Mutex
	calls []RemoteCall

	// FetchRecords is returned by FetchAll when FetchErr is nil.
	FetchRecords []models.Transaction
	FetchErr     error
	// FailWrites makes every write report a transport failure.
	FailWrites bool
}

// FetchAll returns FetchRecords or FetchErr.
func (m *MockRemote) FetchAll(_ context.Context) ([]models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	return models.CloneTransactions(m.FetchRecords), nil
}

// SaveOne records a save.
func (m *MockRemote) SaveOne(_ context.Context, record models.Transaction) sheets.Dispatch {
	return m.record(RemoteCall{Action: sheets.ActionSave, Record: record, ID: record.ID})
}

// DeleteOne records a delete.
func (m *MockRemote) DeleteOne(_ context.Context, id string) sheets.Dispatch {
	return m.record(RemoteCall{Action: sheets.ActionDelete, ID: id})
}

// SyncAll records a bulk replace.
func (m *MockRemote) SyncAll(_ context.Context, records []models.Transaction) sheets.Dispatch {
	return m.record(RemoteCall{Action: sheets.ActionSyncAll, Records: models.CloneTransactions(records)})
}

func (m *MockRemote) record(call RemoteCall) sheets.Dispatch {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
	if m.FailWrites {
		return sheets.Dispatch{
			Outcome: sheets.TransportFailed,
			Err:     &syncerror.TransportError{Op: call.Action, Err: errors.New("connection refused")},
		}
	}
	return sheets.Dispatch{Outcome: sheets.Dispatched}
}

// Calls returns a copy of the writes received so far.
func (m *MockRemote) Calls() []RemoteCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RemoteCall, len(m.calls))
	copy(out, m.calls)
	return out
}
