// Package store owns the in-memory transaction collection and keeps the local
// snapshot cache and the remote spreadsheet in step with it.
//
// Every mutation is applied to memory, written to the cache and only then
// dispatched to the remote endpoint in the background. Remote outcomes update
// the connectivity tracker and never roll a local change back. Remote calls for
// successive mutations are not ordered relative to each other. A mutation made
// while Reload is fetching is replaced by the fetched list once it arrives,
// even though that mutation was already dispatched.
package store

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"fjacquet/finance-peres/internal/cache"
	"fjacquet/finance-peres/internal/connectivity"
	"fjacquet/finance-peres/internal/dateutils"
	"fjacquet/finance-peres/internal/logging"
	"fjacquet/finance-peres/internal/models"
	"fjacquet/finance-peres/internal/sheets"
	"fjacquet/finance-peres/internal/syncerror"
	"fjacquet/finance-peres/internal/validation"

	"github.com/google/uuid"
)

// Remote is the remote sync client as seen by the store.
type Remote interface {
	FetchAll(ctx context.Context) ([]models.Transaction, error)
	SaveOne(ctx context.Context, record models.Transaction) sheets.Dispatch
	DeleteOne(ctx context.Context, id string) sheets.Dispatch
	SyncAll(ctx context.Context, records []models.Transaction) sheets.Dispatch
}

// FallbackPolicy decides what Reload keeps when the remote fetch fails.
type FallbackPolicy string

const (
	// FallbackCache replaces memory with the cached snapshot.
	FallbackCache FallbackPolicy = "cache"
	// FallbackMemory keeps the resident collection, reading the cache only when memory is empty.
	FallbackMemory FallbackPolicy = "memory"
)

const maxIDAttempts = 1000

// Options tunes a Store.
type Options struct {
	Fallback FallbackPolicy
	// NewID overrides the short numeric id generator.
	NewID func() string
}

// Store is the single owner of the transaction collection. It is safe for
// concurrent use.
type Store struct {
	mu      sync.RWMutex
	records []models.Transaction
	used    map[string]struct{} // every id ever held, so deleted ids are never reissued

	cache    cache.SnapshotCache
	remote   Remote
	tracker  *connectivity.Tracker
	logger   logging.Logger
	fallback FallbackPolicy
	newID    func() string

	inflight sync.WaitGroup
}

// New creates an empty store. Call Warm or Start to populate it.
func New(snapshots cache.SnapshotCache, remote Remote, tracker *connectivity.Tracker, logger logging.Logger, opts Options) *Store {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	if tracker == nil {
		tracker = connectivity.NewTracker(logger)
	}
	if opts.Fallback == "" {
		opts.Fallback = FallbackCache
	}
	newID := opts.NewID
	if newID == nil {
		newID = shortNumericID
	}
	return &Store{
		records:  []models.Transaction{},
		used:     make(map[string]struct{}),
		cache:    snapshots,
		remote:   remote,
		tracker:  tracker,
		logger:   logger.WithField(logging.FieldComponent, "store"),
		fallback: opts.Fallback,
		newID:    newID,
	}
}

// shortNumericID returns a six-digit token.
func shortNumericID() string {
	return strconv.Itoa(100000 + rand.IntN(900000))
}

// Tracker returns the connectivity tracker the store reports to.
func (s *Store) Tracker() *connectivity.Tracker {
	return s.tracker
}

// Load replaces the whole collection and writes it to the cache. Records
// without an id, or repeating one already loaded, get a fresh id. Negative
// amounts are stored as their magnitude. Nothing is sent to the remote.
func (s *Store) Load(ctx context.Context, initial []models.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaceLocked(initial)
	s.cache.WriteSnapshot(ctx, s.records)
}

func (s *Store) replaceLocked(initial []models.Transaction) {
	seen := make(map[string]struct{}, len(initial))
	records := make([]models.Transaction, 0, len(initial))
	for _, t := range initial {
		if _, dup := seen[t.ID]; t.ID == "" || dup {
			old := t.ID
			t.ID = s.freshIDLocked()
			s.logger.Debug("Assigned id while loading",
				logging.F("previous_id", old),
				logging.F(logging.FieldTransactionID, t.ID))
		}
		seen[t.ID] = struct{}{}
		s.used[t.ID] = struct{}{}
		t.Amount = t.Amount.Abs()
		records = append(records, t)
	}
	s.records = records
}

// Warm populates memory from the cached snapshot without touching the remote.
func (s *Store) Warm(ctx context.Context) int {
	cached := s.cache.ReadSnapshot(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaceLocked(cached)
	s.logger.Debug("Warm start from cache", logging.F(logging.FieldCount, len(s.records)))
	return len(s.records)
}

// Start warms the store from the cache and refreshes it from the remote in the background.
func (s *Store) Start(ctx context.Context) {
	s.Warm(ctx)
	bg := context.WithoutCancel(ctx)
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		if err := s.Reload(bg); err != nil {
			s.logger.WithError(err).Warn("Initial remote fetch failed, using local data")
		}
	}()
}

// Reload fetches the authoritative list. On success it replaces memory and
// cache, except that an empty remote list never wipes local records. On
// failure it applies the fallback policy, marks the tracker Offline and
// returns the fetch error.
func (s *Store) Reload(ctx context.Context) error {
	s.tracker.Begin()
	fetched, err := s.remote.FetchAll(ctx)
	if err != nil {
		s.tracker.Fail()
		s.applyFallback(ctx)
		return fmt.Errorf("failed to fetch remote transactions: %w", err)
	}
	s.tracker.Succeed()

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(fetched) == 0 && len(s.records) > 0 {
		s.logger.Warn("Remote returned no transactions, keeping local data",
			logging.F(logging.FieldCount, len(s.records)))
		return nil
	}
	s.replaceLocked(fetched)
	s.cache.WriteSnapshot(ctx, s.records)
	s.logger.Info("Loaded transactions from remote", logging.F(logging.FieldCount, len(s.records)))
	return nil
}

func (s *Store) applyFallback(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fallback == FallbackMemory && len(s.records) > 0 {
		s.logger.Info("Remote unavailable, keeping in-memory data",
			logging.F(logging.FieldCount, len(s.records)))
		return
	}
	s.replaceLocked(s.cache.ReadSnapshot(ctx))
	s.logger.Info("Remote unavailable, using cached snapshot",
		logging.F(logging.FieldCount, len(s.records)))
}

// Add validates record, assigns it a fresh id and appends it.
func (s *Store) Add(ctx context.Context, record models.Transaction) (models.Transaction, error) {
	record.ID = ""
	record, err := validation.Prepare(record)
	if err != nil {
		return models.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	record.ID = s.freshIDLocked()
	s.used[record.ID] = struct{}{}
	s.records = append(s.records, record)
	s.commitLocked(ctx, "save", record.ID, func(ctx context.Context) sheets.Dispatch {
		return s.remote.SaveOne(ctx, record)
	})
	return record, nil
}

// Update replaces the record with the same id. It returns syncerror.ErrNotFound
// and changes nothing when the id is unknown.
func (s *Store) Update(ctx context.Context, record models.Transaction) (models.Transaction, error) {
	if record.ID == "" {
		return models.Transaction{}, &syncerror.ValidationError{Field: "id", Reason: "is required"}
	}
	record, err := validation.Prepare(record)
	if err != nil {
		return models.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(record.ID)
	if i < 0 {
		return models.Transaction{}, fmt.Errorf("update %s: %w", record.ID, syncerror.ErrNotFound)
	}
	s.records[i] = record
	s.commitLocked(ctx, "save", record.ID, func(ctx context.Context) sheets.Dispatch {
		return s.remote.SaveOne(ctx, record)
	})
	return record, nil
}

// Remove deletes the record with id. Unknown ids change nothing and return
// syncerror.ErrNotFound.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return fmt.Errorf("remove %s: %w", id, syncerror.ErrNotFound)
	}
	s.records = append(s.records[:i:i], s.records[i+1:]...)
	s.commitLocked(ctx, "delete", id, func(ctx context.Context) sheets.Dispatch {
		return s.remote.DeleteOne(ctx, id)
	})
	return nil
}

// ToggleStatus flips Pago and Pendente on the record with id.
func (s *Store) ToggleStatus(ctx context.Context, id string) (models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return models.Transaction{}, fmt.Errorf("toggle %s: %w", id, syncerror.ErrNotFound)
	}
	record := s.records[i].WithToggledStatus()
	s.records[i] = record
	s.commitLocked(ctx, "save", id, func(ctx context.Context) sheets.Dispatch {
		return s.remote.SaveOne(ctx, record)
	})
	return record, nil
}

// CopyPreviousMonth copies the income and expense records of the source month
// into the target month. Copies get fresh ids, status Pendente and the source
// day-of-month clamped to the target month length. The whole collection is
// pushed with a single bulk call.
func (s *Store) CopyPreviousMonth(ctx context.Context, fromYear int, fromMonth time.Month, toYear int, toMonth time.Month) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var copies []models.Transaction
	for _, t := range FilterByMonth(s.records, fromYear, fromMonth) {
		if t.Kind == models.KindInvestment {
			continue
		}
		d, err := t.ParsedDate()
		if err != nil {
			continue
		}
		t.ID = s.freshIDLocked()
		s.used[t.ID] = struct{}{}
		t.Status = models.StatusPending
		t.Date = dateutils.ToISODate(dateutils.ShiftIntoMonth(d, toYear, toMonth))
		copies = append(copies, t)
	}
	if len(copies) == 0 {
		return nil, syncerror.ErrNothingToCopy
	}

	s.records = append(s.records, copies...)
	snapshot := models.CloneTransactions(s.records)
	s.commitLocked(ctx, "syncAll", "", func(ctx context.Context) sheets.Dispatch {
		return s.remote.SyncAll(ctx, snapshot)
	})
	s.logger.Info("Copied transactions from previous month",
		logging.F(logging.FieldCount, len(copies)),
		logging.F(logging.FieldYear, toYear),
		logging.F(logging.FieldMonth, int(toMonth)))
	return models.CloneTransactions(copies), nil
}

// Push sends the whole collection with one bulk call and waits for the outcome.
func (s *Store) Push(ctx context.Context) sheets.Dispatch {
	snapshot := s.Snapshot()
	s.tracker.Begin()
	d := s.remote.SyncAll(ctx, snapshot)
	s.tracker.Record(d.OK())
	return d
}

// Get returns the record with id.
func (s *Store) Get(id string) (models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexLocked(id)
	if i < 0 {
		return models.Transaction{}, fmt.Errorf("get %s: %w", id, syncerror.ErrNotFound)
	}
	return s.records[i], nil
}

// Snapshot returns a copy of the whole collection in insertion order.
func (s *Store) Snapshot() []models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneTransactions(s.records)
}

// FilterByMonth returns the records dated in (year, month), month 1-indexed.
func (s *Store) FilterByMonth(year int, month time.Month) []models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return FilterByMonth(s.records, year, month)
}

// Wait blocks until every background remote call has returned.
func (s *Store) Wait() {
	s.inflight.Wait()
}

// FilterByMonth selects the records of (year, month) without modifying records.
// Records whose date cannot be parsed never match.
func FilterByMonth(records []models.Transaction, year int, month time.Month) []models.Transaction {
	out := []models.Transaction{}
	for _, t := range records {
		if t.InMonth(year, month) {
			out = append(out, t)
		}
	}
	return out
}

// commitLocked writes the cache, marks the tracker Syncing and dispatches the
// remote call in the background. Callers hold s.mu, so the three steps of one
// mutation never interleave with another mutation.
func (s *Store) commitLocked(ctx context.Context, op, id string, call func(context.Context) sheets.Dispatch) {
	s.cache.WriteSnapshot(ctx, s.records)
	s.tracker.Begin()

	logger := s.logger.WithFields(logging.F(logging.FieldOperation, op))
	if id != "" {
		logger = logger.WithField(logging.FieldTransactionID, id)
	}

	bg := context.WithoutCancel(ctx)
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		d := call(bg)
		s.tracker.Record(d.OK())
		if !d.OK() {
			logger.WithError(d.Err).Warn("Remote sync failed, local change kept")
			return
		}
		logger.Debug("Remote sync dispatched")
	}()
}

func (s *Store) indexLocked(id string) int {
	for i := range s.records {
		if s.records[i].ID == id {
			return i
		}
	}
	return -1
}

// freshIDLocked returns an id never held by this store.
func (s *Store) freshIDLocked() string {
	for range maxIDAttempts {
		id := s.newID()
		if _, taken := s.used[id]; !taken && id != "" {
			return id
		}
	}
	return uuid.NewString()
}

