// Package connectivity tracks the outcome of the most recent remote call.
package connectivity

import (
	"sync"

	"fjacquet/finance-peres/internal/logging"
)

// State is the tri-state connectivity indicator.
type State string

const (
	Online  State = "online"
	Offline State = "offline"
	Syncing State = "syncing"
)

// Tracker holds the process-wide connectivity state. It never gates writes;
// it only reports what the last remote call observed. The store updates it
// while holding its own lock, so Tracker must never call back into callers.
type Tracker struct {
	mu     sync.RWMutex
	state  State
	logger logging.Logger
}

// NewTracker returns a tracker in the Syncing state, the state of an
// application that has not finished its initial fetch yet.
func NewTracker(logger logging.Logger) *Tracker {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Tracker{state: Syncing, logger: logger}
}

// Current returns the current state.
func (t *Tracker) Current() State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

// Begin marks the start of a remote call.
func (t *Tracker) Begin() { t.set(Syncing) }

// Succeed records a successful remote call.
func (t *Tracker) Succeed() { t.set(Online) }

// Fail records a failed remote call.
func (t *Tracker) Fail() { t.set(Offline) }

// Record sets Online when ok is true and Offline otherwise.
func (t *Tracker) Record(ok bool) {
	if ok {
		t.Succeed()
		return
	}
	t.Fail()
}

func (t *Tracker) set(s State) {
	t.mu.Lock()
	prev := t.state
	t.state = s
	t.mu.Unlock()

	if prev == s {
		return
	}
	t.logger.Debug("Connectivity changed",
		logging.F(logging.FieldState, string(s)),
		logging.F("previous", string(prev)))
}
