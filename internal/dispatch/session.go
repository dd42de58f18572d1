package dispatch

import (
	"errors"
	"sync"

	"github.com/muldoon/wledctl/internal/fleet"
)

var (
	// ErrNothingToRetry means no replayable command has run yet.
	ErrNothingToRetry = errors.New("nothing to retry")

	// ErrNoFailures means a recorded command has no failed devices left,
	// for example because the registry no longer knows their keys.
	ErrNoFailures = errors.New("no failed devices to retry")
)

// Session owns the mutable state of one interactive run: the per-device
// retry budget, plus the last bulk command and the devices it failed on.
// Nothing here survives process exit.
type Session struct {
	mu      sync.Mutex
	retries int
	lastOp  Operation
	failed  []string
}

// NewSession creates a session with the given starting retry budget.
func NewSession(retries int) *Session {
	if retries < 0 {
		retries = 0
	}
	return &Session{retries: retries}
}

// Retries returns the extra attempts each device gets after the first.
func (s *Session) Retries() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.retries
}

// SetRetries replaces the retry budget. Negative values clamp to zero.
func (s *Session) SetRetries(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n < 0 {
		n = 0
	}
	s.retries = n
}

// Record stores op as the last replayable command together with the
// devices it failed on. An error-free result clears the session instead:
// with nothing left failing there is nothing a retry could add, and a
// stale command must not linger as a retry target.
func (s *Session) Record(op Operation, result *Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	failed := result.FailedKeys()
	if len(failed) == 0 {
		s.lastOp = nil
		s.failed = nil
		return
	}
	s.lastOp = op
	s.failed = failed
}

// Clear forgets the last command entirely. Interactions that have no
// deterministic replay (scans, listings, group edits, the identify
// walk) call this so a stale failure set cannot be retried against a
// reshaped fleet.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastOp = nil
	s.failed = nil
}

// Last describes the recorded command and its failure count for display.
// ok is false when nothing is recorded.
func (s *Session) Last() (name string, failed int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastOp == nil {
		return "", 0, false
	}
	return s.lastOp.Name(), len(s.failed), true
}

// RetryTarget returns the recorded command and the devices that failed
// during its most recent run, resolved against the registry. The caller
// re-runs the operation over exactly that set and Records the outcome,
// replacing the failure set with the new one.
func (s *Session) RetryTarget(reg *fleet.Registry) (Operation, []*fleet.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastOp == nil {
		return nil, nil, ErrNothingToRetry
	}
	if len(s.failed) == 0 {
		return nil, nil, ErrNoFailures
	}

	devices := reg.ByKeys(s.failed)
	if len(devices) == 0 {
		// Keys can only disappear if the registry was rebuilt; treat it
		// the same as having nothing failing.
		return nil, nil, ErrNoFailures
	}
	return s.lastOp, devices, nil
}
