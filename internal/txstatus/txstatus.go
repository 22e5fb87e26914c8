// Package txstatus tracks the user-visible status of write operations:
// pending, then success or error, then back to idle after a short delay.
// Overlapping operations are not queued; a newer status simply replaces the
// displayed one.
package txstatus

import (
	"sync"
	"time"
)

type State int

const (
	StateIdle State = iota
	StatePending
	StateSuccess
	StateError
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return "idle"
	}
}

const (
	successDismiss = 2 * time.Second
	errorDismiss   = 3 * time.Second
)

// Tracker is safe for concurrent use. OnChange, when set before first use,
// observes every transition including the auto-dismiss back to idle.
type Tracker struct {
	mu      sync.Mutex
	state   State
	message string
	gen     uint64

	after    func(d time.Duration, f func()) *time.Timer
	OnChange func(state State, message string)
}

func NewTracker() *Tracker {
	return &Tracker{after: time.AfterFunc}
}

// Begin marks a write as in flight. Pending status has no auto-dismiss; it
// holds until the operation resolves or the process ends.
func (t *Tracker) Begin(message string) {
	t.set(StatePending, message)
}

// Succeed marks the current write as completed; the status reverts to idle
// after two seconds unless a newer action supersedes it first.
func (t *Tracker) Succeed(message string) {
	gen := t.set(StateSuccess, message)
	t.after(successDismiss, func() { t.dismiss(gen) })
}

// Fail marks the current write as failed; the status reverts to idle after
// three seconds unless a newer action supersedes it first.
func (t *Tracker) Fail(message string) {
	gen := t.set(StateError, message)
	t.after(errorDismiss, func() { t.dismiss(gen) })
}

// Snapshot returns the currently displayed state and message.
func (t *Tracker) Snapshot() (State, string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state, t.message
}

func (t *Tracker) set(s State, message string) uint64 {
	t.mu.Lock()
	t.gen++
	gen := t.gen
	t.state = s
	t.message = message
	cb := t.OnChange
	t.mu.Unlock()

	if cb != nil {
		cb(s, message)
	}
	return gen
}

func (t *Tracker) dismiss(gen uint64) {
	t.mu.Lock()
	if t.gen != gen {
		// Superseded by a newer action; never clobber it.
		t.mu.Unlock()
		return
	}
	t.gen++
	t.state = StateIdle
	t.message = ""
	cb := t.OnChange
	t.mu.Unlock()

	if cb != nil {
		cb(StateIdle, "")
	}
}
