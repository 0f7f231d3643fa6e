package analyses

import (
	"context"
	"sync"
)

// State is the lifecycle position of a workflow instance.
type State int

const (
	Idle State = iota
	Pending
	Completed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// Machine guards the Idle -> Pending -> Completed lifecycle of one workflow
// instance. The zero value is Idle.
type Machine struct {
	mu     sync.Mutex
	state  State
	gen    uint64
	cancel context.CancelFunc
}

// Attempt is the handle of one Pending run. Complete and Abort are no-ops
// once the machine has been reset past it.
type Attempt struct {
	m   *Machine
	gen uint64
	ctx context.Context
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Begin moves Idle to Pending. The attempt's context is cancelled by Reset.
func (m *Machine) Begin(ctx context.Context) (*Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch m.state {
	case Pending:
		return nil, ErrInProgress
	case Completed:
		return nil, ErrAlreadyCompleted
	}
	runCtx, cancel := context.WithCancel(ctx)
	m.gen++
	m.state = Pending
	m.cancel = cancel
	return &Attempt{m: m, gen: m.gen, ctx: runCtx}, nil
}

// Reset returns the machine to Idle from any state, cancelling an in-flight
// attempt.
func (m *Machine) Reset() {
	m.reset(nil)
}

// reset is Reset with clear run under the machine lock, so instance data
// tied to the state is dropped atomically with the transition.
func (m *Machine) reset(clear func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if clear != nil {
		clear()
	}
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.gen++
	m.state = Idle
}

// view runs fn with the current state under the machine lock.
func (m *Machine) view(fn func(State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(m.state)
}

// Context is cancelled when the attempt is reset or its parent is done.
func (a *Attempt) Context() context.Context {
	return a.ctx
}

// Complete moves Pending to Completed. commit, when non-nil, runs under the
// machine lock before the state changes, so any reader that observes
// Completed also observes what commit stored. A stale attempt skips commit.
func (a *Attempt) Complete(commit func()) error {
	return a.finish(Completed, commit)
}

// Abort moves Pending back to Idle.
func (a *Attempt) Abort() {
	_ = a.finish(Idle, nil)
}

func (a *Attempt) finish(next State, commit func()) error {
	m := a.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen != a.gen || m.state != Pending {
		return ErrStaleAttempt
	}
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	if commit != nil {
		commit()
	}
	m.state = next
	return nil
}
