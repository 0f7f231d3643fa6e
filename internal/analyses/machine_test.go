package analyses

import (
	"context"
	"errors"
	"testing"
)

func TestMachineLifecycle(t *testing.T) {
	var m Machine
	if m.State() != Idle {
		t.Fatalf("zero machine should be idle, got %s", m.State())
	}

	a, err := m.Begin(context.Background())
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if m.State() != Pending {
		t.Fatalf("expected pending, got %s", m.State())
	}
	if _, err := m.Begin(context.Background()); !errors.Is(err, ErrInProgress) {
		t.Fatalf("expected ErrInProgress, got %v", err)
	}

	if err := a.Complete(nil); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if m.State() != Completed {
		t.Fatalf("expected completed, got %s", m.State())
	}
	if a.Context().Err() == nil {
		t.Fatalf("attempt context should be released after completion")
	}
	if _, err := m.Begin(context.Background()); !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("expected ErrAlreadyCompleted, got %v", err)
	}

	m.Reset()
	if m.State() != Idle {
		t.Fatalf("expected idle after reset, got %s", m.State())
	}
}

func TestMachineAbortReturnsToIdle(t *testing.T) {
	var m Machine
	a, err := m.Begin(context.Background())
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	a.Abort()
	if m.State() != Idle {
		t.Fatalf("expected idle, got %s", m.State())
	}
	if _, err := m.Begin(context.Background()); err != nil {
		t.Fatalf("Begin after abort: %v", err)
	}
}

func TestMachineResetCancelsAndInvalidatesAttempt(t *testing.T) {
	var m Machine
	stale, err := m.Begin(context.Background())
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}

	m.Reset()
	if stale.Context().Err() == nil {
		t.Fatalf("reset should cancel the in-flight attempt")
	}

	fresh, err := m.Begin(context.Background())
	if err != nil {
		t.Fatalf("Begin after reset: %v", err)
	}

	// the reset run finishing late must not disturb the new one
	stale.Abort()
	if err := stale.Complete(nil); !errors.Is(err, ErrStaleAttempt) {
		t.Fatalf("expected ErrStaleAttempt, got %v", err)
	}
	if m.State() != Pending {
		t.Fatalf("stale attempt changed state to %s", m.State())
	}
	if err := fresh.Complete(nil); err != nil {
		t.Fatalf("Complete: %v", err)
	}
}

func TestMachineCommitRunsBeforeCompleted(t *testing.T) {
	var m Machine
	a, err := m.Begin(context.Background())
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}

	var seen State = Completed
	if err := a.Complete(func() { seen = m.state }); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if seen != Pending {
		t.Fatalf("commit ran in state %s, want pending", seen)
	}

	stale, err := (&Machine{}).Begin(context.Background())
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	stale.m.Reset()
	ran := false
	if err := stale.Complete(func() { ran = true }); !errors.Is(err, ErrStaleAttempt) {
		t.Fatalf("expected ErrStaleAttempt, got %v", err)
	}
	if ran {
		t.Fatalf("commit must not run for a reset attempt")
	}
}

func TestStateString(t *testing.T) {
	if Idle.String() != "idle" || Pending.String() != "pending" || Completed.String() != "completed" {
		t.Fatalf("unexpected state names")
	}
	if State(9).String() != "unknown" {
		t.Fatalf("expected unknown for out-of-range state")
	}
}
