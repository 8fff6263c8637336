package activeobject_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/renebarto/gonet/internal/activeobject"
)

// TestCreateRunsInitRunExitInOrder verifies the three hooks fire in the
// documented order exactly once each.
func TestCreateRunsInitRunExitInOrder(t *testing.T) {
	t.Parallel()

	var events []string
	a := activeobject.New("test", nil, activeobject.Hooks{
		Init: func(context.Context) error { events = append(events, "init"); return nil },
		Run: func(ctx context.Context) error {
			events = append(events, "run")
			<-ctx.Done()
			return nil
		},
		Exit: func() { events = append(events, "exit") },
	})

	if err := a.Create(context.Background()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := a.Kill(); err != nil {
		t.Fatalf("Kill: %v", err)
	}

	want := []string{"init", "run", "exit"}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("events = %v, want %v", events, want)
		}
	}
}

// TestInitFailureNeverRunsRun verifies a failing Init aborts startup
// without ever invoking Run.
func TestInitFailureNeverRunsRun(t *testing.T) {
	t.Parallel()

	initErr := errors.New("boom")
	ran := false
	a := activeobject.New("test", nil, activeobject.Hooks{
		Init: func(context.Context) error { return initErr },
		Run:  func(context.Context) error { ran = true; return nil },
	})

	if err := a.Create(context.Background()); !errors.Is(err, initErr) {
		t.Fatalf("Create error = %v, want %v", err, initErr)
	}
	if ran {
		t.Fatal("Run must not execute when Init fails")
	}
	if a.Alive() {
		t.Fatal("Alive should be false after a failed Create")
	}
}

// TestKillStopsRunningLoopAndReportsResult verifies Kill cancels the
// loop's context, waits for it to finish, and surfaces Run's result.
func TestKillStopsRunningLoopAndReportsResult(t *testing.T) {
	t.Parallel()

	runErr := errors.New("stopped early")
	a := activeobject.New("test", nil, activeobject.Hooks{
		Run: func(ctx context.Context) error {
			<-ctx.Done()
			return runErr
		},
	})

	if err := a.Create(context.Background()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !a.Alive() {
		t.Fatal("Alive should be true while Run blocks")
	}

	if err := a.Kill(); !errors.Is(err, runErr) {
		t.Fatalf("Kill result = %v, want %v", err, runErr)
	}
	if a.Alive() {
		t.Fatal("Alive should be false after Kill completes")
	}
}

// TestKillInvokesFlushHookBeforeCancel verifies Kill runs Hooks.Flush to
// release a Run loop that blocks on something other than ctx.Done
// (e.g. a connworker.Worker parked in a blocking Recv) before it
// cancels the context, and that Kill still returns promptly.
func TestKillInvokesFlushHookBeforeCancel(t *testing.T) {
	t.Parallel()

	block := make(chan struct{})
	started := make(chan struct{})
	var runCtx context.Context
	flushed := false
	flushSawCancel := false
	a := activeobject.New("test", nil, activeobject.Hooks{
		Run: func(ctx context.Context) error {
			runCtx = ctx
			close(started)
			<-block // only Hooks.Flush closes this; ctx.Done alone can't
			return nil
		},
		Flush: func() {
			flushed = true
			flushSawCancel = runCtx.Err() != nil
			close(block)
		},
	})

	if err := a.Create(context.Background()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	<-started

	done := make(chan error, 1)
	go func() { done <- a.Kill() }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Kill: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Kill did not return: Flush hook was never invoked")
	}
	if !flushed {
		t.Fatal("Flush hook was not invoked")
	}
	if flushSawCancel {
		t.Fatal("Flush hook ran after the context was cancelled")
	}
}

// TestAliveBecomesFalseWhenRunReturnsOnItsOwn verifies the active object
// self-terminates without Kill when Run returns naturally.
func TestAliveBecomesFalseWhenRunReturnsOnItsOwn(t *testing.T) {
	t.Parallel()

	a := activeobject.New("test", nil, activeobject.Hooks{
		Run: func(context.Context) error { return nil },
	})
	if err := a.Create(context.Background()); err != nil {
		t.Fatalf("Create: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for a.Alive() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if a.Alive() {
		t.Fatal("Alive should become false once Run returns on its own")
	}
}
