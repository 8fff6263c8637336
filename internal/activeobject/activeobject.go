// Package activeobject provides a reusable "one goroutine driving a
// loop" primitive: Init/Run/Exit hooks around a cancellable context,
// with Create/Kill lifecycle control and a latched Result. It
// generalizes the single-goroutine-per-state-machine shape into a
// primitive any per-connection worker or acceptor can embed.
package activeobject

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
)

// ErrAlreadyRunning is returned by Create when the active object has
// already been started.
var ErrAlreadyRunning = errors.New("activeobject: already running")

// Hooks bundles the three lifecycle callbacks an ActiveObject drives.
// Init runs once before the loop starts; Run is the loop body itself,
// blocking until ctx is cancelled or it chooses to return; Exit runs
// once after Run returns, always, even on panic recovery paths the
// caller adds around Run.
type Hooks struct {
	// Init prepares the active object's state. A non-nil error aborts
	// startup without ever calling Run.
	Init func(ctx context.Context) error

	// Run is the loop body. It must return when ctx is cancelled.
	Run func(ctx context.Context) error

	// Exit releases resources acquired by Init/Run. It always runs once
	// Run has returned, regardless of the error it returned.
	Exit func()

	// Flush requests Run return early by releasing whatever it is
	// blocked on — e.g. closing a socket a blocking Recv is parked on.
	// Invoked once, before the context is cancelled, by
	// ActiveObject.Flush. Optional; the zero value relies on ctx.Done
	// alone, which is only sufficient for a Run loop that never blocks
	// outside a select on ctx.
	Flush func()
}

// ActiveObject owns exactly one goroutine running Hooks.Run between
// Hooks.Init and Hooks.Exit, with Flush/Kill/Alive/Dying/Result exposed
// for callers to drive its lifecycle without touching the goroutine
// directly.
type ActiveObject struct {
	name   string
	logger *slog.Logger
	hooks  Hooks

	cancel context.CancelFunc
	done   chan struct{}

	alive atomic.Bool
	dying atomic.Bool

	mu     sync.Mutex
	result error
}

// New creates an ActiveObject with the given diagnostic name and hooks.
// It does not start the goroutine; call Create to do so.
func New(name string, logger *slog.Logger, hooks Hooks) *ActiveObject {
	if logger == nil {
		logger = slog.Default()
	}
	return &ActiveObject{name: name, logger: logger, hooks: hooks}
}

// Name returns the active object's diagnostic name.
func (a *ActiveObject) Name() string { return a.name }

// Alive reports whether the goroutine is currently running (between
// Init completing and Exit completing).
func (a *ActiveObject) Alive() bool { return a.alive.Load() }

// Dying reports whether Kill has been requested but the goroutine has
// not yet finished unwinding.
func (a *ActiveObject) Dying() bool { return a.dying.Load() }

// Result returns the error Run (or Init) finished with. It is only
// meaningful after Alive() becomes false following a Create.
func (a *ActiveObject) Result() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.result
}

// Create starts the active object's goroutine: Init, then Run, then
// Exit, in that order, reporting Init's error synchronously before Run
// is ever invoked.
func (a *ActiveObject) Create(ctx context.Context) error {
	if a.alive.Load() {
		return ErrAlreadyRunning
	}

	runCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.done = make(chan struct{})

	if a.hooks.Init != nil {
		if err := a.hooks.Init(runCtx); err != nil {
			a.mu.Lock()
			a.result = err
			a.mu.Unlock()
			cancel()
			close(a.done)
			return err
		}
	}

	a.alive.Store(true)
	go a.loop(runCtx)
	return nil
}

func (a *ActiveObject) loop(ctx context.Context) {
	defer func() {
		if a.hooks.Exit != nil {
			a.hooks.Exit()
		}
		a.alive.Store(false)
		a.dying.Store(false)
		close(a.done)
	}()

	var err error
	if a.hooks.Run != nil {
		err = a.hooks.Run(ctx)
	}

	a.mu.Lock()
	a.result = err
	a.mu.Unlock()

	if err != nil {
		a.logger.Warn("active object exited with error", slog.String("name", a.name), slog.Any("error", err))
	}
}

// Flush requests the goroutine stop: it runs the Hooks.Flush hook, if
// any, to release whatever Run may be blocked on, then cancels the
// context. It does not wait for the goroutine to finish. Safe to call
// more than once.
func (a *ActiveObject) Flush() {
	if a.cancel != nil {
		a.dying.Store(true)
		if a.hooks.Flush != nil {
			a.hooks.Flush()
		}
		a.cancel()
	}
}

// Kill requests the goroutine stop and blocks until it has finished
// unwinding (Exit has returned), then reports its Result.
func (a *ActiveObject) Kill() error {
	a.Flush()
	if a.done != nil {
		<-a.done
	}
	return a.Result()
}
