package ifaces

import (
	"context"
	"log/slog"
)

// -------------------------------------------------------------------------
// Interface Monitor — network interface state change detection
// -------------------------------------------------------------------------

// Event represents a network interface state change, carrying a full
// Interface snapshot rather than just the changed fields.
type Event struct {
	// Interface is the NIC that changed state.
	Interface Interface

	// Up indicates whether the interface transitioned to Up (true) or
	// Down (false).
	Up bool
}

// Monitor watches for network interface state changes and emits events
// when interfaces go up or down.
//
// Implementations may use NETLINK_ROUTE (Linux), kqueue (BSD), or polling
// as the underlying mechanism. The interface is kept minimal so that
// callers can react to link events without depending on a specific OS
// mechanism.
type Monitor interface {
	// Run starts monitoring interface state changes. It blocks until ctx
	// is cancelled. Detected events are sent to the channel returned by
	// Events(). Run must be called at most once.
	Run(ctx context.Context) error

	// Events returns a read-only channel that receives interface state
	// change events. The channel is created at construction time and is
	// closed when Run returns. Callers should drain the channel after
	// Run completes.
	Events() <-chan Event

	// Close releases any resources held by the monitor. If Run is still
	// active, the caller should cancel the context first.
	Close() error
}

// -------------------------------------------------------------------------
// StubMonitor — no-op implementation
// -------------------------------------------------------------------------

// StubMonitor is a no-op implementation of Monitor that never emits
// events. It is used when no platform-specific monitor is available or
// when interface monitoring is disabled.
//
// A future implementation will use mdlayher/netlink with NETLINK_ROUTE to
// subscribe to RTM_NEWLINK / RTM_DELLINK messages for real-time interface
// state tracking on Linux.
type StubMonitor struct {
	events chan Event
	logger *slog.Logger
}

// NewStubMonitor creates a no-op interface monitor.
func NewStubMonitor(logger *slog.Logger) *StubMonitor {
	return &StubMonitor{
		events: make(chan Event, 16),
		logger: logger.With(slog.String("component", "ifaces.stub")),
	}
}

// Run blocks until ctx is cancelled. The stub implementation does not
// emit any events; it simply waits for cancellation and closes the
// events channel.
func (m *StubMonitor) Run(ctx context.Context) error {
	m.logger.Info("stub interface monitor started (no-op)")
	<-ctx.Done()
	close(m.events)
	m.logger.Info("stub interface monitor stopped")
	return nil
}

// Events returns the (always empty) event channel.
func (m *StubMonitor) Events() <-chan Event {
	return m.events
}

// Close is a no-op for the stub monitor.
func (m *StubMonitor) Close() error {
	return nil
}
