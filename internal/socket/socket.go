// Package socket implements the generic socket: one owned OS handle,
// option get/set, blocking-mode handling, and timed non-blocking
// Connect/Accept built on internal/sockapi.
package socket

import (
	"errors"
	"sync"

	"github.com/renebarto/gonet/internal/sockapi"
)

// TimeWaitSlice is the Windows select() polling granularity and the
// POSIX accept-retry sleep granularity: 10ms.
const TimeWaitSlice = 10 // milliseconds

// Infinite selects blocking mode for Connect/Accept: the only mode that
// waits forever.
const Infinite = -1 // milliseconds, passed to Connect/Accept's timeoutMillis

// ErrInvariantViolated names an ownership-contract break. No function in
// this package returns it.
var ErrInvariantViolated = errors.New("socket: invariant violated")

// ErrNotOpen names a socket that holds no open handle. No function in
// this package returns it: an operation on a closed Socket passes
// sockapi.InvalidHandle to the API, and the API reports the failure.
var ErrNotOpen = errors.New("socket: not open")

// Socket owns at most one OS handle under internal/sockapi.API. It is
// move-only in spirit: Go has no destructive move, so ownership is
// enforced by a single-shot Close (sync.Once) and by fencing the
// "non-owning duplicate" pattern behind DupNonOwning, which returns a
// distinct View type with no Close method at all — a double-close is a
// type error rather than a convention.
type Socket struct {
	api      sockapi.API
	family   sockapi.Family
	sockType sockapi.SockType

	// mu serializes only handle-lifecycle transitions (open/close/accept
	// installing a new handle); I/O holds no lock.
	mu sync.Mutex

	handle    sockapi.Handle
	blocking  bool
	closeOnce sync.Once
	closeErr  error
}

// Open creates a new socket of the given family/type and opens its OS
// handle immediately.
func Open(api sockapi.API, family sockapi.Family, sockType sockapi.SockType) (*Socket, error) {
	h, err := api.Open(family, sockType)
	if err != nil {
		return nil, err
	}
	return &Socket{api: api, family: family, sockType: sockType, handle: h, blocking: true}, nil
}

// fromHandle wraps an already-open handle (the product of Accept) as a
// new owning Socket. Used by Accept for the accepted handle.
func fromHandle(api sockapi.API, family sockapi.Family, sockType sockapi.SockType, h sockapi.Handle) *Socket {
	return &Socket{api: api, family: family, sockType: sockType, handle: h, blocking: true}
}

// FromHandle exposes fromHandle to other packages that already hold an
// open handle.
func FromHandle(api sockapi.API, family sockapi.Family, sockType sockapi.SockType, h sockapi.Handle) *Socket {
	return fromHandle(api, family, sockType, h)
}

// Family returns the address family this socket was opened with.
func (s *Socket) Family() sockapi.Family { return s.family }

// SockType returns the socket type (stream/datagram) this socket was
// opened with.
func (s *Socket) SockType() sockapi.SockType { return s.sockType }

// Handle returns the raw OS handle. Exposed for sibling packages that
// must pass the handle back into internal/sockapi.API calls this package
// does not itself wrap (e.g. family-specific bind/sendto).
func (s *Socket) Handle() sockapi.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle
}

// API returns the underlying capability interface, for sibling packages
// that issue family-shaped operations directly (bind/sendto/recvfrom).
func (s *Socket) API() sockapi.API { return s.api }

// IsOpen reports whether this socket currently owns a live handle.
func (s *Socket) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle != sockapi.InvalidHandle
}

// Close closes the owned handle exactly once; subsequent calls are a
// no-op returning the first call's result, satisfying the "every open
// socket is closed exactly once" invariant without needing the caller to
// track whether Close already ran.
func (s *Socket) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		h := s.handle
		s.handle = sockapi.InvalidHandle
		s.mu.Unlock()

		if h == sockapi.InvalidHandle {
			return
		}
		s.closeErr = s.api.Close(h)
	})
	return s.closeErr
}

// View is a non-owning duplicate of a Socket's handle: it can observe the
// handle but has no Close method, so a double-close is a compile error
// rather than a runtime bug. This is the explicit escape hatch for
// accept-chain compatibility — it must never be created implicitly.
type View struct {
	api    sockapi.API
	handle sockapi.Handle
}

// DupNonOwning returns a non-owning View of this socket's current handle.
// The view becomes meaningless once the owning Socket closes; callers
// must not retain one past the owner's lifetime.
func (s *Socket) DupNonOwning() View {
	return View{api: s.api, handle: s.Handle()}
}

// Handle returns the duplicated OS handle.
func (v View) Handle() sockapi.Handle { return v.handle }

// API returns the capability interface associated with the duplicated
// handle, for read-only introspection (e.g. GetLocalAddress).
func (v View) API() sockapi.API { return v.api }
