package socket

import (
	"time"

	"github.com/renebarto/gonet/internal/sockapi"
)

// toTimeoutMillis converts a time.Duration to the millisecond budget the
// sockapi.API.Poll primitive expects, with the negative Infinite sentinel
// meaning "blocking mode, no timeout".
func toTimeoutMillis(timeout time.Duration) int {
	if timeout < 0 {
		return Infinite
	}
	return int(timeout / time.Millisecond)
}

// Connect implements a timed non-blocking connect: toggle to non-blocking
// mode (unless timeout is Infinite), issue connect(), and on
// EINPROGRESS/EAGAIN/EALREADY wait via Poll until writable (success) or a
// hangup (failure), always restoring blocking mode before returning.
func (s *Socket) Connect(sa sockapi.Sockaddr, timeout time.Duration) (bool, error) {
	infinite := timeout < 0
	if err := s.SetBlockingMode(infinite); err != nil {
		return false, err
	}
	defer func() { _ = s.SetBlockingMode(true) }()

	h := s.Handle()
	err := s.api.Connect(h, sa)
	if err == nil {
		return true, nil
	}
	if !sockapi.Retryable(err) {
		return false, err
	}

	if infinite {
		// Blocking mode never returns EINPROGRESS; defensive fallback
		// only reachable if a mock misbehaves.
		return false, err
	}

	remaining := toTimeoutMillis(timeout)
	for {
		budget := remaining
		if budget < 0 {
			budget = 0
		}
		readable, writable, hangup, pollErr := s.api.Poll(h, true, budget)
		if pollErr != nil {
			return false, pollErr
		}
		if hangup {
			return false, nil
		}
		if writable || readable {
			return true, nil
		}
		return false, nil // poll returned with nothing set: timeout elapsed
	}
}

// Accept implements a timed non-blocking accept: toggle to non-blocking
// mode (unless timeout is Infinite), loop issuing accept(),
// sleeping TimeWaitSlice and decrementing the remaining budget on
// EAGAIN/EWOULDBLOCK, breaking silently on EBADF (graceful shutdown), and
// failing hard on any other error.
func (s *Socket) Accept(timeout time.Duration) (*Socket, sockapi.Sockaddr, error) {
	infinite := timeout < 0
	if err := s.SetBlockingMode(infinite); err != nil {
		return nil, sockapi.Sockaddr{}, err
	}
	defer func() { _ = s.SetBlockingMode(true) }()

	h := s.Handle()
	remaining := toTimeoutMillis(timeout)

	for {
		accepted, peer, err := s.api.Accept(h)
		if err == nil {
			return fromHandle(s.api, s.family, s.sockType, accepted), peer, nil
		}

		if sockapi.ShuttingDown(err) {
			return nil, sockapi.Sockaddr{}, nil
		}
		if !sockapi.Retryable(err) {
			return nil, sockapi.Sockaddr{}, err
		}
		if infinite {
			continue
		}

		time.Sleep(TimeWaitSlice * time.Millisecond)
		remaining -= TimeWaitSlice
		if remaining <= 0 {
			return nil, sockapi.Sockaddr{}, nil
		}
	}
}
