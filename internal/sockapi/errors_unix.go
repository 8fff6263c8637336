//go:build unix

package sockapi

import (
	"errors"

	"golang.org/x/sys/unix"
)

// Retryable reports whether err is one of the internal "try again" errno
// values that the generic socket's timed loops handle themselves rather
// than surfacing to the caller: EWOULDBLOCK/EAGAIN/EINPROGRESS/EALREADY.
func Retryable(err error) bool {
	var errno unix.Errno
	if !errors.As(err, &errno) {
		return false
	}
	switch errno {
	case unix.EAGAIN, unix.EWOULDBLOCK, unix.EINPROGRESS, unix.EALREADY:
		return true
	default:
		return false
	}
}

// PeerClosed reports whether err indicates the peer tore down the
// connection (EPIPE/ECONNRESET); callers treat this as a clean
// disconnect, not a fatal error.
func PeerClosed(err error) bool {
	var errno unix.Errno
	if !errors.As(err, &errno) {
		return false
	}
	return errno == unix.EPIPE || errno == unix.ECONNRESET
}

// ShuttingDown reports whether err is EBADF, the error a blocked Accept
// observes when another goroutine closed the listening handle out from
// under it during graceful shutdown.
func ShuttingDown(err error) bool {
	var errno unix.Errno
	if !errors.As(err, &errno) {
		return false
	}
	return errno == unix.EBADF
}
