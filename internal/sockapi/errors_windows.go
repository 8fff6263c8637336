//go:build windows

package sockapi

import (
	"errors"

	"golang.org/x/sys/windows"
)

// Retryable reports whether err is one of the internal "try again" errno
// values: WSAEWOULDBLOCK/WSAEINPROGRESS/WSAEALREADY.
func Retryable(err error) bool {
	var errno windows.Errno
	if !errors.As(err, &errno) {
		return false
	}
	switch errno {
	case windows.WSAEWOULDBLOCK, windows.WSAEINPROGRESS, windows.WSAEALREADY:
		return true
	default:
		return false
	}
}

// PeerClosed reports whether err indicates the peer tore down the
// connection.
func PeerClosed(err error) bool {
	var errno windows.Errno
	if !errors.As(err, &errno) {
		return false
	}
	return errno == windows.WSAECONNRESET || errno == windows.WSAECONNABORTED
}

// ShuttingDown reports whether err is the "handle was closed underneath
// us" error a blocked Accept observes during graceful shutdown.
func ShuttingDown(err error) bool {
	var errno windows.Errno
	if !errors.As(err, &errno) {
		return false
	}
	return errno == windows.WSAENOTSOCK
}
