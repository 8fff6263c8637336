package socket

import (
	"time"

	"github.com/renebarto/gonet/internal/sockapi"
)

// SetBlockingMode sets the socket's blocking mode directly and updates
// the Socket's local cache (authoritative on platforms, like Windows,
// whose kernel offers no blocking-mode getter).
func (s *Socket) SetBlockingMode(blocking bool) error {
	if err := s.api.SetBlockingMode(s.Handle(), blocking); err != nil {
		return err
	}
	s.mu.Lock()
	s.blocking = blocking
	s.mu.Unlock()
	return nil
}

// GetBlockingMode returns the socket's blocking mode from the local cache
// that SetBlockingMode maintains; it does not call the API's own getter.
func (s *Socket) GetBlockingMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blocking
}

// SetReuseAddress sets/clears SO_REUSEADDR.
func (s *Socket) SetReuseAddress(v bool) error {
	return s.api.SetBoolOpt(s.Handle(), sockapi.OptReuseAddress, v)
}

// SetBroadcast sets/clears SO_BROADCAST.
func (s *Socket) SetBroadcast(v bool) error {
	return s.api.SetBoolOpt(s.Handle(), sockapi.OptBroadcast, v)
}

// SetKeepAlive sets/clears SO_KEEPALIVE.
func (s *Socket) SetKeepAlive(v bool) error {
	return s.api.SetBoolOpt(s.Handle(), sockapi.OptKeepAlive, v)
}

// SetLinger sets SO_LINGER.
func (s *Socket) SetLinger(onOff bool, seconds int) error {
	return s.api.SetLinger(s.Handle(), sockapi.Linger{OnOff: onOff, Seconds: seconds})
}

// SetReceiveTimeout sets SO_RCVTIMEO, stored as {seconds, microseconds}
// regardless of platform kernel format.
func (s *Socket) SetReceiveTimeout(d time.Duration) error {
	return s.api.SetTimeoutOpt(s.Handle(), sockapi.OptReceiveTimeout, toTimeval(d))
}

// SetSendTimeout sets SO_SNDTIMEO.
func (s *Socket) SetSendTimeout(d time.Duration) error {
	return s.api.SetTimeoutOpt(s.Handle(), sockapi.OptSendTimeout, toTimeval(d))
}

func toTimeval(d time.Duration) sockapi.Timeval {
	return sockapi.Timeval{
		Seconds: int64(d / time.Second),
		Micros:  int64((d % time.Second) / time.Microsecond),
	}
}
