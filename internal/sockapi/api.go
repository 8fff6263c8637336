// Package sockapi is the capability interface over OS socket syscalls:
// every socket operation the rest of the network core needs, exposed
// once as a real syscall-backed implementation and once as a fully
// programmable mock, so the socket state machine and the server
// framework in the packages above never call into the kernel directly.
package sockapi

import (
	"fmt"

	"github.com/renebarto/gonet/internal/endpoint"
)

// Handle is the OS-level identifier of a socket. InvalidHandle is the
// sentinel "not open" value.
type Handle int

// InvalidHandle is the sentinel value for a socket with no open handle.
const InvalidHandle Handle = -1

// Family selects the address family a socket is opened with.
type Family uint8

const (
	FamilyIpv4 Family = iota + 1
	FamilyIpv6
	FamilyUnix
)

// String returns the human-readable family name.
func (f Family) String() string {
	switch f {
	case FamilyIpv4:
		return "ipv4"
	case FamilyIpv6:
		return "ipv6"
	case FamilyUnix:
		return "unix"
	default:
		return "unknown"
	}
}

// SockType selects stream (TCP-like) or datagram (UDP-like) semantics.
type SockType uint8

const (
	SockStream SockType = iota + 1
	SockDgram
)

// String returns the human-readable socket type name.
func (t SockType) String() string {
	switch t {
	case SockStream:
		return "stream"
	case SockDgram:
		return "dgram"
	default:
		return "unknown"
	}
}

// Sockaddr is a family-neutral sockaddr_* carrier: exactly one of In / In6
// is meaningful, selected by Family. This keeps raw OS sockaddr pointers
// from leaking past this package.
type Sockaddr struct {
	Family Family
	In     endpoint.SockaddrIn
	In6    endpoint.SockaddrIn6
}

// SockaddrFromIpv4 wraps an IPv4 endpoint as a Sockaddr.
func SockaddrFromIpv4(ep endpoint.Ipv4Endpoint) Sockaddr {
	return Sockaddr{Family: FamilyIpv4, In: ep.ToSockaddr()}
}

// SockaddrFromIpv6 wraps an IPv6 endpoint as a Sockaddr.
func SockaddrFromIpv6(ep endpoint.Ipv6Endpoint) Sockaddr {
	return Sockaddr{Family: FamilyIpv6, In6: ep.ToSockaddr()}
}

// Ipv4Endpoint unwraps the family-neutral Sockaddr back to an
// Ipv4Endpoint. Only valid when Family == FamilyIpv4.
func (s Sockaddr) Ipv4Endpoint() endpoint.Ipv4Endpoint {
	return endpoint.Ipv4EndpointFromSockaddr(s.In)
}

// Ipv6Endpoint unwraps the family-neutral Sockaddr back to an
// Ipv6Endpoint. Only valid when Family == FamilyIpv6.
func (s Sockaddr) Ipv6Endpoint() endpoint.Ipv6Endpoint {
	return endpoint.Ipv6EndpointFromSockaddr(s.In6)
}

// SockOpt identifies a (level, option) pair understood by Get/SetSockOpt.
// Implementers translate these to platform constants internally so no
// SOL_SOCKET/SO_* constant crosses this interface boundary.
type SockOpt uint8

const (
	OptReuseAddress SockOpt = iota + 1
	OptBroadcast
	OptKeepAlive
	OptLinger
	OptReceiveTimeout
	OptSendTimeout
)

// Linger mirrors struct linger{on_off, seconds}.
type Linger struct {
	OnOff   bool
	Seconds int
}

// Timeval mirrors struct timeval{tv_sec, tv_usec}, used for
// ReceiveTimeout/SendTimeout regardless of platform-kernel format.
type Timeval struct {
	Seconds int64
	Micros  int64
}

// API is the full capability interface this package exposes: every OS
// socket syscall the generic socket and family wrappers use. A real
// implementation (sysAPI, built per-platform) and MockAPI both satisfy it.
type API interface {
	Open(family Family, sockType SockType) (Handle, error)
	Close(h Handle) error

	Bind(h Handle, sa Sockaddr) error
	Listen(h Handle, backlog int) error
	Connect(h Handle, sa Sockaddr) error
	Accept(h Handle) (Handle, Sockaddr, error)

	Send(h Handle, buf []byte) (int, error)
	Recv(h Handle, buf []byte) (int, error)
	SendTo(h Handle, buf []byte, dst Sockaddr) (int, error)
	RecvFrom(h Handle, buf []byte) (int, Sockaddr, error)

	GetLocalAddress(h Handle) (Sockaddr, error)
	GetRemoteAddress(h Handle) (Sockaddr, error)

	SetBlockingMode(h Handle, blocking bool) error
	GetBlockingMode(h Handle) (bool, error)

	SetBoolOpt(h Handle, opt SockOpt, value bool) error
	GetBoolOpt(h Handle, opt SockOpt) (bool, error)
	SetLinger(h Handle, v Linger) error
	SetTimeoutOpt(h Handle, opt SockOpt, v Timeval) error

	// Poll waits until h is readable, writable, or an exceptional
	// condition occurs, or timeout elapses. It is the primitive the
	// generic socket's timed Connect/Accept build on.
	Poll(h Handle, wantWrite bool, timeout int) (readable, writable, hangup bool, err error)
}

// OSError carries the platform errno and a textual rendering as a
// (platform_errno, message) pair.
type OSError struct {
	Op    string
	Errno error
}

func (e *OSError) Error() string {
	return fmt.Sprintf("sockapi: %s: %v", e.Op, e.Errno)
}

func (e *OSError) Unwrap() error { return e.Errno }

// NewOSError wraps errno with the failing operation name.
func NewOSError(op string, errno error) *OSError {
	return &OSError{Op: op, Errno: errno}
}
