// Package netsock narrows the generic internal/socket.Socket to
// family-shaped operations: callers work with endpoint.Ipv4Endpoint /
// endpoint.Ipv6Endpoint values instead of the family-neutral
// sockapi.Sockaddr, and construction pre-opens the right (family,
// socket type) pair in one call.
package netsock

import (
	"time"

	"github.com/renebarto/gonet/internal/endpoint"
	"github.com/renebarto/gonet/internal/sockapi"
	"github.com/renebarto/gonet/internal/socket"
)

// Ipv4Socket restricts *socket.Socket to IPv4 endpoint-shaped
// Bind/Connect/Accept/SendTo/RecvFrom.
type Ipv4Socket struct {
	*socket.Socket
}

// NewIpv4Socket opens a new socket of the given type over IPv4.
func NewIpv4Socket(api sockapi.API, sockType sockapi.SockType) (*Ipv4Socket, error) {
	s, err := socket.Open(api, sockapi.FamilyIpv4, sockType)
	if err != nil {
		return nil, err
	}
	return &Ipv4Socket{Socket: s}, nil
}

// Ipv4TCPSocket opens a connection-oriented IPv4 socket immediately;
// construction always opens the underlying socket.
func Ipv4TCPSocket(api sockapi.API) (*Ipv4Socket, error) {
	return NewIpv4Socket(api, sockapi.SockStream)
}

// Ipv4UDPSocket opens a datagram IPv4 socket immediately.
func Ipv4UDPSocket(api sockapi.API) (*Ipv4Socket, error) {
	return NewIpv4Socket(api, sockapi.SockDgram)
}

// Bind binds the socket to a local IPv4 endpoint.
func (s *Ipv4Socket) Bind(ep endpoint.Ipv4Endpoint) error {
	return s.API().Bind(s.Handle(), sockapi.SockaddrFromIpv4(ep))
}

// Listen marks the socket as a connection acceptor.
func (s *Ipv4Socket) Listen(backlog int) error {
	return s.API().Listen(s.Handle(), backlog)
}

// Connect connects to a remote IPv4 endpoint within timeout (negative
// means block indefinitely).
func (s *Ipv4Socket) Connect(ep endpoint.Ipv4Endpoint, timeout time.Duration) (bool, error) {
	return s.Socket.Connect(sockapi.SockaddrFromIpv4(ep), timeout)
}

// Accept waits up to timeout for an incoming connection, returning the
// accepted socket and the peer's endpoint.
func (s *Ipv4Socket) Accept(timeout time.Duration) (*Ipv4Socket, endpoint.Ipv4Endpoint, error) {
	accepted, sa, err := s.Socket.Accept(timeout)
	if err != nil || accepted == nil {
		return nil, endpoint.Ipv4Endpoint{}, err
	}
	return &Ipv4Socket{Socket: accepted}, sa.Ipv4Endpoint(), nil
}

// SendTo sends a datagram to a specific IPv4 endpoint.
func (s *Ipv4Socket) SendTo(buf []byte, dst endpoint.Ipv4Endpoint) (int, error) {
	return s.API().SendTo(s.Handle(), buf, sockapi.SockaddrFromIpv4(dst))
}

// RecvFrom receives a datagram, reporting the sender's IPv4 endpoint.
func (s *Ipv4Socket) RecvFrom(buf []byte) (int, endpoint.Ipv4Endpoint, error) {
	n, sa, err := s.API().RecvFrom(s.Handle(), buf)
	if err != nil {
		return n, endpoint.Ipv4Endpoint{}, err
	}
	return n, sa.Ipv4Endpoint(), nil
}

// LocalEndpoint reports the socket's bound local IPv4 endpoint.
func (s *Ipv4Socket) LocalEndpoint() (endpoint.Ipv4Endpoint, error) {
	sa, err := s.API().GetLocalAddress(s.Handle())
	if err != nil {
		return endpoint.Ipv4Endpoint{}, err
	}
	return sa.Ipv4Endpoint(), nil
}

// RemoteEndpoint reports the socket's connected peer IPv4 endpoint.
func (s *Ipv4Socket) RemoteEndpoint() (endpoint.Ipv4Endpoint, error) {
	sa, err := s.API().GetRemoteAddress(s.Handle())
	if err != nil {
		return endpoint.Ipv4Endpoint{}, err
	}
	return sa.Ipv4Endpoint(), nil
}
