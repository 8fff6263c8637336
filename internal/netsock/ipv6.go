package netsock

import (
	"time"

	"github.com/renebarto/gonet/internal/endpoint"
	"github.com/renebarto/gonet/internal/sockapi"
	"github.com/renebarto/gonet/internal/socket"
)

// Ipv6Socket restricts *socket.Socket to IPv6 endpoint-shaped
// Bind/Connect/Accept/SendTo/RecvFrom.
type Ipv6Socket struct {
	*socket.Socket
}

// NewIpv6Socket opens a new socket of the given type over IPv6.
func NewIpv6Socket(api sockapi.API, sockType sockapi.SockType) (*Ipv6Socket, error) {
	s, err := socket.Open(api, sockapi.FamilyIpv6, sockType)
	if err != nil {
		return nil, err
	}
	return &Ipv6Socket{Socket: s}, nil
}

// Ipv6TCPSocket opens a connection-oriented IPv6 socket immediately.
func Ipv6TCPSocket(api sockapi.API) (*Ipv6Socket, error) {
	return NewIpv6Socket(api, sockapi.SockStream)
}

// Ipv6UDPSocket opens a datagram IPv6 socket immediately.
func Ipv6UDPSocket(api sockapi.API) (*Ipv6Socket, error) {
	return NewIpv6Socket(api, sockapi.SockDgram)
}

// Bind binds the socket to a local IPv6 endpoint.
func (s *Ipv6Socket) Bind(ep endpoint.Ipv6Endpoint) error {
	return s.API().Bind(s.Handle(), sockapi.SockaddrFromIpv6(ep))
}

// Listen marks the socket as a connection acceptor.
func (s *Ipv6Socket) Listen(backlog int) error {
	return s.API().Listen(s.Handle(), backlog)
}

// Connect connects to a remote IPv6 endpoint within timeout (negative
// means block indefinitely).
func (s *Ipv6Socket) Connect(ep endpoint.Ipv6Endpoint, timeout time.Duration) (bool, error) {
	return s.Socket.Connect(sockapi.SockaddrFromIpv6(ep), timeout)
}

// Accept waits up to timeout for an incoming connection, returning the
// accepted socket and the peer's endpoint.
func (s *Ipv6Socket) Accept(timeout time.Duration) (*Ipv6Socket, endpoint.Ipv6Endpoint, error) {
	accepted, sa, err := s.Socket.Accept(timeout)
	if err != nil || accepted == nil {
		return nil, endpoint.Ipv6Endpoint{}, err
	}
	return &Ipv6Socket{Socket: accepted}, sa.Ipv6Endpoint(), nil
}

// SendTo sends a datagram to a specific IPv6 endpoint.
func (s *Ipv6Socket) SendTo(buf []byte, dst endpoint.Ipv6Endpoint) (int, error) {
	return s.API().SendTo(s.Handle(), buf, sockapi.SockaddrFromIpv6(dst))
}

// RecvFrom receives a datagram, reporting the sender's IPv6 endpoint.
func (s *Ipv6Socket) RecvFrom(buf []byte) (int, endpoint.Ipv6Endpoint, error) {
	n, sa, err := s.API().RecvFrom(s.Handle(), buf)
	if err != nil {
		return n, endpoint.Ipv6Endpoint{}, err
	}
	return n, sa.Ipv6Endpoint(), nil
}

// LocalEndpoint reports the socket's bound local IPv6 endpoint.
func (s *Ipv6Socket) LocalEndpoint() (endpoint.Ipv6Endpoint, error) {
	sa, err := s.API().GetLocalAddress(s.Handle())
	if err != nil {
		return endpoint.Ipv6Endpoint{}, err
	}
	return sa.Ipv6Endpoint(), nil
}

// RemoteEndpoint reports the socket's connected peer IPv6 endpoint.
func (s *Ipv6Socket) RemoteEndpoint() (endpoint.Ipv6Endpoint, error) {
	sa, err := s.API().GetRemoteAddress(s.Handle())
	if err != nil {
		return endpoint.Ipv6Endpoint{}, err
	}
	return sa.Ipv6Endpoint(), nil
}
