package endpoint

import "github.com/renebarto/gonet/internal/address"

// SockaddrIn is the family-neutral shape of a POSIX sockaddr_in: a 4-byte
// address and a network-order-ready port, exposed so internal/sockapi can
// build the real OS structure without this package importing syscalls.
type SockaddrIn struct {
	Addr [4]byte
	Port uint16
}

// SockaddrIn6 is the family-neutral shape of a POSIX sockaddr_in6.
type SockaddrIn6 struct {
	Addr     [16]byte
	Port     uint16
	FlowInfo uint32
	ScopeID  uint32
}

// ToSockaddr converts the endpoint to the family-neutral sockaddr_in shape:
// the address bytes in network order and the port as a host-order number.
func (e Ipv4Endpoint) ToSockaddr() SockaddrIn {
	return SockaddrIn{Addr: e.Addr.Bytes(), Port: e.Port}
}

// Ipv4EndpointFromSockaddr builds an endpoint from a family-neutral
// sockaddr_in shape.
func Ipv4EndpointFromSockaddr(sa SockaddrIn) Ipv4Endpoint {
	b := sa.Addr
	return Ipv4Endpoint{Addr: address.NewIpv4Addr(b[0], b[1], b[2], b[3]), Port: sa.Port}
}

// ToSockaddr converts the endpoint to the family-neutral sockaddr_in6
// shape, including flow-info and scope-id.
func (e Ipv6Endpoint) ToSockaddr() SockaddrIn6 {
	return SockaddrIn6{
		Addr:     e.Addr.Bytes(),
		Port:     e.Port,
		FlowInfo: e.FlowInfo,
		ScopeID:  e.ScopeID,
	}
}

// Ipv6EndpointFromSockaddr builds an endpoint from a family-neutral
// sockaddr_in6 shape.
func Ipv6EndpointFromSockaddr(sa SockaddrIn6) Ipv6Endpoint {
	return Ipv6Endpoint{
		Addr:     address.NewIpv6Addr(sa.Addr),
		Port:     sa.Port,
		FlowInfo: sa.FlowInfo,
		ScopeID:  sa.ScopeID,
	}
}
