// Package endpoint implements Ipv4Endpoint and Ipv6Endpoint: an address
// plus a port (and, for IPv6, flow-info/scope-id). Conversion to/from OS
// sockaddrs lives in internal/sockapi so no sockaddr type leaks through
// this package.
package endpoint

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/renebarto/gonet/internal/address"
)

// Ipv4Endpoint is an IPv4 address plus a port. The zero value has port 0
// ("any").
type Ipv4Endpoint struct {
	Addr address.Ipv4Addr
	Port uint16
}

// NewIpv4Endpoint constructs an endpoint from its components.
func NewIpv4Endpoint(addr address.Ipv4Addr, port uint16) Ipv4Endpoint {
	return Ipv4Endpoint{Addr: addr, Port: port}
}

// Equal reports component-wise equality.
func (e Ipv4Endpoint) Equal(o Ipv4Endpoint) bool {
	return e.Addr.Equal(o.Addr) && e.Port == o.Port
}

// String formats "D.D.D.D" when the port is zero, "D.D.D.D:P" otherwise.
func (e Ipv4Endpoint) String() string {
	if e.Port == 0 {
		return e.Addr.String()
	}
	return fmt.Sprintf("%s:%d", e.Addr.String(), e.Port)
}

// TryParseIpv4Endpoint parses "d.d.d.d" or "d.d.d.d:p" text.
func TryParseIpv4Endpoint(text string) (Ipv4Endpoint, bool) {
	e, err := ParseIpv4Endpoint(text)
	return e, err == nil
}

// ParseIpv4Endpoint parses "d.d.d.d[:p]"; port is optional, decimal,
// 0-65535.
func ParseIpv4Endpoint(text string) (Ipv4Endpoint, error) {
	addrText, portText, hasPort := strings.Cut(text, ":")

	addr, err := address.ParseIpv4(addrText)
	if err != nil {
		return Ipv4Endpoint{}, fmt.Errorf("parse ipv4 endpoint %q: %w", text, err)
	}

	var port uint64
	if hasPort {
		port, err = strconv.ParseUint(portText, 10, 16)
		if err != nil {
			return Ipv4Endpoint{}, fmt.Errorf("parse ipv4 endpoint %q: invalid port: %w", text, err)
		}
	}

	return Ipv4Endpoint{Addr: addr, Port: uint16(port)}, nil
}
