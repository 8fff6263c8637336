package endpoint

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/renebarto/gonet/internal/address"
)

// Ipv6Endpoint is an IPv6 address plus port, flow-info, and scope-id.
// Flow-info is zero unless constructed explicitly.
type Ipv6Endpoint struct {
	Addr     address.Ipv6Addr
	Port     uint16
	FlowInfo uint32
	ScopeID  uint32
}

// NewIpv6Endpoint constructs an endpoint with flow-info zero.
func NewIpv6Endpoint(addr address.Ipv6Addr, port uint16, scopeID uint32) Ipv6Endpoint {
	return Ipv6Endpoint{Addr: addr, Port: port, ScopeID: scopeID}
}

// Equal reports component-wise equality.
func (e Ipv6Endpoint) Equal(o Ipv6Endpoint) bool {
	return e.Addr.Equal(o.Addr) && e.Port == o.Port &&
		e.FlowInfo == o.FlowInfo && e.ScopeID == o.ScopeID
}

// String formats "addr[%scope]" when the port is zero, or
// "[addr[%scope]]:port" when a port is present.
func (e Ipv6Endpoint) String() string {
	addrText := e.Addr.String()
	if e.ScopeID != 0 {
		addrText = fmt.Sprintf("%s%%%d", addrText, e.ScopeID)
	}
	if e.Port == 0 {
		return addrText
	}
	return fmt.Sprintf("[%s]:%d", addrText, e.Port)
}

// TryParseIpv6Endpoint parses either "addr[%scope]" or
// "[addr[%scope]]:port" text.
func TryParseIpv6Endpoint(text string) (Ipv6Endpoint, bool) {
	e, err := ParseIpv6Endpoint(text)
	return e, err == nil
}

// ParseIpv6Endpoint parses "addr(%scopeid)?" or "[addr(%scopeid)?]:p".
func ParseIpv6Endpoint(text string) (Ipv6Endpoint, error) {
	body := text
	var port uint64

	if strings.HasPrefix(text, "[") {
		closeIdx := strings.LastIndex(text, "]")
		if closeIdx < 0 {
			return Ipv6Endpoint{}, fmt.Errorf("parse ipv6 endpoint %q: unterminated bracket: %w", text, address.ErrInvalidAddress)
		}
		body = text[1:closeIdx]
		rest := text[closeIdx+1:]
		if rest != "" {
			portText, ok := strings.CutPrefix(rest, ":")
			if !ok {
				return Ipv6Endpoint{}, fmt.Errorf("parse ipv6 endpoint %q: expected ':port' after ']': %w", text, address.ErrInvalidAddress)
			}
			var err error
			port, err = strconv.ParseUint(portText, 10, 16)
			if err != nil {
				return Ipv6Endpoint{}, fmt.Errorf("parse ipv6 endpoint %q: invalid port: %w", text, err)
			}
		}
	}

	addrText := body
	var scopeID uint64
	if idx := strings.IndexByte(body, '%'); idx >= 0 {
		addrText = body[:idx]
		var err error
		scopeID, err = strconv.ParseUint(body[idx+1:], 10, 32)
		if err != nil {
			return Ipv6Endpoint{}, fmt.Errorf("parse ipv6 endpoint %q: invalid scope id: %w", text, err)
		}
	}

	addr, err := address.ParseIpv6(addrText)
	if err != nil {
		return Ipv6Endpoint{}, fmt.Errorf("parse ipv6 endpoint %q: %w", text, err)
	}

	return Ipv6Endpoint{Addr: addr, Port: uint16(port), ScopeID: uint32(scopeID)}, nil
}
