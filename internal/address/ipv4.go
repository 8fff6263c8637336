// Package address implements the typed address values of the network core:
// Ipv4Addr, Ipv6Addr, MacAddr, UnixPath, and the sum-typed AddressTuple.
// Parsing is total on the documented grammar and rejects anything else;
// formatting is the canonical inverse.
package address

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
)

// ErrInvalidAddress is returned when text cannot be parsed as the
// requested address type and does not resolve via DNS either.
var ErrInvalidAddress = errors.New("invalid address")

// Resolver is the DNS lookup surface used by the text parsers when the
// numeric grammar does not match. Tests inject a stub; production code
// uses net.DefaultResolver.
type Resolver interface {
	LookupIP(ctx context.Context, network, host string) ([]net.IP, error)
}

// DefaultResolver delegates to net.DefaultResolver. Parse functions use
// this; tests override it by assigning a stub to this variable.
var DefaultResolver Resolver = net.DefaultResolver

// Ipv4Addr is a 4-byte IPv4 address in network-order byte layout.
type Ipv4Addr struct {
	b [4]byte
}

// Well-known Ipv4Addr constants.
var (
	Ipv4None      = Ipv4Addr{b: [4]byte{0, 0, 0, 0}}
	Ipv4Any       = Ipv4Addr{b: [4]byte{0, 0, 0, 0}}
	Ipv4Broadcast = Ipv4Addr{b: [4]byte{255, 255, 255, 255}}
	Ipv4Localhost = Ipv4Addr{b: [4]byte{127, 0, 0, 1}}
)

// NewIpv4Addr constructs an Ipv4Addr from four octets in order.
func NewIpv4Addr(a, b, c, d byte) Ipv4Addr {
	return Ipv4Addr{b: [4]byte{a, b, c, d}}
}

// Ipv4AddrFromUint32 constructs an Ipv4Addr from a host-order uint32
// (e.g. 0x7F000001 for 127.0.0.1).
func Ipv4AddrFromUint32(v uint32) Ipv4Addr {
	return Ipv4Addr{b: [4]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}}
}

// Uint32 returns the host-order uint32 representation.
func (a Ipv4Addr) Uint32() uint32 {
	return uint32(a.b[0])<<24 | uint32(a.b[1])<<16 | uint32(a.b[2])<<8 | uint32(a.b[3])
}

// Bytes returns the 4 address octets in order.
func (a Ipv4Addr) Bytes() [4]byte { return a.b }

// Equal reports byte-wise equality.
func (a Ipv4Addr) Equal(o Ipv4Addr) bool { return a.b == o.b }

// String formats the canonical "D.D.D.D" form with no leading zeros.
func (a Ipv4Addr) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", a.b[0], a.b[1], a.b[2], a.b[3])
}

// MarshalText implements encoding.TextMarshaler so Ipv4Addr can be decoded
// directly from config files (koanf/yaml).
func (a Ipv4Addr) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Ipv4Addr) UnmarshalText(text []byte) error {
	parsed, err := ParseIpv4(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// TryParseIpv4 parses text as an Ipv4Addr, reporting ok=false instead of an
// error on failure.
func TryParseIpv4(text string) (Ipv4Addr, bool) {
	a, err := ParseIpv4(text)
	return a, err == nil
}

// ParseIpv4 parses the canonical numeric form "d.d.d.d" (each octet
// 0-255); on failure it resolves text as a DNS A record and uses the
// first returned address. Unresolved text fails with ErrInvalidAddress.
func ParseIpv4(text string) (Ipv4Addr, error) {
	if a, ok := parseIpv4Numeric(text); ok {
		return a, nil
	}
	return resolveIpv4(text)
}

func parseIpv4Numeric(text string) (Ipv4Addr, bool) {
	parts := strings.Split(text, ".")
	if len(parts) != 4 {
		return Ipv4Addr{}, false
	}
	var out [4]byte
	for i, p := range parts {
		if p == "" || (len(p) > 1 && p[0] == '0') {
			return Ipv4Addr{}, false // reject leading zeros to keep format(parse(t))=t
		}
		n, err := strconv.ParseUint(p, 10, 16)
		if err != nil || n > 255 {
			return Ipv4Addr{}, false
		}
		out[i] = byte(n)
	}
	return Ipv4Addr{b: out}, true
}

func resolveIpv4(text string) (Ipv4Addr, error) {
	ips, err := DefaultResolver.LookupIP(context.Background(), "ip4", text)
	if err != nil || len(ips) == 0 {
		return Ipv4Addr{}, fmt.Errorf("parse ipv4 %q: %w", text, ErrInvalidAddress)
	}
	v4 := ips[0].To4()
	if v4 == nil {
		return Ipv4Addr{}, fmt.Errorf("parse ipv4 %q: %w", text, ErrInvalidAddress)
	}
	return NewIpv4Addr(v4[0], v4[1], v4[2], v4[3]), nil
}
