package address

import (
	"fmt"
	"strconv"
	"strings"
)

// MacAddr is a 6-byte hardware address with an optional interface index.
// The second integer in the address tuple is always an interface index,
// never sll_halen.
type MacAddr struct {
	b       [6]byte
	ifIndex int
	hasIf   bool
}

// NewMacAddr constructs a MacAddr with no interface index attached.
func NewMacAddr(b [6]byte) MacAddr {
	return MacAddr{b: b}
}

// NewMacAddrWithIfIndex constructs a MacAddr tagged with a kernel
// interface index.
func NewMacAddrWithIfIndex(b [6]byte, ifIndex int) MacAddr {
	return MacAddr{b: b, ifIndex: ifIndex, hasIf: true}
}

// Bytes returns the 6 address bytes in order.
func (m MacAddr) Bytes() [6]byte { return m.b }

// IfIndex returns the attached interface index, if any.
func (m MacAddr) IfIndex() (int, bool) { return m.ifIndex, m.hasIf }

// Equal reports byte-wise equality of the hardware address (the
// interface index is metadata, not part of address identity).
func (m MacAddr) Equal(o MacAddr) bool { return m.b == o.b }

// String formats the canonical "HH-HH-HH-HH-HH-HH" uppercase-hex form.
func (m MacAddr) String() string {
	return fmt.Sprintf("%02X-%02X-%02X-%02X-%02X-%02X",
		m.b[0], m.b[1], m.b[2], m.b[3], m.b[4], m.b[5])
}

// MarshalText implements encoding.TextMarshaler.
func (m MacAddr) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *MacAddr) UnmarshalText(text []byte) error {
	parsed, err := ParseMac(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// TryParseMac parses text as a MacAddr, reporting ok=false instead of an
// error on failure.
func TryParseMac(text string) (MacAddr, bool) {
	m, err := ParseMac(text)
	return m, err == nil
}

// ParseMac accepts exactly six dash-separated hex bytes; anything else
// fails with ErrInvalidAddress.
func ParseMac(text string) (MacAddr, error) {
	parts := strings.Split(text, "-")
	if len(parts) != 6 {
		return MacAddr{}, fmt.Errorf("parse mac %q: %w", text, ErrInvalidAddress)
	}
	var out [6]byte
	for i, p := range parts {
		if len(p) != 2 {
			return MacAddr{}, fmt.Errorf("parse mac %q: %w", text, ErrInvalidAddress)
		}
		v, err := strconv.ParseUint(p, 16, 8)
		if err != nil {
			return MacAddr{}, fmt.Errorf("parse mac %q: %w", text, ErrInvalidAddress)
		}
		out[i] = byte(v)
	}
	return MacAddr{b: out}, nil
}
