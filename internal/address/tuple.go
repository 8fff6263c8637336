package address

import "fmt"

// TupleKind discriminates the variant held by an AddressTuple.
type TupleKind uint8

const (
	// TupleInvalid is the zero-value kind: the tuple holds no address.
	TupleInvalid TupleKind = iota
	TupleMac
	TupleIpv4
	TupleIpv6
)

// String returns the human-readable name of the kind.
func (k TupleKind) String() string {
	switch k {
	case TupleMac:
		return "Mac"
	case TupleIpv4:
		return "Ipv4"
	case TupleIpv6:
		return "Ipv6"
	default:
		return "Invalid"
	}
}

// AddressTuple is a tagged union over {Invalid, Mac, Ipv4, Ipv6}. A MacAddr
// held by a tuple carries at most one auxiliary integer, always its
// interface index.
type AddressTuple struct {
	kind TupleKind
	mac  MacAddr
	ip4  Ipv4Addr
	ip6  Ipv6Addr
}

// AddressTupleFromMac wraps a MacAddr.
func AddressTupleFromMac(m MacAddr) AddressTuple {
	return AddressTuple{kind: TupleMac, mac: m}
}

// AddressTupleFromIpv4 wraps an Ipv4Addr.
func AddressTupleFromIpv4(a Ipv4Addr) AddressTuple {
	return AddressTuple{kind: TupleIpv4, ip4: a}
}

// AddressTupleFromIpv6 wraps an Ipv6Addr.
func AddressTupleFromIpv6(a Ipv6Addr) AddressTuple {
	return AddressTuple{kind: TupleIpv6, ip6: a}
}

// Kind returns which variant is held.
func (t AddressTuple) Kind() TupleKind { return t.kind }

// AsMac returns the held MacAddr and ok=true if Kind() == TupleMac.
func (t AddressTuple) AsMac() (MacAddr, bool) {
	return t.mac, t.kind == TupleMac
}

// AsIpv4 returns the held Ipv4Addr and ok=true if Kind() == TupleIpv4.
func (t AddressTuple) AsIpv4() (Ipv4Addr, bool) {
	return t.ip4, t.kind == TupleIpv4
}

// AsIpv6 returns the held Ipv6Addr and ok=true if Kind() == TupleIpv6.
func (t AddressTuple) AsIpv6() (Ipv6Addr, bool) {
	return t.ip6, t.kind == TupleIpv6
}

// String formats the held address in its native canonical form, or
// "<invalid>" if the tuple holds nothing.
func (t AddressTuple) String() string {
	switch t.kind {
	case TupleMac:
		return t.mac.String()
	case TupleIpv4:
		return t.ip4.String()
	case TupleIpv6:
		return t.ip6.String()
	default:
		return "<invalid>"
	}
}

// Equal reports whether two tuples hold the same kind and value.
func (t AddressTuple) Equal(o AddressTuple) bool {
	if t.kind != o.kind {
		return false
	}
	switch t.kind {
	case TupleMac:
		return t.mac.Equal(o.mac)
	case TupleIpv4:
		return t.ip4.Equal(o.ip4)
	case TupleIpv6:
		return t.ip6.Equal(o.ip6)
	default:
		return true
	}
}

// ErrEmptyTuple describes a tuple of the invalid kind, wrapping
// ErrInvalidAddress. The accessors in this file do not return it; they
// report an empty tuple through their boolean result.
var ErrEmptyTuple = fmt.Errorf("address tuple holds no value: %w", ErrInvalidAddress)
