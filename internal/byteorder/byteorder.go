// Package byteorder provides host-endianness detection and network
// byte-order conversion helpers, plus a small binary codec for appending
// and extracting fixed-width values to/from a growing byte buffer at a
// caller-held cursor.
package byteorder

import (
	"math/bits"
	"unsafe"
)

// littleEndianHost is detected once at init time by probing a two-byte
// constant: write 0x0001 as a uint16 and look at which byte lands first
// in memory.
var littleEndianHost = func() bool {
	var x uint16 = 1
	b := (*[2]byte)(unsafe.Pointer(&x))
	return b[0] == 1
}()

// HostIsLittleEndian reports whether the running process observes a
// little-endian host layout.
func HostIsLittleEndian() bool {
	return littleEndianHost
}

// ToNetwork16 converts a host-order uint16 to network (big-endian) order.
func ToNetwork16(x uint16) uint16 {
	if !littleEndianHost {
		return x
	}
	return bits.ReverseBytes16(x)
}

// FromNetwork16 converts a network-order uint16 to host order. Network
// byte order swaps are involutions, so this is the same transform as
// ToNetwork16.
func FromNetwork16(x uint16) uint16 {
	return ToNetwork16(x)
}

// ToNetwork32 converts a host-order uint32 to network (big-endian) order.
func ToNetwork32(x uint32) uint32 {
	if !littleEndianHost {
		return x
	}
	return bits.ReverseBytes32(x)
}

// FromNetwork32 converts a network-order uint32 to host order.
func FromNetwork32(x uint32) uint32 {
	return ToNetwork32(x)
}

// ToNetwork64 converts a host-order uint64 to network (big-endian) order.
func ToNetwork64(x uint64) uint64 {
	if !littleEndianHost {
		return x
	}
	return bits.ReverseBytes64(x)
}

// FromNetwork64 converts a network-order uint64 to host order.
func FromNetwork64(x uint64) uint64 {
	return ToNetwork64(x)
}

// ToNetwork8 and FromNetwork8 are identities; they exist so callers can
// treat every integer width up to 8 bytes uniformly.
func ToNetwork8(x uint8) uint8   { return x }
func FromNetwork8(x uint8) uint8 { return x }
