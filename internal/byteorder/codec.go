package byteorder

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"unicode/utf16"
)

// ErrShortBuffer is returned by Get* readers when the backing slice does
// not hold enough bytes from the cursor to satisfy the read.
var ErrShortBuffer = errors.New("byteorder: short buffer")

// Codec appends fixed-width primitives to (and extracts them from) a
// growing byte buffer at a caller-held cursor: every Put advances Cursor
// by the exact width written, growing the buffer as needed; every Get
// advances Cursor by the exact width read.
type Codec struct {
	Buf    []byte
	Cursor int

	// Network selects network (big-endian) byte order for multi-byte
	// primitives when true; host order is used otherwise.
	Network bool
}

// NewCodec wraps buf (nil is valid) for writing/reading at offset 0.
func NewCodec(buf []byte, network bool) *Codec {
	return &Codec{Buf: buf, Network: network}
}

func (c *Codec) ensure(n int) {
	need := c.Cursor + n
	if need <= len(c.Buf) {
		return
	}
	grown := make([]byte, need)
	copy(grown, c.Buf)
	c.Buf = grown
}

// The Put/Get methods move bytes least-significant first, so a value is
// byte-swapped whenever the wanted order is big-endian: always in
// network mode, and in host mode on a big-endian host.

func (c *Codec) order16(x uint16) uint16 {
	if c.Network || !littleEndianHost {
		return bits.ReverseBytes16(x)
	}
	return x
}

func (c *Codec) order32(x uint32) uint32 {
	if c.Network || !littleEndianHost {
		return bits.ReverseBytes32(x)
	}
	return x
}

func (c *Codec) order64(x uint64) uint64 {
	if c.Network || !littleEndianHost {
		return bits.ReverseBytes64(x)
	}
	return x
}

// PutUint8 appends a single byte and advances the cursor by 1.
func (c *Codec) PutUint8(v uint8) {
	c.ensure(1)
	c.Buf[c.Cursor] = v
	c.Cursor++
}

// PutUint16 appends a 2-byte integer in the codec's selected byte order.
func (c *Codec) PutUint16(v uint16) {
	c.ensure(2)
	v = c.order16(v)
	c.Buf[c.Cursor] = byte(v)
	c.Buf[c.Cursor+1] = byte(v >> 8)
	c.Cursor += 2
}

// PutUint32 appends a 4-byte integer in the codec's selected byte order.
func (c *Codec) PutUint32(v uint32) {
	c.ensure(4)
	v = c.order32(v)
	for i := range 4 {
		c.Buf[c.Cursor+i] = byte(v >> (8 * i))
	}
	c.Cursor += 4
}

// PutUint64 appends an 8-byte integer in the codec's selected byte order.
func (c *Codec) PutUint64(v uint64) {
	c.ensure(8)
	v = c.order64(v)
	for i := range 8 {
		c.Buf[c.Cursor+i] = byte(v >> (8 * i))
	}
	c.Cursor += 8
}

// PutFloat32 appends an IEEE-754 binary32 value.
func (c *Codec) PutFloat32(v float32) {
	c.PutUint32(math.Float32bits(v))
}

// PutFloat64 appends an IEEE-754 binary64 value.
func (c *Codec) PutFloat64(v float64) {
	c.PutUint64(math.Float64bits(v))
}

// PutEnum8/16/32 write an enum value at the given underlying integer width.
func (c *Codec) PutEnum8(v uint8)   { c.PutUint8(v) }
func (c *Codec) PutEnum16(v uint16) { c.PutUint16(v) }
func (c *Codec) PutEnum32(v uint32) { c.PutUint32(v) }

// PutString writes a length-prefixed byte string: a machine-word
// (8-byte) length in the codec's byte order, followed by the raw bytes.
func (c *Codec) PutString(s string) {
	c.PutUint64(uint64(len(s)))
	c.ensure(len(s))
	copy(c.Buf[c.Cursor:], s)
	c.Cursor += len(s)
}

// PutWString writes a length-prefixed wide string: a machine-word count of
// UTF-16 code units, followed by each code unit at 2 bytes in the codec's
// byte order.
func (c *Codec) PutWString(s string) {
	units := utf16.Encode([]rune(s))
	c.PutUint64(uint64(len(units)))
	for _, u := range units {
		c.PutUint16(u)
	}
}

// GetUint8 reads a single byte and advances the cursor by 1.
func (c *Codec) GetUint8() (uint8, error) {
	if c.Cursor+1 > len(c.Buf) {
		return 0, fmt.Errorf("get uint8 at %d: %w", c.Cursor, ErrShortBuffer)
	}
	v := c.Buf[c.Cursor]
	c.Cursor++
	return v, nil
}

// GetUint16 reads a 2-byte integer in the codec's selected byte order.
func (c *Codec) GetUint16() (uint16, error) {
	if c.Cursor+2 > len(c.Buf) {
		return 0, fmt.Errorf("get uint16 at %d: %w", c.Cursor, ErrShortBuffer)
	}
	v := uint16(c.Buf[c.Cursor]) | uint16(c.Buf[c.Cursor+1])<<8
	c.Cursor += 2
	return c.order16(v), nil
}

// GetUint32 reads a 4-byte integer in the codec's selected byte order.
func (c *Codec) GetUint32() (uint32, error) {
	if c.Cursor+4 > len(c.Buf) {
		return 0, fmt.Errorf("get uint32 at %d: %w", c.Cursor, ErrShortBuffer)
	}
	var v uint32
	for i := range 4 {
		v |= uint32(c.Buf[c.Cursor+i]) << (8 * i)
	}
	c.Cursor += 4
	return c.order32(v), nil
}

// GetUint64 reads an 8-byte integer in the codec's selected byte order.
func (c *Codec) GetUint64() (uint64, error) {
	if c.Cursor+8 > len(c.Buf) {
		return 0, fmt.Errorf("get uint64 at %d: %w", c.Cursor, ErrShortBuffer)
	}
	var v uint64
	for i := range 8 {
		v |= uint64(c.Buf[c.Cursor+i]) << (8 * i)
	}
	c.Cursor += 8
	return c.order64(v), nil
}

// GetFloat32 reads an IEEE-754 binary32 value.
func (c *Codec) GetFloat32() (float32, error) {
	v, err := c.GetUint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// GetFloat64 reads an IEEE-754 binary64 value.
func (c *Codec) GetFloat64() (float64, error) {
	v, err := c.GetUint64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// GetEnum8/16/32 read an enum value at the given underlying integer width.
func (c *Codec) GetEnum8() (uint8, error)   { return c.GetUint8() }
func (c *Codec) GetEnum16() (uint16, error) { return c.GetUint16() }
func (c *Codec) GetEnum32() (uint32, error) { return c.GetUint32() }

// GetString reads a length-prefixed byte string written by PutString.
func (c *Codec) GetString() (string, error) {
	n, err := c.GetUint64()
	if err != nil {
		return "", fmt.Errorf("get string length: %w", err)
	}
	if c.Cursor+int(n) > len(c.Buf) {
		return "", fmt.Errorf("get string body at %d: %w", c.Cursor, ErrShortBuffer)
	}
	s := string(c.Buf[c.Cursor : c.Cursor+int(n)])
	c.Cursor += int(n)
	return s, nil
}

// GetWString reads a length-prefixed wide string written by PutWString.
func (c *Codec) GetWString() (string, error) {
	n, err := c.GetUint64()
	if err != nil {
		return "", fmt.Errorf("get wstring length: %w", err)
	}
	units := make([]uint16, n)
	for i := range units {
		u, uErr := c.GetUint16()
		if uErr != nil {
			return "", fmt.Errorf("get wstring unit %d: %w", i, uErr)
		}
		units[i] = u
	}
	return string(utf16.Decode(units)), nil
}
