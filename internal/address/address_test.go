package address_test

import (
	"context"
	"net"
	"testing"

	"github.com/renebarto/gonet/internal/address"
)

// stubResolver lets tests exercise the DNS-fallback path deterministically.
type stubResolver struct {
	ips []net.IP
	err error
}

func (s stubResolver) LookupIP(_ context.Context, _, _ string) ([]net.IP, error) {
	return s.ips, s.err
}

// TestIpv4RoundTrip exercises parse-then-format round-tripping of a
// canonical dotted address.
func TestIpv4RoundTrip(t *testing.T) {
	t.Parallel()

	a, ok := address.TryParseIpv4("127.0.0.1")
	if !ok {
		t.Fatal("TryParseIpv4(127.0.0.1) failed")
	}
	if got := a.String(); got != "127.0.0.1" {
		t.Errorf("String() = %q, want %q", got, "127.0.0.1")
	}
	if got := a.Bytes(); got != [4]byte{127, 0, 0, 1} {
		t.Errorf("Bytes() = %v, want (127,0,0,1)", got)
	}
	if got := a.Uint32(); got != 0x7F000001 {
		t.Errorf("Uint32() = %#x, want %#x", got, 0x7F000001)
	}
}

// TestIpv4ParseRejectsGarbage ensures malformed dotted-quad text is
// rejected: an out-of-range octet, too few octets, a leading zero (not
// part of the canonical grammar, so format(parse(t))=t holds), and
// non-numeric octets.
func TestIpv4ParseRejectsGarbage(t *testing.T) {
	t.Parallel()

	orig := address.DefaultResolver
	address.DefaultResolver = stubResolver{err: context.DeadlineExceeded}
	defer func() { address.DefaultResolver = orig }()

	for _, text := range []string{"256.0.0.1", "1.2.3", "01.2.3.4", "a.b.c.d"} {
		if _, ok := address.TryParseIpv4(text); ok {
			t.Errorf("TryParseIpv4(%q) unexpectedly succeeded", text)
		}
	}
}

// TestIpv4DNSFallback verifies unresolvable numeric text falls back to the
// injected resolver.
func TestIpv4DNSFallback(t *testing.T) {
	orig := address.DefaultResolver
	defer func() { address.DefaultResolver = orig }()

	address.DefaultResolver = stubResolver{ips: []net.IP{net.IPv4(10, 0, 0, 5)}}

	a, err := address.ParseIpv4("host.example.invalid")
	if err != nil {
		t.Fatalf("ParseIpv4: %v", err)
	}
	if got := a.String(); got != "10.0.0.5" {
		t.Errorf("resolved address = %q, want 10.0.0.5", got)
	}
}

// TestIpv6LongestZeroRun verifies "::" compression picks the longest
// qualifying run of zero groups.
func TestIpv6LongestZeroRun(t *testing.T) {
	t.Parallel()

	b := [16]byte{0x00, 0x01, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0x01}
	a := address.NewIpv6Addr(b)

	if got := a.String(); got != "1::1" {
		t.Errorf("String() = %q, want %q", got, "1::1")
	}
}

// TestIpv6SingleZeroGroup verifies a length-1 zero run renders inline as
// ":0:" rather than being compressed.
func TestIpv6SingleZeroGroup(t *testing.T) {
	t.Parallel()

	a, ok := address.TryParseIpv6("1:0:2:3:4:5:6:7")
	if !ok {
		t.Fatal("parse failed")
	}
	if got := a.String(); got != "1:0:2:3:4:5:6:7" {
		t.Errorf("String() = %q, want isolated zero rendered inline", got)
	}
}

// TestIpv6Localhost verifies the "localhost" literal resolves to ::1
// without DNS, case-insensitively.
func TestIpv6Localhost(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"localhost", "LOCALHOST", "LocalHost"} {
		a, err := address.ParseIpv6(text)
		if err != nil {
			t.Fatalf("ParseIpv6(%q): %v", text, err)
		}
		if !a.Equal(address.Ipv6Localhost) {
			t.Errorf("ParseIpv6(%q) = %v, want ::1", text, a)
		}
	}
}

// TestIpv6RoundTrip checks parse(format(a)) = a across representative
// addresses, including the all-zero and all-compressed forms.
func TestIpv6RoundTrip(t *testing.T) {
	t.Parallel()

	cases := []string{"::", "::1", "1::1", "ff::ff:ff", "1:2:3:4:5:6:7:8"}
	for _, text := range cases {
		a, ok := address.TryParseIpv6(text)
		if !ok {
			t.Fatalf("parse %q failed", text)
		}
		reparsed, ok := address.TryParseIpv6(a.String())
		if !ok {
			t.Fatalf("reparse of formatted %q (from %q) failed", a.String(), text)
		}
		if !reparsed.Equal(a) {
			t.Errorf("round trip mismatch for %q: formatted %q", text, a.String())
		}
	}
}

// TestMacParse exercises the six-dash-separated-hex-bytes grammar.
func TestMacParse(t *testing.T) {
	t.Parallel()

	m, ok := address.TryParseMac("AA-BB-CC-00-11-22")
	if !ok {
		t.Fatal("parse failed")
	}
	if got := m.String(); got != "AA-BB-CC-00-11-22" {
		t.Errorf("String() = %q", got)
	}

	for _, bad := range []string{"AA:BB:CC:00:11:22", "AA-BB-CC-00-11", "ZZ-BB-CC-00-11-22"} {
		if _, ok := address.TryParseMac(bad); ok {
			t.Errorf("TryParseMac(%q) unexpectedly succeeded", bad)
		}
	}
}

// TestUnixPathRejectsOverlong verifies the 108-byte bound.
func TestUnixPathRejectsOverlong(t *testing.T) {
	t.Parallel()

	long := make([]byte, address.UnixPathMaxLen+1)
	for i := range long {
		long[i] = 'a'
	}
	if _, ok := address.TryParseUnixPath(string(long)); ok {
		t.Fatal("expected overlong unix path to be rejected")
	}

	ok108 := make([]byte, address.UnixPathMaxLen)
	if _, ok := address.TryParseUnixPath(string(ok108)); !ok {
		t.Fatal("expected exactly-108-byte path to be accepted")
	}
}

// TestAddressTupleVariants verifies the sum type's kind discrimination.
func TestAddressTupleVariants(t *testing.T) {
	t.Parallel()

	v4 := address.AddressTupleFromIpv4(address.Ipv4Localhost)
	if v4.Kind() != address.TupleIpv4 {
		t.Fatalf("kind = %v, want Ipv4", v4.Kind())
	}
	if _, ok := v4.AsMac(); ok {
		t.Error("AsMac() on an Ipv4 tuple should report ok=false")
	}
	addr, ok := v4.AsIpv4()
	if !ok || !addr.Equal(address.Ipv4Localhost) {
		t.Errorf("AsIpv4() = %v, %v", addr, ok)
	}

	var zero address.AddressTuple
	if zero.Kind() != address.TupleInvalid {
		t.Errorf("zero-value tuple kind = %v, want Invalid", zero.Kind())
	}
}
