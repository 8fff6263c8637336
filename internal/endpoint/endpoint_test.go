package endpoint_test

import (
	"testing"

	"github.com/renebarto/gonet/internal/address"
	"github.com/renebarto/gonet/internal/endpoint"
)

func TestIpv4EndpointParseFormat(t *testing.T) {
	t.Parallel()

	cases := []struct {
		text string
		want endpoint.Ipv4Endpoint
	}{
		{"127.0.0.1", endpoint.NewIpv4Endpoint(address.Ipv4Localhost, 0)},
		{"127.0.0.1:8080", endpoint.NewIpv4Endpoint(address.Ipv4Localhost, 8080)},
	}
	for _, tc := range cases {
		got, ok := endpoint.TryParseIpv4Endpoint(tc.text)
		if !ok {
			t.Fatalf("parse %q failed", tc.text)
		}
		if !got.Equal(tc.want) {
			t.Errorf("parse %q = %+v, want %+v", tc.text, got, tc.want)
		}
	}
}

func TestIpv4EndpointRejectsBadPort(t *testing.T) {
	t.Parallel()

	if _, ok := endpoint.TryParseIpv4Endpoint("127.0.0.1:99999"); ok {
		t.Error("expected out-of-range port to fail")
	}
}

func TestIpv6EndpointParseFormat(t *testing.T) {
	t.Parallel()

	cases := []string{
		"::1",
		"::1%3",
		"[::1]:8080",
		"[::1%3]:8080",
	}
	for _, text := range cases {
		got, ok := endpoint.TryParseIpv6Endpoint(text)
		if !ok {
			t.Fatalf("parse %q failed", text)
		}
		reparsed, ok := endpoint.TryParseIpv6Endpoint(got.String())
		if !ok {
			t.Fatalf("reparse of %q (from %q) failed", got.String(), text)
		}
		if !reparsed.Equal(got) {
			t.Errorf("round trip mismatch for %q: got %+v then %+v", text, got, reparsed)
		}
	}
}

func TestIpv4EndpointSockaddrRoundTrip(t *testing.T) {
	t.Parallel()

	e := endpoint.NewIpv4Endpoint(address.Ipv4Localhost, 22222)
	got := endpoint.Ipv4EndpointFromSockaddr(e.ToSockaddr())
	if !got.Equal(e) {
		t.Errorf("sockaddr round trip = %+v, want %+v", got, e)
	}
}

func TestIpv6EndpointSockaddrRoundTrip(t *testing.T) {
	t.Parallel()

	e := endpoint.NewIpv6Endpoint(address.Ipv6Localhost, 22222, 5)
	e.FlowInfo = 7
	got := endpoint.Ipv6EndpointFromSockaddr(e.ToSockaddr())
	if !got.Equal(e) {
		t.Errorf("sockaddr round trip = %+v, want %+v", got, e)
	}
}
