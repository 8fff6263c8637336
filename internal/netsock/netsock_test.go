package netsock_test

import (
	"testing"
	"time"

	"github.com/renebarto/gonet/internal/address"
	"github.com/renebarto/gonet/internal/endpoint"
	"github.com/renebarto/gonet/internal/netsock"
	"github.com/renebarto/gonet/internal/sockapi"
)

// TestIpv4TCPSocketOpensImmediately verifies construction opens the
// underlying handle without a separate Open call.
func TestIpv4TCPSocketOpensImmediately(t *testing.T) {
	t.Parallel()

	api := sockapi.NewMockAPI()
	s, err := netsock.Ipv4TCPSocket(api)
	if err != nil {
		t.Fatalf("Ipv4TCPSocket: %v", err)
	}
	defer s.Close()

	if !s.IsOpen() {
		t.Fatal("socket should be open immediately after construction")
	}
	if s.SockType() != sockapi.SockStream {
		t.Errorf("SockType = %v, want SockStream", s.SockType())
	}
}

// TestIpv4SocketBindConnectAcceptRoundTrip exercises the endpoint-typed
// surface (Bind/Listen/Connect/Accept) against the mock API, verifying
// the accepted peer endpoint survives the Sockaddr round trip.
func TestIpv4SocketBindConnectAcceptRoundTrip(t *testing.T) {
	t.Parallel()

	api := sockapi.NewMockAPI()

	listener, err := netsock.Ipv4TCPSocket(api)
	if err != nil {
		t.Fatalf("Ipv4TCPSocket: %v", err)
	}
	defer listener.Close()

	local := endpoint.NewIpv4Endpoint(address.Ipv4Any, 4000)
	if err := listener.Bind(local); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if err := listener.Listen(16); err != nil {
		t.Fatalf("Listen: %v", err)
	}

	peer := endpoint.NewIpv4Endpoint(address.Ipv4Localhost, 5555)
	api.AcceptFunc = func(sockapi.Handle) (sockapi.Handle, sockapi.Sockaddr, error) {
		return 42, sockapi.SockaddrFromIpv4(peer), nil
	}

	accepted, gotPeer, err := listener.Accept(time.Second)
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	defer accepted.Close()

	if !gotPeer.Equal(peer) {
		t.Errorf("accepted peer = %v, want %v", gotPeer, peer)
	}
	if accepted.Handle() != 42 {
		t.Errorf("accepted handle = %v, want 42", accepted.Handle())
	}
}

// TestIpv4SocketSendToRecvFrom verifies datagram send/receive surface
// threading the endpoint type through to SendTo/RecvFrom.
func TestIpv4SocketSendToRecvFrom(t *testing.T) {
	t.Parallel()

	api := sockapi.NewMockAPI()
	s, err := netsock.Ipv4UDPSocket(api)
	if err != nil {
		t.Fatalf("Ipv4UDPSocket: %v", err)
	}
	defer s.Close()

	dst := endpoint.NewIpv4Endpoint(address.Ipv4Localhost, 9001)
	var sentTo sockapi.Sockaddr
	api.SendToFunc = func(_ sockapi.Handle, buf []byte, d sockapi.Sockaddr) (int, error) {
		sentTo = d
		return len(buf), nil
	}

	n, err := s.SendTo([]byte("ping"), dst)
	if err != nil || n != 4 {
		t.Fatalf("SendTo = %d, %v", n, err)
	}
	if !sentTo.Ipv4Endpoint().Equal(dst) {
		t.Errorf("SendTo target = %v, want %v", sentTo.Ipv4Endpoint(), dst)
	}

	api.RecvFromFunc = func(_ sockapi.Handle, buf []byte) (int, sockapi.Sockaddr, error) {
		copy(buf, "pong")
		return 4, sockapi.SockaddrFromIpv4(dst), nil
	}
	buf := make([]byte, 16)
	n, from, err := s.RecvFrom(buf)
	if err != nil || n != 4 {
		t.Fatalf("RecvFrom = %d, %v", n, err)
	}
	if !from.Equal(dst) {
		t.Errorf("RecvFrom sender = %v, want %v", from, dst)
	}
}

// TestIpv6TCPSocketOpensImmediately mirrors the IPv4 construction
// contract for the IPv6 family wrapper.
func TestIpv6TCPSocketOpensImmediately(t *testing.T) {
	t.Parallel()

	api := sockapi.NewMockAPI()
	s, err := netsock.Ipv6TCPSocket(api)
	if err != nil {
		t.Fatalf("Ipv6TCPSocket: %v", err)
	}
	defer s.Close()

	if s.Family() != sockapi.FamilyIpv6 {
		t.Errorf("Family = %v, want FamilyIpv6", s.Family())
	}
}
