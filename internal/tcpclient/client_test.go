package tcpclient_test

import (
	"testing"
	"time"

	"github.com/renebarto/gonet/internal/address"
	"github.com/renebarto/gonet/internal/endpoint"
	"github.com/renebarto/gonet/internal/sockapi"
	"github.com/renebarto/gonet/internal/tcpclient"
)

func targetEndpoint() endpoint.Ipv4Endpoint {
	return endpoint.NewIpv4Endpoint(address.Ipv4Localhost, 7000)
}

// TestConnectSucceedsAndTransitionsState verifies a successful Connect
// moves the client from Disconnected to Connected.
func TestConnectSucceedsAndTransitionsState(t *testing.T) {
	t.Parallel()

	api := sockapi.NewMockAPI()
	api.ConnectFunc = func(sockapi.Handle, sockapi.Sockaddr) error { return nil }

	c := tcpclient.New(api)
	if c.State() != tcpclient.Disconnected {
		t.Fatalf("initial state = %v, want Disconnected", c.State())
	}
	if err := c.Connect(targetEndpoint(), time.Second); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if c.State() != tcpclient.Connected {
		t.Fatalf("state after Connect = %v, want Connected", c.State())
	}
}

// TestConnectRefusesWhileAlreadyConnected verifies the client will not
// open a second connection on top of a live one.
func TestConnectRefusesWhileAlreadyConnected(t *testing.T) {
	t.Parallel()

	api := sockapi.NewMockAPI()
	api.ConnectFunc = func(sockapi.Handle, sockapi.Sockaddr) error { return nil }

	c := tcpclient.New(api)
	if err := c.Connect(targetEndpoint(), time.Second); err != nil {
		t.Fatalf("first Connect: %v", err)
	}
	if err := c.Connect(targetEndpoint(), time.Second); err != tcpclient.ErrAlreadyConnected {
		t.Fatalf("second Connect error = %v, want ErrAlreadyConnected", err)
	}
}

// TestDisconnectClosesSocketAndAllowsReconnect verifies Disconnect tears
// down the socket and the client accepts a fresh Connect afterward.
func TestDisconnectClosesSocketAndAllowsReconnect(t *testing.T) {
	t.Parallel()

	api := sockapi.NewMockAPI()
	api.ConnectFunc = func(sockapi.Handle, sockapi.Sockaddr) error { return nil }

	c := tcpclient.New(api)
	if err := c.Connect(targetEndpoint(), time.Second); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if err := c.Disconnect(); err != nil {
		t.Fatalf("Disconnect: %v", err)
	}
	if c.State() != tcpclient.Disconnected {
		t.Fatalf("state after Disconnect = %v, want Disconnected", c.State())
	}
	if api.OpenHandleCount() != 0 {
		t.Fatalf("OpenHandleCount after Disconnect = %d, want 0", api.OpenHandleCount())
	}

	if err := c.Connect(targetEndpoint(), time.Second); err != nil {
		t.Fatalf("reconnect: %v", err)
	}
}

// TestSendAllAndRecvRequireConnection verifies SendAll/Recv reject use
// before any connection is established.
func TestSendAllAndRecvRequireConnection(t *testing.T) {
	t.Parallel()

	c := tcpclient.New(sockapi.NewMockAPI())
	if _, err := c.SendAll([]byte("x")); err != tcpclient.ErrNotConnected {
		t.Fatalf("SendAll error = %v, want ErrNotConnected", err)
	}
	if _, err := c.Recv(make([]byte, 1)); err != tcpclient.ErrNotConnected {
		t.Fatalf("Recv error = %v, want ErrNotConnected", err)
	}
}

// TestRecvZeroDisconnectsClient verifies an orderly peer close observed
// via Recv returning 0 disconnects the client automatically.
func TestRecvZeroDisconnectsClient(t *testing.T) {
	t.Parallel()

	api := sockapi.NewMockAPI()
	api.ConnectFunc = func(sockapi.Handle, sockapi.Sockaddr) error { return nil }
	api.RecvFunc = func(sockapi.Handle, []byte) (int, error) { return 0, nil }

	c := tcpclient.New(api)
	if err := c.Connect(targetEndpoint(), time.Second); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	n, err := c.Recv(make([]byte, 16))
	if err != nil || n != 0 {
		t.Fatalf("Recv = %d, %v", n, err)
	}
	if c.State() != tcpclient.Disconnected {
		t.Fatalf("state after Recv(0) = %v, want Disconnected", c.State())
	}
}
