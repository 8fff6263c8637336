// Package tcpclient implements a minimal connect/disconnect TCP client
// state machine over internal/netsock: a single outstanding connection,
// refusing to reconnect while already connected, with connection state
// threaded through an atomic rather than a lock for the hot read path.
package tcpclient

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/renebarto/gonet/internal/endpoint"
	"github.com/renebarto/gonet/internal/netsock"
	"github.com/renebarto/gonet/internal/sockapi"
)

// State is the client's connection lifecycle state.
type State uint8

const (
	Disconnected State = iota
	Connected
)

// String returns the human-readable state name.
func (s State) String() string {
	switch s {
	case Disconnected:
		return "Disconnected"
	case Connected:
		return "Connected"
	default:
		return "Unknown"
	}
}

// ErrAlreadyConnected is returned by Connect when the client already
// owns a live connection.
var ErrAlreadyConnected = errors.New("tcpclient: already connected")

// ErrNotConnected is returned by SendAll/Recv when no connection is
// currently established.
var ErrNotConnected = errors.New("tcpclient: not connected")

// Client is a single-connection TCP client: Connect opens exactly one
// outstanding connection, Disconnect tears it down, and SendAll/Recv are
// only valid while Connected.
type Client struct {
	api   sockapi.API
	state atomic.Int32 // State

	sock *netsock.Ipv4Socket
}

// New creates a disconnected client bound to api for all socket
// operations (a real API in production, a MockAPI in tests).
func New(api sockapi.API) *Client {
	return &Client{api: api}
}

// State reports the client's current lifecycle state.
func (c *Client) State() State {
	return State(c.state.Load())
}

// Connect opens a TCP socket and connects it to ep within timeout. It
// refuses to transition if the client is already connected; callers must
// Disconnect first.
func (c *Client) Connect(ep endpoint.Ipv4Endpoint, timeout time.Duration) error {
	if State(c.state.Load()) == Connected {
		return ErrAlreadyConnected
	}

	sock, err := netsock.Ipv4TCPSocket(c.api)
	if err != nil {
		return err
	}

	ok, err := sock.Connect(ep, timeout)
	if err != nil {
		_ = sock.Close()
		return err
	}
	if !ok {
		_ = sock.Close()
		return nil
	}

	c.sock = sock
	c.state.Store(int32(Connected))
	return nil
}

// Disconnect closes the underlying socket and returns the client to the
// Disconnected state. It is a no-op if already disconnected.
func (c *Client) Disconnect() error {
	if State(c.state.Load()) != Connected {
		return nil
	}
	err := c.sock.Close()
	c.sock = nil
	c.state.Store(int32(Disconnected))
	return err
}

// SendAll writes the entire buffer to the connected peer.
func (c *Client) SendAll(buf []byte) (int, error) {
	if State(c.state.Load()) != Connected {
		return 0, ErrNotConnected
	}
	ok, err := c.sock.Send(buf)
	if err != nil {
		return 0, err
	}
	if !ok {
		_ = c.Disconnect()
		return 0, nil
	}
	return len(buf), nil
}

// Recv reads from the connected peer into buf, disconnecting the client
// automatically if the peer performs an orderly close.
func (c *Client) Recv(buf []byte) (int, error) {
	if State(c.state.Load()) != Connected {
		return 0, ErrNotConnected
	}
	n, err := c.sock.Recv(buf)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		_ = c.Disconnect()
	}
	return n, nil
}
