//go:build unix

package tcpserver_test

import (
	"sync"
	"testing"
	"time"

	"golang.org/x/sys/unix"

	"github.com/renebarto/gonet/internal/address"
	"github.com/renebarto/gonet/internal/endpoint"
	"github.com/renebarto/gonet/internal/sockapi"
	"github.com/renebarto/gonet/internal/tcpserver"
)

// TestServerAcceptsEchoesAndCleansUp is the end-to-end scenario exercised
// entirely against sockapi.MockAPI: a client connection is accepted,
// every chunk it sends is echoed back, and once the peer closes, the
// connection moves from the live set into the closed history.
func TestServerAcceptsEchoesAndCleansUp(t *testing.T) {
	t.Parallel()

	api := sockapi.NewMockAPI()
	peer := endpoint.NewIpv4Endpoint(address.Ipv4Localhost, 7100)

	var acceptMu sync.Mutex
	accepted := false
	api.AcceptFunc = func(sockapi.Handle) (sockapi.Handle, sockapi.Sockaddr, error) {
		acceptMu.Lock()
		defer acceptMu.Unlock()
		if accepted {
			return sockapi.InvalidHandle, sockapi.Sockaddr{}, sockapi.NewOSError("accept", unix.EAGAIN)
		}
		accepted = true
		return 50, sockapi.SockaddrFromIpv4(peer), nil
	}

	var recvMu sync.Mutex
	recvCalls := 0
	api.RecvFunc = func(sockapi.Handle, buf []byte) (int, error) {
		recvMu.Lock()
		defer recvMu.Unlock()
		recvCalls++
		if recvCalls == 1 {
			copy(buf, "ping")
			return 4, nil
		}
		return 0, nil
	}
	var sent []byte
	var sentMu sync.Mutex
	api.SendFunc = func(_ sockapi.Handle, buf []byte) (int, error) {
		sentMu.Lock()
		sent = append(sent, buf...)
		sentMu.Unlock()
		return len(buf), nil
	}

	var accepts int
	var closes int
	var eventsMu sync.Mutex

	s := tcpserver.New(api, func(data []byte) ([]byte, bool) {
		return data, true
	}, nil)
	s.OnAccepted(func(endpoint.Ipv4Endpoint) {
		eventsMu.Lock()
		accepts++
		eventsMu.Unlock()
	})
	s.OnConnectionClosed(func(endpoint.Ipv4Endpoint) {
		eventsMu.Lock()
		closes++
		eventsMu.Unlock()
	})

	if err := s.Start(8080, 16, 10*time.Millisecond); err != nil {
		t.Fatalf("Start: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		eventsMu.Lock()
		done := closes >= 1
		eventsMu.Unlock()
		if done || time.Now().After(deadline) {
			break
		}
		time.Sleep(time.Millisecond)
	}

	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	eventsMu.Lock()
	defer eventsMu.Unlock()
	if accepts != 1 {
		t.Fatalf("accepts = %d, want 1", accepts)
	}
	if closes != 1 {
		t.Fatalf("closes = %d, want 1", closes)
	}
	sentMu.Lock()
	gotSent := string(sent)
	sentMu.Unlock()
	if gotSent != "ping" {
		t.Fatalf("sent = %q, want %q", gotSent, "ping")
	}
	if s.LiveCount() != 0 {
		t.Fatalf("LiveCount = %d, want 0", s.LiveCount())
	}
	closedEps := s.ClosedEndpoints()
	if len(closedEps) != 1 || !closedEps[0].Equal(peer) {
		t.Fatalf("ClosedEndpoints = %v, want [%v]", closedEps, peer)
	}
}

// TestServerStopWithLiveIdleConnection verifies Stop tears down a
// connection that is live but idle — its worker genuinely blocked in
// Recv, never fed data or EOF — within the test deadline. This is the
// ordinary graceful-shutdown-with-connected-clients path; it must not
// rely on the peer disconnecting or the worker reaching EOF on its own.
func TestServerStopWithLiveIdleConnection(t *testing.T) {
	t.Parallel()

	api := sockapi.NewMockAPI()
	peer := endpoint.NewIpv4Endpoint(address.Ipv4Localhost, 7200)

	var acceptMu sync.Mutex
	accepted := false
	api.AcceptFunc = func(sockapi.Handle) (sockapi.Handle, sockapi.Sockaddr, error) {
		acceptMu.Lock()
		defer acceptMu.Unlock()
		if accepted {
			return sockapi.InvalidHandle, sockapi.Sockaddr{}, sockapi.NewOSError("accept", unix.EAGAIN)
		}
		accepted = true
		return 60, sockapi.SockaddrFromIpv4(peer), nil
	}

	block := make(chan struct{})
	api.RecvFunc = func(sockapi.Handle, []byte) (int, error) {
		<-block // only CloseFunc (driven by the worker's Flush hook) releases this
		return 0, sockapi.NewOSError("recv", unix.EBADF)
	}
	api.CloseFunc = func(sockapi.Handle) error {
		select {
		case <-block:
		default:
			close(block)
		}
		return nil
	}

	var accepts int
	var eventsMu sync.Mutex

	s := tcpserver.New(api, func(data []byte) ([]byte, bool) { return data, true }, nil)
	s.OnAccepted(func(endpoint.Ipv4Endpoint) {
		eventsMu.Lock()
		accepts++
		eventsMu.Unlock()
	})

	if err := s.Start(8090, 16, 10*time.Millisecond); err != nil {
		t.Fatalf("Start: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		eventsMu.Lock()
		done := accepts >= 1
		eventsMu.Unlock()
		if done || time.Now().After(deadline) {
			break
		}
		time.Sleep(time.Millisecond)
	}
	if s.LiveCount() != 1 {
		t.Fatalf("LiveCount = %d, want 1 before Stop", s.LiveCount())
	}

	done := make(chan error, 1)
	go func() { done <- s.Stop() }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Stop: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return: live idle connection was never interrupted")
	}
	if s.LiveCount() != 0 {
		t.Fatalf("LiveCount = %d, want 0 after Stop", s.LiveCount())
	}
}

// TestServerStartTwiceFails verifies Start refuses to run a second
// acceptor over an already-started server.
func TestServerStartTwiceFails(t *testing.T) {
	t.Parallel()

	api := sockapi.NewMockAPI()
	api.AcceptFunc = func(sockapi.Handle) (sockapi.Handle, sockapi.Sockaddr, error) {
		return sockapi.InvalidHandle, sockapi.Sockaddr{}, sockapi.NewOSError("accept", unix.EAGAIN)
	}

	s := tcpserver.New(api, func(data []byte) ([]byte, bool) { return nil, true }, nil)
	if err := s.Start(8081, 16, 10*time.Millisecond); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	defer s.Stop()

	if err := s.Start(8081, 16, 10*time.Millisecond); err != tcpserver.ErrAlreadyStarted {
		t.Fatalf("second Start error = %v, want ErrAlreadyStarted", err)
	}
}
