// Package tcpserver composes internal/acceptor and internal/connworker
// into a concurrent multi-connection TCP server façade: Start opens the
// listening socket and begins accepting, each accepted connection gets
// its own worker goroutine running the caller's DataCallback, and Stop
// tears everything down, moving workers from the live list to the
// closed list as they finish so callers can inspect recently-closed
// connections without racing the worker pool.
package tcpserver

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/renebarto/gonet/internal/acceptor"
	"github.com/renebarto/gonet/internal/address"
	"github.com/renebarto/gonet/internal/connworker"
	"github.com/renebarto/gonet/internal/endpoint"
	"github.com/renebarto/gonet/internal/netsock"
	"github.com/renebarto/gonet/internal/sockapi"
)

// ErrAlreadyStarted is returned by Start when the server is already
// running.
var ErrAlreadyStarted = errors.New("tcpserver: already started")

// ConnectionListener is notified when a connection is accepted or
// closed.
type ConnectionListener func(peer endpoint.Ipv4Endpoint)

// Server is a concurrent multi-connection TCP server: one acceptor
// active object feeding a pool of per-connection connworker.Worker
// active objects.
type Server struct {
	api    sockapi.API
	cb     connworker.DataCallback
	logger *slog.Logger

	mu        sync.Mutex
	acceptor  *acceptor.Acceptor
	live      map[*connworker.Worker]endpoint.Ipv4Endpoint
	closed    []endpoint.Ipv4Endpoint
	maxClosed int

	onAccepted ConnectionListener
	onClosed   ConnectionListener
}

// New creates a Server that dispatches received data to cb and uses api
// for all socket operations.
func New(api sockapi.API, cb connworker.DataCallback, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		api:       api,
		cb:        cb,
		logger:    logger,
		live:      make(map[*connworker.Worker]endpoint.Ipv4Endpoint),
		maxClosed: 256,
	}
}

// OnAccepted registers a listener invoked once per accepted connection.
func (s *Server) OnAccepted(l ConnectionListener) { s.onAccepted = l }

// OnConnectionClosed registers a listener invoked once per connection
// that finishes, for any reason.
func (s *Server) OnConnectionClosed(l ConnectionListener) { s.onClosed = l }

// Start begins listening on port with the given accept backlog and
// per-accept poll timeout, spawning a worker for every accepted
// connection.
func (s *Server) Start(port uint16, backlog int, acceptTimeout time.Duration) error {
	s.mu.Lock()
	if s.acceptor != nil {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.mu.Unlock()

	local := endpoint.NewIpv4Endpoint(address.Ipv4Any, port)
	a := acceptor.New(s.api, local, backlog, acceptTimeout, s.handleAccepted, s.logger)

	if err := a.Create(context.Background()); err != nil {
		return err
	}

	s.mu.Lock()
	s.acceptor = a
	s.mu.Unlock()
	return nil
}

// Stop closes the listening socket and every live connection, waiting
// for all worker goroutines to exit before returning.
func (s *Server) Stop() error {
	s.mu.Lock()
	a := s.acceptor
	s.acceptor = nil
	workers := make([]*connworker.Worker, 0, len(s.live))
	for w := range s.live {
		workers = append(workers, w)
	}
	s.mu.Unlock()

	var firstErr error
	if a != nil {
		if err := a.Kill(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for _, w := range workers {
		if err := w.Kill(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// ForceConnectionClose immediately tears down every currently live
// connection without stopping the acceptor.
func (s *Server) ForceConnectionClose() {
	s.mu.Lock()
	workers := make([]*connworker.Worker, 0, len(s.live))
	for w := range s.live {
		workers = append(workers, w)
	}
	s.mu.Unlock()

	for _, w := range workers {
		_ = w.Kill()
	}
}

// LiveCount reports the number of currently connected clients.
func (s *Server) LiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}

// ClosedEndpoints returns a snapshot of recently-closed peer endpoints,
// most recent last, bounded to the server's retained history.
func (s *Server) ClosedEndpoints() []endpoint.Ipv4Endpoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]endpoint.Ipv4Endpoint, len(s.closed))
	copy(out, s.closed)
	return out
}

func (s *Server) handleAccepted(sock *netsock.Ipv4Socket, peer endpoint.Ipv4Endpoint) {
	w := connworker.New(sock, s.cb, s.logger)
	w.OnClose(func(finished *connworker.Worker) { s.doConnectionCleanup(finished, peer) })

	s.mu.Lock()
	s.live[w] = peer
	s.mu.Unlock()

	if err := w.Create(context.Background()); err != nil {
		s.logger.Warn("connection worker failed to start", slog.String("peer", peer.String()), slog.Any("error", err))
		s.doConnectionCleanup(w, peer)
		return
	}

	if s.onAccepted != nil {
		s.onAccepted(peer)
	}
}

// doConnectionCleanup moves a finished worker from the live set into the
// bounded closed history exactly once, snapshotting nothing under the
// server's own mutex that could re-enter this method (connworker.Worker's
// exit hook already guarantees the close notification itself fires at
// most once per worker).
func (s *Server) doConnectionCleanup(w *connworker.Worker, peer endpoint.Ipv4Endpoint) {
	s.mu.Lock()
	if _, ok := s.live[w]; ok {
		delete(s.live, w)
		s.closed = append(s.closed, peer)
		if len(s.closed) > s.maxClosed {
			s.closed = s.closed[len(s.closed)-s.maxClosed:]
		}
	}
	s.mu.Unlock()

	if s.onClosed != nil {
		s.onClosed(peer)
	}
}
