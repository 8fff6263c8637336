// Package acceptor implements the server's listen/accept loop as an
// activeobject.ActiveObject: bind, listen, then repeatedly run a timed
// Accept so the loop can observe context cancellation between attempts,
// handing each accepted connection to an OnAccepted callback. The loop
// shape (bind once, loop recv-or-cancel) is the same one used for packet
// reception elsewhere in this codebase, here adapted to connection
// acceptance.
package acceptor

import (
	"context"
	"log/slog"
	"time"

	"github.com/renebarto/gonet/internal/activeobject"
	"github.com/renebarto/gonet/internal/endpoint"
	"github.com/renebarto/gonet/internal/netsock"
	"github.com/renebarto/gonet/internal/sockapi"
)

// OnAccepted is invoked once per accepted connection, with the peer's
// endpoint for logging/metrics purposes.
type OnAccepted func(sock *netsock.Ipv4Socket, peer endpoint.Ipv4Endpoint)

const acceptorName = "TCPServerAcceptor"[:15]

// Acceptor owns the listening socket and drives the accept loop.
type Acceptor struct {
	*activeobject.ActiveObject

	api           sockapi.API
	local         endpoint.Ipv4Endpoint
	backlog       int
	acceptTimeout time.Duration
	onAccepted    OnAccepted
	logger        *slog.Logger
	listenSock    *netsock.Ipv4Socket
}

// New creates an Acceptor bound to local, with the given listen backlog
// and per-Accept timeout (the loop re-checks context cancellation every
// acceptTimeout). Call Create to start listening.
func New(api sockapi.API, local endpoint.Ipv4Endpoint, backlog int, acceptTimeout time.Duration, onAccepted OnAccepted, logger *slog.Logger) *Acceptor {
	if logger == nil {
		logger = slog.Default()
	}
	a := &Acceptor{
		api:           api,
		local:         local,
		backlog:       backlog,
		acceptTimeout: acceptTimeout,
		onAccepted:    onAccepted,
		logger:        logger,
	}
	a.ActiveObject = activeobject.New(acceptorName, logger, activeobject.Hooks{
		Init: a.init,
		Run:  a.run,
		Exit: a.onExit,
	})
	return a
}

func (a *Acceptor) init(context.Context) error {
	sock, err := netsock.Ipv4TCPSocket(a.api)
	if err != nil {
		return err
	}
	if err := sock.SetReuseAddress(true); err != nil {
		_ = sock.Close()
		return err
	}
	if err := sock.Bind(a.local); err != nil {
		_ = sock.Close()
		return err
	}
	if err := sock.Listen(a.backlog); err != nil {
		_ = sock.Close()
		return err
	}
	a.listenSock = sock
	a.logger.Info("acceptor listening", slog.String("addr", a.local.String()))
	return nil
}

func (a *Acceptor) run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		accepted, peer, err := a.listenSock.Accept(a.acceptTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if accepted == nil {
			// Timed out this slice, or the listening handle was closed
			// underneath us during graceful shutdown; loop to re-check ctx.
			continue
		}

		if a.onAccepted != nil {
			a.onAccepted(accepted, peer)
		}
	}
}

func (a *Acceptor) onExit() {
	// Runs after run has returned: close the listening socket. Live
	// connections are not touched here; tcpserver.Server.Stop kills
	// their workers.
	if a.listenSock != nil {
		_ = a.listenSock.Close()
	}
	a.logger.Info("acceptor stopped")
}
