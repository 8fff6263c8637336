// Package connworker implements the per-connection receive loop: one
// activeobject.ActiveObject per accepted socket, reading up to 4096
// bytes at a time and handing each chunk to a DataCallback, aborting the
// connection on EOF, a false callback result, or a send failure, and
// notifying close listeners exactly once on exit.
package connworker

import (
	"context"
	"log/slog"

	"github.com/renebarto/gonet/internal/activeobject"
	"github.com/renebarto/gonet/internal/netsock"
	"github.com/renebarto/gonet/internal/observable"
	"github.com/renebarto/gonet/internal/sockapi"
)

// recvBufferSize is the chunk size each Recv call reads, per the
// connection worker's receive-loop contract.
const recvBufferSize = 4096

// DataCallback processes one chunk of data received from the peer. It
// returns the bytes to write back (nil/empty to send nothing) and
// whether the connection should remain open.
type DataCallback func(data []byte) (reply []byte, keepOpen bool)

// CloseListener is notified exactly once when a Worker's connection
// ends, for whatever reason.
type CloseListener func(w *Worker)

const workerName = "TCPServerConnWorker"[:15]

// Worker drives the receive loop for one accepted connection.
type Worker struct {
	*activeobject.ActiveObject

	sock     *netsock.Ipv4Socket
	callback DataCallback
	logger   *slog.Logger

	closeListeners *observable.Subject[CloseListener]
	notifiedClose  bool
}

// New creates a Worker for an already-accepted socket. Call Create to
// start its receive-loop goroutine.
func New(sock *netsock.Ipv4Socket, callback DataCallback, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	w := &Worker{
		sock:           sock,
		callback:       callback,
		logger:         logger,
		closeListeners: observable.New[CloseListener](),
	}
	w.ActiveObject = activeobject.New(workerName, logger, activeobject.Hooks{
		Run:   w.run,
		Flush: w.onFlush,
		Exit:  w.onExit,
	})
	return w
}

// OnClose subscribes l to be invoked exactly once when this worker's
// connection ends.
func (w *Worker) OnClose(l CloseListener) *CloseListener {
	return w.closeListeners.Subscribe(&l)
}

func (w *Worker) run(ctx context.Context) error {
	buf := make([]byte, recvBufferSize)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		n, err := w.sock.Recv(buf)
		if err != nil {
			if ctx.Err() != nil || sockapi.ShuttingDown(err) {
				// The socket was closed underneath the blocked Recv (by
				// onFlush or a shutdown); that ends the connection cleanly.
				return nil
			}
			return err
		}
		if n == 0 {
			// Peer performed an orderly close; Recv already closed our
			// local handle.
			return nil
		}

		if w.callback == nil {
			return nil
		}
		reply, keepOpen := w.callback(buf[:n])
		if len(reply) > 0 {
			ok, sendErr := w.sock.Send(reply)
			if sendErr != nil {
				return sendErr
			}
			if !ok {
				return nil
			}
		}
		if !keepOpen {
			return nil
		}
	}
}

// onFlush closes the socket so a Recv blocked in run's kernel read
// returns EBADF instead of waiting on ctx.Done, which run only checks
// between Recv calls. Socket.Close is idempotent, so onExit's own
// close of the same socket is harmless.
func (w *Worker) onFlush() {
	_ = w.sock.Close()
}

func (w *Worker) onExit() {
	_ = w.sock.Close()
	if w.notifiedClose {
		return
	}
	w.notifiedClose = true
	w.closeListeners.ForAll(func(l *CloseListener) { (*l)(w) })
}

// Socket returns the underlying accepted socket, e.g. for callers that
// need the peer's endpoint.
func (w *Worker) Socket() *netsock.Ipv4Socket { return w.sock }
