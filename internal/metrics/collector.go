// Package metrics exposes the TCP server's Prometheus instrumentation:
// active connections, bytes transferred, accept errors, and why
// connections closed, as one gauge/counter per lifecycle event.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "gonet"
	subsystem = "tcpserver"
)

// Label names for close-reason breakdowns.
const (
	labelReason = "reason"
)

// Close reasons recorded against CloseReasons.
const (
	ReasonPeerClosed  = "peer_closed"
	ReasonCallback    = "callback_stop"
	ReasonSendFailure = "send_failure"
	ReasonForced      = "forced"
	ReasonError       = "error"
)

// Collector holds all TCP server Prometheus metrics.
type Collector struct {
	// ConnectionsActive tracks the number of currently connected peers.
	ConnectionsActive prometheus.Gauge

	// ConnectionsAccepted counts every connection the acceptor has
	// handed off to a worker.
	ConnectionsAccepted prometheus.Counter

	// AcceptErrors counts accept() failures that were not simple
	// timeouts (retryable errno results never increment this).
	AcceptErrors prometheus.Counter

	// BytesReceived counts bytes read from client sockets.
	BytesReceived prometheus.Counter

	// BytesSent counts bytes written to client sockets.
	BytesSent prometheus.Counter

	// CloseReasons counts why a connection ended, labeled by reason.
	CloseReasons *prometheus.CounterVec
}

// NewCollector creates a Collector with all TCP server metrics
// registered against reg. If reg is nil, prometheus.DefaultRegisterer is
// used.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := newMetrics()

	reg.MustRegister(
		c.ConnectionsActive,
		c.ConnectionsAccepted,
		c.AcceptErrors,
		c.BytesReceived,
		c.BytesSent,
		c.CloseReasons,
	)

	return c
}

func newMetrics() *Collector {
	return &Collector{
		ConnectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "connections_active",
			Help:      "Number of currently connected TCP clients.",
		}),
		ConnectionsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "connections_accepted_total",
			Help:      "Total TCP connections accepted.",
		}),
		AcceptErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "accept_errors_total",
			Help:      "Total non-retryable accept() failures.",
		}),
		BytesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "bytes_received_total",
			Help:      "Total bytes read from client sockets.",
		}),
		BytesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "bytes_sent_total",
			Help:      "Total bytes written to client sockets.",
		}),
		CloseReasons: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "connection_closed_total",
			Help:      "Total connections closed, labeled by reason.",
		}, []string{labelReason}),
	}
}

// ConnectionAccepted records one accepted connection and bumps the
// active gauge.
func (c *Collector) ConnectionAccepted() {
	c.ConnectionsAccepted.Inc()
	c.ConnectionsActive.Inc()
}

// ConnectionClosed decrements the active gauge and records why the
// connection ended.
func (c *Collector) ConnectionClosed(reason string) {
	c.ConnectionsActive.Dec()
	c.CloseReasons.WithLabelValues(reason).Inc()
}

// AddBytesReceived adds n to the received-bytes counter.
func (c *Collector) AddBytesReceived(n int) {
	if n <= 0 {
		return
	}
	c.BytesReceived.Add(float64(n))
}

// AddBytesSent adds n to the sent-bytes counter.
func (c *Collector) AddBytesSent(n int) {
	if n <= 0 {
		return
	}
	c.BytesSent.Add(float64(n))
}

// IncAcceptErrors increments the non-retryable accept-failure counter.
func (c *Collector) IncAcceptErrors() {
	c.AcceptErrors.Inc()
}
