package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/renebarto/gonet/internal/metrics"
)

func TestNewCollector(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := metrics.NewCollector(reg)

	if c.ConnectionsActive == nil {
		t.Error("ConnectionsActive is nil")
	}
	if c.ConnectionsAccepted == nil {
		t.Error("ConnectionsAccepted is nil")
	}
	if c.AcceptErrors == nil {
		t.Error("AcceptErrors is nil")
	}
	if c.BytesReceived == nil {
		t.Error("BytesReceived is nil")
	}
	if c.BytesSent == nil {
		t.Error("BytesSent is nil")
	}
	if c.CloseReasons == nil {
		t.Error("CloseReasons is nil")
	}

	// Registration must not panic; gathering may legitimately be empty.
	if _, err := reg.Gather(); err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
}

func TestConnectionAcceptedAndClosed(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := metrics.NewCollector(reg)

	c.ConnectionAccepted()
	c.ConnectionAccepted()
	c.ConnectionClosed(metrics.ReasonPeerClosed)

	var gauge dto.Metric
	if err := c.ConnectionsActive.Write(&gauge); err != nil {
		t.Fatalf("Write gauge: %v", err)
	}
	if got := gauge.GetGauge().GetValue(); got != 1 {
		t.Errorf("ConnectionsActive = %v, want 1", got)
	}

	var counter dto.Metric
	if err := c.ConnectionsAccepted.Write(&counter); err != nil {
		t.Fatalf("Write counter: %v", err)
	}
	if got := counter.GetCounter().GetValue(); got != 2 {
		t.Errorf("ConnectionsAccepted = %v, want 2", got)
	}
}

func TestBytesCounters(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := metrics.NewCollector(reg)

	c.AddBytesReceived(100)
	c.AddBytesReceived(0) // no-op, should not panic or increment
	c.AddBytesSent(42)

	var recv dto.Metric
	if err := c.BytesReceived.Write(&recv); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := recv.GetCounter().GetValue(); got != 100 {
		t.Errorf("BytesReceived = %v, want 100", got)
	}

	var sent dto.Metric
	if err := c.BytesSent.Write(&sent); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := sent.GetCounter().GetValue(); got != 42 {
		t.Errorf("BytesSent = %v, want 42", got)
	}
}

func TestCloseReasonsLabeled(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := metrics.NewCollector(reg)

	c.ConnectionAccepted()
	c.ConnectionClosed(metrics.ReasonSendFailure)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}

	found := false
	for _, fam := range families {
		if fam.GetName() != "gonet_tcpserver_connection_closed_total" {
			continue
		}
		for _, m := range fam.GetMetric() {
			for _, lbl := range m.GetLabel() {
				if lbl.GetName() == "reason" && lbl.GetValue() == metrics.ReasonSendFailure {
					found = true
				}
			}
		}
	}
	if !found {
		t.Error("expected a connection_closed_total sample labeled reason=send_failure")
	}
}
