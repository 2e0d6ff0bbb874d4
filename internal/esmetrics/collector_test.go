package esmetrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/dantte-lp/goeventstore/internal/esmetrics"
)

func TestNewCollector(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := esmetrics.NewCollector(reg)

	if c.FramesSent == nil {
		t.Error("FramesSent is nil")
	}
	if c.FramesReceived == nil {
		t.Error("FramesReceived is nil")
	}
	if c.DecodeErrors == nil {
		t.Error("DecodeErrors is nil")
	}
	if c.Reconnects == nil {
		t.Error("Reconnects is nil")
	}
	if c.PendingCorrelations == nil {
		t.Error("PendingCorrelations is nil")
	}

	if _, err := reg.Gather(); err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
}

func TestFrameCounters(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := esmetrics.NewCollector(reg)

	c.IncFramesSent("127.0.0.1:1113")
	c.IncFramesSent("127.0.0.1:1113")
	c.IncFramesReceived("127.0.0.1:1113")
	c.IncDecodeErrors("127.0.0.1:1113", "payload")
	c.IncReconnects("127.0.0.1:1113")

	if got := counterValue(t, c.FramesSent, "127.0.0.1:1113"); got != 2 {
		t.Errorf("FramesSent = %v, want 2", got)
	}
	if got := counterValue(t, c.FramesReceived, "127.0.0.1:1113"); got != 1 {
		t.Errorf("FramesReceived = %v, want 1", got)
	}
	if got := counterValueWithLabels(t, c.DecodeErrors, "127.0.0.1:1113", "payload"); got != 1 {
		t.Errorf("DecodeErrors = %v, want 1", got)
	}
	if got := counterValue(t, c.Reconnects, "127.0.0.1:1113"); got != 1 {
		t.Errorf("Reconnects = %v, want 1", got)
	}
}

func TestPendingCorrelationsGauge(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := esmetrics.NewCollector(reg)

	c.SetPendingCorrelations("127.0.0.1:1113", 5)

	m := &dto.Metric{}
	if err := c.PendingCorrelations.WithLabelValues("127.0.0.1:1113").Write(m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if m.GetGauge().GetValue() != 5 {
		t.Errorf("PendingCorrelations = %v, want 5", m.GetGauge().GetValue())
	}
}

func counterValue(t *testing.T, vec *prometheus.CounterVec, addr string) float64 {
	t.Helper()
	m := &dto.Metric{}
	if err := vec.WithLabelValues(addr).Write(m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return m.GetCounter().GetValue()
}

func counterValueWithLabels(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	m := &dto.Metric{}
	if err := vec.WithLabelValues(labels...).Write(m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return m.GetCounter().GetValue()
}
