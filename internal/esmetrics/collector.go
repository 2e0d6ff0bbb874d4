package esmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// -------------------------------------------------------------------------
// Prometheus Metric Constants
// -------------------------------------------------------------------------

const (
	namespace = "esclientd"
	subsystem = "transport"
)

// Label names for transport metrics.
const (
	labelAddr      = "addr"
	labelDirection = "direction"
)

// -------------------------------------------------------------------------
// Collector — Prometheus transport metrics
// -------------------------------------------------------------------------

// Collector holds all esclientd Prometheus metrics.
type Collector struct {
	// FramesSent counts frames written to the connection.
	FramesSent *prometheus.CounterVec

	// FramesReceived counts frames successfully decoded from the connection.
	FramesReceived *prometheus.CounterVec

	// DecodeErrors counts frame/payload decode failures that abandoned the
	// connection.
	DecodeErrors *prometheus.CounterVec

	// Reconnects counts how many times the transport has re-dialed after a
	// connection loss.
	Reconnects *prometheus.CounterVec

	// PendingCorrelations tracks the number of requests currently awaiting
	// a reply, keyed by connection address.
	PendingCorrelations *prometheus.GaugeVec
}

// NewCollector creates a Collector with all metrics registered against reg.
// If reg is nil, prometheus.DefaultRegisterer is used.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := newMetrics()

	reg.MustRegister(
		c.FramesSent,
		c.FramesReceived,
		c.DecodeErrors,
		c.Reconnects,
		c.PendingCorrelations,
	)

	return c
}

// newMetrics creates all Prometheus metric vectors without registering them.
func newMetrics() *Collector {
	addrLabels := []string{labelAddr}
	frameLabels := []string{labelAddr, labelDirection}

	return &Collector{
		FramesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "frames_sent_total",
			Help:      "Total frames written to the EventStore connection.",
		}, addrLabels),

		FramesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "frames_received_total",
			Help:      "Total frames decoded from the EventStore connection.",
		}, addrLabels),

		DecodeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "decode_errors_total",
			Help:      "Total frame or payload decode failures, labeled by which side was decoding.",
		}, frameLabels),

		Reconnects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "reconnects_total",
			Help:      "Total times the transport re-dialed after losing the connection.",
		}, addrLabels),

		PendingCorrelations: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "pending_correlations",
			Help:      "Number of requests currently awaiting a reply.",
		}, addrLabels),
	}
}

// -------------------------------------------------------------------------
// Frame Counters
// -------------------------------------------------------------------------

// IncFramesSent increments the transmitted frames counter for addr.
func (c *Collector) IncFramesSent(addr string) {
	c.FramesSent.WithLabelValues(addr).Inc()
}

// IncFramesReceived increments the received frames counter for addr.
func (c *Collector) IncFramesReceived(addr string) {
	c.FramesReceived.WithLabelValues(addr).Inc()
}

// IncDecodeErrors increments the decode error counter for addr, labeled by
// direction ("frame" or "payload").
func (c *Collector) IncDecodeErrors(addr, direction string) {
	c.DecodeErrors.WithLabelValues(addr, direction).Inc()
}

// IncReconnects increments the reconnect counter for addr.
func (c *Collector) IncReconnects(addr string) {
	c.Reconnects.WithLabelValues(addr).Inc()
}

// -------------------------------------------------------------------------
// Correlation Gauge
// -------------------------------------------------------------------------

// SetPendingCorrelations sets the in-flight correlation count for addr.
func (c *Collector) SetPendingCorrelations(addr string, n int) {
	c.PendingCorrelations.WithLabelValues(addr).Set(float64(n))
}
