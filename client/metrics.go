package client

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeOK        = "ok"
	outcomeViolation = "violation"
	outcomeConflict  = "conflict"
	outcomeUpstream  = "upstream_error"
	outcomeError     = "error"
)

// Metrics are the Prometheus collectors updated by a Client. A nil
// *Metrics records nothing.
type Metrics struct {
	requests   *prometheus.CounterVec
	violations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewMetrics creates the client collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rampsdk",
			Name:      "requests_total",
			Help:      "Endpoint calls by outcome.",
		}, []string{"endpoint", "outcome"}),
		violations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rampsdk",
			Name:      "contract_violations_total",
			Help:      "Request or response contract violations by endpoint.",
		}, []string{"endpoint", "stage"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rampsdk",
			Name:      "request_duration_seconds",
			Help:      "Round trip time of upstream calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}

	for _, c := range []prometheus.Collector{m.requests, m.violations, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(endpoint, outcome string, started time.Time) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(endpoint, outcome).Inc()
	if !started.IsZero() {
		m.duration.WithLabelValues(endpoint).Observe(time.Since(started).Seconds())
	}
}

func (m *Metrics) violation(endpoint, stage string) {
	if m == nil {
		return
	}
	m.violations.WithLabelValues(endpoint, stage).Inc()
}
