package cache

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors a Reader reports to. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	requests      *prometheus.CounterVec
	storeErrors   *prometheus.CounterVec
	fetches       *prometheus.CounterVec
	fetchDuration prometheus.Histogram
	sharedFetches prometheus.Counter
	skippedWrites prometheus.Counter
}

// NewMetrics creates the cache collectors and registers them with reg.
func NewMetrics(namespace string, reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "requests_total",
				Help:      "Cache lookups by result (hit or miss)",
			},
			[]string{"result"},
		),
		storeErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "store_errors_total",
				Help:      "Cache store failures that were degraded to a miss or a skipped write",
			},
			[]string{"op"},
		),
		fetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "fetches_total",
				Help:      "Source-of-truth fetches by status",
			},
			[]string{"status"},
		),
		fetchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "fetch_duration_seconds",
				Help:      "Latency of source-of-truth fetches",
				Buckets:   prometheus.DefBuckets,
			},
		),
		sharedFetches: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "shared_fetches_total",
				Help:      "Lookups that waited on a fetch already in flight for the same key",
			},
		),
		skippedWrites: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "skipped_writes_total",
				Help:      "Fetched values not written because the caller predicate rejected them or an invalidation overlapped the fetch",
			},
		),
	}

	for _, c := range []prometheus.Collector{
		m.requests, m.storeErrors, m.fetches, m.fetchDuration, m.sharedFetches, m.skippedWrites,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) hit() {
	if m != nil {
		m.requests.WithLabelValues("hit").Inc()
	}
}

func (m *Metrics) miss() {
	if m != nil {
		m.requests.WithLabelValues("miss").Inc()
	}
}

func (m *Metrics) storeError(op string) {
	if m != nil {
		m.storeErrors.WithLabelValues(op).Inc()
	}
}

func (m *Metrics) fetched(d time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.fetches.WithLabelValues(status).Inc()
	m.fetchDuration.Observe(d.Seconds())
}

func (m *Metrics) shared() {
	if m != nil {
		m.sharedFetches.Inc()
	}
}

func (m *Metrics) skipped() {
	if m != nil {
		m.skippedWrites.Inc()
	}
}
