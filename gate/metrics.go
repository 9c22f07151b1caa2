package gate

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"searchgate/core/types"
)

// Metrics exposes Prometheus collectors for gate activity. A nil *Metrics records nothing.
type Metrics struct {
	requestsCreated   prometheus.Counter
	confirmations     *prometheus.CounterVec
	directSearches    *prometheus.CounterVec
	executions        *prometheus.CounterVec
	executionDuration *prometheus.HistogramVec
	pending           prometheus.Gauge
}

// MustNewMetrics constructs and registers the collectors. Registration errors panic,
// so tests should pass a fresh prometheus.NewRegistry().
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		requestsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "searchgate",
			Subsystem: "gate",
			Name:      "requests_created_total",
			Help:      "Agent search requests registered for confirmation.",
		}),
		confirmations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "searchgate",
			Subsystem: "gate",
			Name:      "confirmations_total",
			Help:      "Confirmation attempts by outcome.",
		}, []string{"outcome"}),
		directSearches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "searchgate",
			Subsystem: "gate",
			Name:      "direct_searches_total",
			Help:      "Direct user searches by outcome.",
		}, []string{"outcome"}),
		executions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "searchgate",
			Subsystem: "gate",
			Name:      "executions_total",
			Help:      "Provider invocations by initiator and status.",
		}, []string{"initiator", "status"}),
		executionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "searchgate",
			Subsystem: "gate",
			Name:      "execution_duration_seconds",
			Help:      "Time spent waiting on the search provider.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"initiator"}),
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "searchgate",
			Subsystem: "gate",
			Name:      "pending_requests",
			Help:      "Requests currently awaiting confirmation.",
		}),
	}

	reg.MustRegister(m.requestsCreated, m.confirmations, m.directSearches,
		m.executions, m.executionDuration, m.pending)
	return m
}

func (m *Metrics) requestCreated() {
	if m == nil {
		return
	}
	m.requestsCreated.Inc()
}

func (m *Metrics) confirmation(outcome string) {
	if m == nil {
		return
	}
	m.confirmations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) directSearch(outcome string) {
	if m == nil {
		return
	}
	m.directSearches.WithLabelValues(outcome).Inc()
}

func (m *Metrics) execution(kind types.InitiatorKind, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.executions.WithLabelValues(string(kind), status).Inc()
	m.executionDuration.WithLabelValues(string(kind)).Observe(d.Seconds())
}

func (m *Metrics) setPending(n int) {
	if m == nil {
		return
	}
	m.pending.Set(float64(n))
}
