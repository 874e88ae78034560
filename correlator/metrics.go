package correlator

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "vuln_correlator"

type metrics struct {
	results  *prometheus.CounterVec
	duration prometheus.Histogram
	timeouts prometheus.Counter
}

// newMetrics builds the runner collectors and registers them on reg when it is set.
// Collectors already registered by an earlier runner are reused.
func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "results_total",
			Help:      "Match results produced, by match type.",
		}, []string{"match_type"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "advisory_duration_seconds",
			Help:      "Time spent correlating one advisory with the component list.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		timeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "advisory_timeouts_total",
			Help:      "Advisories abandoned because their deadline passed.",
		}),
	}
	if reg == nil {
		return m
	}
	m.results = register(reg, m.results).(*prometheus.CounterVec)
	m.duration = register(reg, m.duration).(prometheus.Histogram)
	m.timeouts = register(reg, m.timeouts).(prometheus.Counter)
	return m
}

func register(reg prometheus.Registerer, c prometheus.Collector) prometheus.Collector {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector
		}
		panic(err)
	}
	return c
}

func (m *metrics) observe(results []Result) {
	for _, r := range results {
		m.results.WithLabelValues(string(r.MatchType)).Inc()
	}
}
