package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Rejections  *prometheus.CounterVec
	StoreErrors prometheus.Counter
}

// New registers the rate limiting metrics with reg, or the default registry
// when reg is nil.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		Rejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "neuroaccess_ratelimit_rejections_total",
			Help: "Total requests rejected by the per-client rate limit",
		}, []string{"class"}),
		StoreErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "neuroaccess_ratelimit_store_errors_total",
			Help: "Total rate limit checks that failed open because the store errored",
		}),
	}
}

func (m *Metrics) IncrementRejections(class string) {
	if m != nil {
		m.Rejections.WithLabelValues(class).Inc()
	}
}

func (m *Metrics) IncrementStoreErrors() {
	if m != nil {
		m.StoreErrors.Inc()
	}
}
