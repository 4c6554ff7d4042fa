package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the onboarding authenticator.
type Metrics struct {
	// Grades handed out to the dispatcher
	Grades *prometheus.CounterVec

	// Validation verdicts by outcome and first error code
	Outcomes *prometheus.CounterVec

	// Onboarding server call latency by result
	RemoteLatency *prometheus.HistogramVec

	// Full pipeline latency
	ValidateLatency prometheus.Histogram

	// HTTP request latency by route and status
	HTTPLatency *prometheus.HistogramVec
}

// New creates and registers the onboarding metrics with the given registerer.
// A nil registerer uses the default Prometheus registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		Grades: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "neuroaccess_grades_total",
			Help: "Total grades returned by Supports",
		}, []string{"grade"}),

		Outcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "neuroaccess_validations_total",
			Help: "Total validation verdicts by outcome and reason code",
		}, []string{"outcome", "code"}),

		RemoteLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "neuroaccess_onboarding_call_duration_seconds",
			Help:    "Duration of onboarding server verification calls",
			Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"result"}), // result: "true", "false", or an error category

		ValidateLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "neuroaccess_validate_duration_seconds",
			Help:    "Duration of the full validation pipeline",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),

		HTTPLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "neuroaccess_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

// IncrementGrade records a grade.
func (m *Metrics) IncrementGrade(grade string) {
	if m != nil {
		m.Grades.WithLabelValues(grade).Inc()
	}
}

// IncrementOutcome records a verdict. code is empty for clean accepts.
func (m *Metrics) IncrementOutcome(outcome, code string) {
	if m != nil {
		m.Outcomes.WithLabelValues(outcome, code).Inc()
	}
}

// ObserveRemoteLatency records one onboarding call.
func (m *Metrics) ObserveRemoteLatency(result string, d time.Duration) {
	if m != nil {
		m.RemoteLatency.WithLabelValues(result).Observe(d.Seconds())
	}
}

// ObserveValidateLatency records the full pipeline duration.
func (m *Metrics) ObserveValidateLatency(d time.Duration) {
	if m != nil {
		m.ValidateLatency.Observe(d.Seconds())
	}
}

// ObserveHTTPRequest records one HTTP request.
func (m *Metrics) ObserveHTTPRequest(route, status string, d time.Duration) {
	if m != nil {
		m.HTTPLatency.WithLabelValues(route, status).Observe(d.Seconds())
	}
}
