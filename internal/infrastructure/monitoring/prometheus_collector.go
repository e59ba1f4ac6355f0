package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusCollector struct {
	meetingsCreatedTotal prometheus.Counter
	joinAttemptsTotal    *prometheus.CounterVec
	tokensIssuedTotal    prometheus.Counter
	tokenIssueDuration   prometheus.Histogram
	registeredPasscodes  prometheus.Gauge
}

func NewPrometheusCollector() *PrometheusCollector {
	return &PrometheusCollector{
		meetingsCreatedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "meetlite_meetings_created_total",
			Help: "Total number of meetings created",
		}),

		joinAttemptsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "meetlite_join_attempts_total",
			Help: "Total number of join-room attempts by result",
		}, []string{"result"}),

		tokensIssuedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "meetlite_tokens_issued_total",
			Help: "Total number of access tokens issued",
		}),

		tokenIssueDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "meetlite_token_issue_duration_seconds",
			Help:    "Duration of access token signing",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),

		registeredPasscodes: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "meetlite_registered_passcodes",
			Help: "Number of passcodes currently held in the registry",
		}),
	}
}

func (pc *PrometheusCollector) MeetingCreated() {
	pc.meetingsCreatedTotal.Inc()
	pc.registeredPasscodes.Inc()
}

func (pc *PrometheusCollector) JoinAttempt(result string) {
	pc.joinAttemptsTotal.WithLabelValues(result).Inc()
}

func (pc *PrometheusCollector) TokenIssued(duration time.Duration) {
	pc.tokensIssuedTotal.Inc()
	pc.tokenIssueDuration.Observe(duration.Seconds())
}
