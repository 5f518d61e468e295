package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the relay.
type Metrics struct {
	Reports         *prometheus.CounterVec   // labels: outcome={ok,upstream_unavailable,error}
	AlertsSurfaced  *prometheus.CounterVec   // labels: vocabulary
	AlertsFiltered  *prometheus.CounterVec   // labels: reason={none,below_threshold,not_found,malformed,error}
	UpstreamCalls   *prometheus.CounterVec   // labels: provider, outcome={success,error,not_found,cancelled}
	UpstreamLatency *prometheus.HistogramVec // labels: provider
	DevicePushes    *prometheus.CounterVec   // labels: channel={led,lcd}, outcome={success,error}
}

func newMetrics(withHelp bool) *Metrics {
	help := func(s string) string {
		if withHelp {
			return s
		}
		return ""
	}
	return &Metrics{
		Reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_relay",
			Name:      "reports_total",
			Help:      help("Report requests by outcome."),
		}, []string{"outcome"}),
		AlertsSurfaced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_relay",
			Name:      "alerts_surfaced_total",
			Help:      help("Alerts included in a report, by severity vocabulary."),
		}, []string{"vocabulary"}),
		AlertsFiltered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_relay",
			Name:      "alerts_absent_total",
			Help:      help("Reports without an alert, by reason."),
		}, []string{"reason"}),
		UpstreamCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_relay",
			Name:      "upstream_requests_total",
			Help:      help("Outbound provider requests by provider and outcome."),
		}, []string{"provider", "outcome"}),
		UpstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "weather_relay",
			Name:      "upstream_request_duration_seconds",
			Help:      help("Outbound provider request duration in seconds."),
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"provider"}),
		DevicePushes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_relay",
			Name:      "device_pushes_total",
			Help:      help("Pushes to the Puck by channel and outcome."),
		}, []string{"channel", "outcome"}),
	}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics(true)
	prometheus.MustRegister(
		m.Reports,
		m.AlertsSurfaced,
		m.AlertsFiltered,
		m.UpstreamCalls,
		m.UpstreamLatency,
		m.DevicePushes,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics so tests can build as
// many as they like without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics(false)
}
