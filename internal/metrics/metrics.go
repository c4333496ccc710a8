// Package metrics provides Prometheus metrics collection for the flood
// monitoring service. It defines counters, gauges and histograms covering
// backend fetches, retries, mock fallbacks, refresh scheduling and the
// currently displayed flood state, exposed via the metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the flood monitoring service.
type Metrics struct {
	// Fetch metrics
	FetchesTotal  *prometheus.CounterVec // Successful fetches by endpoint
	FetchFailures *prometheus.CounterVec // Terminal fetch failures by endpoint
	FetchRetries  prometheus.Counter     // Individual retry attempts
	MockFallbacks prometheus.Counter     // Fixture substitutions after retry exhaustion
	FetchDuration prometheus.Histogram   // Duration of backend fetches

	// Refresh metrics
	RefreshTicks *prometheus.CounterVec // Refresh-group ticks by group

	// Displayed state
	RiskLevel        prometheus.Gauge // Current risk level (0 low, 1 medium, 2 high)
	RiverLevelMeters prometheus.Gauge // Current river level in the station's unit

	// System metrics
	WSClients   prometheus.Gauge   // Connected dashboard WebSocket clients
	ErrorsTotal prometheus.Counter // Total number of errors encountered
}

// New creates and registers all Prometheus metrics using the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates metrics with a custom registry (useful for testing).
func NewWithRegistry(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		FetchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "flood_fetches_total",
			Help: "Total number of successful backend fetches",
		}, []string{"endpoint"}),
		FetchFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "flood_fetch_failures_total",
			Help: "Total number of fetches that exhausted their retry budget",
		}, []string{"endpoint"}),
		FetchRetries: factory.NewCounter(prometheus.CounterOpts{
			Name: "flood_fetch_retries_total",
			Help: "Total number of fetch retry attempts",
		}),
		MockFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Name: "flood_mock_fallbacks_total",
			Help: "Total number of fixture substitutions after retry exhaustion",
		}),
		FetchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "flood_fetch_duration_seconds",
			Help:    "Duration of backend fetches in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		RefreshTicks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "flood_refresh_ticks_total",
			Help: "Total number of refresh-group ticks",
		}, []string{"group"}),
		RiskLevel: factory.NewGauge(prometheus.GaugeOpts{
			Name: "flood_risk_level",
			Help: "Current flood risk level (0 low, 1 medium, 2 high)",
		}),
		RiverLevelMeters: factory.NewGauge(prometheus.GaugeOpts{
			Name: "flood_river_level",
			Help: "Current river level in the station's reporting unit",
		}),
		WSClients: factory.NewGauge(prometheus.GaugeOpts{
			Name: "flood_dashboard_ws_clients",
			Help: "Connected dashboard WebSocket clients",
		}),
		ErrorsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "flood_errors_total",
			Help: "Total number of errors encountered",
		}),
	}
}

// SetRiskLevel maps a normalized risk level string onto the risk gauge.
func (m *Metrics) SetRiskLevel(level string) {
	switch level {
	case "high":
		m.RiskLevel.Set(2)
	case "medium":
		m.RiskLevel.Set(1)
	default:
		m.RiskLevel.Set(0)
	}
}
