package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	domains = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "gurtdns",
			Name:      "domains",
			Help:      "Number of registered domains by status",
		},
		[]string{"status"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gurtdns",
			Name:      "http_requests_total",
			Help:      "Total number of admin API requests",
		},
		[]string{"method", "code"},
	)

	prunedDomains = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "gurtdns",
			Name:      "pruned_domains_total",
			Help:      "Total number of stale pending domains removed by maintenance",
		},
	)

	maintenanceRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gurtdns",
			Name:      "maintenance_runs_total",
			Help:      "Total number of maintenance runs by result",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(
		domains,
		httpRequests,
		prunedDomains,
		maintenanceRuns,
	)
}

// handlePrometheusMetrics exposes Prometheus metrics.
func (s *Server) handlePrometheusMetrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// UpdateDomainMetrics sets the per-status domain gauges.
// Exported so it can be called from the scheduler.
func UpdateDomainMetrics(counts map[string]int) {
	for status, n := range counts {
		domains.WithLabelValues(status).Set(float64(n))
	}
}

// RecordMaintenance accounts for one maintenance run.
// Exported so it can be called from the scheduler.
func RecordMaintenance(pruned int64, err error) {
	if err != nil {
		maintenanceRuns.WithLabelValues("error").Inc()
		return
	}
	maintenanceRuns.WithLabelValues("ok").Inc()
	prunedDomains.Add(float64(pruned))
}
