package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "avalia_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
		},
		[]string{"method", "route", "status"},
	)

	GRPCRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "avalia_grpc_request_duration_seconds",
			Help:    "gRPC unary call duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
		},
		[]string{"method", "code"},
	)

	DashboardLoadDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "avalia_dashboard_load_duration_seconds",
			Help:    "Dashboard session load duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"tab", "outcome"},
	)

	LoadsSuperseded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "avalia_dashboard_loads_superseded_total",
			Help: "Dashboard loads discarded because a newer load was started",
		},
	)

	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "avalia_dashboard_sessions_active",
			Help: "Dashboard sessions currently tracked",
		},
	)

	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "avalia_cache_hits_total",
			Help: "Total cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "avalia_cache_misses_total",
			Help: "Total cache misses",
		},
		[]string{"cache_type"},
	)

	ReportBuilds = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "avalia_report_builds_total",
			Help: "Total reports built",
		},
		[]string{"status"},
	)

	ChartsSkipped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "avalia_report_charts_skipped_total",
			Help: "Report charts omitted after a render failure or timeout",
		},
		[]string{"chart"},
	)
)

var once sync.Once

// Init registers every collector with the default registry. Later calls are no-ops.
func Init() {
	once.Do(func() {
		prometheus.MustRegister(HTTPRequestDuration)
		prometheus.MustRegister(GRPCRequestDuration)
		prometheus.MustRegister(DashboardLoadDuration)
		prometheus.MustRegister(LoadsSuperseded)
		prometheus.MustRegister(ActiveSessions)
		prometheus.MustRegister(CacheHits)
		prometheus.MustRegister(CacheMisses)
		prometheus.MustRegister(ReportBuilds)
		prometheus.MustRegister(ChartsSkipped)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}
