package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus metrics for the service
type Metrics struct {
	RequestCounter   *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight *prometheus.GaugeVec
	GroupedRecords   *prometheus.CounterVec
	CatalogFallbacks prometheus.Counter
	MigrationRecords *prometheus.CounterVec
	DBConnPoolStats  *prometheus.GaugeVec
}

// NewMetrics creates a new metrics instance registered on reg
func NewMetrics(serviceName string, reg prometheus.Registerer) *Metrics {
	// metric names only allow [a-zA-Z0-9_:]
	serviceName = strings.ReplaceAll(serviceName, "-", "_")

	m := &Metrics{
		RequestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "theatre",
				Subsystem: serviceName,
				Name:      "requests_total",
				Help:      "Total number of requests",
			},
			[]string{"method", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "theatre",
				Subsystem: serviceName,
				Name:      "request_duration_seconds",
				Help:      "Request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		RequestsInFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "theatre",
				Subsystem: serviceName,
				Name:      "requests_in_flight",
				Help:      "Number of requests currently being processed",
			},
			[]string{"method"},
		),
		GroupedRecords: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "theatre",
				Subsystem: serviceName,
				Name:      "grouped_records_total",
				Help:      "Records placed into month buckets, by bucket kind",
			},
			[]string{"kind"}, // dated, no_date, invalid_date
		),
		CatalogFallbacks: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "theatre",
				Subsystem: serviceName,
				Name:      "catalog_fallbacks_total",
				Help:      "Times a corrupt custom month catalog was replaced by the built-in one",
			},
		),
		MigrationRecords: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "theatre",
				Subsystem: serviceName,
				Name:      "migration_records_total",
				Help:      "Records seen by the Hijri migration",
			},
			[]string{"result"}, // scanned, changed
		),
		DBConnPoolStats: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "theatre",
				Subsystem: serviceName,
				Name:      "db_connection_pool",
				Help:      "Database connection pool statistics",
			},
			[]string{"stat"},
		),
	}

	if reg != nil {
		reg.MustRegister(
			m.RequestCounter,
			m.RequestDuration,
			m.RequestsInFlight,
			m.GroupedRecords,
			m.CatalogFallbacks,
			m.MigrationRecords,
			m.DBConnPoolStats,
		)
	}

	return m
}

// HTTPMiddleware records request count, duration and in-flight requests.
// routeName maps a request to a low-cardinality label.
func HTTPMiddleware(metrics *Metrics, routeName func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			method := r.Method + " " + routeName(r)

			metrics.RequestsInFlight.WithLabelValues(method).Inc()
			defer metrics.RequestsInFlight.WithLabelValues(method).Dec()

			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			metrics.RequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
			metrics.RequestCounter.WithLabelValues(method, strconv.Itoa(rec.status)).Inc()
		})
	}
}

// RecordDBPoolStats records database connection pool statistics
func (m *Metrics) RecordDBPoolStats(open, inUse, idle int, waitCount int64, waitDuration time.Duration) {
	m.DBConnPoolStats.WithLabelValues("open").Set(float64(open))
	m.DBConnPoolStats.WithLabelValues("in_use").Set(float64(inUse))
	m.DBConnPoolStats.WithLabelValues("idle").Set(float64(idle))
	m.DBConnPoolStats.WithLabelValues("wait_count").Set(float64(waitCount))
	m.DBConnPoolStats.WithLabelValues("wait_duration_ms").Set(float64(waitDuration.Milliseconds()))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
