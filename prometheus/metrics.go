package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every collector of the service. A nil *Metrics records nothing.
type Metrics struct {
	// HTTP request metrics
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec

	// Authentication metrics
	AuthAttemptsCounter *prometheus.CounterVec
	AuthErrorsCounter   *prometheus.CounterVec

	// Database operation metrics
	DbOperationDuration *prometheus.HistogramVec

	// Domain operation metrics
	ProductOperationsCounter  *prometheus.CounterVec
	CartOperationsCounter     *prometheus.CounterVec
	WishlistOperationsCounter *prometheus.CounterVec

	// List cache metrics
	CacheHitsCounter   prometheus.Counter
	CacheMissesCounter prometheus.Counter
}

// NewMetrics registers every collector on reg with the given name prefix
func NewMetrics(reg prometheus.Registerer, prefix string) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HttpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HttpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		AuthAttemptsCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_auth_attempts_total",
				Help: "Total number of authentication attempts",
			},
			[]string{"type"},
		),
		AuthErrorsCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_auth_errors_total",
				Help: "Total number of authentication errors",
			},
			[]string{"type"},
		),
		DbOperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_db_operation_duration_seconds",
				Help:    "Duration of database operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation_type"},
		),
		ProductOperationsCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_product_operations_total",
				Help: "Total number of product operations",
			},
			[]string{"operation"},
		),
		CartOperationsCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_cart_operations_total",
				Help: "Total number of cart operations",
			},
			[]string{"operation"},
		),
		WishlistOperationsCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_wishlist_operations_total",
				Help: "Total number of wishlist operations",
			},
			[]string{"operation"},
		),
		CacheHitsCounter: factory.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_list_cache_hits_total",
				Help: "Total number of product list cache hits",
			},
		),
		CacheMissesCounter: factory.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_list_cache_misses_total",
				Help: "Total number of product list cache misses",
			},
		),
	}
}

// ObserveHTTPRequest records one served request
func (m *Metrics) ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.HttpRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HttpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordAuthAttempt counts an authentication attempt of the given type
// (login, registration, refresh, google) and its failure when err is set
func (m *Metrics) RecordAuthAttempt(kind string, err error) {
	if m == nil {
		return
	}
	m.AuthAttemptsCounter.WithLabelValues(kind).Inc()
	if err != nil {
		m.AuthErrorsCounter.WithLabelValues(kind).Inc()
	}
}

// TrackDBOperation returns a function that records the duration of a database operation
func (m *Metrics) TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		if m == nil {
			return
		}
		m.DbOperationDuration.WithLabelValues(operationType).Observe(time.Since(startTime).Seconds())
	}
}

// RecordProductOperation increments the counter for product operations
func (m *Metrics) RecordProductOperation(operation string) {
	if m == nil {
		return
	}
	m.ProductOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordCartOperation increments the counter for cart operations
func (m *Metrics) RecordCartOperation(operation string) {
	if m == nil {
		return
	}
	m.CartOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordWishlistOperation increments the counter for wishlist operations
func (m *Metrics) RecordWishlistOperation(operation string) {
	if m == nil {
		return
	}
	m.WishlistOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordCacheLookup counts a list cache hit or miss
func (m *Metrics) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHitsCounter.Inc()
	} else {
		m.CacheMissesCounter.Inc()
	}
}
