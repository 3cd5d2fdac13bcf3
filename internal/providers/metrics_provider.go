package providers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Collins-II/loudear-music-sub000/internal/models"
	"github.com/Collins-II/loudear-music-sub000/internal/structures"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObservePersistenceDuration(duration time.Duration)
	SetCatalogSize(category string, count int)
	IncSnapshotRecomputes(category string)
	IncBroadcastsPublished(event string)
	IncBroadcastsDropped()
	SetRealtimeClients(count int)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	persistenceDuration prometheus.Histogram
	catalogItems        *prometheus.GaugeVec
	snapshotRecomputes  *prometheus.CounterVec
	broadcastsPublished *prometheus.CounterVec
	broadcastsDropped   prometheus.Counter
	realtimeClients     prometheus.Gauge
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) SetCatalogSize(category string, count int) {
	m.catalogItems.WithLabelValues(category).Set(float64(count))
}

func (m *MetricsProvider) IncSnapshotRecomputes(category string) {
	m.snapshotRecomputes.WithLabelValues(category).Inc()
}

func (m *MetricsProvider) IncBroadcastsPublished(event string) {
	m.broadcastsPublished.WithLabelValues(event).Inc()
}

func (m *MetricsProvider) IncBroadcastsDropped() {
	m.broadcastsDropped.Inc()
}

func (m *MetricsProvider) SetRealtimeClients(count int) {
	m.realtimeClients.Set(float64(count))
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config, registry *models.Registry) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "loudear_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "loudear_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "loudear_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "loudear_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "loudear_persistence_duration_seconds",
			Help:    "Duration of persistence operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		catalogItems: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "loudear_catalog_items",
			Help: "Number of media items per category",
		}, []string{"category"}),

		snapshotRecomputes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "loudear_snapshot_recomputes_total",
			Help: "Total number of chart snapshot recomputations",
		}, []string{"category"}),

		broadcastsPublished: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "loudear_broadcasts_published_total",
			Help: "Total number of realtime events published",
		}, []string{"event"}),

		broadcastsDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "loudear_broadcasts_dropped_total",
			Help: "Total number of realtime events dropped on full client buffers",
		}),

		realtimeClients: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "loudear_realtime_clients",
			Help: "Current number of connected realtime subscribers",
		}),
	}

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "loudear_catalog_items_total",
		Help: "Total number of media items across all categories",
	}, func() float64 {
		return float64(registry.TotalItems())
	})

	return m
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) SetCatalogSize(_ string, _ int)                   {}
func (n *noopMetrics) IncSnapshotRecomputes(_ string)                   {}
func (n *noopMetrics) IncBroadcastsPublished(_ string)                  {}
func (n *noopMetrics) IncBroadcastsDropped()                            {}
func (n *noopMetrics) SetRealtimeClients(_ int)                         {}
