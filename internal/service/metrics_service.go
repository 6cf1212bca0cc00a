package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API and
// the schedule search engine.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheHitRatio   prometheus.Gauge
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter

	searchTotal      prometheus.Counter
	searchDuration   prometheus.Histogram
	schedulesFound   prometheus.Histogram
	searchCapped     prometheus.Counter
	largeSearchSpace prometheus.Counter

	cacheHitCount  uint64
	cacheMissCount uint64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	searchTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "generator_searches_total",
		Help: "Total schedule generation searches",
	})

	searchDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "generator_search_duration_seconds",
		Help:    "Duration of schedule searches",
		Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10},
	})

	schedulesFound := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "generator_schedules_found",
		Help:    "Valid schedules found per search",
		Buckets: []float64{0, 1, 5, 10, 50, 100, 500, 1000, 2000},
	})

	searchCapped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "generator_searches_capped_total",
		Help: "Searches stopped early by the result cap",
	})

	largeSearchSpace := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "generator_large_search_space_total",
		Help: "Searches whose combination count exceeded the warn threshold",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite,
		cacheHitRatio, cacheHits, cacheMisses,
		searchTotal, searchDuration, schedulesFound, searchCapped, largeSearchSpace,
		goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:         registry,
		handler:          handler,
		requestDuration:  requestDuration,
		requestTotal:     requestTotal,
		cacheLatency:     cacheLatency,
		cacheWrite:       cacheWrite,
		cacheHitRatio:    cacheHitRatio,
		cacheHits:        cacheHits,
		cacheMisses:      cacheMisses,
		searchTotal:      searchTotal,
		searchDuration:   searchDuration,
		schedulesFound:   schedulesFound,
		searchCapped:     searchCapped,
		largeSearchSpace: largeSearchSpace,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records cache hit/miss metrics and updates hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	if m.cacheLatency != nil {
		m.cacheLatency.Observe(duration.Seconds())
	}
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	total := hits + misses
	if total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite tracks the duration for cache set operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil || m.cacheWrite == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveSearch records one schedule generation search.
func (m *MetricsService) ObserveSearch(duration time.Duration, found int, limitReached bool) {
	if m == nil {
		return
	}
	m.searchTotal.Inc()
	m.searchDuration.Observe(duration.Seconds())
	m.schedulesFound.Observe(float64(found))
	if limitReached {
		m.searchCapped.Inc()
	}
}

// RecordLargeSearchSpace counts searches whose raw combination count crossed
// the configured warn threshold.
func (m *MetricsService) RecordLargeSearchSpace() {
	if m == nil {
		return
	}
	m.largeSearchSpace.Inc()
}
