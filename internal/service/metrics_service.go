package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/placement-portal-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry         *prometheus.Registry
	handler          http.Handler
	requestDuration  *prometheus.HistogramVec
	requestTotal     *prometheus.CounterVec
	cacheLatency     prometheus.Observer
	cacheWrite       prometheus.Observer
	cacheHitRatio    prometheus.Gauge
	cacheHits        prometheus.Counter
	cacheMisses      prometheus.Counter
	lookupSearches   *prometheus.CounterVec
	entitiesCreated  *prometheus.CounterVec
	directoryQueries *prometheus.CounterVec
	snapshotBuild    prometheus.Observer
	snapshotSize     prometheus.Gauge
	exportJobs       *prometheus.CounterVec

	cacheHitCount        uint64
	cacheMissCount       uint64
	requestCount         uint64
	requestDurationTotal uint64
	lookupCount          uint64
	createCount          uint64
	directoryCount       uint64
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

	lookupSearches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lookup_searches_total",
		Help: "Skill and course searches served",
	}, []string{"entity"})

	entitiesCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lookup_entities_created_total",
		Help: "Skill and course create attempts by outcome",
	}, []string{"entity", "outcome"})

	directoryQueries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "directory_queries_total",
		Help: "Directory queries by snapshot source",
	}, []string{"source"})

	snapshotBuild := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "directory_snapshot_build_seconds",
		Help:    "Time spent loading and resolving the directory snapshot",
		Buckets: prometheus.DefBuckets,
	})

	snapshotSize := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "directory_snapshot_profiles",
		Help: "Profiles in the most recently built snapshot",
	})

	exportJobs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "export_jobs_total",
		Help: "Shortlist export jobs by terminal status",
	}, []string{"status"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheHitRatio, cacheHits, cacheMisses,
		lookupSearches, entitiesCreated, directoryQueries, snapshotBuild, snapshotSize, exportJobs, goroutines)

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
		lookupSearches:   lookupSearches,
		entitiesCreated:  entitiesCreated,
		directoryQueries: directoryQueries,
		snapshotBuild:    snapshotBuild,
		snapshotSize:     snapshotSize,
		exportJobs:       exportJobs,
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

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
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

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil || m.cacheWrite == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// RecordLookupSearch counts a served search for entity ("skill" or "course").
func (m *MetricsService) RecordLookupSearch(entity string) {
	if m == nil {
		return
	}
	m.lookupSearches.WithLabelValues(entity).Inc()
	atomic.AddUint64(&m.lookupCount, 1)
}

// RecordEntityCreate counts a create attempt. Only successful creates feed the snapshot counter.
func (m *MetricsService) RecordEntityCreate(entity string, err error) {
	if m == nil {
		return
	}
	outcome := "created"
	if err != nil {
		outcome = "rejected"
	}
	m.entitiesCreated.WithLabelValues(entity, outcome).Inc()
	if err == nil {
		atomic.AddUint64(&m.createCount, 1)
	}
}

// RecordDirectoryQuery counts a directory query served from cache or a fresh build.
func (m *MetricsService) RecordDirectoryQuery(cacheHit bool) {
	if m == nil {
		return
	}
	source := "db"
	if cacheHit {
		source = "cache"
	}
	m.directoryQueries.WithLabelValues(source).Inc()
	atomic.AddUint64(&m.directoryCount, 1)
}

// ObserveSnapshotBuild records how long a snapshot build took and how many profiles it holds.
func (m *MetricsService) ObserveSnapshotBuild(duration time.Duration, profiles int) {
	if m == nil {
		return
	}
	m.snapshotBuild.Observe(duration.Seconds())
	m.snapshotSize.Set(float64(profiles))
}

// RecordExportJob counts an export job reaching a terminal status.
func (m *MetricsService) RecordExportJob(status models.ExportStatus) {
	if m == nil {
		return
	}
	m.exportJobs.WithLabelValues(string(status)).Inc()
}

// Snapshot returns aggregated metrics suitable for the admin metrics endpoint.
func (m *MetricsService) Snapshot() models.SystemMetrics {
	if m == nil {
		return models.SystemMetrics{}
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)

	var cacheRatio float64
	totalLookups := hits + misses
	if totalLookups > 0 {
		cacheRatio = float64(hits) / float64(totalLookups)
	}

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	return models.SystemMetrics{
		CacheHitRatio:            cacheRatio,
		CacheHits:                hits,
		CacheMisses:              misses,
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		LookupSearches:           atomic.LoadUint64(&m.lookupCount),
		EntitiesCreated:          atomic.LoadUint64(&m.createCount),
		DirectoryQueries:         atomic.LoadUint64(&m.directoryCount),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
