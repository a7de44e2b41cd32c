package models

import "time"

// SystemMetrics summarises instrumentation counters for the admin metrics view.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	LookupSearches           uint64    `json:"lookup_searches"`
	EntitiesCreated          uint64    `json:"entities_created"`
	DirectoryQueries         uint64    `json:"directory_queries"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
