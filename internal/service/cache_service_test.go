package service

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/placement-portal-api/internal/models"
)

func newDirectoryCache(mem *memCache, metrics *MetricsService, enabled bool) *CacheService {
	return NewCacheService(mem, metrics, CacheOptions{Namespace: DirectoryCacheNamespace, DefaultTTL: time.Minute, Enabled: enabled}, zap.NewNop())
}

func TestCacheServiceRoundTripRecordsMetrics(t *testing.T) {
	metrics := NewMetricsService()
	mem := newMemCache()
	svc := newDirectoryCache(mem, metrics, true)
	ctx := context.Background()

	var out []string
	hit, err := svc.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, svc.Set(ctx, "k", []string{"a"}, 0))
	assert.Contains(t, mem.entries, "directory:k")
	hit, err = svc.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []string{"a"}, out)

	require.NoError(t, svc.Delete(ctx, "k"))
	hit, _ = svc.Get(ctx, "k", &out)
	assert.False(t, hit)

	snap := metrics.Snapshot()
	assert.Equal(t, uint64(1), snap.CacheHits)
	assert.Equal(t, uint64(2), snap.CacheMisses)
	assert.InDelta(t, 1.0/3.0, snap.CacheHitRatio, 0.0001)
}

func TestCacheServiceDisabledIsNoop(t *testing.T) {
	mem := newMemCache()
	svc := newDirectoryCache(mem, nil, false)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "k", 1, 0))
	assert.Zero(t, mem.sets)
	hit, err := svc.Get(ctx, "k", new(int))
	require.NoError(t, err)
	assert.False(t, hit)
	require.NoError(t, svc.Purge(ctx))

	var nilSvc *CacheService
	assert.False(t, nilSvc.Enabled())
	assert.False(t, NewCacheService(nil, nil, CacheOptions{Enabled: true}, nil).Enabled())
}

func TestCacheServiceBackendError(t *testing.T) {
	mem := newMemCache()
	mem.getErr = errors.New("redis down")
	svc := newDirectoryCache(mem, nil, true)

	hit, err := svc.Get(context.Background(), "k", new(int))
	assert.Error(t, err)
	assert.False(t, hit)
}

func TestCacheServicePurgeKeepsOtherNamespaces(t *testing.T) {
	mem := newMemCache()
	directoryCache := newDirectoryCache(mem, nil, true)
	other := NewCacheService(mem, nil, CacheOptions{Namespace: "lookups:", Enabled: true}, nil)
	ctx := context.Background()
	require.NoError(t, directoryCache.Set(ctx, "snapshot", 1, 0))
	require.NoError(t, other.Set(ctx, "skills", 1, 0))

	require.NoError(t, directoryCache.Purge(ctx))
	assert.NotContains(t, mem.entries, "directory:snapshot")
	assert.Contains(t, mem.entries, "lookups:skills")
}

func TestCacheServicePurgeNeedsNamespace(t *testing.T) {
	svc := NewCacheService(newMemCache(), nil, CacheOptions{Enabled: true}, nil)
	assert.Error(t, svc.Purge(context.Background()))
}

func TestMetricsServiceCounters(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest("GET", "/students", 200, 20*time.Millisecond)
	m.ObserveHTTPRequest("GET", "/students", 200, 40*time.Millisecond)
	m.RecordLookupSearch("skill")
	m.RecordEntityCreate("skill", nil)
	m.RecordEntityCreate("skill", errors.New("conflict"))
	m.RecordDirectoryQuery(true)
	m.RecordExportJob(models.ExportStatusFinished)
	m.ObserveSnapshotBuild(time.Millisecond, 12)

	snap := m.Snapshot()
	assert.Equal(t, uint64(2), snap.RequestsTotal)
	assert.InDelta(t, 30.0, snap.AverageRequestDurationMs, 0.001)
	assert.Equal(t, uint64(1), snap.LookupSearches)
	assert.Equal(t, uint64(1), snap.EntitiesCreated)
	assert.Equal(t, uint64(1), snap.DirectoryQueries)
	assert.Greater(t, snap.Goroutines, 0)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `lookup_entities_created_total{entity="skill",outcome="rejected"} 1`)
	assert.Contains(t, string(body), "directory_snapshot_profiles 12")

	var nilMetrics *MetricsService
	nilMetrics.RecordLookupSearch("skill")
	assert.Equal(t, models.SystemMetrics{}, nilMetrics.Snapshot())
}
