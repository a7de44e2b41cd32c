package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/placement-portal-api/pkg/errors"
)

// CacheRepository abstracts persistence for cached payloads.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CacheOptions scopes a CacheService. Keys passed to the service are stored as
// "<Namespace>:<key>".
type CacheOptions struct {
	Namespace  string
	DefaultTTL time.Duration
	Enabled    bool
}

// CacheService is a namespaced read-through cache in front of a CacheRepository. Backend
// failures are logged and counted; callers treat them as misses.
type CacheService struct {
	repo    CacheRepository
	metrics *MetricsService
	logger  *zap.Logger
	opts    CacheOptions
}

// NewCacheService constructs a cache service. A nil repo behaves as a disabled cache.
func NewCacheService(repo CacheRepository, metrics *MetricsService, opts CacheOptions, logger *zap.Logger) *CacheService {
	if opts.DefaultTTL <= 0 {
		opts.DefaultTTL = 10 * time.Minute
	}
	opts.Namespace = strings.Trim(opts.Namespace, ":")
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{repo: repo, metrics: metrics, logger: logger.With(zap.String("cache", opts.Namespace)), opts: opts}
}

// Enabled indicates whether caching is active.
func (s *CacheService) Enabled() bool {
	return s != nil && s.opts.Enabled && s.repo != nil
}

func (s *CacheService) key(name string) string {
	if s.opts.Namespace == "" {
		return name
	}
	return s.opts.Namespace + ":" + name
}

// Get decodes the entry for name into dest and reports whether it was present.
func (s *CacheService) Get(ctx context.Context, name string, dest interface{}) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}
	start := time.Now()
	err := s.repo.Get(ctx, s.key(name), dest)
	s.metrics.RecordCacheOperation(err == nil, time.Since(start))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, appErrors.ErrCacheMiss):
		return false, nil
	default:
		s.logger.Warn("cache get failed", zap.String("key", name), zap.Error(err))
		return false, err
	}
}

// Set stores value under name. A non-positive ttl uses the default.
func (s *CacheService) Set(ctx context.Context, name string, value interface{}, ttl time.Duration) error {
	if !s.Enabled() {
		return nil
	}
	if ttl <= 0 {
		ttl = s.opts.DefaultTTL
	}
	start := time.Now()
	err := s.repo.Set(ctx, s.key(name), value, ttl)
	s.metrics.ObserveCacheWrite(time.Since(start))
	if err != nil {
		s.logger.Warn("cache set failed", zap.String("key", name), zap.Error(err))
	}
	return err
}

// Delete removes the named entries.
func (s *CacheService) Delete(ctx context.Context, names ...string) error {
	if !s.Enabled() || len(names) == 0 {
		return nil
	}
	keys := make([]string, len(names))
	for i, n := range names {
		keys[i] = s.key(n)
	}
	if err := s.repo.Delete(ctx, keys...); err != nil {
		s.logger.Warn("cache delete failed", zap.Strings("keys", names), zap.Error(err))
		return err
	}
	return nil
}

// Purge drops every entry in the namespace.
func (s *CacheService) Purge(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}
	if s.opts.Namespace == "" {
		return errors.New("cache: refusing to purge without a namespace")
	}
	if err := s.repo.DeleteByPattern(ctx, s.opts.Namespace+":*"); err != nil {
		s.logger.Warn("cache purge failed", zap.Error(err))
		return err
	}
	return nil
}
