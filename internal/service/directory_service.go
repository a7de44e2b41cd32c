package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/placement-portal-api/internal/directory"
	"github.com/noah-isme/placement-portal-api/internal/models"
	appErrors "github.com/noah-isme/placement-portal-api/pkg/errors"
)

// DirectoryCacheNamespace prefixes every cache key owned by the directory.
const DirectoryCacheNamespace = "directory"

const directorySnapshotKey = "snapshot"

type profileLister interface {
	ListAll(ctx context.Context) ([]models.StudentProfile, error)
}

type skillBatchFinder interface {
	FindByIDs(ctx context.Context, ids []string) ([]models.Skill, error)
}

type courseBatchFinder interface {
	FindByIDs(ctx context.Context, ids []string) ([]models.Course, error)
}

// DirectoryConfig tunes snapshot caching.
type DirectoryConfig struct {
	CacheTTL time.Duration
}

// DirectoryService builds the resolved student snapshot and answers filter queries against it.
type DirectoryService struct {
	profiles profileLister
	skills   skillBatchFinder
	courses  courseBatchFinder
	cache    *CacheService
	metrics  *MetricsService
	logger   *zap.Logger
	cfg      DirectoryConfig
	now      func() time.Time

	buildMu sync.Mutex

	// genMu orders cache writes against Invalidate; generation counts invalidations.
	genMu      sync.Mutex
	generation uint64
}

// NewDirectoryService constructs a DirectoryService.
func NewDirectoryService(profiles profileLister, skills skillBatchFinder, courses courseBatchFinder, cache *CacheService, metrics *MetricsService, logger *zap.Logger, cfg DirectoryConfig) *DirectoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	return &DirectoryService{
		profiles: profiles,
		skills:   skills,
		courses:  courses,
		cache:    cache,
		metrics:  metrics,
		logger:   logger,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Snapshot returns the current snapshot and whether it came from the cache.
func (s *DirectoryService) Snapshot(ctx context.Context) (*directory.Snapshot, bool, error) {
	if snap, ok := s.cached(ctx); ok {
		return snap, true, nil
	}

	s.buildMu.Lock()
	defer s.buildMu.Unlock()
	// another request may have rebuilt while we waited
	if snap, ok := s.cached(ctx); ok {
		return snap, true, nil
	}
	snap, err := s.build(ctx)
	if err != nil {
		return nil, false, err
	}
	return snap, false, nil
}

// Query applies criteria to the snapshot.
func (s *DirectoryService) Query(ctx context.Context, criteria models.FilterCriteria) (directory.View, bool, error) {
	snap, hit, err := s.Snapshot(ctx)
	if err != nil {
		return directory.Compute(nil, criteria), false, err
	}
	s.metrics.RecordDirectoryQuery(hit)
	return directory.Compute(snap, criteria), hit, nil
}

// All returns every resolved profile.
func (s *DirectoryService) All(ctx context.Context) ([]models.StudentProfile, error) {
	snap, _, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Students, nil
}

// Fields returns the distinct preferred fields across the directory.
func (s *DirectoryService) Fields(ctx context.Context) ([]string, error) {
	snap, _, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return directory.PreferredFields(snap.Students), nil
}

// Invalidate drops everything cached for the directory so the next read rebuilds it. A build
// that loaded profiles before the call will not write its snapshot back to the cache.
func (s *DirectoryService) Invalidate(ctx context.Context) error {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	s.generation++
	return s.cache.Purge(ctx)
}

// Rebuild replaces the cached snapshot with a fresh one.
func (s *DirectoryService) Rebuild(ctx context.Context) error {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()
	_, err := s.build(ctx)
	return err
}

func (s *DirectoryService) cached(ctx context.Context) (*directory.Snapshot, bool) {
	var snap directory.Snapshot
	hit, err := s.cache.Get(ctx, directorySnapshotKey, &snap)
	if err != nil || !hit {
		return nil, false
	}
	return &snap, true
}

func (s *DirectoryService) build(ctx context.Context) (*directory.Snapshot, error) {
	start := time.Now()
	s.genMu.Lock()
	gen := s.generation
	s.genMu.Unlock()

	profiles, err := s.profiles.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student profiles")
	}
	resolved, err := resolveReferences(ctx, s.skills, s.courses, profiles)
	if err != nil {
		return nil, err
	}
	snap := directory.NewSnapshot(resolved, s.now().UTC())
	s.metrics.ObserveSnapshotBuild(time.Since(start), snap.Len())

	s.store(ctx, snap, gen)
	s.logger.Debug("directory snapshot built", zap.Int("profiles", snap.Len()), zap.Duration("took", time.Since(start)))
	return snap, nil
}

func (s *DirectoryService) store(ctx context.Context, snap *directory.Snapshot, gen uint64) {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	if s.generation != gen {
		s.logger.Debug("directory snapshot superseded by invalidation, not cached")
		return
	}
	if err := s.cache.Set(ctx, directorySnapshotKey, snap, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("directory snapshot not cached", zap.Error(err))
	}
}
