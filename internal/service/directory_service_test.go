package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/placement-portal-api/internal/models"
	appErrors "github.com/noah-isme/placement-portal-api/pkg/errors"
)

func directoryFixture() []models.StudentProfile {
	field := "Backend"
	return []models.StudentProfile{
		{
			ID:     "p1",
			UserID: "u1",
			Owner:  models.Owner{ID: "u1", FirstName: "Asha", LastName: "Rao", University: "IIT"},
			Skills: models.SkillRefs{
				models.RefID[models.Skill]("s-go"),
				models.RefID[models.Skill]("s-gone"),
			},
			PreferredField: &field,
			LookingFor:     &models.LookingFor{Type: models.OpportunityJob, FromDate: day("2024-01-01")},
			Education: models.EducationList{
				{Institute: "IIT", Course: models.RefID[models.Course]("c-btech")},
				{Institute: "Other", Course: models.RefID[models.Course]("c-missing")},
			},
		},
		{
			ID:     "p2",
			UserID: "u2",
			Owner:  models.Owner{ID: "u2", FirstName: "Ben", LastName: "Ode", University: "NIT"},
			Skills: models.SkillRefs{models.RefID[models.Skill]("s-react")},
		},
	}
}

func newDirectoryServiceForTest(t *testing.T, cacheEnabled bool) (*DirectoryService, *profileListStub, *skillRepoStub, *memCache) {
	t.Helper()
	profiles := &profileListStub{profiles: directoryFixture()}
	skills := newSkillRepoStub(
		models.Skill{ID: "s-go", Name: "go", DisplayName: "Go"},
		models.Skill{ID: "s-react", Name: "react", DisplayName: "React"},
	)
	courses := newCourseRepoStub(models.Course{ID: "c-btech", Name: "B.Tech", Category: models.CourseCategoryUG})
	mem := newMemCache()
	metrics := NewMetricsService()
	cache := NewCacheService(mem, metrics, CacheOptions{Namespace: DirectoryCacheNamespace, DefaultTTL: time.Minute, Enabled: cacheEnabled}, zap.NewNop())
	svc := NewDirectoryService(profiles, skills, courses, cache, metrics, zap.NewNop(), DirectoryConfig{CacheTTL: time.Minute})
	return svc, profiles, skills, mem
}

func TestDirectorySnapshotResolvesReferences(t *testing.T) {
	svc, _, skills, _ := newDirectoryServiceForTest(t, true)

	snap, hit, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	require.Equal(t, 2, snap.Len())

	first := snap.Students[0]
	require.Len(t, first.Skills, 1, "unknown skill ids are dropped")
	assert.True(t, first.Skills[0].IsResolved())
	assert.Equal(t, "Go", first.Skills[0].Label())

	require.Len(t, first.Education, 2)
	assert.Equal(t, "B.Tech", first.Education[0].Course.Label())
	assert.Equal(t, "", first.Education[1].Course.ID())

	assert.Equal(t, 1, skills.batches, "skills resolve in one batch")
}

func TestDirectorySnapshotIsCached(t *testing.T) {
	svc, profiles, _, mem := newDirectoryServiceForTest(t, true)
	ctx := context.Background()

	_, hit, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.False(t, hit)

	snap, hit, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, profiles.calls)
	assert.Equal(t, 1, mem.sets)

	// resolved refs survive the cache round trip
	assert.Equal(t, []string{"Go"}, snap.Students[0].Skills.Labels())
	assert.Equal(t, "B.Tech", snap.Students[0].Education[0].Course.Label())
}

func TestDirectoryInvalidateForcesRebuild(t *testing.T) {
	svc, profiles, _, _ := newDirectoryServiceForTest(t, true)
	ctx := context.Background()

	_, _, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	require.NoError(t, svc.Invalidate(ctx))

	_, hit, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, profiles.calls)
}

func TestDirectoryInvalidateDuringBuildIsNotUndone(t *testing.T) {
	svc, profiles, _, _ := newDirectoryServiceForTest(t, true)
	ctx := context.Background()
	profiles.setHeadline("p1", "old")

	gate := make(chan struct{})
	loaded := make(chan struct{})
	profiles.mu.Lock()
	profiles.gate, profiles.loaded = gate, loaded
	profiles.mu.Unlock()

	built := make(chan error, 1)
	go func() {
		_, _, err := svc.Snapshot(ctx)
		built <- err
	}()
	<-loaded

	// a mutation commits while the build holds the pre-mutation rows
	profiles.setHeadline("p1", "new")
	require.NoError(t, svc.Invalidate(ctx))
	close(gate)
	require.NoError(t, <-built)

	snap, hit, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "new", snap.Students[0].Headline)

	_, hit, err = svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.True(t, hit, "builds started after the invalidation are cached again")
}

func TestDirectoryWithoutCacheAlwaysBuilds(t *testing.T) {
	svc, profiles, _, _ := newDirectoryServiceForTest(t, false)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, hit, err := svc.Snapshot(ctx)
		require.NoError(t, err)
		assert.False(t, hit)
	}
	assert.Equal(t, 3, profiles.calls)
}

func TestDirectoryQueryFilters(t *testing.T) {
	svc, _, _, _ := newDirectoryServiceForTest(t, true)

	view, _, err := svc.Query(context.Background(), models.FilterCriteria{SkillNames: []string{"React"}})
	require.NoError(t, err)
	assert.True(t, view.Loaded)
	assert.True(t, view.FiltersActive)
	assert.Equal(t, 2, view.Total)
	require.Len(t, view.Students, 1)
	assert.Equal(t, "p2", view.Students[0].ID)
	assert.Equal(t, []string{"Backend"}, view.PreferredFields)

	metrics := svc.metrics.Snapshot()
	assert.Equal(t, uint64(1), metrics.DirectoryQueries)
}

func TestDirectoryQueryLoadFailure(t *testing.T) {
	svc, profiles, _, _ := newDirectoryServiceForTest(t, true)
	profiles.err = errors.New("db down")

	view, _, err := svc.Query(context.Background(), models.FilterCriteria{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrInternal))
	assert.False(t, view.Loaded)
	assert.Empty(t, view.Students)
}

func TestDirectoryFieldsAndAll(t *testing.T) {
	svc, _, _, _ := newDirectoryServiceForTest(t, true)
	ctx := context.Background()

	fields, err := svc.Fields(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Backend"}, fields)

	all, err := svc.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDirectoryRebuildRefreshesCache(t *testing.T) {
	svc, profiles, _, mem := newDirectoryServiceForTest(t, true)
	ctx := context.Background()

	require.NoError(t, svc.Rebuild(ctx))
	profiles.profiles = profiles.profiles[:1]
	require.NoError(t, svc.Rebuild(ctx))

	snap, hit, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, snap.Len())
	assert.Equal(t, 2, mem.sets)
}

type rebuildCounter struct {
	calls chan struct{}
}

func (r *rebuildCounter) Rebuild(ctx context.Context) error {
	r.calls <- struct{}{}
	return nil
}

func TestDirectoryRefresherRunsImmediately(t *testing.T) {
	target := &rebuildCounter{calls: make(chan struct{}, 4)}
	refresher := NewDirectoryRefresher(target, "@every 1h", zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, refresher.Start(ctx))
	defer refresher.Stop()

	select {
	case <-target.calls:
	case <-time.After(2 * time.Second):
		t.Fatal("initial rebuild did not run")
	}
}

func TestDirectoryRefresherRejectsBadSpec(t *testing.T) {
	refresher := NewDirectoryRefresher(&rebuildCounter{calls: make(chan struct{}, 1)}, "every now and then", zap.NewNop())
	assert.Error(t, refresher.Start(context.Background()))
}
