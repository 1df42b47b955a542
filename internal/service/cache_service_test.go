package service

import (
	"context"
	"encoding/json"
	"path"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/school-api/internal/models"
	appErrors "github.com/noah-isme/school-api/pkg/errors"
	"github.com/noah-isme/school-api/pkg/validation"
)

type memCache struct {
	entries map[string][]byte
	deletes []string
}

func (m *memCache) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *memCache) DeleteByPattern(_ context.Context, pattern string) error {
	m.deletes = append(m.deletes, pattern)
	for key := range m.entries {
		if ok, _ := path.Match(pattern, key); ok {
			delete(m.entries, key)
		}
	}
	return nil
}

type countingStudentRepo struct {
	*fakeStudentRepo
	finds int
}

func (c *countingStudentRepo) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	c.finds++
	return c.fakeStudentRepo.FindByID(ctx, id)
}

func TestStudentServiceGetUsesDetailCache(t *testing.T) {
	store := &memCache{entries: map[string][]byte{}}
	metrics := NewMetricsService()
	cache := NewCacheService(store, metrics, time.Minute, zap.NewNop(), true)
	repo := &countingStudentRepo{fakeStudentRepo: newFakeStudentRepo(map[int64]models.Student{
		1: {ID: 1, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", EnrollmentDate: date("2024-09-01")},
	})}
	svc := NewStudentService(repo, validation.New(), cache, zap.NewNop())

	first, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	second, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.finds)
	assert.Equal(t, first.Email, second.Email)
	assert.Equal(t, "2024-09-01", second.EnrollmentDate.String())
	assert.Contains(t, store.entries, DetailKey("students", 1))
	assert.Equal(t, uint64(1), metrics.cacheHitCount)
	assert.Equal(t, uint64(1), metrics.cacheMissCount)

	_, err = svc.Update(context.Background(), 1, UpdateStudentRequest{FirstName: ptr("Augusta")})
	require.NoError(t, err)
	assert.Equal(t, []string{"detail:*"}, store.deletes)
	assert.Empty(t, store.entries)

	fresh, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Augusta", fresh.FirstName)
}

// racingStudentRepo runs onFind while a detail is being loaded, standing in
// for a write that commits between the cache miss and the cache store.
type racingStudentRepo struct {
	*fakeStudentRepo
	onFind func()
}

func (r *racingStudentRepo) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	student, err := r.fakeStudentRepo.FindByID(ctx, id)
	if r.onFind != nil {
		r.onFind()
		r.onFind = nil
	}
	return student, err
}

func TestCacheServiceSkipsStoreAfterConcurrentWrite(t *testing.T) {
	store := &memCache{entries: map[string][]byte{}}
	cache := NewCacheService(store, nil, time.Minute, zap.NewNop(), true)
	repo := &racingStudentRepo{fakeStudentRepo: newFakeStudentRepo(map[int64]models.Student{
		1: {ID: 1, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", EnrollmentDate: date("2024-09-01")},
	})}
	repo.onFind = func() { cache.invalidateDetails(context.Background()) }
	svc := NewStudentService(repo, validation.New(), cache, zap.NewNop())

	_, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, store.entries)

	_, err = svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Contains(t, store.entries, DetailKey("students", 1))
}

func TestCacheServiceStoreWithoutMiss(t *testing.T) {
	store := &memCache{entries: map[string][]byte{}}
	cache := NewCacheService(store, nil, time.Minute, zap.NewNop(), true)

	cache.storeDetail(context.Background(), "products", 7, map[string]int{"id": 7})
	assert.Empty(t, store.entries)

	var dest map[string]int
	assert.False(t, cache.lookupDetail(context.Background(), "products", 7, &dest))
	cache.storeDetail(context.Background(), "products", 7, map[string]int{"id": 7})
	assert.True(t, cache.lookupDetail(context.Background(), "products", 7, &dest))
	assert.Equal(t, 7, dest["id"])
}

func TestCacheServiceDisabled(t *testing.T) {
	store := &memCache{entries: map[string][]byte{}}
	cache := NewCacheService(store, nil, 0, nil, false)

	assert.False(t, cache.Enabled())
	require.NoError(t, cache.Set(context.Background(), "k", 1, 0))
	hit, err := cache.Get(context.Background(), "k", new(int))
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Empty(t, store.entries)

	var nilCache *CacheService
	assert.False(t, nilCache.Enabled())
}
