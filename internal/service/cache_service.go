package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/school-api/pkg/errors"
)

const detailKeyPattern = "detail:*"

// CacheRepository abstracts persistence for cached payloads.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CacheService caches entity details. Details embed related entities, so any
// write invalidates every cached detail rather than a single key.
type CacheService struct {
	repo       CacheRepository
	metrics    *MetricsService
	defaultTTL time.Duration
	logger     *zap.Logger
	enabled    bool

	// generation counts detail invalidations; misses remember the value they
	// saw so a load that raced a write is not stored afterwards.
	generation atomic.Uint64
	misses     sync.Map
}

// NewCacheService constructs a cache service.
func NewCacheService(repo CacheRepository, metrics *MetricsService, defaultTTL time.Duration, logger *zap.Logger, enabled bool) *CacheService {
	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{repo: repo, metrics: metrics, defaultTTL: defaultTTL, logger: logger, enabled: enabled}
}

// Enabled indicates whether caching is active.
func (s *CacheService) Enabled() bool {
	return s != nil && s.enabled && s.repo != nil
}

// Get attempts to retrieve a cached entry. It returns true when the cache was hit.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}
	start := time.Now()
	err := s.repo.Get(ctx, key, dest)
	s.metrics.RecordCacheOperation(err == nil, time.Since(start))
	if err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return false, nil
		}
		s.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return false, err
	}
	return true, nil
}

// Set stores the value in cache.
func (s *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !s.Enabled() {
		return nil
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	start := time.Now()
	err := s.repo.Set(ctx, key, value, ttl)
	s.metrics.ObserveCacheWrite(time.Since(start))
	if err != nil {
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
	return err
}

// Invalidate removes cached values for the provided pattern.
func (s *CacheService) Invalidate(ctx context.Context, pattern string) error {
	if !s.Enabled() {
		return nil
	}
	if err := s.repo.DeleteByPattern(ctx, pattern); err != nil {
		s.logger.Warn("cache invalidate failed", zap.String("pattern", pattern), zap.Error(err))
		return err
	}
	return nil
}

// DetailKey names the cache entry of one entity detail.
func DetailKey(resource string, id int64) string {
	return fmt.Sprintf("detail:%s:%d", resource, id)
}

// lookupDetail fills dest from cache; failures count as a miss.
func (s *CacheService) lookupDetail(ctx context.Context, resource string, id int64, dest interface{}) bool {
	if !s.Enabled() {
		return false
	}
	key := DetailKey(resource, id)
	hit, err := s.Get(ctx, key, dest)
	if err == nil && hit {
		return true
	}
	s.misses.Store(key, s.generation.Load())
	return false
}

// storeDetail caches a detail loaded after a miss, unless a write invalidated
// details in between.
func (s *CacheService) storeDetail(ctx context.Context, resource string, id int64, value interface{}) {
	if !s.Enabled() {
		return
	}
	key := DetailKey(resource, id)
	seen, ok := s.misses.LoadAndDelete(key)
	if !ok || seen.(uint64) != s.generation.Load() {
		return
	}
	_ = s.Set(ctx, key, value, 0)
}

// invalidateDetails drops every cached detail after a write.
func (s *CacheService) invalidateDetails(ctx context.Context) {
	if !s.Enabled() {
		return
	}
	s.generation.Add(1)
	s.misses.Range(func(key, _ interface{}) bool {
		s.misses.Delete(key)
		return true
	})
	_ = s.Invalidate(ctx, detailKeyPattern)
}
