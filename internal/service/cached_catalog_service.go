package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"storefront-catalog/internal/cache"
	"storefront-catalog/internal/domain"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	itemsKeyPrefix = "catalog-items-"
	brandsKey      = "catalog-brands"
	typesKey       = "catalog-types"
)

// ItemsCacheKey derives the cache key for a paged query. An absent filter
// maps to "*" so it never collides with a concrete id.
func ItemsCacheKey(req domain.PageRequest) string {
	return fmt.Sprintf("%s%d-%d-%s-%s", itemsKeyPrefix, req.PageIndex, req.PageSize, keySegment(req.BrandID), keySegment(req.TypeID))
}

func keySegment(id *int) string {
	if id == nil {
		return "*"
	}
	return strconv.Itoa(*id)
}

// CachedCatalogOptions configures a CachedCatalogService
type CachedCatalogOptions struct {
	TTL       time.Duration
	KeyPrefix string
	// CollapseMisses shares one in-flight query between concurrent
	// callers that miss on the same key.
	CollapseMisses bool
}

// CachedCatalogService memoizes a CatalogService in a cache.Store
type CachedCatalogService struct {
	next   CatalogService
	store  cache.Store
	opts   CachedCatalogOptions
	logger *zap.Logger
	group  singleflight.Group
}

// NewCachedCatalogService wraps next with a read-through cache
func NewCachedCatalogService(next CatalogService, store cache.Store, opts CachedCatalogOptions, logger *zap.Logger) *CachedCatalogService {
	return &CachedCatalogService{
		next:   next,
		store:  store,
		opts:   opts,
		logger: logger,
	}
}

func (s *CachedCatalogService) Query(ctx context.Context, req domain.PageRequest) (*domain.PageResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	return getOrLoad(ctx, s, s.key(ItemsCacheKey(req)), func(ctx context.Context) (*domain.PageResult, error) {
		return s.next.Query(ctx, req)
	})
}

func (s *CachedCatalogService) ListBrands(ctx context.Context) ([]domain.FilterOption, error) {
	return getOrLoad(ctx, s, s.key(brandsKey), s.next.ListBrands)
}

func (s *CachedCatalogService) ListTypes(ctx context.Context) ([]domain.FilterOption, error) {
	return getOrLoad(ctx, s, s.key(typesKey), s.next.ListTypes)
}

// InvalidateItems evicts every cached catalog page
func (s *CachedCatalogService) InvalidateItems(ctx context.Context) error {
	removed, err := s.store.DeletePrefix(ctx, s.key(itemsKeyPrefix))
	if err != nil {
		return fmt.Errorf("failed to invalidate catalog pages: %w", err)
	}
	s.logger.Info("Catalog pages invalidated", zap.Int("removed", removed))
	return nil
}

// InvalidateLookups evicts the cached brand and type lists
func (s *CachedCatalogService) InvalidateLookups(ctx context.Context) error {
	for _, key := range []string{brandsKey, typesKey} {
		if _, err := s.store.DeletePrefix(ctx, s.key(key)); err != nil {
			return fmt.Errorf("failed to invalidate %s: %w", key, err)
		}
	}
	return nil
}

func (s *CachedCatalogService) key(k string) string {
	return s.opts.KeyPrefix + k
}

// getOrLoad serves key from the store or runs load and stores its result.
// Cache failures degrade to a miss; load errors are returned unchanged and
// never cached.
func getOrLoad[T any](ctx context.Context, s *CachedCatalogService, key string, load func(context.Context) (T, error)) (T, error) {
	var zero T

	if value, ok := s.lookup(ctx, key); ok {
		var cached T
		err := json.Unmarshal(value, &cached)
		if err == nil {
			s.logger.Debug("Catalog cache hit", zap.String("cache_key", key))
			return cached, nil
		}
		s.logger.Warn("Discarding undecodable cache entry", zap.String("cache_key", key), zap.Error(err))
	}

	s.logger.Debug("Catalog cache miss", zap.String("cache_key", key))

	var (
		result T
		err    error
	)
	if s.opts.CollapseMisses {
		// The shared load is detached from whichever caller started it;
		// each caller waits only as long as its own context allows.
		ch := s.group.DoChan(key, func() (interface{}, error) {
			return load(context.WithoutCancel(ctx))
		})
		select {
		case res := <-ch:
			err = res.Err
			if err == nil {
				result = res.Val.(T)
			}
		case <-ctx.Done():
			return zero, domain.DataUnavailable(ctx.Err(), "catalog request abandoned")
		}
	} else {
		result, err = load(ctx)
	}
	if err != nil {
		return zero, err
	}

	// A caller that went away does not populate the cache
	if ctx.Err() != nil {
		return result, nil
	}

	s.save(ctx, key, result)
	return result, nil
}

func (s *CachedCatalogService) lookup(ctx context.Context, key string) ([]byte, bool) {
	value, found, err := s.store.Get(ctx, key)
	if err != nil {
		s.logger.Warn("Catalog cache read failed", zap.String("cache_key", key), zap.Error(err))
		return nil, false
	}
	return value, found
}

func (s *CachedCatalogService) save(ctx context.Context, key string, value interface{}) {
	payload, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("Failed to encode cache entry", zap.String("cache_key", key), zap.Error(err))
		return
	}
	if err := s.store.Set(ctx, key, payload, s.opts.TTL); err != nil {
		s.logger.Warn("Catalog cache write failed", zap.String("cache_key", key), zap.Error(err))
	}
}
