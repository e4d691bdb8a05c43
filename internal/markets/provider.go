package markets

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/polycopy/polyscore/internal/storage"
	"github.com/polycopy/polyscore/pkg/cache"
	"github.com/polycopy/polyscore/pkg/types"
)

// Fetcher fetches market metadata from a remote source.
type Fetcher interface {
	FetchMarket(ctx context.Context, conditionID string) (types.MarketMetadata, bool, error)
}

// Provider resolves market metadata for the scoring path.
type Provider interface {
	// GetMarket returns metadata for a condition ID. The second return is
	// false when nothing is known about the market; scoring proceeds on
	// empty metadata in that case.
	GetMarket(ctx context.Context, conditionID string) (types.MarketMetadata, bool)
}

// CachedProvider resolves metadata through a read-through chain: process
// cache, then the market store, then the remote fetcher. Remote hits are
// written back to the store so the next process restart skips the fetch.
type CachedProvider struct {
	fetcher Fetcher
	store   storage.MarketStore
	cache   cache.Cache
	ttl     time.Duration
	logger  *zap.Logger
}

// NewCachedProvider creates a new cached metadata provider.
func NewCachedProvider(fetcher Fetcher, store storage.MarketStore, c cache.Cache, ttl time.Duration, logger *zap.Logger) *CachedProvider {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &CachedProvider{
		fetcher: fetcher,
		store:   store,
		cache:   c,
		ttl:     ttl,
		logger:  logger,
	}
}

// GetMarket resolves metadata for a condition ID. Lookup failures at every
// level degrade to "unknown market" rather than failing the caller.
func (p *CachedProvider) GetMarket(ctx context.Context, conditionID string) (types.MarketMetadata, bool) {
	cacheKey := fmt.Sprintf("market:%s", conditionID)

	if p.cache != nil {
		if cached, ok := p.cache.Get(cacheKey); ok {
			if m, ok := cached.(*types.MarketMetadata); ok {
				MetadataCacheHitsTotal.Inc()
				return *m, true
			}
		}
		MetadataCacheMissesTotal.Inc()
	}

	if p.store != nil {
		m, found, err := p.store.GetMarket(ctx, conditionID)
		if err != nil {
			p.logger.Warn("market-store-lookup-failed",
				zap.String("condition-id", conditionID),
				zap.Error(err))
		} else if found {
			p.cacheMetadata(cacheKey, m)
			return m, true
		}
	}

	m, found, err := p.fetcher.FetchMarket(ctx, conditionID)
	if err != nil {
		p.logger.Warn("market-fetch-failed",
			zap.String("condition-id", conditionID),
			zap.Error(err))
		return types.MarketMetadata{}, false
	}
	if !found {
		return types.MarketMetadata{}, false
	}

	p.cacheMetadata(cacheKey, m)

	if p.store != nil {
		if err := p.store.UpsertMarket(ctx, m); err != nil {
			p.logger.Warn("market-upsert-failed",
				zap.String("condition-id", conditionID),
				zap.Error(err))
		}
	}

	return m, true
}

func (p *CachedProvider) cacheMetadata(key string, m types.MarketMetadata) {
	if p.cache == nil {
		return
	}
	copied := m
	p.cache.Set(key, &copied, p.ttl)
}
