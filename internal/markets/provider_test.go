package markets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/polycopy/polyscore/internal/storage"
	"github.com/polycopy/polyscore/pkg/types"
)

type stubFetcher struct {
	market types.MarketMetadata
	found  bool
	err    error
	calls  int
}

func (s *stubFetcher) FetchMarket(ctx context.Context, conditionID string) (types.MarketMetadata, bool, error) {
	s.calls++
	return s.market, s.found, s.err
}

// mapCache is a deterministic in-test cache without ristretto's async
// admission.
type mapCache struct {
	entries map[string]interface{}
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]interface{})}
}

func (c *mapCache) Get(key string) (interface{}, bool) {
	v, ok := c.entries[key]
	return v, ok
}

func (c *mapCache) Set(key string, value interface{}, ttl time.Duration) bool {
	c.entries[key] = value
	return true
}

func (c *mapCache) Delete(key string) { delete(c.entries, key) }
func (c *mapCache) Clear()            { c.entries = make(map[string]interface{}) }
func (c *mapCache) Close()            {}

func TestCachedProvider_FetchesAndWritesBack(t *testing.T) {
	store := storage.NewMemoryStorage(zap.NewNop())
	fetcher := &stubFetcher{
		market: types.MarketMetadata{ConditionID: "0xcond", Title: "fetched"},
		found:  true,
	}
	c := newMapCache()

	p := NewCachedProvider(fetcher, store, c, time.Minute, zap.NewNop())

	m, found := p.GetMarket(context.Background(), "0xcond")
	require.True(t, found)
	assert.Equal(t, "fetched", m.Title)
	assert.Equal(t, 1, fetcher.calls)

	// persisted for the next process
	stored, ok, err := store.GetMarket(context.Background(), "0xcond")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "fetched", stored.Title)

	// second call is served from cache
	m, found = p.GetMarket(context.Background(), "0xcond")
	require.True(t, found)
	assert.Equal(t, "fetched", m.Title)
	assert.Equal(t, 1, fetcher.calls)
}

func TestCachedProvider_StoreHitSkipsFetch(t *testing.T) {
	store := storage.NewMemoryStorage(zap.NewNop())
	require.NoError(t, store.UpsertMarket(context.Background(), types.MarketMetadata{
		ConditionID: "0xcond",
		Title:       "stored",
	}))
	fetcher := &stubFetcher{err: errors.New("should not be called")}

	p := NewCachedProvider(fetcher, store, newMapCache(), time.Minute, zap.NewNop())

	m, found := p.GetMarket(context.Background(), "0xcond")
	require.True(t, found)
	assert.Equal(t, "stored", m.Title)
	assert.Zero(t, fetcher.calls)
}

func TestCachedProvider_FetchFailureDegrades(t *testing.T) {
	store := storage.NewMemoryStorage(zap.NewNop())
	fetcher := &stubFetcher{err: errors.New("gamma down")}

	p := NewCachedProvider(fetcher, store, newMapCache(), time.Minute, zap.NewNop())

	m, found := p.GetMarket(context.Background(), "0xcond")
	assert.False(t, found)
	assert.Equal(t, types.MarketMetadata{}, m)
}

func TestCachedProvider_UnknownMarket(t *testing.T) {
	fetcher := &stubFetcher{found: false}

	p := NewCachedProvider(fetcher, nil, nil, time.Minute, zap.NewNop())

	_, found := p.GetMarket(context.Background(), "0xcond")
	assert.False(t, found)
}
