package storage

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/polycopy/polyscore/pkg/types"
)

// MemoryStorage implements Storage in process memory. Used for one-shot
// scoring runs and tests when no database is configured.
type MemoryStorage struct {
	mu       sync.RWMutex
	markets  map[string]types.MarketMetadata
	tags     map[string]types.TagNiche
	stats    map[string]*types.TraderGlobalStats
	profiles map[string][]types.NicheProfile
	logger   *zap.Logger
}

// NewMemoryStorage creates an empty in-memory storage.
func NewMemoryStorage(logger *zap.Logger) *MemoryStorage {
	logger.Info("memory-storage-initialized")
	return &MemoryStorage{
		markets:  make(map[string]types.MarketMetadata),
		tags:     make(map[string]types.TagNiche),
		stats:    make(map[string]*types.TraderGlobalStats),
		profiles: make(map[string][]types.NicheProfile),
		logger:   logger,
	}
}

// GetMarket returns the stored metadata for a condition ID.
func (m *MemoryStorage) GetMarket(ctx context.Context, conditionID string) (types.MarketMetadata, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	md, ok := m.markets[conditionID]
	return md, ok, nil
}

// UpsertMarket inserts or replaces a market record.
func (m *MemoryStorage) UpsertMarket(ctx context.Context, md types.MarketMetadata) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.markets[md.ConditionID] = md
	return nil
}

// LookupTags returns niche mappings for the given tags ordered by ascending
// specificity.
func (m *MemoryStorage) LookupTags(ctx context.Context, tags []string) ([]types.TagNiche, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []types.TagNiche
	for _, tag := range tags {
		if tn, ok := m.tags[strings.ToLower(tag)]; ok {
			out = append(out, tn)
		}
	}

	// insertion sort, tag lists are tiny
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Specificity < out[j-1].Specificity; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}

	return out, nil
}

// PutTagNiche registers a tag mapping.
func (m *MemoryStorage) PutTagNiche(tn types.TagNiche) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tags[strings.ToLower(tn.Tag)] = tn
}

// GlobalStats returns lifetime stats for a wallet, or nil when unknown.
func (m *MemoryStorage) GlobalStats(ctx context.Context, wallet string) (*types.TraderGlobalStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats, ok := m.stats[strings.ToLower(wallet)]
	if !ok {
		return nil, nil
	}
	copied := *stats
	return &copied, nil
}

// PutGlobalStats registers lifetime stats for a wallet.
func (m *MemoryStorage) PutGlobalStats(stats types.TraderGlobalStats) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats[strings.ToLower(stats.Wallet)] = &stats
}

// NicheProfiles returns all per-niche profile rows for a wallet.
func (m *MemoryStorage) NicheProfiles(ctx context.Context, wallet string) ([]types.NicheProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows := m.profiles[strings.ToLower(wallet)]
	out := make([]types.NicheProfile, len(rows))
	copy(out, rows)
	return out, nil
}

// PutNicheProfile registers a niche profile row for a wallet.
func (m *MemoryStorage) PutNicheProfile(p types.NicheProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(p.Wallet)
	m.profiles[key] = append(m.profiles[key], p)
}

// Close is a no-op for memory storage.
func (m *MemoryStorage) Close() error {
	m.logger.Info("closing-memory-storage")
	return nil
}
