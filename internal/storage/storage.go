// Package storage provides persistence for market metadata, tag-to-niche
// mappings, and trader history.
package storage

import (
	"context"

	"github.com/polycopy/polyscore/pkg/types"
)

// MarketStore persists market metadata by condition ID.
type MarketStore interface {
	// GetMarket returns the stored metadata for a condition ID. The second
	// return is false when the market is unknown.
	GetMarket(ctx context.Context, conditionID string) (types.MarketMetadata, bool, error)

	// UpsertMarket inserts or replaces a market record. Re-upserting the
	// same condition ID is idempotent.
	UpsertMarket(ctx context.Context, m types.MarketMetadata) error
}

// TagNicheStore resolves market tags to niche mappings.
type TagNicheStore interface {
	// LookupTags returns the mappings for the given tags ordered by
	// ascending specificity. Unknown tags are simply absent.
	LookupTags(ctx context.Context, tags []string) ([]types.TagNiche, error)
}

// TraderStore reads trader history.
type TraderStore interface {
	// GlobalStats returns lifetime stats for a wallet, or nil when the
	// trader has no history.
	GlobalStats(ctx context.Context, wallet string) (*types.TraderGlobalStats, error)

	// NicheProfiles returns all per-niche profile rows for a wallet.
	NicheProfiles(ctx context.Context, wallet string) ([]types.NicheProfile, error)
}

// Storage bundles all stores behind one connection lifecycle.
type Storage interface {
	MarketStore
	TagNicheStore
	TraderStore

	// Close closes the storage connection.
	Close() error
}
