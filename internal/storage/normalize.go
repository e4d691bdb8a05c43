package storage

import (
	"fmt"
	"math"
	"time"

	json "github.com/goccy/go-json"

	"github.com/polycopy/polyscore/pkg/types"
)

// Stats payloads are JSONB documents written by several generations of the
// offline aggregation pipeline. Older runs prefixed legacy fields with "L_"
// and used camelCase; newer runs use snake_case. Decoding accepts every
// key the pipeline has ever written, first present key wins, and any
// non-finite value is treated as absent.

type statsPayload map[string]json.RawMessage

func decodePayload(raw []byte) (statsPayload, error) {
	var p statsPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode stats payload: %w", err)
	}
	return p, nil
}

// float returns the first finite value under any of the given keys.
func (p statsPayload) float(keys ...string) (float64, bool) {
	for _, k := range keys {
		raw, ok := p[k]
		if !ok {
			continue
		}
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			continue
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			continue
		}
		return f, true
	}
	return 0, false
}

func (p statsPayload) floatOr(def float64, keys ...string) float64 {
	if f, ok := p.float(keys...); ok {
		return f
	}
	return def
}

func (p statsPayload) intOr(def int64, keys ...string) int64 {
	if f, ok := p.float(keys...); ok {
		return int64(f)
	}
	return def
}

func (p statsPayload) timeOrNil(keys ...string) *time.Time {
	for _, k := range keys {
		raw, ok := p[k]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			continue
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			continue
		}
		return &t
	}
	return nil
}

// decodeGlobalStats builds lifetime trader stats from a JSONB payload.
func decodeGlobalStats(wallet string, raw []byte, updatedAt time.Time) (*types.TraderGlobalStats, error) {
	p, err := decodePayload(raw)
	if err != nil {
		return nil, err
	}

	return &types.TraderGlobalStats{
		Wallet:        wallet,
		WinRate:       p.floatOr(0, "win_rate", "L_win_rate", "winRate"),
		ROIPct:        p.floatOr(0, "roi_pct", "L_roi_pct", "roi"),
		TradeCount:    p.intOr(0, "trade_count", "L_resolved_count", "resolved_count", "tradeCount"),
		AvgBetSize:    p.floatOr(0, "avg_bet_size", "avgBetSize"),
		StdDevBetSize: p.floatOr(0, "std_dev_bet_size", "stdDevBetSize"),
		RecentWinRate: p.floatOr(0, "recent_win_rate", "recentWinRate"),
		AvgEntryPrice: p.floatOr(0, "avg_entry_price", "avgEntryPrice"),
		SellRatio:     p.floatOr(0, "sell_ratio", "sellRatio"),
		TradesPerDay:  p.floatOr(0, "trades_per_day", "tradesPerDay"),
		LastTradeAt:   p.timeOrNil("last_trade_at", "lastTradeAt"),
		UpdatedAt:     updatedAt,
	}, nil
}

// decodeNicheProfile builds a single niche profile row from a JSONB payload.
func decodeNicheProfile(wallet, niche, structure, bracket string, raw []byte) (types.NicheProfile, error) {
	p, err := decodePayload(raw)
	if err != nil {
		return types.NicheProfile{}, err
	}

	return types.NicheProfile{
		Wallet:       wallet,
		Niche:        niche,
		BetStructure: structure,
		PriceBracket: bracket,
		WinRate:      p.floatOr(0, "win_rate", "L_win_rate", "winRate"),
		ROIPct:       p.floatOr(0, "roi_pct", "L_roi_pct", "roi"),
		TradeCount:   p.intOr(0, "trade_count", "L_resolved_count", "resolved_count", "tradeCount"),
	}, nil
}
