// Package features assembles the fixed numeric/categorical record handed to
// the ML classifier. Every field substitutes a documented default when its
// source is missing or non-finite; the ML payload never carries NaN or Inf.
package features

import (
	"math"
	"time"

	"github.com/polycopy/polyscore/internal/classifier"
	"github.com/polycopy/polyscore/internal/waterfall"
	"github.com/polycopy/polyscore/pkg/types"
)

// Trade size tiers derived from the liquidity-impact ratio.
const (
	TierSmall  = "SMALL"
	TierMedium = "MEDIUM"
	TierLarge  = "LARGE"
	TierWhale  = "WHALE"
)

// Market age buckets.
const (
	AgeNew         = "NEW"
	AgeRecent      = "RECENT"
	AgeEstablished = "ESTABLISHED"
	AgeMature      = "MATURE"
)

// Position directions.
const (
	DirectionLong  = "LONG"
	DirectionShort = "SHORT"
)

// Documented defaults for absent sources.
const (
	defaultWinRate        = 0.5
	defaultSelectivity    = 0.5
	defaultTempoSeconds   = 86400 // one day: no recent activity on record
	defaultHoursToClose   = 24
	bestNicheMinTrades    = 10
	impactVolumeFloor     = 1000
	priceVsAvgNormalizer  = 0.2
	convictionClampStdDev = 10
)

// Input bundles everything Build needs. Now is injected so timing features
// are reproducible.
type Input struct {
	Trade       types.Trade
	Metadata    types.MarketMetadata
	Stats       *types.TraderGlobalStats // nil when the wallet has no stats row
	Profiles    []types.NicheProfile
	Resolved    waterfall.Resolved
	Class       classifier.Classification
	OtherTrades []types.OtherTrade
	Hedging     *types.HedgingInfo
	Now         time.Time
}

// Build assembles the feature vector for one trade.
func Build(in Input) types.FeatureVector {
	notional := in.Trade.NotionalUSD()
	impact := liquidityImpact(notional, in.Metadata.VolumeTotal)
	meanOther, exposure := siblingStats(in.OtherTrades)

	fv := types.FeatureVector{
		// Trader skill
		GlobalWinRate:      globalWinRate(in.Stats),
		NicheWinRate:       finiteOr(in.Resolved.WinRate, defaultWinRate),
		LifetimeTradeCount: lifetimeTradeCount(in.Stats),

		// Trader behavior
		NicheExperiencePct: nicheExperiencePct(in.Profiles, in.Class.Niche),
		TraderSelectivity:  traderSelectivity(in.Stats),
		PriceVsTraderAvg:   priceVsTraderAvg(in.Trade.Price, in.Stats),

		// Conviction
		ConvictionZScore: convictionZ(notional, in.Stats),
		TradeSequence:    float64(len(in.OtherTrades) + 1),

		// Behavioral flags
		TempoSeconds:     tempoSeconds(in.Trade.Timestamp, in.Stats),
		IsChasingPriceUp: len(in.OtherTrades) > 0 && !in.Trade.IsSell() && in.Trade.Price > meanOther,
		IsAveragingDown:  len(in.OtherTrades) > 0 && in.Trade.Price < meanOther,

		// Tier / ratio
		TradeSizeTier:       SizeTier(impact),
		HistoricalSellRatio: sellRatio(in.Stats),
		IsHedging:           in.Hedging != nil && in.Hedging.IsHedging,
		IsInBestNiche:       isInBestNiche(in.Profiles, in.Class.Niche),
		IsWithCrowd:         isWithCrowd(in.Trade),
		MarketAgeBucket:     ageBucket(marketAgeDays(in.Metadata, in.Now)),

		// Trade / market / timing descriptors
		Niche:                in.Class.Niche,
		BetStructure:         in.Class.BetStructure,
		PositionDirection:    direction(in.Trade),
		EntryPrice:           in.Trade.Price,
		LogNotional:          math.Log(notional + 1),
		LogExposure:          math.Log(notional + exposure + 1), // combined open exposure across concurrent trades
		VolumeMomentumRatio:  volumeMomentum(in.Metadata),
		LiquidityImpactRatio: impact,
		MinutesToEventStart:  minutesToEventStart(in.Metadata, in.Trade.Timestamp),
		HoursToMarketClose:   hoursToClose(in.Metadata, in.Now),
		MarketAgeDays:        marketAgeDays(in.Metadata, in.Now),
	}

	return fv
}

// SizeTier buckets a liquidity-impact ratio into a trade size tier.
func SizeTier(impact float64) string {
	switch {
	case impact >= 0.05:
		return TierWhale
	case impact >= 0.01:
		return TierLarge
	case impact >= 0.001:
		return TierMedium
	default:
		return TierSmall
	}
}

// liquidityImpact is notional over total volume with the same floor the
// slippage estimator applies, so tiny markets don't blow the ratio up.
func liquidityImpact(notional, volumeTotal float64) float64 {
	return notional / math.Max(finiteOr(volumeTotal, 0), impactVolumeFloor)
}

func globalWinRate(stats *types.TraderGlobalStats) float64 {
	if stats == nil {
		return defaultWinRate
	}
	wr := finiteOr(stats.WinRate, defaultWinRate)
	if wr < 0 || wr > 1 {
		return defaultWinRate
	}
	return wr
}

func lifetimeTradeCount(stats *types.TraderGlobalStats) float64 {
	if stats == nil || stats.TradeCount < 0 {
		return 0
	}
	return float64(stats.TradeCount)
}

// nicheExperiencePct is the share of the trader's profiled trades that fall
// in the current niche, in percent.
func nicheExperiencePct(profiles []types.NicheProfile, niche string) float64 {
	var inNiche, total int64
	for _, p := range profiles {
		if p.TradeCount <= 0 {
			continue
		}
		total += p.TradeCount
		if p.Niche == niche {
			inNiche += p.TradeCount
		}
	}
	if total == 0 {
		return 0
	}
	return 100 * float64(inNiche) / float64(total)
}

// traderSelectivity is the inverse trade frequency, clamped to [0,1]. A
// trader firing many trades per day scores near 0, a rare mover near 1.
func traderSelectivity(stats *types.TraderGlobalStats) float64 {
	if stats == nil || !isFinite(stats.TradesPerDay) || stats.TradesPerDay <= 0 {
		return defaultSelectivity
	}
	return clamp(1/(1+stats.TradesPerDay), 0, 1)
}

func priceVsTraderAvg(price float64, stats *types.TraderGlobalStats) float64 {
	if stats == nil || !isFinite(stats.AvgEntryPrice) || stats.AvgEntryPrice <= 0 {
		return 0
	}
	return (price - stats.AvgEntryPrice) / priceVsAvgNormalizer
}

// convictionZ is the notional's z-score against the trader's historical bet
// sizing, clamped to +/-10 standard deviations.
func convictionZ(notional float64, stats *types.TraderGlobalStats) float64 {
	if stats == nil || !isFinite(stats.AvgBetSize) || !isFinite(stats.StdDevBetSize) || stats.StdDevBetSize <= 0 {
		return 0
	}
	z := (notional - stats.AvgBetSize) / stats.StdDevBetSize
	return clamp(z, -convictionClampStdDev, convictionClampStdDev)
}

func tempoSeconds(tradeTime time.Time, stats *types.TraderGlobalStats) float64 {
	if stats == nil || stats.LastTradeAt == nil {
		return defaultTempoSeconds
	}
	secs := tradeTime.Sub(*stats.LastTradeAt).Seconds()
	if !isFinite(secs) || secs < 0 {
		return defaultTempoSeconds
	}
	return secs
}

func sellRatio(stats *types.TraderGlobalStats) float64 {
	if stats == nil {
		return 0
	}
	sr := finiteOr(stats.SellRatio, 0)
	return clamp(sr, 0, 1)
}

// isInBestNiche reports whether the current niche is the trader's
// highest-win-rate niche among profiles with at least 10 trades.
func isInBestNiche(profiles []types.NicheProfile, niche string) bool {
	bestNiche := ""
	bestWinRate := -1.0
	for _, p := range profiles {
		if p.TradeCount < bestNicheMinTrades || !isFinite(p.WinRate) {
			continue
		}
		if p.WinRate > bestWinRate {
			bestWinRate = p.WinRate
			bestNiche = p.Niche
		}
	}
	return bestNiche != "" && bestNiche == niche
}

// isWithCrowd infers majority side purely from price > 0.5. This is a
// documented approximation, not real order-flow direction.
func isWithCrowd(trade types.Trade) bool {
	if trade.IsSell() {
		return trade.Price < 0.5
	}
	return trade.Price > 0.5
}

func direction(trade types.Trade) string {
	if trade.IsSell() {
		return DirectionShort
	}
	return DirectionLong
}

// siblingStats returns the mean price of the trader's concurrent trades and
// the combined exposure including the current trade's peers.
func siblingStats(others []types.OtherTrade) (meanPrice, exposure float64) {
	if len(others) == 0 {
		return 0, 0
	}
	var priceSum float64
	for _, t := range others {
		p := finiteOr(t.Price, 0)
		s := finiteOr(t.Size, 0)
		priceSum += p
		exposure += p * s
	}
	return priceSum / float64(len(others)), exposure
}

func volumeMomentum(meta types.MarketMetadata) float64 {
	total := finiteOr(meta.VolumeTotal, 0)
	if total <= 0 {
		return 0
	}
	return finiteOr(meta.Volume1Week, 0) / total
}

func minutesToEventStart(meta types.MarketMetadata, tradeTime time.Time) float64 {
	if meta.GameStartTime == nil {
		return 0
	}
	mins := meta.GameStartTime.Sub(tradeTime).Minutes()
	return finiteOr(mins, 0)
}

func hoursToClose(meta types.MarketMetadata, now time.Time) float64 {
	if meta.EndTime == nil {
		return defaultHoursToClose
	}
	hours := meta.EndTime.Sub(now).Hours()
	if !isFinite(hours) || hours < 0 {
		return 0
	}
	return hours
}

func marketAgeDays(meta types.MarketMetadata, now time.Time) float64 {
	if meta.StartTime == nil {
		return 0
	}
	days := now.Sub(*meta.StartTime).Hours() / 24
	if !isFinite(days) || days < 0 {
		return 0
	}
	return days
}

func ageBucket(ageDays float64) string {
	switch {
	case ageDays < 1:
		return AgeNew
	case ageDays < 7:
		return AgeRecent
	case ageDays < 30:
		return AgeEstablished
	default:
		return AgeMature
	}
}

func finiteOr(f, fallback float64) float64 {
	if !isFinite(f) {
		return fallback
	}
	return f
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func clamp(f, lo, hi float64) float64 {
	if f < lo {
		return lo
	}
	if f > hi {
		return hi
	}
	return f
}
