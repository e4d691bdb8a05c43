package features

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/polycopy/polyscore/internal/classifier"
	"github.com/polycopy/polyscore/internal/waterfall"
	"github.com/polycopy/polyscore/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

func baseInput() Input {
	return Input{
		Trade: types.Trade{
			WalletAddress: "0xabc",
			ConditionID:   "0xcond",
			Side:          types.SideBuy,
			Price:         0.40,
			Size:          100,
			Timestamp:     testNow,
		},
		Resolved: waterfall.Resolved{WinRate: 0.5, DataSource: waterfall.SourceGlobal},
		Class: classifier.Classification{
			Niche:        classifier.NicheNBA,
			BetStructure: classifier.StructureStandard,
			PriceBracket: classifier.BracketMid,
		},
		Now: testNow,
	}
}

// assertNoNonFinite walks every float field of the vector.
func assertNoNonFinite(t *testing.T, fv types.FeatureVector) {
	t.Helper()
	v := reflect.ValueOf(fv)
	for i := 0; i < v.NumField(); i++ {
		if v.Field(i).Kind() != reflect.Float64 {
			continue
		}
		f := v.Field(i).Float()
		name := v.Type().Field(i).Name
		require.False(t, math.IsNaN(f), "field %s is NaN", name)
		require.False(t, math.IsInf(f, 0), "field %s is Inf", name)
	}
}

func TestBuild_EmptyContextProducesDefaults(t *testing.T) {
	fv := Build(baseInput())

	assertNoNonFinite(t, fv)
	assert.Equal(t, 0.5, fv.GlobalWinRate)
	assert.Equal(t, 0.0, fv.LifetimeTradeCount)
	assert.Equal(t, defaultSelectivity, fv.TraderSelectivity)
	assert.Equal(t, float64(defaultTempoSeconds), fv.TempoSeconds)
	assert.Equal(t, float64(defaultHoursToClose), fv.HoursToMarketClose)
	assert.Equal(t, 0.0, fv.MarketAgeDays)
	assert.Equal(t, AgeNew, fv.MarketAgeBucket)
	assert.Equal(t, 1.0, fv.TradeSequence)
	assert.Equal(t, DirectionLong, fv.PositionDirection)
	assert.Equal(t, classifier.NicheNBA, fv.Niche)
}

func TestBuild_PoisonedStatsProduceNoNaN(t *testing.T) {
	in := baseInput()
	in.Stats = &types.TraderGlobalStats{
		WinRate:       math.NaN(),
		ROIPct:        math.Inf(1),
		AvgBetSize:    math.NaN(),
		StdDevBetSize: math.Inf(-1),
		AvgEntryPrice: math.NaN(),
		TradesPerDay:  math.Inf(1),
		SellRatio:     math.NaN(),
	}
	in.Metadata = types.MarketMetadata{VolumeTotal: math.NaN(), Volume1Week: math.Inf(1)}

	fv := Build(in)

	assertNoNonFinite(t, fv)
	assert.Equal(t, 0.5, fv.GlobalWinRate)
	assert.Equal(t, 0.0, fv.ConvictionZScore)
	assert.Equal(t, 0.0, fv.PriceVsTraderAvg)
}

func TestBuild_ConvictionZClamped(t *testing.T) {
	in := baseInput()
	in.Trade.Price = 1.0
	in.Trade.Size = 1_000_000
	in.Stats = &types.TraderGlobalStats{AvgBetSize: 10, StdDevBetSize: 5}

	fv := Build(in)

	assert.Equal(t, 10.0, fv.ConvictionZScore)

	in.Trade.Size = 0.001
	fv = Build(in)
	assert.GreaterOrEqual(t, fv.ConvictionZScore, -10.0)
}

func TestBuild_SelectivityClamped(t *testing.T) {
	in := baseInput()
	in.Stats = &types.TraderGlobalStats{TradesPerDay: 0.1}

	fv := Build(in)

	assert.InDelta(t, 1/1.1, fv.TraderSelectivity, 1e-9)

	in.Stats.TradesPerDay = 500
	fv = Build(in)
	assert.Less(t, fv.TraderSelectivity, 0.01)
	assert.GreaterOrEqual(t, fv.TraderSelectivity, 0.0)
}

func TestBuild_AveragingDownAndChasing(t *testing.T) {
	in := baseInput()
	in.OtherTrades = []types.OtherTrade{
		{Price: 0.60, Size: 50, Timestamp: testNow.Add(-time.Minute)},
		{Price: 0.50, Size: 50, Timestamp: testNow.Add(-2 * time.Minute)},
	}
	in.Trade.Price = 0.40 // below the 0.55 mean

	fv := Build(in)
	assert.True(t, fv.IsAveragingDown)
	assert.False(t, fv.IsChasingPriceUp)
	assert.Equal(t, 3.0, fv.TradeSequence)

	in.Trade.Price = 0.70 // above the mean
	fv = Build(in)
	assert.False(t, fv.IsAveragingDown)
	assert.True(t, fv.IsChasingPriceUp)
}

func TestBuild_NicheExperienceAndBestNiche(t *testing.T) {
	in := baseInput()
	in.Profiles = []types.NicheProfile{
		{Niche: classifier.NicheNBA, WinRate: 0.70, TradeCount: 30},
		{Niche: classifier.NicheCrypto, WinRate: 0.55, TradeCount: 70},
	}

	fv := Build(in)

	assert.InDelta(t, 30.0, fv.NicheExperiencePct, 1e-9)
	assert.True(t, fv.IsInBestNiche)

	// Thin profiles (under 10 trades) never qualify as best niche.
	in.Profiles = []types.NicheProfile{
		{Niche: classifier.NicheNBA, WinRate: 0.90, TradeCount: 3},
	}
	fv = Build(in)
	assert.False(t, fv.IsInBestNiche)
}

func TestBuild_WithCrowdHeuristic(t *testing.T) {
	in := baseInput()

	in.Trade.Price = 0.70
	assert.True(t, Build(in).IsWithCrowd, "BUY above 0.5 is with the crowd")

	in.Trade.Price = 0.30
	assert.False(t, Build(in).IsWithCrowd)

	in.Trade.Side = types.SideSell
	assert.True(t, Build(in).IsWithCrowd, "SELL below 0.5 is with the crowd")
}

func TestBuild_SizeTiers(t *testing.T) {
	tests := []struct {
		impact float64
		tier   string
	}{
		{0.0001, TierSmall},
		{0.005, TierMedium},
		{0.02, TierLarge},
		{0.10, TierWhale},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.tier, SizeTier(tt.impact), "impact %f", tt.impact)
	}
}

func TestBuild_TimingFeatures(t *testing.T) {
	in := baseInput()
	start := testNow.Add(-48 * time.Hour)
	gameStart := testNow.Add(90 * time.Minute)
	end := testNow.Add(6 * time.Hour)
	last := testNow.Add(-10 * time.Minute)

	in.Metadata = types.MarketMetadata{
		StartTime:     &start,
		GameStartTime: &gameStart,
		EndTime:       &end,
		VolumeTotal:   250_000,
		Volume1Week:   50_000,
	}
	in.Stats = &types.TraderGlobalStats{LastTradeAt: &last}

	fv := Build(in)

	assert.InDelta(t, 90, fv.MinutesToEventStart, 1e-9)
	assert.InDelta(t, 6, fv.HoursToMarketClose, 1e-9)
	assert.InDelta(t, 2, fv.MarketAgeDays, 1e-9)
	assert.Equal(t, AgeRecent, fv.MarketAgeBucket)
	assert.InDelta(t, 600, fv.TempoSeconds, 1e-9)
	assert.InDelta(t, 0.2, fv.VolumeMomentumRatio, 1e-9)
	assert.InDelta(t, 40.0/250_000, fv.LiquidityImpactRatio, 1e-12)
}

func TestBuild_ExpiredMarketClampsToZeroHours(t *testing.T) {
	in := baseInput()
	end := testNow.Add(-time.Hour)
	in.Metadata.EndTime = &end

	assert.Equal(t, 0.0, Build(in).HoursToMarketClose)
}
