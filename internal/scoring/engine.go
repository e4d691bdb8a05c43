// Package scoring orchestrates the per-trade pipeline: classification,
// waterfall resolution, feature building, model inference, slippage and
// Kelly math, verdict and narrative. One invocation scores one trade and is
// stateless apart from reads of externally-owned data.
package scoring

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/polycopy/polyscore/internal/classifier"
	"github.com/polycopy/polyscore/internal/features"
	"github.com/polycopy/polyscore/internal/markets"
	"github.com/polycopy/polyscore/internal/ml"
	"github.com/polycopy/polyscore/internal/storage"
	"github.com/polycopy/polyscore/internal/valuation"
	"github.com/polycopy/polyscore/internal/verdict"
	"github.com/polycopy/polyscore/internal/waterfall"
	"github.com/polycopy/polyscore/pkg/types"
)

// nicheExpertWinRate is the resolver win rate above which a trader counts
// as a proven specialist in the narrative.
const nicheExpertWinRate = 0.65

// Conviction multiplier bounds. The multiplier scales linearly with the
// conviction z-score and stays within a sane display range.
const (
	convictionSlope = 0.25
	convictionMin   = 0.5
	convictionMax   = 2.0
)

// Config holds the engine's tunable constants.
type Config struct {
	BankrollUSD           float64
	KellyFraction         float64
	DefaultMaxSlippagePct float64
	MinProfileSample      int64
}

// Engine scores one observed trade per invocation.
type Engine struct {
	markets   markets.Provider
	tags      storage.TagNicheStore
	traders   storage.TraderStore
	predictor ml.Predictor
	cfg       Config
	logger    *zap.Logger
}

// NewEngine creates a scoring engine.
func NewEngine(provider markets.Provider, tags storage.TagNicheStore, traders storage.TraderStore, predictor ml.Predictor, cfg Config, logger *zap.Logger) *Engine {
	return &Engine{
		markets:   provider,
		tags:      tags,
		traders:   traders,
		predictor: predictor,
		cfg:       cfg,
		logger:    logger,
	}
}

// Score evaluates one trade. Only validation failures surface as errors;
// every collaborator failure degrades to documented defaults so the caller
// always gets a fully-populated result. Now is injected so timing features
// are reproducible.
func (e *Engine) Score(ctx context.Context, req *types.ScoreRequest, now time.Time) (*types.ScoreResult, error) {
	start := time.Now()
	defer func() {
		ScoreDurationSeconds.Observe(time.Since(start).Seconds())
	}()

	if err := validateRequest(req); err != nil {
		ValidationFailuresTotal.Inc()
		return nil, err
	}

	trade := req.Trade
	meta := e.resolveMetadata(ctx, req)

	tagMatches := e.lookupTags(ctx, meta.Tags)
	class := classifier.Classify(classifier.Input{
		Metadata:   meta,
		TagMatches: tagMatches,
		EntryPrice: trade.Price,
	})

	stats, profiles := e.traderHistory(ctx, trade.WalletAddress)
	resolved := waterfall.Resolve(profiles, stats, class, e.cfg.MinProfileSample)

	fv := features.Build(features.Input{
		Trade:       trade,
		Metadata:    meta,
		Stats:       stats,
		Profiles:    profiles,
		Resolved:    resolved,
		Class:       class,
		OtherTrades: req.OtherTrades,
		Hedging:     req.Hedging,
		Now:         now,
	})

	winProb, err := e.predictor.Predict(ctx, fv)
	if err != nil {
		// degraded mode, neutral probability
		e.logger.Warn("ml-predict-degraded",
			zap.String("wallet", trade.WalletAddress),
			zap.Error(err))
		winProb = ml.NeutralProbability
	}

	spot := trade.Price
	if meta.CurrentPrice > 0 {
		spot = meta.CurrentPrice
	}

	maxSlip := req.UserSlippagePct
	if maxSlip <= 0 {
		maxSlip = e.cfg.DefaultMaxSlippagePct
	}

	quote := valuation.EstimateFill(trade.NotionalUSD(), meta.VolumeTotal, spot, maxSlip)
	edgePct := valuation.RealEdge(winProb, quote.EffectivePrice)
	sizing := valuation.KellySize(winProb, quote.EffectivePrice, e.cfg.BankrollUSD, e.cfg.KellyFraction)

	vIn := verdict.Input{
		RealEdgePct:    edgePct,
		EffectivePrice: quote.EffectivePrice,
		WinProbability: winProb,
		NicheWinRate:   resolved.WinRate,
	}
	v := verdict.Classify(vIn)
	takeaway := verdict.Narrative(verdict.Signals{
		Input:               vIn,
		SpotPrice:           spot,
		SizeTier:            fv.TradeSizeTier,
		MinutesToEventStart: fv.MinutesToEventStart,
		IsAveragingDown:     fv.IsAveragingDown,
		IsNicheExpert:       resolved.WinRate > nicheExpertWinRate,
	})

	result := &types.ScoreResult{
		ID:            uuid.New().String(),
		ConditionID:   trade.ConditionID,
		WalletAddress: trade.WalletAddress,
		Polyscore:     int(math.Round(100 * winProb)),
		Valuation: types.Valuation{
			SpotPrice:     round4(spot),
			EstimatedFill: round4(quote.EffectivePrice),
			AIFairValue:   round4(winProb),
			RealEdgePct:   round2(edgePct),
		},
		HouseInstruction: types.HouseInstruction{
			AmountUSD: round2(sizing.AmountUSD),
			Label:     sizing.Label,
		},
		Analysis: types.Analysis{
			NicheName: class.Niche,
			Verdict:   v.Label,
			Color:     v.Color,
			Icon:      v.Icon,
			Takeaway:  takeaway,
			Tactical:  tactical(trade, req.OtherTrades, fv),
			PredictionStats: types.PredictionStats{
				TradeProfile:           resolved.ProfileKey,
				DataSource:             resolved.DataSource,
				AIFairValue:            round4(winProb),
				ModelROIPct:            round2(resolved.ROIPct),
				TraderHistoricalROIPct: round2(traderROI(stats)),
				TraderWinRate:          round4(resolved.WinRate),
				TradeCount:             resolved.TradeCount,
				ConvictionMultiplier:   round2(convictionMultiplier(fv.ConvictionZScore)),
				Features:               fv,
			},
		},
		ScoredAt: now,
	}

	ScoresTotal.WithLabelValues(v.Label).Inc()

	e.logger.Info("trade-scored",
		zap.String("id", result.ID),
		zap.String("wallet", trade.WalletAddress),
		zap.String("condition-id", trade.ConditionID),
		zap.Int("polyscore", result.Polyscore),
		zap.String("verdict", v.Label),
		zap.String("data-source", resolved.DataSource))

	return result, nil
}

// resolveMetadata prefers caller-supplied market context; otherwise it goes
// through the cached provider. Nothing known yields empty metadata and the
// pipeline proceeds on defaults.
func (e *Engine) resolveMetadata(ctx context.Context, req *types.ScoreRequest) types.MarketMetadata {
	if req.MarketContext != nil {
		m := *req.MarketContext
		m.ConditionID = req.Trade.ConditionID
		return m
	}

	m, found := e.markets.GetMarket(ctx, req.Trade.ConditionID)
	if !found {
		e.logger.Debug("market-unknown",
			zap.String("condition-id", req.Trade.ConditionID))
		return types.MarketMetadata{ConditionID: req.Trade.ConditionID}
	}

	return m
}

func (e *Engine) lookupTags(ctx context.Context, tags []string) []types.TagNiche {
	if len(tags) == 0 || e.tags == nil {
		return nil
	}

	matches, err := e.tags.LookupTags(ctx, tags)
	if err != nil {
		e.logger.Warn("tag-lookup-degraded", zap.Error(err))
		return nil
	}
	return matches
}

func (e *Engine) traderHistory(ctx context.Context, wallet string) (*types.TraderGlobalStats, []types.NicheProfile) {
	var stats *types.TraderGlobalStats
	var profiles []types.NicheProfile

	if e.traders == nil {
		return nil, nil
	}

	stats, err := e.traders.GlobalStats(ctx, wallet)
	if err != nil {
		e.logger.Warn("global-stats-degraded",
			zap.String("wallet", wallet),
			zap.Error(err))
		stats = nil
	}

	profiles, err = e.traders.NicheProfiles(ctx, wallet)
	if err != nil {
		e.logger.Warn("niche-profiles-degraded",
			zap.String("wallet", wallet),
			zap.Error(err))
		profiles = nil
	}

	return stats, profiles
}

// tactical renders the short human-readable descriptors.
func tactical(trade types.Trade, others []types.OtherTrade, fv types.FeatureVector) types.Tactical {
	exposure := trade.NotionalUSD()
	for _, o := range others {
		exposure += o.Price * o.Size
	}

	timing := "No event timing available"
	if fv.MinutesToEventStart > 0 {
		timing = fmt.Sprintf("%.0f min before event start", fv.MinutesToEventStart)
	}

	return types.Tactical{
		Sequence: fmt.Sprintf("Trade %d in this market", int(fv.TradeSequence)),
		Timing:   timing,
		Exposure: fmt.Sprintf("$%.2f at risk in this market", exposure),
		Tempo:    fmt.Sprintf("%.0fs since last trade", fv.TempoSeconds),
	}
}

func traderROI(stats *types.TraderGlobalStats) float64 {
	if stats == nil {
		return 0
	}
	return stats.ROIPct
}

func convictionMultiplier(z float64) float64 {
	m := 1 + convictionSlope*z
	if m < convictionMin {
		return convictionMin
	}
	if m > convictionMax {
		return convictionMax
	}
	return m
}

func round4(f float64) float64 {
	return math.Round(f*10000) / 10000
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
