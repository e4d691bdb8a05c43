package scoring

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/polycopy/polyscore/internal/storage"
	"github.com/polycopy/polyscore/pkg/types"
)

const testWallet = "0x1f9090aaE28b8a3dCeaDf281B0F12828e676c326"

var testNow = time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

type stubPredictor struct {
	prob     float64
	err      error
	features *types.FeatureVector
}

func (s *stubPredictor) Predict(ctx context.Context, fv types.FeatureVector) (float64, error) {
	s.features = &fv
	if s.err != nil {
		return 0.5, s.err
	}
	return s.prob, nil
}

type staticProvider struct {
	market types.MarketMetadata
	found  bool
}

func (p *staticProvider) GetMarket(ctx context.Context, conditionID string) (types.MarketMetadata, bool) {
	return p.market, p.found
}

func defaultConfig() Config {
	return Config{
		BankrollUSD:           4000,
		KellyFraction:         0.25,
		DefaultMaxSlippagePct: 5.0,
		MinProfileSample:      5,
	}
}

func newTestEngine(t *testing.T, provider *staticProvider, store *storage.MemoryStorage, predictor *stubPredictor) *Engine {
	t.Helper()
	if store == nil {
		store = storage.NewMemoryStorage(zap.NewNop())
	}
	return NewEngine(provider, store, store, predictor, defaultConfig(), zap.NewNop())
}

func validRequest() *types.ScoreRequest {
	return &types.ScoreRequest{
		Trade: types.Trade{
			WalletAddress: testWallet,
			ConditionID:   "0xcond",
			Side:          types.SideBuy,
			Price:         0.30,
			Size:          100,
			Timestamp:     testNow.Add(-time.Minute),
		},
		MarketContext: &types.MarketMetadata{
			Title:       "Lakers vs Celtics O/U 220.5",
			Category:    "NBA",
			VolumeTotal: 100000,
		},
	}
}

func TestScore_ThinMarketValue(t *testing.T) {
	predictor := &stubPredictor{prob: 0.55}
	eng := newTestEngine(t, &staticProvider{}, nil, predictor)

	res, err := eng.Score(context.Background(), validRequest(), testNow)
	require.NoError(t, err)

	// $30 against $100k volume: impact far below the slippage floor
	assert.Equal(t, 0.30, res.Valuation.SpotPrice)
	assert.Equal(t, 0.3003, res.Valuation.EstimatedFill)
	assert.Equal(t, 0.55, res.Valuation.AIFairValue)
	assert.Equal(t, 83.15, res.Valuation.RealEdgePct)
	assert.Equal(t, 55, res.Polyscore)

	// unknown trader stays at the neutral niche win rate, so the verdict
	// lands one rung below the alpha tier
	assert.Equal(t, "STRATEGIC_VALUE", res.Analysis.Verdict)
	assert.Equal(t, types.LabelValueBuy, res.HouseInstruction.Label)
	assert.Greater(t, res.HouseInstruction.AmountUSD, 0.0)

	assert.Equal(t, "NBA", res.Analysis.NicheName)
	assert.Equal(t, "Global Fallback", res.Analysis.PredictionStats.DataSource)
	assert.NotEmpty(t, res.ID)
	assert.Equal(t, testNow, res.ScoredAt)
}

func TestScore_ProvenSpecialistUpgradesToAlpha(t *testing.T) {
	store := storage.NewMemoryStorage(zap.NewNop())
	store.PutNicheProfile(types.NicheProfile{
		Wallet:       testWallet,
		Niche:        "NBA",
		BetStructure: "OVER_UNDER",
		PriceBracket: "LOW",
		WinRate:      0.72,
		ROIPct:       18,
		TradeCount:   40,
	})

	predictor := &stubPredictor{prob: 0.55}
	eng := newTestEngine(t, &staticProvider{}, store, predictor)

	res, err := eng.Score(context.Background(), validRequest(), testNow)
	require.NoError(t, err)

	assert.Equal(t, "INSTITUTIONAL_ALPHA", res.Analysis.Verdict)
	assert.Equal(t, "Specific Profile", res.Analysis.PredictionStats.DataSource)
	assert.Equal(t, "NBA|OVER_UNDER|LOW", res.Analysis.PredictionStats.TradeProfile)
	assert.Equal(t, 0.72, res.Analysis.PredictionStats.TraderWinRate)
	assert.Equal(t, int64(40), res.Analysis.PredictionStats.TradeCount)
}

func TestScore_SlippageTrap(t *testing.T) {
	// spot 0.6667 with max slippage forced high enough to push the fill to
	// 0.70, against a 0.60 win probability
	req := validRequest()
	req.Trade.Price = 0.6667
	req.Trade.Size = 30000
	req.UserSlippagePct = 5
	req.MarketContext.VolumeTotal = 1000

	predictor := &stubPredictor{prob: 0.60}
	eng := newTestEngine(t, &staticProvider{}, nil, predictor)

	res, err := eng.Score(context.Background(), req, testNow)
	require.NoError(t, err)

	assert.Equal(t, 0.7, res.Valuation.EstimatedFill)
	assert.Equal(t, "NEGATIVE_EXPECTED_VALUE", res.Analysis.Verdict)
	assert.Equal(t, types.LabelSlippageTrap, res.HouseInstruction.Label)
	assert.Zero(t, res.HouseInstruction.AmountUSD)
}

func TestScore_UnknownTraderUsesGlobalFallback(t *testing.T) {
	predictor := &stubPredictor{prob: 0.5}
	eng := newTestEngine(t, &staticProvider{}, nil, predictor)

	res, err := eng.Score(context.Background(), validRequest(), testNow)
	require.NoError(t, err)

	ps := res.Analysis.PredictionStats
	assert.Equal(t, "Global Fallback", ps.DataSource)
	assert.Equal(t, "GLOBAL", ps.TradeProfile)
	assert.Equal(t, 0.5, ps.TraderWinRate)
	assert.Zero(t, ps.ModelROIPct)
	assert.Zero(t, ps.TradeCount)
}

func TestScore_PolyscoreMatchesFairValue(t *testing.T) {
	for _, prob := range []float64{0, 0.004, 0.333, 0.5, 0.666, 0.995, 1} {
		predictor := &stubPredictor{prob: prob}
		eng := newTestEngine(t, &staticProvider{}, nil, predictor)

		res, err := eng.Score(context.Background(), validRequest(), testNow)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, res.Polyscore, 0)
		assert.LessOrEqual(t, res.Polyscore, 100)
		assert.Equal(t, int(math.Round(100*prob)), res.Polyscore)
	}
}

func TestScore_PredictorFailureDegradesToNeutral(t *testing.T) {
	predictor := &stubPredictor{err: errors.New("model down")}
	eng := newTestEngine(t, &staticProvider{}, nil, predictor)

	res, err := eng.Score(context.Background(), validRequest(), testNow)
	require.NoError(t, err)

	assert.Equal(t, 50, res.Polyscore)
	assert.Equal(t, 0.5, res.Valuation.AIFairValue)
}

func TestScore_EmptyMarketContext(t *testing.T) {
	req := &types.ScoreRequest{
		Trade: types.Trade{
			WalletAddress: testWallet,
			ConditionID:   "0xcond",
			Price:         0.4,
			Size:          10,
			Timestamp:     testNow.Add(-time.Hour),
		},
	}

	predictor := &stubPredictor{prob: 0.5}
	eng := newTestEngine(t, &staticProvider{}, nil, predictor)

	res, err := eng.Score(context.Background(), req, testNow)
	require.NoError(t, err)

	assert.Equal(t, "OTHER", res.Analysis.NicheName)
	assert.Equal(t, 0.4, res.Valuation.SpotPrice)
	assert.NotEmpty(t, res.Analysis.Takeaway)

	// the vector handed to the model never carries NaN
	require.NotNil(t, predictor.features)
	fv := *predictor.features
	for _, f := range []float64{
		fv.GlobalWinRate, fv.NicheWinRate, fv.TraderSelectivity,
		fv.ConvictionZScore, fv.TempoSeconds, fv.LogNotional,
		fv.VolumeMomentumRatio, fv.HoursToMarketClose, fv.MarketAgeDays,
	} {
		assert.False(t, math.IsNaN(f) || math.IsInf(f, 0))
	}
}

func TestScore_MetadataFromProvider(t *testing.T) {
	provider := &staticProvider{
		market: types.MarketMetadata{
			ConditionID:  "0xcond",
			Title:        "Bitcoin above $100k by March?",
			Category:     "Crypto",
			CurrentPrice: 0.45,
			VolumeTotal:  50000,
		},
		found: true,
	}

	req := validRequest()
	req.MarketContext = nil

	predictor := &stubPredictor{prob: 0.5}
	eng := newTestEngine(t, provider, nil, predictor)

	res, err := eng.Score(context.Background(), req, testNow)
	require.NoError(t, err)

	assert.Equal(t, "CRYPTO", res.Analysis.NicheName)
	assert.Equal(t, 0.45, res.Valuation.SpotPrice)
}

func TestScore_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*types.ScoreRequest)
		fields []string
	}{
		{
			name:   "missing wallet",
			mutate: func(r *types.ScoreRequest) { r.Trade.WalletAddress = "" },
			fields: []string{"wallet_address"},
		},
		{
			name:   "malformed wallet",
			mutate: func(r *types.ScoreRequest) { r.Trade.WalletAddress = "not-an-address" },
			fields: []string{"wallet_address"},
		},
		{
			name:   "price out of range",
			mutate: func(r *types.ScoreRequest) { r.Trade.Price = 1.2 },
			fields: []string{"price"},
		},
		{
			name:   "zero size",
			mutate: func(r *types.ScoreRequest) { r.Trade.Size = 0 },
			fields: []string{"size"},
		},
		{
			name:   "nan price",
			mutate: func(r *types.ScoreRequest) { r.Trade.Price = math.NaN() },
			fields: []string{"price"},
		},
		{
			name:   "bad side",
			mutate: func(r *types.ScoreRequest) { r.Trade.Side = "HOLD" },
			fields: []string{"side"},
		},
		{
			name:   "negative slippage",
			mutate: func(r *types.ScoreRequest) { r.UserSlippagePct = -1 },
			fields: []string{"user_slippage"},
		},
		{
			name: "multiple fields in one error",
			mutate: func(r *types.ScoreRequest) {
				r.Trade.ConditionID = ""
				r.Trade.Size = -5
			},
			fields: []string{"condition_id", "size"},
		},
	}

	predictor := &stubPredictor{prob: 0.5}
	eng := newTestEngine(t, &staticProvider{}, nil, predictor)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			res, err := eng.Score(context.Background(), req, testNow)
			require.Error(t, err)
			assert.Nil(t, res)

			verr, ok := types.AsValidationError(err)
			require.True(t, ok)
			assert.Equal(t, tt.fields, verr.Fields)
		})
	}
}

func TestScore_DeterministicForIdenticalInput(t *testing.T) {
	predictor := &stubPredictor{prob: 0.55}
	eng := newTestEngine(t, &staticProvider{}, nil, predictor)

	a, err := eng.Score(context.Background(), validRequest(), testNow)
	require.NoError(t, err)
	b, err := eng.Score(context.Background(), validRequest(), testNow)
	require.NoError(t, err)

	// UUIDs differ, everything else must not
	a.ID = ""
	b.ID = ""
	assert.Equal(t, a, b)
}

func TestConvictionMultiplier(t *testing.T) {
	assert.Equal(t, 1.0, convictionMultiplier(0))
	assert.Equal(t, 1.5, convictionMultiplier(2))
	assert.Equal(t, 2.0, convictionMultiplier(8))
	assert.Equal(t, 0.5, convictionMultiplier(-6))
}
