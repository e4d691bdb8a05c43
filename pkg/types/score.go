package types

import "time"

// House instruction labels.
const (
	LabelValueBuy     = "VALUE_BUY"
	LabelSlippageTrap = "SLIPPAGE_TRAP"
)

// Valuation is the price block of a score result. Prices are rounded to 4
// decimals, edge percentages to 2.
type Valuation struct {
	SpotPrice     float64 `json:"spot_price"`
	EstimatedFill float64 `json:"estimated_fill"`
	AIFairValue   float64 `json:"ai_fair_value"`
	RealEdgePct   float64 `json:"real_edge_pct"`
}

// HouseInstruction is the bounded fractional-Kelly bet recommendation.
// Amount is never negative.
type HouseInstruction struct {
	AmountUSD float64 `json:"amount"`
	Label     string  `json:"label"`
}

// Tactical holds short human-readable tactical descriptors.
type Tactical struct {
	Sequence string `json:"sequence"`
	Timing   string `json:"timing"`
	Exposure string `json:"exposure"`
	Tempo    string `json:"tempo"`
}

// PredictionStats carries resolver and model diagnostics.
type PredictionStats struct {
	TradeProfile           string        `json:"trade_profile"`
	DataSource             string        `json:"data_source"`
	AIFairValue            float64       `json:"ai_fair_value"`
	ModelROIPct            float64       `json:"model_roi_pct"`
	TraderHistoricalROIPct float64       `json:"trader_historical_roi_pct"`
	TraderWinRate          float64       `json:"trader_win_rate"`
	TradeCount             int64         `json:"trade_count"`
	ConvictionMultiplier   float64       `json:"conviction_multiplier"`
	Features               FeatureVector `json:"features"`
}

// Analysis is the verdict/narrative block of a score result.
type Analysis struct {
	NicheName       string          `json:"niche_name"`
	Verdict         string          `json:"verdict"`
	Color           string          `json:"color"`
	Icon            string          `json:"icon"`
	Takeaway        string          `json:"takeaway"`
	Tactical        Tactical        `json:"tactical"`
	PredictionStats PredictionStats `json:"prediction_stats"`
}

// ScoreResult is the composed output of one scoring invocation. Ephemeral;
// the caller persists it if desired.
type ScoreResult struct {
	ID               string           `json:"id"`
	ConditionID      string           `json:"condition_id"`
	WalletAddress    string           `json:"wallet_address"`
	Polyscore        int              `json:"polyscore"` // round(100 * win probability)
	Valuation        Valuation        `json:"valuation"`
	HouseInstruction HouseInstruction `json:"house_instruction"`
	Analysis         Analysis         `json:"analysis"`
	ScoredAt         time.Time        `json:"scored_at"`
}
