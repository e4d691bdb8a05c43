package types

import "time"

// Trade sides as reported by the trade feed.
const (
	SideBuy  = "BUY"
	SideSell = "SELL"
)

// Trade represents a single observed trader action.
type Trade struct {
	WalletAddress string    `json:"wallet_address"`
	ConditionID   string    `json:"condition_id"`
	TokenLabel    string    `json:"token_label,omitempty"`
	Side          string    `json:"side,omitempty"` // "BUY" or "SELL"; defaults to BUY
	Price         float64   `json:"price"`          // must be in (0, 1]
	Size          float64   `json:"size"`           // share count, must be > 0
	Timestamp     time.Time `json:"timestamp"`
}

// NotionalUSD returns the dollar value of the trade.
func (t *Trade) NotionalUSD() float64 {
	return t.Price * t.Size
}

// IsSell reports whether the trade reduces a position.
func (t *Trade) IsSell() bool {
	return t.Side == SideSell
}

// OtherTrade is a sibling trade by the same trader, used for conviction
// and averaging-down features.
type OtherTrade struct {
	Price     float64   `json:"price"`
	Size      float64   `json:"size"`
	Timestamp time.Time `json:"timestamp"`
}

// HedgingInfo is a caller-supplied signal that the trader holds an
// offsetting position elsewhere.
type HedgingInfo struct {
	IsHedging bool `json:"isHedging"`
}

// ScoreRequest is the engine's single entry point payload.
type ScoreRequest struct {
	Trade         Trade           `json:"trade"`
	MarketContext *MarketMetadata `json:"market_context,omitempty"`
	OtherTrades   []OtherTrade    `json:"other_trades,omitempty"`
	Hedging       *HedgingInfo    `json:"hedging_info,omitempty"`

	// UserSlippagePct caps the estimated slippage, in percent.
	// Zero means the configured default (5%).
	UserSlippagePct float64 `json:"user_slippage,omitempty"`
}
