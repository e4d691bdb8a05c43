package types

import "time"

// TraderGlobalStats is the one lifetime-stats row per wallet, maintained by
// the upstream stats pipeline. Read-only to the scoring engine.
type TraderGlobalStats struct {
	Wallet        string     `json:"wallet"`
	WinRate       float64    `json:"win_rate"` // [0,1]
	ROIPct        float64    `json:"roi_pct"`
	TradeCount    int64      `json:"trade_count"`
	AvgBetSize    float64    `json:"avg_bet_size"`
	StdDevBetSize float64    `json:"std_dev_bet_size"`
	RecentWinRate float64    `json:"recent_win_rate"`
	AvgEntryPrice float64    `json:"avg_entry_price"`
	SellRatio     float64    `json:"sell_ratio"`
	TradesPerDay  float64    `json:"trades_per_day"`
	LastTradeAt   *time.Time `json:"last_trade_at,omitempty"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// NicheProfile is one specialization row per (wallet, niche, bet structure,
// price bracket). Zero-to-many rows per wallet. Read-only to this engine.
type NicheProfile struct {
	Wallet       string  `json:"wallet"`
	Niche        string  `json:"niche"`
	BetStructure string  `json:"bet_structure"`
	PriceBracket string  `json:"price_bracket"`
	WinRate      float64 `json:"win_rate"`
	ROIPct       float64 `json:"roi_pct"`
	TradeCount   int64   `json:"trade_count"`
}
