package types

// FeatureVector is the request-scoped record handed to the ML classifier.
// Every field carries a documented default when its source is absent, so the
// vector never contains NaN or Inf. Never persisted by this engine.
type FeatureVector struct {
	// Trader skill
	GlobalWinRate      float64 `json:"global_win_rate"`      // default 0.5
	NicheWinRate       float64 `json:"niche_win_rate"`       // resolver output
	LifetimeTradeCount float64 `json:"lifetime_trade_count"` // default 0

	// Trader behavior
	NicheExperiencePct float64 `json:"niche_experience_pct"` // [0,100]
	TraderSelectivity  float64 `json:"trader_selectivity"`   // [0,1]
	PriceVsTraderAvg   float64 `json:"price_vs_trader_avg"`  // (entry - hist avg) / 0.2

	// Conviction
	ConvictionZScore float64 `json:"conviction_z_score"` // clamped [-10,10]
	TradeSequence    float64 `json:"trade_sequence"`     // concurrent trades + 1

	// Behavioral flags
	TempoSeconds     float64 `json:"tempo_seconds"` // since trader's last trade
	IsChasingPriceUp bool    `json:"is_chasing_price_up"`
	IsAveragingDown  bool    `json:"is_averaging_down"`

	// Tier / ratio
	TradeSizeTier       string  `json:"trade_size_tier"` // SMALL/MEDIUM/LARGE/WHALE
	HistoricalSellRatio float64 `json:"historical_sell_ratio"`
	IsHedging           bool    `json:"is_hedging"`
	IsInBestNiche       bool    `json:"is_in_best_niche"`
	IsWithCrowd         bool    `json:"is_with_crowd"`
	MarketAgeBucket     string  `json:"market_age_bucket"`

	// Trade / market / timing descriptors
	Niche                string  `json:"niche"`
	BetStructure         string  `json:"bet_structure"`
	PositionDirection    string  `json:"position_direction"` // LONG/SHORT
	EntryPrice           float64 `json:"entry_price"`
	LogNotional          float64 `json:"log_notional"` // log(notional+1)
	LogExposure          float64 `json:"log_exposure"` // log(exposure+1)
	VolumeMomentumRatio  float64 `json:"volume_momentum_ratio"`
	LiquidityImpactRatio float64 `json:"liquidity_impact_ratio"`
	MinutesToEventStart  float64 `json:"minutes_to_event_start"`
	HoursToMarketClose   float64 `json:"hours_to_market_close"` // default 24
	MarketAgeDays        float64 `json:"market_age_days"`
}
