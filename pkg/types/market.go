package types

import "time"

// MarketMetadata is cached reference data about a market. Any field may be
// absent; consumers must substitute documented defaults.
type MarketMetadata struct {
	ConditionID   string     `json:"condition_id"`
	Title         string     `json:"title,omitempty"`
	Category      string     `json:"category,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
	BetStructure  string     `json:"bet_structure,omitempty"`
	CurrentPrice  float64    `json:"current_price,omitempty"`
	VolumeTotal   float64    `json:"volume_total,omitempty"`
	Volume1Week   float64    `json:"volume_1_week,omitempty"`
	StartTime     *time.Time `json:"start_time,omitempty"`
	EndTime       *time.Time `json:"end_time,omitempty"`
	GameStartTime *time.Time `json:"game_start_time,omitempty"`
}

// TagNiche is one row of the persisted tag -> niche mapping table.
// Lower specificity wins when several tags match.
type TagNiche struct {
	Tag         string `json:"tag"`
	Niche       string `json:"niche"`
	MarketType  string `json:"market_type"`
	Specificity int    `json:"specificity"`
}
