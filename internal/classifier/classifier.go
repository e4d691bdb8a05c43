package classifier

import (
	"strings"

	"github.com/polycopy/polyscore/pkg/types"
)

// Bet structures (wager payout shapes).
const (
	StructureStandard  = "STANDARD"
	StructureOverUnder = "OVER_UNDER"
	StructureSpread    = "SPREAD"
)

// Price brackets. Fixed thresholds: LOW below 0.35, HIGH above 0.65.
const (
	BracketLow  = "LOW"
	BracketMid  = "MID"
	BracketHigh = "HIGH"

	lowBracketMax  = 0.35
	highBracketMin = 0.65
)

// Specificity assigned per classification source. Lower is more specific.
const (
	specificityCategory = 1
	specificityTitle    = 10
	specificityNone     = 99
)

// Classification resolves a market into the waterfall's specialization
// dimensions.
type Classification struct {
	Niche        string
	MarketType   string
	BetStructure string
	PriceBracket string
	Specificity  int
	Source       string // "category", "tags", "title" or "none"
}

// Input bundles everything Classify needs. TagMatches are the persisted
// tag -> niche rows already looked up for the market's tags; Classify itself
// performs no IO and is a pure function of its inputs.
type Input struct {
	Metadata   types.MarketMetadata
	TagMatches []types.TagNiche
	EntryPrice float64
}

// Classify resolves (niche, bet structure, price bracket) for a market.
//
// Priority order: explicit category via the keyword table, then the persisted
// tag mapping with the lowest specificity, then title keywords, then OTHER.
func Classify(in Input) Classification {
	c := Classification{
		Niche:       NicheOther,
		MarketType:  TypeOther,
		Specificity: specificityNone,
		Source:      "none",
	}

	category := normalizeText(in.Metadata.Category)
	if category != "" && !strings.EqualFold(category, "other") {
		if rule, ok := matchKeywords(category); ok {
			c.Niche = rule.niche
			c.MarketType = rule.marketType
			c.Specificity = specificityCategory
			c.Source = "category"
		}
	}

	if c.Source == "none" && len(in.TagMatches) > 0 {
		best := in.TagMatches[0]
		for _, m := range in.TagMatches[1:] {
			if m.Specificity < best.Specificity {
				best = m
			}
		}
		c.Niche = best.Niche
		c.MarketType = best.MarketType
		c.Specificity = best.Specificity
		c.Source = "tags"
	}

	if c.Source == "none" {
		if rule, ok := matchKeywords(normalizeText(in.Metadata.Title)); ok {
			c.Niche = rule.niche
			c.MarketType = rule.marketType
			c.Specificity = specificityTitle
			c.Source = "title"
		}
	}

	c.BetStructure = classifyBetStructure(in.Metadata)
	c.PriceBracket = PriceBracket(in.EntryPrice)

	ClassificationsTotal.WithLabelValues(c.Source).Inc()

	return c
}

// classifyBetStructure prefers the persisted explicit value and falls back
// to title substrings.
func classifyBetStructure(meta types.MarketMetadata) string {
	switch normalizeStructure(meta.BetStructure) {
	case StructureOverUnder:
		return StructureOverUnder
	case StructureSpread:
		return StructureSpread
	case StructureStandard:
		return StructureStandard
	}

	title := normalizeText(meta.Title)
	switch {
	case strings.Contains(title, "o/u"),
		strings.Contains(title, "over/under"),
		strings.Contains(title, "total"):
		return StructureOverUnder
	case strings.Contains(title, "spread"),
		strings.Contains(title, "handicap"):
		return StructureSpread
	default:
		return StructureStandard
	}
}

// normalizeStructure maps the persisted bet-structure spellings seen across
// pipeline generations onto the canonical constants. Unknown values return "".
func normalizeStructure(s string) string {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "OVER_UNDER", "OVER/UNDER", "O/U", "TOTAL":
		return StructureOverUnder
	case "SPREAD", "HANDICAP":
		return StructureSpread
	case "STANDARD", "YES/NO", "HEAD-TO-HEAD":
		return StructureStandard
	default:
		return ""
	}
}

// PriceBracket buckets an entry price. The 0.35/0.65 thresholds are part of
// the observable contract and must not drift.
func PriceBracket(price float64) string {
	switch {
	case price < lowBracketMax:
		return BracketLow
	case price > highBracketMin:
		return BracketHigh
	default:
		return BracketMid
	}
}

// normalizeText lowercases and trims text for keyword matching.
func normalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func containsKeyword(text, keyword string) bool {
	return strings.Contains(text, keyword)
}
