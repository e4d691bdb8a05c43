package verdict

import (
	"fmt"
	"strings"
)

// Signals are the independent narrative checks. Each fired signal contributes
// one sentence; sentences are concatenated in the fixed priority order below.
type Signals struct {
	Input

	SpotPrice           float64
	SizeTier            string // SMALL/MEDIUM/LARGE/WHALE
	MinutesToEventStart float64
	IsAveragingDown     bool
	IsNicheExpert       bool // resolver niche win rate above the alpha bar
}

// signalCheck is one ordered narrative check.
type signalCheck struct {
	fires    func(Signals) bool
	sentence func(Signals) string
}

func isLargeTier(tier string) bool {
	return tier == "LARGE" || tier == "WHALE"
}

// narrativeChecks run in priority order. The order is observable behavior:
// reordering changes output strings.
var narrativeChecks = []signalCheck{
	{
		// Slippage trap: the model likes the market at spot, but the
		// achievable fill erases the edge.
		fires: func(s Signals) bool {
			return s.WinProbability > s.SpotPrice && s.EffectivePrice >= s.WinProbability
		},
		sentence: func(s Signals) string {
			return fmt.Sprintf("Slippage trap: fair value %.2f beats the %.4f spot, but the estimated %.4f fill erases the edge.",
				s.WinProbability, s.SpotPrice, s.EffectivePrice)
		},
	},
	{
		// Niche expert taking value.
		fires: func(s Signals) bool {
			return s.IsNicheExpert && s.RealEdgePct > valueEdgePct
		},
		sentence: func(s Signals) string {
			return fmt.Sprintf("A proven specialist (%.0f%% niche win rate) is taking a %.1f%% edge.",
				s.NicheWinRate*100, s.RealEdgePct)
		},
	},
	{
		// Large size close to the event start.
		fires: func(s Signals) bool {
			return isLargeTier(s.SizeTier) && s.MinutesToEventStart > 0 && s.MinutesToEventStart <= 60
		},
		sentence: func(s Signals) string {
			return fmt.Sprintf("%s-sized position placed %.0f minutes before the event starts.",
				s.SizeTier, s.MinutesToEventStart)
		},
	},
	{
		// Averaging down across concurrent trades.
		fires: func(s Signals) bool { return s.IsAveragingDown },
		sentence: func(s Signals) string {
			return "The trader is averaging down into a falling price."
		},
	},
	{
		// Big money overpaying.
		fires: func(s Signals) bool {
			return isLargeTier(s.SizeTier) && s.RealEdgePct < negativeEdgePct
		},
		sentence: func(s Signals) string {
			return fmt.Sprintf("%s-sized trader paying %.1f%% over model fair value.",
				s.SizeTier, -s.RealEdgePct)
		},
	},
}

// Narrative concatenates fired signal sentences in priority order, or
// synthesizes a default sentence when nothing fires.
func Narrative(s Signals) string {
	var sentences []string
	for _, check := range narrativeChecks {
		if check.fires(s) {
			sentences = append(sentences, check.sentence(s))
		}
	}

	if len(sentences) == 0 {
		return defaultSentence(s)
	}

	return strings.Join(sentences, " ")
}

func defaultSentence(s Signals) string {
	stance := "in line with"
	if s.RealEdgePct > 0 {
		stance = "below"
	} else if s.RealEdgePct < 0 {
		stance = "above"
	}
	return fmt.Sprintf("Model fair value %.2f against an estimated %.4f fill; the market is priced %s the model.",
		s.WinProbability, s.EffectivePrice, stance)
}
