package valuation

import "github.com/polycopy/polyscore/pkg/types"

// Sizing is the bounded bet recommendation for one trade.
type Sizing struct {
	KellyEdge float64
	AmountUSD float64
	Label     string
}

// KellySize converts a probabilistic edge into a fractional-Kelly bet
// against a fixed bankroll. The raw Kelly edge for a binary contract priced
// at p with win probability w is (w - p) / (1 - p), defined only for
// 0 < p < 1. A non-positive edge yields a zero amount and the SLIPPAGE_TRAP
// label; the amount is never negative.
func KellySize(winProbability, effectivePrice, bankrollUSD, fraction float64) Sizing {
	var edge float64
	if effectivePrice > 0 && effectivePrice < 1 {
		edge = (winProbability - effectivePrice) / (1 - effectivePrice)
	}

	if edge <= 0 {
		return Sizing{
			KellyEdge: edge,
			AmountUSD: 0,
			Label:     types.LabelSlippageTrap,
		}
	}

	return Sizing{
		KellyEdge: edge,
		AmountUSD: bankrollUSD * edge * fraction,
		Label:     types.LabelValueBuy,
	}
}
