// Package valuation holds the financial risk math: slippage-aware fill
// estimation, model edge, and fractional-Kelly position sizing. All functions
// are pure, deterministic, and bounded.
package valuation

import "math"

// Slippage model constants.
const (
	// impactVolumeFloor keeps the impact factor sane in illiquid markets.
	impactVolumeFloor = 1000.0

	// impactToSlippage converts the liquidity impact factor into an
	// estimated slippage fraction.
	impactToSlippage = 0.3

	// minSlippage is the floor on estimated slippage: no fill is free.
	minSlippage = 0.001 // 0.1%

	// maxFillPrice caps the estimated fill; a share can't cost more than
	// it pays out, and 0.99 mirrors the historical backtest cap.
	maxFillPrice = 0.99
)

// Quote is the slippage-adjusted view of one trade.
type Quote struct {
	SpotPrice      float64
	ImpactFactor   float64
	SlippagePct    float64 // fraction, e.g. 0.001 == 0.1%
	EffectivePrice float64
}

// EstimateFill derives the effective fill price for a trade of the given
// notional against a market's total volume. maxSlippagePct is the
// user-configurable cap in percent (e.g. 5 for 5%).
func EstimateFill(notional, volumeTotal, spotPrice, maxSlippagePct float64) Quote {
	impact := notional / math.Max(volumeTotal, impactVolumeFloor)

	maxSlippage := maxSlippagePct / 100
	slippage := clamp(impact*impactToSlippage, minSlippage, maxSlippage)

	effective := spotPrice * (1 + slippage)
	if effective > maxFillPrice {
		// Never report a fill below spot: the cap only bites when spot
		// itself is already near the ceiling.
		effective = math.Max(spotPrice, maxFillPrice)
	}

	return Quote{
		SpotPrice:      spotPrice,
		ImpactFactor:   impact,
		SlippagePct:    slippage,
		EffectivePrice: effective,
	}
}

// RealEdge returns the percentage gap between the model's fair value and the
// price actually achievable after slippage. Zero when the effective price is
// degenerate.
func RealEdge(winProbability, effectivePrice float64) float64 {
	if effectivePrice <= 0 {
		return 0
	}
	return (winProbability/effectivePrice - 1) * 100
}

func clamp(f, lo, hi float64) float64 {
	if f < lo {
		return lo
	}
	if f > hi {
		return hi
	}
	return f
}
