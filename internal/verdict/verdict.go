// Package verdict maps a scored trade onto a fixed set of verdicts and a
// deterministic explanation string. Both the decision table and the signal
// order are part of the observable contract.
package verdict

// Verdict labels.
const (
	NegativeExpectedValue = "NEGATIVE_EXPECTED_VALUE"
	InstitutionalAlpha    = "INSTITUTIONAL_ALPHA"
	StrategicValue        = "STRATEGIC_VALUE"
	NegativeEdge          = "NEGATIVE_EDGE"
	FairMarketValue       = "FAIR_MARKET_VALUE"
)

// Decision thresholds.
const (
	alphaEdgePct    = 15.0
	alphaNicheWin   = 0.65
	valueEdgePct    = 5.0
	negativeEdgePct = -5.0
)

// Verdict is one deterministic classification with its display attributes.
type Verdict struct {
	Label string
	Color string
	Icon  string
}

// Input carries everything the decision table reads.
type Input struct {
	RealEdgePct    float64
	EffectivePrice float64
	WinProbability float64
	NicheWinRate   float64
}

// rule is one row of the first-match decision table.
type rule struct {
	match   func(Input) bool
	verdict Verdict
}

// rules is evaluated strictly in order; the first match wins.
var rules = []rule{
	{
		match:   func(in Input) bool { return in.EffectivePrice > in.WinProbability },
		verdict: Verdict{NegativeExpectedValue, "red", "🚫"},
	},
	{
		match:   func(in Input) bool { return in.RealEdgePct > alphaEdgePct && in.NicheWinRate > alphaNicheWin },
		verdict: Verdict{InstitutionalAlpha, "emerald", "🏛️"},
	},
	{
		match:   func(in Input) bool { return in.RealEdgePct > valueEdgePct },
		verdict: Verdict{StrategicValue, "green", "📈"},
	},
	{
		match:   func(in Input) bool { return in.RealEdgePct < negativeEdgePct },
		verdict: Verdict{NegativeEdge, "orange", "⚠️"},
	},
}

var fairMarket = Verdict{FairMarketValue, "slate", "⚖️"}

// Classify runs the first-match decision table.
func Classify(in Input) Verdict {
	for _, r := range rules {
		if r.match(in) {
			return r.verdict
		}
	}
	return fairMarket
}
