// Package waterfall resolves a trader's win-rate/ROI estimate by
// progressively relaxing specificity until a minimum sample size is met.
package waterfall

import (
	"math"
	"strings"

	"github.com/polycopy/polyscore/internal/classifier"
	"github.com/polycopy/polyscore/pkg/types"
)

// Data sources, from most to least specific. Part of the observable contract.
const (
	SourceSpecific  = "Specific Profile"
	SourceStructure = "Structure-Specific"
	SourceNiche     = "Niche-Specific"
	SourceGlobal    = "Global Fallback"
)

// Defaults used when no usable statistics exist at any level.
const (
	DefaultWinRate = 0.5
	DefaultROIPct  = 0.0
)

// Resolved is the waterfall's output: the best available estimate plus
// provenance.
type Resolved struct {
	WinRate    float64
	ROIPct     float64
	TradeCount int64
	DataSource string
	ProfileKey string
}

// level is one rung of the waterfall: a predicate over profile rows plus the
// profile key it reports. Levels are evaluated lazily in order; a level that
// matches rows but misses the sample threshold does not short-circuit to
// global, evaluation continues with the next, less specific level.
type level struct {
	source string
	key    string
	match  func(p types.NicheProfile) bool
	direct bool // return the single row's own value, never an aggregate
}

// Resolve walks the four-level waterfall for one classified trade.
// minSample gates every profile level; the global level always returns.
func Resolve(profiles []types.NicheProfile, global *types.TraderGlobalStats, c classifier.Classification, minSample int64) Resolved {
	levels := []level{
		{
			source: SourceSpecific,
			key:    profileKey(c.Niche, c.BetStructure, c.PriceBracket),
			direct: true,
			match: func(p types.NicheProfile) bool {
				return p.Niche == c.Niche && p.BetStructure == c.BetStructure && p.PriceBracket == c.PriceBracket
			},
		},
		{
			source: SourceStructure,
			key:    profileKey(c.Niche, c.BetStructure),
			match: func(p types.NicheProfile) bool {
				return p.Niche == c.Niche && p.BetStructure == c.BetStructure
			},
		},
		{
			source: SourceNiche,
			key:    profileKey(c.Niche),
			match: func(p types.NicheProfile) bool {
				return p.Niche == c.Niche
			},
		},
	}

	usable := usableProfiles(profiles)

	for _, lvl := range levels {
		matched := filterProfiles(usable, lvl.match)
		if len(matched) == 0 {
			continue
		}

		if lvl.direct {
			row := matched[0]
			if row.TradeCount >= minSample {
				ResolutionsTotal.WithLabelValues(lvl.source).Inc()
				return Resolved{
					WinRate:    row.WinRate,
					ROIPct:     row.ROIPct,
					TradeCount: row.TradeCount,
					DataSource: lvl.source,
					ProfileKey: lvl.key,
				}
			}
			continue
		}

		winRate, roiPct, count := aggregateProfiles(matched)
		if count >= minSample {
			ResolutionsTotal.WithLabelValues(lvl.source).Inc()
			return Resolved{
				WinRate:    winRate,
				ROIPct:     roiPct,
				TradeCount: count,
				DataSource: lvl.source,
				ProfileKey: lvl.key,
			}
		}
	}

	ResolutionsTotal.WithLabelValues(SourceGlobal).Inc()
	return resolveGlobal(global)
}

// resolveGlobal is the terminal level: always returns, substituting the
// documented defaults when the stats row is absent or unusable.
func resolveGlobal(global *types.TraderGlobalStats) Resolved {
	r := Resolved{
		WinRate:    DefaultWinRate,
		ROIPct:     DefaultROIPct,
		TradeCount: 0,
		DataSource: SourceGlobal,
		ProfileKey: "GLOBAL",
	}

	if global == nil {
		return r
	}

	if isFinite(global.WinRate) && global.WinRate >= 0 && global.WinRate <= 1 {
		r.WinRate = global.WinRate
	}
	if isFinite(global.ROIPct) {
		r.ROIPct = global.ROIPct
	}
	if global.TradeCount > 0 {
		r.TradeCount = global.TradeCount
	}

	return r
}

// aggregateProfiles computes count-weighted win rate and ROI across rows.
// Zero total count yields the documented defaults.
func aggregateProfiles(rows []types.NicheProfile) (winRate, roiPct float64, count int64) {
	var winSum, roiSum float64
	for _, p := range rows {
		winSum += float64(p.TradeCount) * p.WinRate
		roiSum += float64(p.TradeCount) * p.ROIPct
		count += p.TradeCount
	}

	if count == 0 {
		return DefaultWinRate, DefaultROIPct, 0
	}

	return winSum / float64(count), roiSum / float64(count), count
}

// usableProfiles drops rows with non-finite or out-of-range statistics.
// Alias normalization happens at the storage adapter; this is the resolver's
// last line of defense against data-quality anomalies.
func usableProfiles(profiles []types.NicheProfile) []types.NicheProfile {
	out := make([]types.NicheProfile, 0, len(profiles))
	for _, p := range profiles {
		if !isFinite(p.WinRate) || p.WinRate < 0 || p.WinRate > 1 {
			continue
		}
		if !isFinite(p.ROIPct) {
			continue
		}
		if p.TradeCount < 0 {
			continue
		}
		out = append(out, p)
	}
	return out
}

func filterProfiles(profiles []types.NicheProfile, match func(types.NicheProfile) bool) []types.NicheProfile {
	var out []types.NicheProfile
	for _, p := range profiles {
		if match(p) {
			out = append(out, p)
		}
	}
	return out
}

func profileKey(parts ...string) string {
	return strings.Join(parts, "|")
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
