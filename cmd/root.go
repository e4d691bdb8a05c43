package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "polyscore",
	Short: "Per-trade scoring engine for copy trading",
	Long: `Polyscore turns one observed trader action into a risk-adjusted
recommendation: a win probability, a slippage-aware edge, a bounded
fractional-Kelly bet size, and a deterministic verdict with a
human-readable explanation.

It resolves trader skill through a four-level specialization waterfall
(specific profile, structure, niche, global fallback) and hands a fixed
feature record to a hosted ML classifier, degrading to documented
defaults whenever a collaborator is unavailable.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
