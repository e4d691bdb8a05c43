package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/polycopy/polyscore/pkg/types"
)

// ConsoleWriter pretty-prints score results to console. Used by the
// one-shot CLI mode.
type ConsoleWriter struct {
	logger *zap.Logger
}

// NewConsoleWriter creates a new console writer.
func NewConsoleWriter(logger *zap.Logger) *ConsoleWriter {
	logger.Info("console-writer-initialized")
	return &ConsoleWriter{
		logger: logger,
	}
}

// WriteResult pretty-prints a score result to console.
func (c *ConsoleWriter) WriteResult(ctx context.Context, res *types.ScoreResult) error {
	fmt.Println("\n" + "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("%s  %s\n", res.Analysis.Icon, res.Analysis.Verdict)
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("ID:        %s\n", res.ID[:8])
	fmt.Printf("Market:    %s\n", res.ConditionID)
	fmt.Printf("Trader:    %s\n", res.WalletAddress)
	fmt.Printf("Time:      %s\n", res.ScoredAt.Format("2006-01-02 15:04:05"))
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("📊 VALUATION\n")
	fmt.Printf("  Polyscore:       %d / 100\n", res.Polyscore)
	fmt.Printf("  Spot Price:      %.4f\n", res.Valuation.SpotPrice)
	fmt.Printf("  Estimated Fill:  %.4f\n", res.Valuation.EstimatedFill)
	fmt.Printf("  Fair Value:      %.4f\n", res.Valuation.AIFairValue)
	fmt.Printf("  Real Edge:       %.2f%%\n", res.Valuation.RealEdgePct)
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("💰 INSTRUCTION\n")
	fmt.Printf("  Label:     %s\n", res.HouseInstruction.Label)
	fmt.Printf("  Amount:    $%.2f\n", res.HouseInstruction.AmountUSD)
	if res.HouseInstruction.Label == types.LabelValueBuy {
		fmt.Printf("  ✅ Positive edge after slippage\n")
	} else {
		fmt.Printf("  ❌ No edge at the estimated fill\n")
	}
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("🔍 ANALYSIS (%s, %s)\n", res.Analysis.NicheName, res.Analysis.PredictionStats.DataSource)
	fmt.Printf("  %s\n", res.Analysis.Takeaway)
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	return nil
}
