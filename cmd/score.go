package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	json "github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/polycopy/polyscore/internal/app"
	"github.com/polycopy/polyscore/internal/storage"
	"github.com/polycopy/polyscore/pkg/config"
	"github.com/polycopy/polyscore/pkg/types"
)

//nolint:gochecknoglobals // Cobra boilerplate
var scoreCmd = &cobra.Command{
	Use:   "score <request.json>",
	Short: "Score a single trade from a request file",
	Long: `Scores one trade from a JSON request file and pretty-prints the
result. Useful for replaying observed trades and sanity-checking the
pipeline without running the HTTP service.

The request file carries the same payload as POST /api/score.`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(scoreCmd)
	scoreCmd.Flags().Bool("json", false, "Print the raw JSON result instead of the score card")
}

func runScore(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read request file: %w", err)
	}

	var req types.ScoreRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return fmt.Errorf("parse request file: %w", err)
	}

	application, err := app.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}
	defer func() {
		_ = application.Shutdown()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := application.Engine().Score(ctx, &req, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("score trade: %w", err)
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	writer := storage.NewConsoleWriter(logger)
	return writer.WriteResult(ctx, result)
}
