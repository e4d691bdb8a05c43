// Package ml is the boundary to the externally-hosted win-probability
// classifier. The model is opaque: features in, probability out. Failures
// never propagate; the engine degrades to a neutral 0.5.
package ml

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/polycopy/polyscore/pkg/types"
	"go.uber.org/zap"
)

// NeutralProbability is the degraded-mode output when the model is
// unreachable or returns garbage.
const NeutralProbability = 0.5

// Predictor is the narrow interface the scoring engine depends on, so the
// engine is testable with a deterministic stub.
type Predictor interface {
	Predict(ctx context.Context, features types.FeatureVector) (float64, error)
}

// Client calls the hosted model over HTTP.
type Client struct {
	url        string
	httpClient *http.Client
	retries    int
	logger     *zap.Logger
}

// Config holds ML client configuration.
type Config struct {
	URL     string
	Timeout time.Duration
	Retries int // retries after the first attempt
	Logger  *zap.Logger
}

// NewClient creates a new ML inference client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	return &Client{
		url: cfg.URL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		retries: cfg.Retries,
		logger:  cfg.Logger,
	}
}

type predictRequest struct {
	Features types.FeatureVector `json:"features"`
}

// predictResponse tolerates the field names different model deployments
// have used for the same value.
type predictResponse struct {
	Probability    *float64 `json:"probability"`
	WinProbability *float64 `json:"win_probability"`
	Prediction     *float64 `json:"prediction"`
}

func (r *predictResponse) value() (float64, bool) {
	for _, p := range []*float64{r.Probability, r.WinProbability, r.Prediction} {
		if p != nil {
			return *p, true
		}
	}
	return 0, false
}

// Predict returns the model's win probability for a feature record, clamped
// to [0,1]. It retries transient failures a fixed number of times and
// returns an error only after exhausting them; callers substitute
// NeutralProbability on error.
func (c *Client) Predict(ctx context.Context, features types.FeatureVector) (float64, error) {
	start := time.Now()
	defer func() {
		PredictionDurationSeconds.Observe(time.Since(start).Seconds())
	}()

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				PredictionFailuresTotal.WithLabelValues("canceled").Inc()
				return NeutralProbability, ctx.Err()
			case <-time.After(time.Duration(attempt) * 100 * time.Millisecond):
			}
		}

		prob, err := c.predictOnce(ctx, features)
		if err == nil {
			PredictionsTotal.Inc()
			return prob, nil
		}
		lastErr = err

		c.logger.Warn("ml-predict-attempt-failed",
			zap.Int("attempt", attempt+1),
			zap.Error(err))
	}

	PredictionFailuresTotal.WithLabelValues("exhausted").Inc()
	return NeutralProbability, fmt.Errorf("predict after %d attempts: %w", c.retries+1, lastErr)
}

func (c *Client) predictOnce(ctx context.Context, features types.FeatureVector) (float64, error) {
	body, err := json.Marshal(predictRequest{Features: features})
	if err != nil {
		return 0, fmt.Errorf("marshal features: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("call model: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("model returned status %d", resp.StatusCode)
	}

	var parsed predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}

	prob, ok := parsed.value()
	if !ok {
		return 0, fmt.Errorf("response carries no probability field")
	}
	if prob != prob { // NaN
		return 0, fmt.Errorf("response probability is NaN")
	}

	return clamp01(prob), nil
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
