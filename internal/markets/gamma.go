// Package markets fetches and caches market metadata from the Gamma API.
package markets

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/polycopy/polyscore/pkg/types"
)

// GammaClient is an HTTP client for the Polymarket Gamma API.
type GammaClient struct {
	baseURL    string
	httpClient *http.Client
	retries    int
	logger     *zap.Logger
}

// GammaConfig holds Gamma API client configuration.
type GammaConfig struct {
	BaseURL string
	Timeout time.Duration
	Retries int // retries after the first attempt
	Logger  *zap.Logger
}

// NewGammaClient creates a new Gamma API client.
func NewGammaClient(cfg GammaConfig) *GammaClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &GammaClient{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		retries: cfg.Retries,
		logger:  cfg.Logger,
	}
}

// gammaMarket mirrors the subset of the Gamma market object the scorer
// needs. Numeric fields arrive as strings.
type gammaMarket struct {
	ConditionID   string `json:"conditionId"`
	Question      string `json:"question"`
	Category      string `json:"category"`
	OutcomePrices string `json:"outcomePrices"`
	VolumeNum     string `json:"volumeNum"`
	Volume1Wk     string `json:"volume1wk"`
	BetStructure  string `json:"sportsMarketType"`
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
	GameStartTime string `json:"gameStartTime"`
	Events        []struct {
		Tags []struct {
			Slug string `json:"slug"`
		} `json:"tags"`
	} `json:"events"`
}

// FetchMarket fetches metadata for one condition ID. The second return is
// false when the API does not know the market.
func (c *GammaClient) FetchMarket(ctx context.Context, conditionID string) (types.MarketMetadata, bool, error) {
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return types.MarketMetadata{}, false, ctx.Err()
			case <-time.After(time.Duration(attempt) * 100 * time.Millisecond):
			}
		}

		m, found, err := c.fetchOnce(ctx, conditionID)
		if err == nil {
			return m, found, nil
		}
		lastErr = err

		c.logger.Warn("gamma-fetch-attempt-failed",
			zap.String("condition-id", conditionID),
			zap.Int("attempt", attempt+1),
			zap.Error(err))
	}

	MetadataFetchFailuresTotal.Inc()
	return types.MarketMetadata{}, false, fmt.Errorf("fetch market %s after %d attempts: %w",
		conditionID, c.retries+1, lastErr)
}

func (c *GammaClient) fetchOnce(ctx context.Context, conditionID string) (types.MarketMetadata, bool, error) {
	params := url.Values{}
	params.Add("condition_ids", conditionID)
	requestURL := fmt.Sprintf("%s/markets?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return types.MarketMetadata{}, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "polyscore/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return types.MarketMetadata{}, false, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.MarketMetadata{}, false, fmt.Errorf("API error: status %d", resp.StatusCode)
	}

	var markets []gammaMarket
	if err := json.NewDecoder(resp.Body).Decode(&markets); err != nil {
		return types.MarketMetadata{}, false, fmt.Errorf("decode response: %w", err)
	}

	if len(markets) == 0 {
		return types.MarketMetadata{}, false, nil
	}

	MetadataFetchesTotal.Inc()
	return toMetadata(conditionID, markets[0]), true, nil
}

func toMetadata(conditionID string, g gammaMarket) types.MarketMetadata {
	m := types.MarketMetadata{
		ConditionID:   conditionID,
		Title:         g.Question,
		Category:      g.Category,
		BetStructure:  g.BetStructure,
		CurrentPrice:  firstOutcomePrice(g.OutcomePrices),
		VolumeTotal:   parseFloat(g.VolumeNum),
		Volume1Week:   parseFloat(g.Volume1Wk),
		StartTime:     parseTime(g.StartDate),
		EndTime:       parseTime(g.EndDate),
		GameStartTime: parseTime(g.GameStartTime),
	}

	for _, ev := range g.Events {
		for _, tag := range ev.Tags {
			if tag.Slug != "" {
				m.Tags = append(m.Tags, tag.Slug)
			}
		}
	}

	return m
}

// firstOutcomePrice parses the stringified price array Gamma returns, e.g.
// "[\"0.55\", \"0.45\"]", and keeps the first outcome.
func firstOutcomePrice(raw string) float64 {
	if raw == "" {
		return 0
	}

	var prices []string
	if err := json.Unmarshal([]byte(raw), &prices); err != nil || len(prices) == 0 {
		return 0
	}

	return parseFloat(prices[0])
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}
