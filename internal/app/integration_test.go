package app

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/polycopy/polyscore/pkg/config"
	"github.com/polycopy/polyscore/pkg/types"
)

// newTestApp wires a full application against a stub model server and
// in-memory storage.
func newTestApp(t *testing.T, mlURL string) *App {
	t.Helper()

	cfg := &config.Config{
		LogLevel:              "info",
		HTTPPort:              "0",
		GammaURL:              "http://unreachable.invalid",
		MetadataTimeout:       time.Second,
		MetadataCacheTTL:      time.Minute,
		MLPredictURL:          mlURL,
		MLTimeout:             time.Second,
		BankrollUSD:           4000,
		KellyFraction:         0.25,
		DefaultMaxSlippagePct: 5.0,
		MinProfileSample:      5,
		StorageMode:           "memory",
	}
	require.NoError(t, cfg.Validate())

	a, err := New(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		a.cancel()
		a.storage.Close()
		a.marketCache.Close()
	})

	return a
}

func TestApp_ScoreEndToEnd(t *testing.T) {
	mlSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"probability": 0.55}`))
	}))
	defer mlSrv.Close()

	a := newTestApp(t, mlSrv.URL)

	body, err := json.Marshal(types.ScoreRequest{
		Trade: types.Trade{
			WalletAddress: "0x1f9090aaE28b8a3dCeaDf281B0F12828e676c326",
			ConditionID:   "0xcond",
			Price:         0.30,
			Size:          100,
			Timestamp:     time.Now().Add(-time.Minute),
		},
		MarketContext: &types.MarketMetadata{
			Title:       "Lakers vs Celtics O/U 220.5",
			Category:    "NBA",
			VolumeTotal: 100000,
		},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/score", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	a.httpServer.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var res types.ScoreResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))

	assert.Equal(t, 55, res.Polyscore)
	assert.Equal(t, 0.3003, res.Valuation.EstimatedFill)
	assert.Equal(t, "STRATEGIC_VALUE", res.Analysis.Verdict)
	assert.Equal(t, types.LabelValueBuy, res.HouseInstruction.Label)
}

func TestApp_ValidationErrorSurfaces(t *testing.T) {
	mlSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"probability": 0.5}`))
	}))
	defer mlSrv.Close()

	a := newTestApp(t, mlSrv.URL)

	req := httptest.NewRequest(http.MethodPost, "/api/score", bytes.NewReader([]byte(`{"trade": {}}`)))
	rec := httptest.NewRecorder()
	a.httpServer.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "wallet_address")
}

func TestApp_DegradesWhenEverythingIsDown(t *testing.T) {
	// dead ML endpoint and unreachable Gamma: the response is still fully
	// populated
	a := newTestApp(t, "http://unreachable.invalid")

	body, err := json.Marshal(types.ScoreRequest{
		Trade: types.Trade{
			WalletAddress: "0x1f9090aaE28b8a3dCeaDf281B0F12828e676c326",
			ConditionID:   "0xcond",
			Price:         0.40,
			Size:          10,
			Timestamp:     time.Now().Add(-time.Minute),
		},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/score", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	a.httpServer.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var res types.ScoreResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))

	assert.Equal(t, 50, res.Polyscore)
	assert.Equal(t, "OTHER", res.Analysis.NicheName)
	assert.Equal(t, "Global Fallback", res.Analysis.PredictionStats.DataSource)
	assert.NotEmpty(t, res.Analysis.Takeaway)
}
