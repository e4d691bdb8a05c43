package httpserver

import (
	"context"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/polycopy/polyscore/pkg/types"
)

// Scorer evaluates one trade per call.
type Scorer interface {
	Score(ctx context.Context, req *types.ScoreRequest, now time.Time) (*types.ScoreResult, error)
}

// ScoreHandler handles HTTP requests for trade scoring.
type ScoreHandler struct {
	scorer Scorer
	logger *zap.Logger
}

// NewScoreHandler creates a new score handler.
func NewScoreHandler(scorer Scorer, logger *zap.Logger) *ScoreHandler {
	return &ScoreHandler{
		scorer: scorer,
		logger: logger,
	}
}

// ErrorResponse represents an HTTP error response.
type ErrorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

// HandleScore handles POST /api/score requests.
func (h *ScoreHandler) HandleScore(w http.ResponseWriter, r *http.Request) {
	var req types.ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, ErrorResponse{Error: "malformed request body"}, http.StatusBadRequest)
		return
	}

	result, err := h.scorer.Score(r.Context(), &req, time.Now().UTC())
	if err != nil {
		if verr, ok := types.AsValidationError(err); ok {
			h.writeError(w, ErrorResponse{
				Error:  verr.Error(),
				Fields: verr.Fields,
			}, http.StatusBadRequest)
			return
		}

		h.logger.Error("score-request-failed", zap.Error(err))
		h.writeError(w, ErrorResponse{Error: "internal error"}, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		h.logger.Error("score-response-encode-failed", zap.Error(err))
	}
}

func (h *ScoreHandler) writeError(w http.ResponseWriter, resp ErrorResponse, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("error-response-encode-failed", zap.Error(err))
	}
}
