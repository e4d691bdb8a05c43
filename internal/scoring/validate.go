package scoring

import (
	"math"

	"github.com/ethereum/go-ethereum/common"

	"github.com/polycopy/polyscore/pkg/types"
)

// validateRequest rejects malformed trades before any computation. It
// collects every bad field into one error so the caller fixes the payload
// in a single round trip.
func validateRequest(req *types.ScoreRequest) error {
	var fields []string

	t := &req.Trade

	switch {
	case t.WalletAddress == "":
		fields = append(fields, "wallet_address")
	case !common.IsHexAddress(t.WalletAddress):
		fields = append(fields, "wallet_address")
	}

	if t.ConditionID == "" {
		fields = append(fields, "condition_id")
	}

	if !isFinite(t.Price) || t.Price <= 0 || t.Price > 1 {
		fields = append(fields, "price")
	}

	if !isFinite(t.Size) || t.Size <= 0 {
		fields = append(fields, "size")
	}

	if t.Timestamp.IsZero() {
		fields = append(fields, "timestamp")
	}

	if t.Side != "" && t.Side != types.SideBuy && t.Side != types.SideSell {
		fields = append(fields, "side")
	}

	if !isFinite(req.UserSlippagePct) || req.UserSlippagePct < 0 {
		fields = append(fields, "user_slippage")
	}

	if len(fields) > 0 {
		return types.NewValidationError(fields...)
	}

	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
