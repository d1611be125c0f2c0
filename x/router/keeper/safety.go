package keeper

import (
	"context"
	"time"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"

	"github.com/paw-chain/router/x/router/types"
)

var basisPoints = math.NewInt(types.BasisPoints)

// checkDeadline fails once the block time has passed deadline. A deadline
// equal to the current time is still accepted.
func checkDeadline(now, deadline time.Time) error {
	if now.After(deadline) {
		return types.NewBoundError(types.ErrExpiredDeadline, "deadline_unix",
			math.NewInt(deadline.Unix()), math.NewInt(now.Unix()))
	}
	return nil
}

// checkRateLimit enforces the per-caller minimum spacing between swaps and
// records now as the caller's last call.
func (k Keeper) checkRateLimit(ctx context.Context, caller common.Address, now time.Time, window time.Duration) error {
	if window > 0 {
		if last, found := k.LastCallTime(ctx, caller); found {
			next := last.Add(window)
			if now.Before(next) {
				return types.NewBoundError(types.ErrTooSoon, "next_call_unix_ms",
					math.NewInt(next.UnixMilli()), math.NewInt(now.UnixMilli()))
			}
		}
	}
	k.setLastCallTime(ctx, caller, now)
	return nil
}

// checkMinimumOutput is the exact-input slippage check.
func checkMinimumOutput(plan types.SwapPlan, amountOutMin math.Int) error {
	if out := plan.AmountOut(); out.LT(amountOutMin) {
		return types.NewBoundError(types.ErrExcessiveSlippage, "amount_out_min", amountOutMin, out)
	}
	return nil
}

// checkMaximumInput is the exact-output slippage check.
func checkMaximumInput(plan types.SwapPlan, amountInMax math.Int) error {
	if in := plan.AmountIn(); in.GT(amountInMax) {
		return types.NewBoundError(types.ErrExcessiveSlippage, "amount_in_max", amountInMax, in)
	}
	return nil
}

// PriceImpactBps is the share of the input reserve a hop consumes, in basis
// points, rounded down.
func PriceImpactBps(amountIn, reserveIn math.Int) (math.Int, error) {
	if !isPositive(reserveIn) {
		return math.Int{}, types.ErrInsufficientAmount.Wrapf("insufficient liquidity: reserve %s", reserveIn)
	}
	return mulDiv(amountIn, basisPoints, reserveIn)
}

// checkPriceImpact rejects a plan if any single hop moves its pool by more
// than maxBps. Hops are checked independently, impact is not compounded.
func checkPriceImpact(plan types.SwapPlan, maxBps uint64) error {
	limit := math.NewIntFromUint64(maxBps)
	for i, hop := range plan.Reserves {
		impact, err := PriceImpactBps(plan.Amounts[i], hop.ReserveIn)
		if err != nil {
			return err
		}
		if impact.GT(limit) {
			return types.NewBoundError(types.ErrExcessivePriceImpact, "price_impact_bps", limit, impact)
		}
	}
	return nil
}

func requireNonNegative(name string, x math.Int) error {
	if x.IsNil() || x.IsNegative() {
		return types.ErrInvalidAmounts.Wrapf("%s must be non-negative, got %s", name, x)
	}
	return nil
}

func requirePositive(name string, x math.Int) error {
	if !isPositive(x) {
		return types.ErrInvalidAmounts.Wrapf("%s must be positive, got %s", name, x)
	}
	return nil
}

// rejectionReason maps a failed call onto the guard_rejections_total label.
// Errors not raised by a safety check map to the empty string.
func rejectionReason(err error) string {
	switch {
	case errorsmod.IsOf(err, types.ErrEmergencyStopActive):
		return "emergency_stop"
	case errorsmod.IsOf(err, types.ErrReentrancy):
		return "reentrancy"
	case errorsmod.IsOf(err, types.ErrExpiredDeadline):
		return "deadline"
	case errorsmod.IsOf(err, types.ErrTooSoon):
		return "rate_limit"
	case errorsmod.IsOf(err, types.ErrInvalidPath, types.ErrZeroAddress):
		return "path"
	case errorsmod.IsOf(err, types.ErrExcessiveSlippage):
		return "slippage"
	case errorsmod.IsOf(err, types.ErrExcessivePriceImpact):
		return "price_impact"
	case errorsmod.IsOf(err, types.ErrUnauthorizedPair):
		return "unauthorized_pair"
	}
	return ""
}
