package keeper

import (
	"context"
	"fmt"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/paw-chain/router/x/router/types"
)

// SwapExactInputForOutput swaps exactly amountIn of path[0] through every
// pool of path and delivers at least amountOutMin of the last asset to `to`.
// It returns the amount array of the executed plan.
func (k Keeper) SwapExactInputForOutput(
	ctx context.Context,
	caller common.Address,
	amountIn, amountOutMin math.Int,
	path types.Path,
	to common.Address,
	deadline time.Time,
) ([]math.Int, error) {
	var amounts []math.Int
	e := entry{kind: KindExactInput, caller: caller, to: to, deadline: deadline, path: path, swap: true}
	err := k.run(ctx, e, func(ctx sdk.Context, params types.Params) error {
		r, err := k.priceExactInput(ctx, amountIn, amountOutMin, path, params)
		if err != nil {
			return err
		}
		if err := k.pullToken(ctx, path.First(), caller, r.plan.Reserves[0].Pool, r.plan.AmountIn()); err != nil {
			return err
		}
		if err := k.swapHops(ctx, r, to); err != nil {
			return err
		}
		k.emitSwap(ctx, e, r.plan)
		amounts = r.plan.Amounts
		return nil
	})
	return amounts, err
}

// SwapInputForExactOutput delivers exactly amountOut of the last asset of
// path to `to`, spending at most amountInMax of path[0].
func (k Keeper) SwapInputForExactOutput(
	ctx context.Context,
	caller common.Address,
	amountOut, amountInMax math.Int,
	path types.Path,
	to common.Address,
	deadline time.Time,
) ([]math.Int, error) {
	var amounts []math.Int
	e := entry{kind: KindExactOutput, caller: caller, to: to, deadline: deadline, path: path, swap: true}
	err := k.run(ctx, e, func(ctx sdk.Context, params types.Params) error {
		r, err := k.priceExactOutput(ctx, amountOut, amountInMax, path, params)
		if err != nil {
			return err
		}
		if err := k.pullToken(ctx, path.First(), caller, r.plan.Reserves[0].Pool, r.plan.AmountIn()); err != nil {
			return err
		}
		if err := k.swapHops(ctx, r, to); err != nil {
			return err
		}
		k.emitSwap(ctx, e, r.plan)
		amounts = r.plan.Amounts
		return nil
	})
	return amounts, err
}

// priceExactInput computes the exact-input plan and applies the slippage and
// price impact checks to it.
func (k Keeper) priceExactInput(ctx context.Context, amountIn, amountOutMin math.Int, path types.Path, params types.Params) (route, error) {
	if err := requireNonNegative("amount out min", amountOutMin); err != nil {
		return route{}, err
	}
	r, err := k.planExactInput(ctx, amountIn, path)
	if err != nil {
		return route{}, err
	}
	if r.plan.AmountOut().IsZero() {
		return route{}, types.ErrInsufficientAmount.Wrapf("swap of %s yields no output", amountIn)
	}
	if err := checkMinimumOutput(r.plan, amountOutMin); err != nil {
		return route{}, err
	}
	if err := checkPriceImpact(r.plan, params.MaxPriceImpactBps); err != nil {
		return route{}, err
	}
	return r, nil
}

// priceExactOutput computes the exact-output plan and applies the slippage
// and price impact checks to it.
func (k Keeper) priceExactOutput(ctx context.Context, amountOut, amountInMax math.Int, path types.Path, params types.Params) (route, error) {
	if err := requireNonNegative("amount in max", amountInMax); err != nil {
		return route{}, err
	}
	r, err := k.planExactOutput(ctx, amountOut, path)
	if err != nil {
		return route{}, err
	}
	if err := checkMaximumInput(r.plan, amountInMax); err != nil {
		return route{}, err
	}
	if err := checkPriceImpact(r.plan, params.MaxPriceImpactBps); err != nil {
		return route{}, err
	}
	return r, nil
}

// swapHops drives every pool of the route in order. The first pool must
// already hold amounts[0]. Each intermediate hop pays straight into the next
// pool and the final hop pays `to`.
func (k Keeper) swapHops(ctx context.Context, r route, to common.Address) error {
	path := r.plan.Path
	for i := 0; i < len(path)-1; i++ {
		input := path[i]
		pool := r.pools[i]
		amountOut := r.plan.Amounts[i+1]

		amount0Out, amount1Out := math.ZeroInt(), amountOut
		if input != pool.Token0() {
			amount0Out, amount1Out = amountOut, math.ZeroInt()
		}

		recipient := to
		if i < len(path)-2 {
			recipient = r.pools[i+1].Address()
		}

		if err := pool.Swap(ctx, amount0Out, amount1Out, recipient, nil); err != nil {
			return fmt.Errorf("swapHops: hop %d (%s -> %s): %w", i, input.Hex(), path[i+1].Hex(), err)
		}
	}
	return nil
}

// pullToken moves amount of token from the caller straight into a pool.
func (k Keeper) pullToken(ctx context.Context, token, from, pool common.Address, amount math.Int) error {
	if err := k.ledger.Transfer(ctx, token, from, pool, amount); err != nil {
		return types.ErrTransferFailed.Wrapf("transfer %s of %s from %s: %s", amount, token.Hex(), from.Hex(), err)
	}
	return nil
}

func (k Keeper) emitSwap(ctx sdk.Context, e entry, plan types.SwapPlan) {
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeSwap,
			sdk.NewAttribute(types.AttributeKeyKind, e.kind),
			sdk.NewAttribute(types.AttributeKeyCaller, e.caller.Hex()),
			sdk.NewAttribute(types.AttributeKeyRecipient, e.to.Hex()),
			sdk.NewAttribute(types.AttributeKeyPath, plan.Path.String()),
			sdk.NewAttribute(types.AttributeKeyAmounts, types.FormatAmounts(plan.Amounts)),
			sdk.NewAttribute(types.AttributeKeyAmountIn, plan.AmountIn().String()),
			sdk.NewAttribute(types.AttributeKeyAmountOut, plan.AmountOut().String()),
		),
	)
	k.Logger(ctx).Info("swap executed",
		"kind", e.kind,
		"caller", e.caller.Hex(),
		"hops", plan.Path.Hops(),
		"amount_in", plan.AmountIn().String(),
		"amount_out", plan.AmountOut().String(),
	)
}
