package keeper

import (
	"context"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/paw-chain/router/x/router/types"
)

// SwapExactNativeForOutput swaps the attached native value along path, which
// must start at the wrapped native asset.
func (k Keeper) SwapExactNativeForOutput(
	ctx context.Context,
	caller common.Address,
	value, amountOutMin math.Int,
	path types.Path,
	to common.Address,
	deadline time.Time,
) ([]math.Int, error) {
	var amounts []math.Int
	e := entry{kind: KindExactNativeInput, caller: caller, to: to, deadline: deadline, path: path, swap: true}
	err := k.run(ctx, e, func(ctx sdk.Context, params types.Params) error {
		if err := k.requireNativeFirst(path); err != nil {
			return err
		}
		r, err := k.priceExactInput(ctx, value, amountOutMin, path, params)
		if err != nil {
			return err
		}
		if err := k.pullNative(ctx, caller, value); err != nil {
			return err
		}
		if err := k.wrapInto(ctx, r.plan.Reserves[0].Pool, r.plan.AmountIn()); err != nil {
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

// SwapNativeForExactOutput delivers exactly amountOut of the last asset of
// path, paying with at most the attached native value. Unspent value is
// refunded to the caller.
func (k Keeper) SwapNativeForExactOutput(
	ctx context.Context,
	caller common.Address,
	value, amountOut math.Int,
	path types.Path,
	to common.Address,
	deadline time.Time,
) ([]math.Int, error) {
	var amounts []math.Int
	e := entry{kind: KindNativeExactOutput, caller: caller, to: to, deadline: deadline, path: path, swap: true}
	err := k.run(ctx, e, func(ctx sdk.Context, params types.Params) error {
		if err := k.requireNativeFirst(path); err != nil {
			return err
		}
		r, err := k.priceExactOutput(ctx, amountOut, value, path, params)
		if err != nil {
			return err
		}
		if err := k.pullNative(ctx, caller, value); err != nil {
			return err
		}
		if err := k.wrapInto(ctx, r.plan.Reserves[0].Pool, r.plan.AmountIn()); err != nil {
			return err
		}
		if err := k.swapHops(ctx, r, to); err != nil {
			return err
		}
		if err := k.refundNative(ctx, caller, value.Sub(r.plan.AmountIn())); err != nil {
			return err
		}
		k.emitSwap(ctx, e, r.plan)
		amounts = r.plan.Amounts
		return nil
	})
	return amounts, err
}

// SwapExactInputForNative swaps exactly amountIn of path[0] into the wrapped
// native asset, unwraps it and sends the native proceeds to `to`.
func (k Keeper) SwapExactInputForNative(
	ctx context.Context,
	caller common.Address,
	amountIn, amountOutMin math.Int,
	path types.Path,
	to common.Address,
	deadline time.Time,
) ([]math.Int, error) {
	var amounts []math.Int
	e := entry{kind: KindExactInputNative, caller: caller, to: to, deadline: deadline, path: path, swap: true}
	err := k.run(ctx, e, func(ctx sdk.Context, params types.Params) error {
		if err := k.requireNativeLast(path); err != nil {
			return err
		}
		r, err := k.priceExactInput(ctx, amountIn, amountOutMin, path, params)
		if err != nil {
			return err
		}
		if err := k.pullToken(ctx, path.First(), caller, r.plan.Reserves[0].Pool, r.plan.AmountIn()); err != nil {
			return err
		}
		if err := k.swapHops(ctx, r, k.cfg.Router); err != nil {
			return err
		}
		if err := k.payNative(ctx, to, r.plan.AmountOut()); err != nil {
			return err
		}
		k.emitSwap(ctx, e, r.plan)
		amounts = r.plan.Amounts
		return nil
	})
	return amounts, err
}

// SwapInputForExactNative delivers exactly amountOut of native value to
// `to`, spending at most amountInMax of path[0].
func (k Keeper) SwapInputForExactNative(
	ctx context.Context,
	caller common.Address,
	amountOut, amountInMax math.Int,
	path types.Path,
	to common.Address,
	deadline time.Time,
) ([]math.Int, error) {
	var amounts []math.Int
	e := entry{kind: KindExactOutputNative, caller: caller, to: to, deadline: deadline, path: path, swap: true}
	err := k.run(ctx, e, func(ctx sdk.Context, params types.Params) error {
		if err := k.requireNativeLast(path); err != nil {
			return err
		}
		r, err := k.priceExactOutput(ctx, amountOut, amountInMax, path, params)
		if err != nil {
			return err
		}
		if err := k.pullToken(ctx, path.First(), caller, r.plan.Reserves[0].Pool, r.plan.AmountIn()); err != nil {
			return err
		}
		if err := k.swapHops(ctx, r, k.cfg.Router); err != nil {
			return err
		}
		if err := k.payNative(ctx, to, r.plan.AmountOut()); err != nil {
			return err
		}
		k.emitSwap(ctx, e, r.plan)
		amounts = r.plan.Amounts
		return nil
	})
	return amounts, err
}

func (k Keeper) requireNativeFirst(path types.Path) error {
	if len(path) == 0 || path.First() != k.native.Address() {
		return types.ErrInvalidPath.Wrapf("path must start at wrapped native %s", k.native.Address().Hex())
	}
	return nil
}

func (k Keeper) requireNativeLast(path types.Path) error {
	if len(path) == 0 || path.Last() != k.native.Address() {
		return types.ErrInvalidPath.Wrapf("path must end at wrapped native %s", k.native.Address().Hex())
	}
	return nil
}

// pullNative takes the attached native value from the caller into the router.
func (k Keeper) pullNative(ctx context.Context, caller common.Address, value math.Int) error {
	if err := requirePositive("native value", value); err != nil {
		return err
	}
	if err := k.ledger.TransferNative(ctx, caller, k.cfg.Router, value); err != nil {
		return types.ErrTransferFailed.Wrapf("collect native value %s from %s: %s", value, caller.Hex(), err)
	}
	return nil
}

// wrapInto wraps amount of the router's native balance and moves the wrapped
// asset into pool.
func (k Keeper) wrapInto(ctx context.Context, pool common.Address, amount math.Int) error {
	if err := k.native.Wrap(ctx, k.cfg.Router, amount); err != nil {
		return types.ErrTransferFailed.Wrapf("wrap %s: %s", amount, err)
	}
	if err := k.native.Transfer(ctx, k.cfg.Router, pool, amount); err != nil {
		return types.ErrTransferFailed.Wrapf("deposit %s wrapped native into %s: %s", amount, pool.Hex(), err)
	}
	return nil
}

// payNative unwraps amount held by the router and sends it to `to` as native
// value.
func (k Keeper) payNative(ctx context.Context, to common.Address, amount math.Int) error {
	if err := k.native.Unwrap(ctx, k.cfg.Router, amount); err != nil {
		return types.ErrTransferFailed.Wrapf("unwrap %s: %s", amount, err)
	}
	if err := k.ledger.TransferNative(ctx, k.cfg.Router, to, amount); err != nil {
		return types.ErrTransferFailed.Wrapf("send %s native to %s: %s", amount, to.Hex(), err)
	}
	return nil
}

// refundNative returns unspent native value to the caller.
func (k Keeper) refundNative(ctx sdk.Context, caller common.Address, refund math.Int) error {
	if !refund.IsPositive() {
		return nil
	}
	if err := k.ledger.TransferNative(ctx, k.cfg.Router, caller, refund); err != nil {
		return types.ErrTransferFailed.Wrapf("refund %s native to %s: %s", refund, caller.Hex(), err)
	}
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeNativeRefund,
			sdk.NewAttribute(types.AttributeKeyCaller, caller.Hex()),
			sdk.NewAttribute(types.AttributeKeyRefund, refund.String()),
		),
	)
	return nil
}
