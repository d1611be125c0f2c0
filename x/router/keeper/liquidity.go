package keeper

import (
	"context"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/paw-chain/router/x/router/types"
)

// OptimalLiquidity returns the deposit amounts that keep the pool ratio for
// a provider offering at most (desiredA, desiredB) and accepting no less
// than (minA, minB). An empty pool takes the desired amounts as they are.
func OptimalLiquidity(reserveA, reserveB, desiredA, desiredB, minA, minB math.Int) (amountA, amountB math.Int, err error) {
	if reserveA.IsZero() && reserveB.IsZero() {
		return desiredA, desiredB, nil
	}

	optimalB, err := Quote(desiredA, reserveA, reserveB)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	if optimalB.LTE(desiredB) {
		if optimalB.LT(minB) {
			return math.Int{}, math.Int{}, types.NewBoundError(types.ErrInsufficientAmount, "amount_b_min", minB, optimalB)
		}
		return desiredA, optimalB, nil
	}

	optimalA, err := Quote(desiredB, reserveB, reserveA)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	if optimalA.GT(desiredA) {
		return math.Int{}, math.Int{}, types.NewBoundError(types.ErrInsufficientAmount, "amount_a_desired", desiredA, optimalA)
	}
	if optimalA.LT(minA) {
		return math.Int{}, math.Int{}, types.NewBoundError(types.ErrInsufficientAmount, "amount_a_min", minA, optimalA)
	}
	return optimalA, desiredB, nil
}

// calculateLiquidity resolves, or deploys, the pool of a pair and sizes a
// deposit against its current reserves.
func (k Keeper) calculateLiquidity(
	ctx context.Context,
	tokenA, tokenB common.Address,
	desiredA, desiredB, minA, minB math.Int,
) (amountA, amountB math.Int, pool types.Pool, err error) {
	for _, v := range []struct {
		name string
		x    math.Int
	}{{"amount A desired", desiredA}, {"amount B desired", desiredB}} {
		if err := requirePositive(v.name, v.x); err != nil {
			return math.Int{}, math.Int{}, nil, err
		}
	}
	if err := requireNonNegative("amount A min", minA); err != nil {
		return math.Int{}, math.Int{}, nil, err
	}
	if err := requireNonNegative("amount B min", minB); err != nil {
		return math.Int{}, math.Int{}, nil, err
	}

	pool, err = k.poolForOrCreate(ctx, tokenA, tokenB)
	if err != nil {
		return math.Int{}, math.Int{}, nil, err
	}
	reserveA, reserveB, err := orientedReserves(ctx, pool, tokenA)
	if err != nil {
		return math.Int{}, math.Int{}, nil, err
	}
	amountA, amountB, err = OptimalLiquidity(reserveA, reserveB, desiredA, desiredB, minA, minB)
	if err != nil {
		return math.Int{}, math.Int{}, nil, err
	}
	return amountA, amountB, pool, nil
}

// AddLiquidity deposits both assets of a pair, creating the pool if needed,
// and mints pool shares to `to`.
func (k Keeper) AddLiquidity(
	ctx context.Context,
	caller, tokenA, tokenB common.Address,
	desiredA, desiredB, minA, minB math.Int,
	to common.Address,
	deadline time.Time,
) (amountA, amountB, liquidity math.Int, err error) {
	e := entry{kind: KindAddLiquidity, caller: caller, to: to, deadline: deadline}
	err = k.run(ctx, e, func(ctx sdk.Context, _ types.Params) error {
		a, b, pool, err := k.calculateLiquidity(ctx, tokenA, tokenB, desiredA, desiredB, minA, minB)
		if err != nil {
			return err
		}
		if err := k.pullToken(ctx, tokenA, caller, pool.Address(), a); err != nil {
			return err
		}
		if err := k.pullToken(ctx, tokenB, caller, pool.Address(), b); err != nil {
			return err
		}
		minted, err := pool.Mint(ctx, to)
		if err != nil {
			return err
		}
		k.emitLiquidity(ctx, types.EventTypeLiquidityAdded, e, pool.Address(), a, b, minted)
		amountA, amountB, liquidity = a, b, minted
		return nil
	})
	return amountA, amountB, liquidity, err
}

// AddLiquidityNative deposits token together with the attached native
// value, which is wrapped first. Unused native value is refunded.
func (k Keeper) AddLiquidityNative(
	ctx context.Context,
	caller, token common.Address,
	value, desiredToken, minToken, minNative math.Int,
	to common.Address,
	deadline time.Time,
) (amountToken, amountNative, liquidity math.Int, err error) {
	e := entry{kind: KindAddLiquidityNative, caller: caller, to: to, deadline: deadline}
	err = k.run(ctx, e, func(ctx sdk.Context, _ types.Params) error {
		wrapped := k.native.Address()
		a, n, pool, err := k.calculateLiquidity(ctx, token, wrapped, desiredToken, value, minToken, minNative)
		if err != nil {
			return err
		}
		if err := k.pullNative(ctx, caller, value); err != nil {
			return err
		}
		if err := k.pullToken(ctx, token, caller, pool.Address(), a); err != nil {
			return err
		}
		if err := k.wrapInto(ctx, pool.Address(), n); err != nil {
			return err
		}
		minted, err := pool.Mint(ctx, to)
		if err != nil {
			return err
		}
		if err := k.refundNative(ctx, caller, value.Sub(n)); err != nil {
			return err
		}
		k.emitLiquidity(ctx, types.EventTypeLiquidityAdded, e, pool.Address(), a, n, minted)
		amountToken, amountNative, liquidity = a, n, minted
		return nil
	})
	return amountToken, amountNative, liquidity, err
}

// RemoveLiquidity burns liquidity pool shares held by the caller and pays
// both assets to `to`.
func (k Keeper) RemoveLiquidity(
	ctx context.Context,
	caller, tokenA, tokenB common.Address,
	liquidity, minA, minB math.Int,
	to common.Address,
	deadline time.Time,
) (amountA, amountB math.Int, err error) {
	e := entry{kind: KindRemoveLiquidity, caller: caller, to: to, deadline: deadline}
	err = k.run(ctx, e, func(ctx sdk.Context, _ types.Params) error {
		a, b, pool, err := k.burnLiquidity(ctx, caller, tokenA, tokenB, liquidity, minA, minB, to)
		if err != nil {
			return err
		}
		k.emitLiquidity(ctx, types.EventTypeLiquidityRemoved, e, pool, a, b, liquidity)
		amountA, amountB = a, b
		return nil
	})
	return amountA, amountB, err
}

// RemoveLiquidityNative burns pool shares of a token/wrapped-native pool,
// sending the token leg to `to` and the wrapped leg as native value.
func (k Keeper) RemoveLiquidityNative(
	ctx context.Context,
	caller, token common.Address,
	liquidity, minToken, minNative math.Int,
	to common.Address,
	deadline time.Time,
) (amountToken, amountNative math.Int, err error) {
	e := entry{kind: KindRemoveLiquidityNative, caller: caller, to: to, deadline: deadline}
	err = k.run(ctx, e, func(ctx sdk.Context, _ types.Params) error {
		a, n, pool, err := k.burnLiquidity(ctx, caller, token, k.native.Address(), liquidity, minToken, minNative, k.cfg.Router)
		if err != nil {
			return err
		}
		if err := k.ledger.Transfer(ctx, token, k.cfg.Router, to, a); err != nil {
			return types.ErrTransferFailed.Wrapf("send %s of %s to %s: %s", a, token.Hex(), to.Hex(), err)
		}
		if err := k.payNative(ctx, to, n); err != nil {
			return err
		}
		k.emitLiquidity(ctx, types.EventTypeLiquidityRemoved, e, pool, a, n, liquidity)
		amountToken, amountNative = a, n
		return nil
	})
	return amountToken, amountNative, err
}

// burnLiquidity returns the caller's shares to the pool, burns them and
// checks the payout against the minimums.
func (k Keeper) burnLiquidity(
	ctx context.Context,
	caller, tokenA, tokenB common.Address,
	liquidity, minA, minB math.Int,
	to common.Address,
) (amountA, amountB math.Int, poolAddr common.Address, err error) {
	if err := requirePositive("liquidity", liquidity); err != nil {
		return math.Int{}, math.Int{}, common.Address{}, err
	}
	if err := requireNonNegative("amount A min", minA); err != nil {
		return math.Int{}, math.Int{}, common.Address{}, err
	}
	if err := requireNonNegative("amount B min", minB); err != nil {
		return math.Int{}, math.Int{}, common.Address{}, err
	}

	pool, err := k.poolFor(ctx, tokenA, tokenB)
	if err != nil {
		return math.Int{}, math.Int{}, common.Address{}, err
	}
	// Pool shares are a ledger asset identified by the pool address.
	if err := k.pullToken(ctx, pool.Address(), caller, pool.Address(), liquidity); err != nil {
		return math.Int{}, math.Int{}, common.Address{}, err
	}
	amount0, amount1, err := pool.Burn(ctx, to)
	if err != nil {
		return math.Int{}, math.Int{}, common.Address{}, err
	}

	amountA, amountB = amount0, amount1
	if tokenA != pool.Token0() {
		amountA, amountB = amount1, amount0
	}
	if amountA.LT(minA) {
		return math.Int{}, math.Int{}, common.Address{}, types.NewBoundError(types.ErrInsufficientAmount, "amount_a_min", minA, amountA)
	}
	if amountB.LT(minB) {
		return math.Int{}, math.Int{}, common.Address{}, types.NewBoundError(types.ErrInsufficientAmount, "amount_b_min", minB, amountB)
	}
	return amountA, amountB, pool.Address(), nil
}

func (k Keeper) emitLiquidity(ctx sdk.Context, eventType string, e entry, pool common.Address, amountA, amountB, liquidity math.Int) {
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			eventType,
			sdk.NewAttribute(types.AttributeKeyKind, e.kind),
			sdk.NewAttribute(types.AttributeKeyCaller, e.caller.Hex()),
			sdk.NewAttribute(types.AttributeKeyRecipient, e.to.Hex()),
			sdk.NewAttribute(types.AttributeKeyPool, pool.Hex()),
			sdk.NewAttribute(types.AttributeKeyAmountA, amountA.String()),
			sdk.NewAttribute(types.AttributeKeyAmountB, amountB.String()),
			sdk.NewAttribute(types.AttributeKeyLiquidity, liquidity.String()),
		),
	)
}
