package keeper

import (
	"context"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/paw-chain/router/x/router/types"
)

// Entry point kinds, used as metric labels and span names.
const (
	KindExactInput        = "exact_input"
	KindExactOutput       = "exact_output"
	KindExactNativeInput  = "exact_native_input"
	KindNativeExactOutput = "native_exact_output"
	KindExactInputNative  = "exact_input_native"
	KindExactOutputNative = "exact_output_native"

	KindAddLiquidity          = "add_liquidity"
	KindAddLiquidityNative    = "add_liquidity_native"
	KindRemoveLiquidity       = "remove_liquidity"
	KindRemoveLiquidityNative = "remove_liquidity_native"
)

// callStateInProgress marks the router as busy in CallStateKey.
const callStateInProgress = byte(1)

// entry describes one state-changing router call.
type entry struct {
	kind     string
	caller   common.Address
	to       common.Address
	deadline time.Time
	path     types.Path
	// swap selects the rate limit and path checks. Liquidity operations
	// leave it unset.
	swap bool
}

// run executes fn as a single all-or-nothing router call. The checks run in
// a fixed order: emergency stop, reentrancy, deadline, rate limit, then the
// caller, recipient and path arguments.
// fn then runs on a cached context whose writes and events are committed
// only if every step succeeds.
func (k Keeper) run(ctx context.Context, e entry, fn func(ctx sdk.Context, params types.Params) error) error {
	start := time.Now()
	_, span := tracer.Start(ctx, "router."+e.kind)
	defer span.End()
	span.SetAttributes(
		attribute.String("caller", e.caller.Hex()),
		attribute.String("recipient", e.to.Hex()),
	)

	err := k.execute(sdk.UnwrapSDKContext(ctx), e, fn)

	status := "success"
	if err != nil {
		status = "failure"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if reason := rejectionReason(err); reason != "" {
			k.metrics.GuardRejections.WithLabelValues(reason).Inc()
		}
		k.Logger(ctx).Debug("router call rejected", "kind", e.kind, "caller", e.caller.Hex(), "error", err)
	}

	if e.swap {
		k.metrics.SwapsTotal.WithLabelValues(e.kind, status).Inc()
		k.metrics.SwapLatency.WithLabelValues(e.kind).Observe(time.Since(start).Seconds())
		if err == nil {
			k.metrics.SwapHops.Observe(float64(e.path.Hops()))
		}
	} else {
		k.metrics.LiquidityEvents.WithLabelValues(e.kind, status).Inc()
	}
	return err
}

func (k Keeper) execute(ctx sdk.Context, e entry, fn func(ctx sdk.Context, params types.Params) error) error {
	if k.IsEmergencyStopped(ctx) {
		return types.ErrEmergencyStopActive
	}
	if err := k.enterCall(ctx); err != nil {
		return err
	}
	defer k.exitCall(ctx)

	cacheCtx, write := ctx.CacheContext()
	params := k.GetParams(cacheCtx)
	now := cacheCtx.BlockTime()

	if err := checkDeadline(now, e.deadline); err != nil {
		return err
	}
	if e.swap {
		if err := k.checkRateLimit(cacheCtx, e.caller, now, params.MinTimeBetweenCalls); err != nil {
			return err
		}
	}
	if e.caller == (common.Address{}) {
		return types.ErrZeroAddress.Wrap("caller")
	}
	if e.to == (common.Address{}) {
		return types.ErrZeroAddress.Wrap("recipient")
	}
	if e.swap {
		if err := e.path.ValidateBasic(params.MaxPathLength()); err != nil {
			return err
		}
	}

	if err := fn(cacheCtx, params); err != nil {
		return err
	}
	write()
	return nil
}

// enterCall moves the router from Idle to InProgress. A call arriving while
// another is in progress, such as a pool calling back into the router, is
// rejected.
func (k Keeper) enterCall(ctx context.Context) error {
	store := k.getStore(ctx)
	if store.Has(types.CallStateKey) {
		return types.ErrReentrancy
	}
	store.Set(types.CallStateKey, []byte{callStateInProgress})
	return nil
}

func (k Keeper) exitCall(ctx context.Context) {
	k.getStore(ctx).Delete(types.CallStateKey)
}

// InProgress reports whether a router call is currently executing.
func (k Keeper) InProgress(ctx context.Context) bool {
	return k.getStore(ctx).Has(types.CallStateKey)
}
