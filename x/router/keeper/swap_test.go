package keeper_test

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	keepertest "github.com/paw-chain/router/testutil/keeper"
	"github.com/paw-chain/router/x/router/keeper"
	"github.com/paw-chain/router/x/router/types"
)

// reserves returns the (tokenA, tokenB) oriented reserves as int64s.
func reserves(t *testing.T, f keepertest.Fixture, a, b common.Address) (int64, int64) {
	ra, rb, _, err := f.Router.GetReserves(f.Ctx, a, b)
	require.NoError(t, err)
	return ra.Int64(), rb.Int64()
}

func findEvent(ctx sdk.Context, eventType string) (sdk.Event, bool) {
	for _, ev := range ctx.EventManager().Events() {
		if ev.Type == eventType {
			return ev, true
		}
	}
	return sdk.Event{}, false
}

func attribute(ev sdk.Event, key string) string {
	for _, attr := range ev.Attributes {
		if attr.Key == key {
			return attr.Value
		}
	}
	return ""
}

// TestSwapExactInput_SingleHop tests a successful exact-input swap
func TestSwapExactInput_SingleHop(t *testing.T) {
	f := keepertest.RouterKeeper(t)
	f.CreatePool(t, tokenA, tokenB, 1_000, 1_000)
	f.Fund(t, tokenA, alice, 100)

	amounts, err := f.Router.SwapExactInputForOutput(f.Ctx, alice, math.NewInt(100), math.NewInt(90),
		types.Path{tokenA, tokenB}, bob, f.Deadline(time.Minute))
	require.NoError(t, err)
	require.Equal(t, ints(100, 90), amounts)

	require.Equal(t, int64(0), f.Balance(tokenA, alice))
	require.Equal(t, int64(90), f.Balance(tokenB, bob))

	ra, rb := reserves(t, f, tokenA, tokenB)
	require.Equal(t, int64(1_100), ra)
	require.Equal(t, int64(910), rb)

	ev, found := findEvent(f.Ctx, types.EventTypeSwap)
	require.True(t, found)
	require.Equal(t, "100,90", attribute(ev, types.AttributeKeyAmounts))
	require.Equal(t, keeper.KindExactInput, attribute(ev, types.AttributeKeyKind))
	require.False(t, f.Router.InProgress(f.Ctx))
}

// TestSwapExactInput_Slippage tests that a failed minimum leaves no trace
func TestSwapExactInput_Slippage(t *testing.T) {
	f := keepertest.RouterKeeper(t)
	f.CreatePool(t, tokenA, tokenB, 1_000, 1_000)
	f.Fund(t, tokenA, alice, 100)

	_, err := f.Router.SwapExactInputForOutput(f.Ctx, alice, math.NewInt(100), math.NewInt(91),
		types.Path{tokenA, tokenB}, bob, f.Deadline(time.Minute))
	require.ErrorIs(t, err, types.ErrExcessiveSlippage)

	var bound *types.BoundError
	require.True(t, errors.As(err, &bound))
	require.Equal(t, math.NewInt(91), bound.Limit)
	require.Equal(t, math.NewInt(90), bound.Actual)

	require.Equal(t, int64(100), f.Balance(tokenA, alice))
	ra, rb := reserves(t, f, tokenA, tokenB)
	require.Equal(t, int64(1_000), ra)
	require.Equal(t, int64(1_000), rb)
	_, found := f.Router.LastCallTime(f.Ctx, alice)
	require.False(t, found)
}

// TestSwapExactInput_InsufficientBalance tests that the caller must hold the input
func TestSwapExactInput_InsufficientBalance(t *testing.T) {
	f := keepertest.RouterKeeper(t)
	f.CreatePool(t, tokenA, tokenB, 1_000, 1_000)
	f.Fund(t, tokenA, alice, 50)

	_, err := f.Router.SwapExactInputForOutput(f.Ctx, alice, math.NewInt(100), math.ZeroInt(),
		types.Path{tokenA, tokenB}, bob, f.Deadline(time.Minute))
	require.ErrorIs(t, err, types.ErrTransferFailed)
	require.Equal(t, int64(50), f.Balance(tokenA, alice))
}

// TestSwapExactInput_ZeroOutput tests rejection of swaps that round to nothing
func TestSwapExactInput_ZeroOutput(t *testing.T) {
	f := keepertest.RouterKeeper(t)
	f.CreatePool(t, tokenA, tokenB, 1_000_000, 10)
	f.Fund(t, tokenA, alice, 1)

	_, err := f.Router.SwapExactInputForOutput(f.Ctx, alice, math.NewInt(1), math.ZeroInt(),
		types.Path{tokenA, tokenB}, bob, f.Deadline(time.Minute))
	require.ErrorIs(t, err, types.ErrInsufficientAmount)
}

// TestSwapExactOutput tests an exact-output swap and its input ceiling
func TestSwapExactOutput(t *testing.T) {
	f := keepertest.RouterKeeper(t)
	f.CreatePool(t, tokenA, tokenB, 1_000, 1_000)
	f.Fund(t, tokenA, alice, 150)

	_, err := f.Router.SwapInputForExactOutput(f.Ctx, alice, math.NewInt(90), math.NewInt(99),
		types.Path{tokenA, tokenB}, bob, f.Deadline(time.Minute))
	require.ErrorIs(t, err, types.ErrExcessiveSlippage)

	amounts, err := f.Router.SwapInputForExactOutput(f.Ctx, alice, math.NewInt(90), math.NewInt(100),
		types.Path{tokenA, tokenB}, bob, f.Deadline(time.Minute))
	require.NoError(t, err)
	require.Equal(t, ints(100, 90), amounts)
	require.Equal(t, int64(50), f.Balance(tokenA, alice))
	require.Equal(t, int64(90), f.Balance(tokenB, bob))
}

// TestSwapExactInput_MultiHop tests that intermediate hops pay the next pool directly
func TestSwapExactInput_MultiHop(t *testing.T) {
	f := keepertest.RouterKeeper(t)
	f.CreatePool(t, tokenA, tokenB, 1_000, 1_000)
	f.CreatePool(t, tokenB, tokenC, 500, 2_000)
	f.SetParams(t, func(p *types.Params) { p.MaxPriceImpactBps = 2_000 })
	f.Fund(t, tokenA, alice, 100)

	amounts, err := f.Router.SwapExactInputForOutput(f.Ctx, alice, math.NewInt(100), math.NewInt(304),
		types.Path{tokenA, tokenB, tokenC}, bob, f.Deadline(time.Minute))
	require.NoError(t, err)
	require.Equal(t, ints(100, 90, 304), amounts)
	require.Equal(t, int64(304), f.Balance(tokenC, bob))
	require.Equal(t, int64(0), f.Balance(tokenB, keepertest.RouterAddress))

	ra, rb := reserves(t, f, tokenA, tokenB)
	require.Equal(t, []int64{1_100, 910}, []int64{ra, rb})
	rb, rc := reserves(t, f, tokenB, tokenC)
	require.Equal(t, []int64{590, 1_696}, []int64{rb, rc})
}

// TestSwap_PriceImpact tests that any single hop above the ceiling fails the swap
func TestSwap_PriceImpact(t *testing.T) {
	f := keepertest.RouterKeeper(t)
	f.CreatePool(t, tokenA, tokenB, 1_000, 1_000)
	f.CreatePool(t, tokenB, tokenC, 500, 2_000)
	f.Fund(t, tokenA, alice, 100)

	_, err := f.Router.SwapExactInputForOutput(f.Ctx, alice, math.NewInt(100), math.ZeroInt(),
		types.Path{tokenA, tokenB, tokenC}, bob, f.Deadline(time.Minute))
	require.ErrorIs(t, err, types.ErrExcessivePriceImpact)

	var bound *types.BoundError
	require.True(t, errors.As(err, &bound))
	require.Equal(t, math.NewInt(1_800), bound.Actual)
	require.Equal(t, int64(100), f.Balance(tokenA, alice))
}

// TestSwap_EmergencyStop tests that a stopped router rejects swaps
func TestSwap_EmergencyStop(t *testing.T) {
	f := keepertest.RouterKeeper(t)
	f.CreatePool(t, tokenA, tokenB, 1_000, 1_000)
	f.Fund(t, tokenA, alice, 100)

	require.NoError(t, f.Router.SetEmergencyStop(f.Ctx, keepertest.Authority, true))

	_, err := f.Router.SwapExactInputForOutput(f.Ctx, alice, math.NewInt(100), math.ZeroInt(),
		types.Path{tokenA, tokenB}, bob, f.Deadline(time.Minute))
	require.ErrorIs(t, err, types.ErrEmergencyStopActive)

	// The stop is checked before anything else, even an invalid path.
	_, err = f.Router.SwapExactInputForOutput(f.Ctx, alice, math.NewInt(100), math.ZeroInt(),
		types.Path{tokenA}, bob, f.Deadline(-time.Minute))
	require.ErrorIs(t, err, types.ErrEmergencyStopActive)

	require.NoError(t, f.Router.SetEmergencyStop(f.Ctx, keepertest.Authority, false))
	_, err = f.Router.SwapExactInputForOutput(f.Ctx, alice, math.NewInt(100), math.ZeroInt(),
		types.Path{tokenA, tokenB}, bob, f.Deadline(time.Minute))
	require.NoError(t, err)
}

// TestSwap_Deadline tests deadline enforcement against the block time
func TestSwap_Deadline(t *testing.T) {
	f := keepertest.RouterKeeper(t)
	f.CreatePool(t, tokenA, tokenB, 1_000, 1_000)
	f.Fund(t, tokenA, alice, 100)

	_, err := f.Router.SwapExactInputForOutput(f.Ctx, alice, math.NewInt(50), math.ZeroInt(),
		types.Path{tokenA, tokenB}, bob, f.Deadline(-time.Second))
	require.ErrorIs(t, err, types.ErrExpiredDeadline)

	_, err = f.Router.SwapExactInputForOutput(f.Ctx, alice, math.NewInt(50), math.ZeroInt(),
		types.Path{tokenA, tokenB}, bob, f.Ctx.BlockTime())
	require.NoError(t, err)
}

// TestSwap_RateLimit tests the per-caller minimum spacing between swaps
func TestSwap_RateLimit(t *testing.T) {
	f := keepertest.RouterKeeper(t)
	f.CreatePool(t, tokenA, tokenB, 100_000, 100_000)
	f.SetParams(t, func(p *types.Params) { p.MinTimeBetweenCalls = time.Minute })
	f.Fund(t, tokenA, alice, 1_000)
	f.Fund(t, tokenA, bob, 1_000)

	swap := func(f keepertest.Fixture, caller common.Address) error {
		_, err := f.Router.SwapExactInputForOutput(f.Ctx, caller, math.NewInt(100), math.ZeroInt(),
			types.Path{tokenA, tokenB}, caller, f.Deadline(time.Hour))
		return err
	}

	require.NoError(t, swap(f, alice))
	require.ErrorIs(t, swap(f, alice), types.ErrTooSoon)
	require.ErrorIs(t, swap(f.At(keepertest.GenesisTime.Add(59*time.Second)), alice), types.ErrTooSoon)

	// Other callers are tracked separately.
	require.NoError(t, swap(f, bob))

	require.NoError(t, swap(f.At(keepertest.GenesisTime.Add(time.Minute)), alice))
	last, found := f.Router.LastCallTime(f.Ctx, alice)
	require.True(t, found)
	require.True(t, keepertest.GenesisTime.Add(time.Minute).Equal(last))
}

// TestSwap_RateLimitIgnoresFailedCalls tests that rejected swaps are not recorded
func TestSwap_RateLimitIgnoresFailedCalls(t *testing.T) {
	f := keepertest.RouterKeeper(t)
	f.CreatePool(t, tokenA, tokenB, 1_000, 1_000)
	f.SetParams(t, func(p *types.Params) { p.MinTimeBetweenCalls = time.Minute })
	f.Fund(t, tokenA, alice, 100)

	_, err := f.Router.SwapExactInputForOutput(f.Ctx, alice, math.NewInt(100), math.NewInt(91),
		types.Path{tokenA, tokenB}, bob, f.Deadline(time.Minute))
	require.ErrorIs(t, err, types.ErrExcessiveSlippage)

	_, err = f.Router.SwapExactInputForOutput(f.Ctx, alice, math.NewInt(100), math.NewInt(90),
		types.Path{tokenA, tokenB}, bob, f.Deadline(time.Minute))
	require.NoError(t, err)
}

// TestSwap_InvalidPath tests structural path validation
func TestSwap_InvalidPath(t *testing.T) {
	f := keepertest.RouterKeeper(t)
	f.CreatePool(t, tokenA, tokenB, 1_000, 1_000)
	f.Fund(t, tokenA, alice, 100)

	tests := []struct {
		name string
		path types.Path
		err  error
	}{
		{"single asset", types.Path{tokenA}, types.ErrInvalidPath},
		{"too many hops", types.Path{tokenA, tokenB, tokenC, tokenD, tokenA, tokenB, tokenC}, types.ErrInvalidPath},
		{"null asset", types.Path{tokenA, {}}, types.ErrZeroAddress},
		{"adjacent duplicate", types.Path{tokenA, tokenA}, types.ErrInvalidPath},
		{"missing pool", types.Path{tokenA, tokenC}, types.ErrPoolNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.Router.SwapExactInputForOutput(f.Ctx, alice, math.NewInt(10), math.ZeroInt(),
				tc.path, bob, f.Deadline(time.Minute))
			require.ErrorIs(t, err, tc.err)
		})
	}

	_, err := f.Router.SwapExactInputForOutput(f.Ctx, alice, math.NewInt(10), math.ZeroInt(),
		types.Path{tokenA, tokenB}, common.Address{}, f.Deadline(time.Minute))
	require.ErrorIs(t, err, types.ErrZeroAddress)
	require.Equal(t, int64(100), f.Balance(tokenA, alice))
}

// TestSwap_NilPathIsStillASwap tests that a nil path gets the swap checks
// and swap metrics
func TestSwap_NilPathIsStillASwap(t *testing.T) {
	f := keepertest.RouterKeeper(t)
	f.CreatePool(t, tokenA, tokenB, 100_000, 100_000)
	f.SetParams(t, func(p *types.Params) { p.MinTimeBetweenCalls = time.Minute })
	f.Fund(t, tokenA, alice, 1_000)

	m := keeper.NewRouterMetrics()
	swaps := m.SwapsTotal.WithLabelValues(keeper.KindExactInput, "failure")
	liquidity := m.LiquidityEvents.WithLabelValues(keeper.KindExactInput, "failure")
	swapsBefore, liquidityBefore := promtestutil.ToFloat64(swaps), promtestutil.ToFloat64(liquidity)

	_, err := f.Router.SwapExactInputForOutput(f.Ctx, alice, math.NewInt(10), math.ZeroInt(),
		nil, bob, f.Deadline(time.Minute))
	require.ErrorIs(t, err, types.ErrInvalidPath)
	require.Equal(t, swapsBefore+1, promtestutil.ToFloat64(swaps))
	require.Equal(t, liquidityBefore, promtestutil.ToFloat64(liquidity))

	// the rate limit applies before the path is looked at
	_, err = f.Router.SwapExactInputForOutput(f.Ctx, alice, math.NewInt(10), math.ZeroInt(),
		types.Path{tokenA, tokenB}, bob, f.Deadline(time.Minute))
	require.NoError(t, err)
	_, err = f.Router.SwapExactInputForOutput(f.Ctx, alice, math.NewInt(10), math.ZeroInt(),
		nil, bob, f.Deadline(time.Minute))
	require.ErrorIs(t, err, types.ErrTooSoon)
}

// TestSwap_GuardOrder tests that the deadline and rate limit are checked
// before the caller, recipient and path arguments
func TestSwap_GuardOrder(t *testing.T) {
	f := keepertest.RouterKeeper(t)
	f.CreatePool(t, tokenA, tokenB, 100_000, 100_000)
	f.SetParams(t, func(p *types.Params) { p.MinTimeBetweenCalls = time.Minute })
	f.Fund(t, tokenA, alice, 1_000)
	expired := f.Deadline(-time.Second)

	_, err := f.Router.SwapExactInputForOutput(f.Ctx, alice, math.NewInt(10), math.ZeroInt(),
		types.Path{tokenA, tokenB}, common.Address{}, expired)
	require.ErrorIs(t, err, types.ErrExpiredDeadline)

	_, err = f.Router.SwapExactInputForOutput(f.Ctx, common.Address{}, math.NewInt(10), math.ZeroInt(),
		types.Path{tokenA}, bob, expired)
	require.ErrorIs(t, err, types.ErrExpiredDeadline)

	_, _, _, err = f.Router.AddLiquidity(f.Ctx, alice, tokenA, tokenB, math.NewInt(10), math.NewInt(10),
		math.ZeroInt(), math.ZeroInt(), common.Address{}, expired)
	require.ErrorIs(t, err, types.ErrExpiredDeadline)

	_, err = f.Router.SwapExactInputForOutput(f.Ctx, alice, math.NewInt(10), math.ZeroInt(),
		types.Path{tokenA, tokenB}, bob, f.Deadline(time.Minute))
	require.NoError(t, err)
	_, err = f.Router.SwapExactInputForOutput(f.Ctx, alice, math.NewInt(10), math.ZeroInt(),
		types.Path{tokenA, tokenB}, common.Address{}, f.Deadline(time.Minute))
	require.ErrorIs(t, err, types.ErrTooSoon)

	_, err = f.Router.SwapExactInputForOutput(f.At(keepertest.GenesisTime.Add(time.Minute)).Ctx, alice, math.NewInt(10), math.ZeroInt(),
		types.Path{tokenA, tokenB}, common.Address{}, f.Deadline(time.Hour))
	require.ErrorIs(t, err, types.ErrZeroAddress)
}

// TestSwap_RestrictedPairs tests the pair authorization set
// TestSwap_ReserveProductOverflow tests that pools too deep for the pool's
// constant product check still quote but refuse to swap with ErrOverflow
func TestSwap_ReserveProductOverflow(t *testing.T) {
	f := keepertest.RouterKeeper(t)
	huge := math.NewIntFromBigInt(new(big.Int).Lsh(big.NewInt(1), 125))
	pool, err := f.Pairs.CreatePool(f.Ctx, tokenA, tokenB)
	require.NoError(t, err)
	require.NoError(t, f.Pairs.Mint(f.Ctx, tokenA, pool.Address(), huge))
	require.NoError(t, f.Pairs.Mint(f.Ctx, tokenB, pool.Address(), huge))
	require.NoError(t, pool.Sync(f.Ctx))
	f.Fund(t, tokenA, alice, 1_000_000)

	path := types.Path{tokenA, tokenB}
	amounts, err := f.Router.GetAmountsOut(f.Ctx, math.NewInt(1_000_000), path)
	require.NoError(t, err)
	require.True(t, amounts[1].IsPositive())

	_, err = f.Router.SwapExactInputForOutput(f.Ctx, alice, math.NewInt(1_000_000), math.ZeroInt(), path, bob, f.Deadline(time.Minute))
	require.ErrorIs(t, err, types.ErrOverflow)
	require.Equal(t, int64(1_000_000), f.Balance(tokenA, alice))
	require.Zero(t, f.Balance(tokenB, bob))
}

func TestSwap_RestrictedPairs(t *testing.T) {
	f := keepertest.RouterKeeper(t)
	f.CreatePool(t, tokenA, tokenB, 1_000, 1_000)
	f.SetParams(t, func(p *types.Params) { p.RestrictPairs = true })
	f.Fund(t, tokenA, alice, 100)

	_, err := f.Router.SwapExactInputForOutput(f.Ctx, alice, math.NewInt(10), math.ZeroInt(),
		types.Path{tokenA, tokenB}, bob, f.Deadline(time.Minute))
	require.ErrorIs(t, err, types.ErrUnauthorizedPair)

	require.NoError(t, f.Router.AuthorizePair(f.Ctx, keepertest.Authority, tokenB, tokenA))
	_, err = f.Router.SwapExactInputForOutput(f.Ctx, alice, math.NewInt(10), math.ZeroInt(),
		types.Path{tokenA, tokenB}, bob, f.Deadline(time.Minute))
	require.NoError(t, err)
}

type haltedPool struct {
	types.Pool
}

func (haltedPool) Swap(context.Context, math.Int, math.Int, common.Address, []byte) error {
	return errors.New("pool halted")
}

// overrideRegistry substitutes the handle of one pool.
type overrideRegistry struct {
	types.PoolRegistry
	target   common.Address
	override func(types.Pool) types.Pool
}

func (r overrideRegistry) PoolAt(ctx context.Context, addr common.Address) (types.Pool, bool) {
	pool, found := r.PoolRegistry.PoolAt(ctx, addr)
	if !found || addr != r.target {
		return pool, found
	}
	return r.override(pool), true
}

// TestSwap_Atomic tests that a failing later hop rolls back earlier hops
func TestSwap_Atomic(t *testing.T) {
	second, err := keeper.PoolFor(keepertest.Registry, keepertest.PoolCodeHash, tokenB, tokenC)
	require.NoError(t, err)

	f := keepertest.RouterKeeperWithRegistry(t, func(r types.PoolRegistry) types.PoolRegistry {
		return overrideRegistry{
			PoolRegistry: r,
			target:       second,
			override:     func(p types.Pool) types.Pool { return haltedPool{p} },
		}
	})
	first := f.CreatePool(t, tokenA, tokenB, 1_000, 1_000)
	f.CreatePool(t, tokenB, tokenC, 500, 2_000)
	f.SetParams(t, func(p *types.Params) { p.MaxPriceImpactBps = 2_000 })
	f.Fund(t, tokenA, alice, 100)

	_, err = f.Router.SwapExactInputForOutput(f.Ctx, alice, math.NewInt(100), math.ZeroInt(),
		types.Path{tokenA, tokenB, tokenC}, bob, f.Deadline(time.Minute))
	require.ErrorContains(t, err, "pool halted")

	require.Equal(t, int64(100), f.Balance(tokenA, alice))
	require.Equal(t, int64(1_000), f.Balance(tokenA, first.Address()))
	require.Equal(t, int64(500), f.Balance(tokenB, second))
	ra, rb := reserves(t, f, tokenA, tokenB)
	require.Equal(t, []int64{1_000, 1_000}, []int64{ra, rb})

	_, found := findEvent(f.Ctx, types.EventTypeSwap)
	require.False(t, found)
	require.False(t, f.Router.InProgress(f.Ctx))
}

// reentrantPool calls back into the router before swapping.
type reentrantPool struct {
	types.Pool
	router *keeper.Keeper
}

func (p reentrantPool) Swap(ctx context.Context, amount0Out, amount1Out math.Int, to common.Address, data []byte) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	_, err := p.router.SwapExactInputForOutput(ctx, alice, math.NewInt(1), math.ZeroInt(),
		types.Path{tokenA, tokenB}, bob, sdkCtx.BlockTime().Add(time.Minute))
	if err != nil {
		return err
	}
	return p.Pool.Swap(ctx, amount0Out, amount1Out, to, data)
}

// TestSwap_Reentrancy tests that a pool calling back into the router is rejected
func TestSwap_Reentrancy(t *testing.T) {
	target, err := keeper.PoolFor(keepertest.Registry, keepertest.PoolCodeHash, tokenA, tokenB)
	require.NoError(t, err)

	var router keeper.Keeper
	f := keepertest.RouterKeeperWithRegistry(t, func(r types.PoolRegistry) types.PoolRegistry {
		return overrideRegistry{
			PoolRegistry: r,
			target:       target,
			override:     func(p types.Pool) types.Pool { return reentrantPool{Pool: p, router: &router} },
		}
	})
	router = f.Router
	f.CreatePool(t, tokenA, tokenB, 1_000, 1_000)
	f.Fund(t, tokenA, alice, 100)

	_, err = f.Router.SwapExactInputForOutput(f.Ctx, alice, math.NewInt(100), math.ZeroInt(),
		types.Path{tokenA, tokenB}, bob, f.Deadline(time.Minute))
	require.ErrorIs(t, err, types.ErrReentrancy)

	require.Equal(t, int64(100), f.Balance(tokenA, alice))
	require.Equal(t, int64(0), f.Balance(tokenB, bob))
	require.False(t, f.Router.InProgress(f.Ctx))
}
