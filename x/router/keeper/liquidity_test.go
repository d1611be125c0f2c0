package keeper_test

import (
	"testing"
	"time"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	keepertest "github.com/paw-chain/router/testutil/keeper"
	"github.com/paw-chain/router/x/router/keeper"
	"github.com/paw-chain/router/x/router/types"
)

// TestOptimalLiquidity tests deposit sizing against existing reserves
func TestOptimalLiquidity(t *testing.T) {
	tests := []struct {
		name               string
		reserveA, reserveB int64
		desiredA, desiredB int64
		minA, minB         int64
		expectA, expectB   int64
		err                error
	}{
		{name: "empty pool takes desired", desiredA: 7, desiredB: 11, expectA: 7, expectB: 11},
		{name: "B side trimmed", reserveA: 1_000, reserveB: 2_000, desiredA: 100, desiredB: 300, expectA: 100, expectB: 200},
		{name: "A side trimmed", reserveA: 1_000, reserveB: 2_000, desiredA: 100, desiredB: 150, expectA: 75, expectB: 150},
		{name: "B below minimum", reserveA: 1_000, reserveB: 2_000, desiredA: 100, desiredB: 300, minB: 250, err: types.ErrInsufficientAmount},
		{name: "A below minimum", reserveA: 1_000, reserveB: 2_000, desiredA: 100, desiredB: 150, minA: 80, err: types.ErrInsufficientAmount},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a, b, err := keeper.OptimalLiquidity(
				math.NewInt(tc.reserveA), math.NewInt(tc.reserveB),
				math.NewInt(tc.desiredA), math.NewInt(tc.desiredB),
				math.NewInt(tc.minA), math.NewInt(tc.minB),
			)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, math.NewInt(tc.expectA), a)
			require.Equal(t, math.NewInt(tc.expectB), b)
		})
	}
}

// TestAddLiquidity_CreatesPool tests the first deposit into an unknown pair
func TestAddLiquidity_CreatesPool(t *testing.T) {
	f := keepertest.RouterKeeper(t)
	f.Fund(t, tokenA, alice, 10_000)
	f.Fund(t, tokenB, alice, 40_000)

	amountA, amountB, liquidity, err := f.Router.AddLiquidity(f.Ctx, alice, tokenA, tokenB,
		math.NewInt(10_000), math.NewInt(40_000), math.ZeroInt(), math.ZeroInt(), alice, f.Deadline(time.Minute))
	require.NoError(t, err)
	require.Equal(t, math.NewInt(10_000), amountA)
	require.Equal(t, math.NewInt(40_000), amountB)
	require.Equal(t, math.NewInt(19_000), liquidity)

	pool, err := f.Router.PoolFor(tokenA, tokenB)
	require.NoError(t, err)
	require.Equal(t, int64(19_000), f.Balance(pool, alice))
	ra, rb := reserves(t, f, tokenA, tokenB)
	require.Equal(t, []int64{10_000, 40_000}, []int64{ra, rb})

	_, found := findEvent(f.Ctx, types.EventTypeLiquidityAdded)
	require.True(t, found)
}

func seedLiquidity(t *testing.T, f keepertest.Fixture) {
	f.Fund(t, tokenA, alice, 10_000)
	f.Fund(t, tokenB, alice, 20_000)
	_, _, _, err := f.Router.AddLiquidity(f.Ctx, alice, tokenA, tokenB,
		math.NewInt(10_000), math.NewInt(20_000), math.ZeroInt(), math.ZeroInt(), alice, f.Deadline(time.Minute))
	require.NoError(t, err)
}

// TestAddLiquidity_KeepsRatio tests deposits into an existing pool
func TestAddLiquidity_KeepsRatio(t *testing.T) {
	f := keepertest.RouterKeeper(t)
	seedLiquidity(t, f)
	f.Fund(t, tokenA, bob, 100)
	f.Fund(t, tokenB, bob, 300)

	_, _, _, err := f.Router.AddLiquidity(f.Ctx, bob, tokenA, tokenB,
		math.NewInt(100), math.NewInt(300), math.ZeroInt(), math.NewInt(250), bob, f.Deadline(time.Minute))
	require.ErrorIs(t, err, types.ErrInsufficientAmount)

	amountA, amountB, liquidity, err := f.Router.AddLiquidity(f.Ctx, bob, tokenA, tokenB,
		math.NewInt(100), math.NewInt(300), math.ZeroInt(), math.ZeroInt(), bob, f.Deadline(time.Minute))
	require.NoError(t, err)
	require.Equal(t, math.NewInt(100), amountA)
	require.Equal(t, math.NewInt(200), amountB)
	require.Equal(t, math.NewInt(141), liquidity)
	require.Equal(t, int64(0), f.Balance(tokenA, bob))
	require.Equal(t, int64(100), f.Balance(tokenB, bob))
}

// TestAddLiquidity_Guards tests the emergency stop and deadline on deposits
func TestAddLiquidity_Guards(t *testing.T) {
	f := keepertest.RouterKeeper(t)
	f.Fund(t, tokenA, alice, 10_000)
	f.Fund(t, tokenB, alice, 10_000)

	_, _, _, err := f.Router.AddLiquidity(f.Ctx, alice, tokenA, tokenB,
		math.NewInt(5_000), math.NewInt(5_000), math.ZeroInt(), math.ZeroInt(), alice, f.Deadline(-time.Second))
	require.ErrorIs(t, err, types.ErrExpiredDeadline)

	require.NoError(t, f.Router.SetEmergencyStop(f.Ctx, keepertest.Authority, true))
	_, _, _, err = f.Router.AddLiquidity(f.Ctx, alice, tokenA, tokenB,
		math.NewInt(5_000), math.NewInt(5_000), math.ZeroInt(), math.ZeroInt(), alice, f.Deadline(time.Minute))
	require.ErrorIs(t, err, types.ErrEmergencyStopActive)

	_, _, _, err = f.Router.AddLiquidity(f.Ctx, alice, tokenA, tokenB,
		math.ZeroInt(), math.NewInt(5_000), math.ZeroInt(), math.ZeroInt(), alice, f.Deadline(time.Minute))
	require.ErrorIs(t, err, types.ErrEmergencyStopActive)

	require.NoError(t, f.Router.SetEmergencyStop(f.Ctx, keepertest.Authority, false))
	_, _, _, err = f.Router.AddLiquidity(f.Ctx, alice, tokenA, tokenB,
		math.ZeroInt(), math.NewInt(5_000), math.ZeroInt(), math.ZeroInt(), alice, f.Deadline(time.Minute))
	require.ErrorIs(t, err, types.ErrInvalidAmounts)
	require.Equal(t, int64(10_000), f.Balance(tokenA, alice))
}

// TestRemoveLiquidity tests burning shares for both assets
func TestRemoveLiquidity(t *testing.T) {
	f := keepertest.RouterKeeper(t)
	f.Fund(t, tokenA, alice, 10_000)
	f.Fund(t, tokenB, alice, 40_000)
	_, _, liquidity, err := f.Router.AddLiquidity(f.Ctx, alice, tokenA, tokenB,
		math.NewInt(10_000), math.NewInt(40_000), math.ZeroInt(), math.ZeroInt(), alice, f.Deadline(time.Minute))
	require.NoError(t, err)
	pool, err := f.Router.PoolFor(tokenA, tokenB)
	require.NoError(t, err)

	_, _, err = f.Router.RemoveLiquidity(f.Ctx, alice, tokenA, tokenB, liquidity,
		math.NewInt(9_501), math.ZeroInt(), bob, f.Deadline(time.Minute))
	require.ErrorIs(t, err, types.ErrInsufficientAmount)
	require.Equal(t, int64(19_000), f.Balance(pool, alice))

	// Reversed token order returns amounts in the caller's order.
	amountB, amountA, err := f.Router.RemoveLiquidity(f.Ctx, alice, tokenB, tokenA, liquidity,
		math.ZeroInt(), math.ZeroInt(), bob, f.Deadline(time.Minute))
	require.NoError(t, err)
	require.Equal(t, math.NewInt(9_500), amountA)
	require.Equal(t, math.NewInt(38_000), amountB)

	require.Equal(t, int64(0), f.Balance(pool, alice))
	require.Equal(t, int64(9_500), f.Balance(tokenA, bob))
	require.Equal(t, int64(38_000), f.Balance(tokenB, bob))
	ra, rb := reserves(t, f, tokenA, tokenB)
	require.Equal(t, []int64{500, 2_000}, []int64{ra, rb})

	_, _, err = f.Router.RemoveLiquidity(f.Ctx, alice, tokenA, tokenC, math.NewInt(1),
		math.ZeroInt(), math.ZeroInt(), bob, f.Deadline(time.Minute))
	require.ErrorIs(t, err, types.ErrPoolNotFound)
}

// TestLiquidityNative tests deposits and withdrawals paired with native value
func TestLiquidityNative(t *testing.T) {
	f := keepertest.RouterKeeper(t)
	f.Fund(t, tokenA, alice, 4_400)
	f.FundNative(t, alice, 1_600)

	amountToken, amountNative, liquidity, err := f.Router.AddLiquidityNative(f.Ctx, alice, tokenA,
		math.NewInt(1_000), math.NewInt(4_000), math.ZeroInt(), math.ZeroInt(), alice, f.Deadline(time.Minute))
	require.NoError(t, err)
	require.Equal(t, math.NewInt(4_000), amountToken)
	require.Equal(t, math.NewInt(1_000), amountNative)
	require.Equal(t, math.NewInt(1_000), liquidity)
	require.Equal(t, int64(600), f.NativeBalance(alice))

	amountToken, amountNative, liquidity, err = f.Router.AddLiquidityNative(f.Ctx, alice, tokenA,
		math.NewInt(600), math.NewInt(400), math.ZeroInt(), math.ZeroInt(), alice, f.Deadline(time.Minute))
	require.NoError(t, err)
	require.Equal(t, math.NewInt(400), amountToken)
	require.Equal(t, math.NewInt(100), amountNative)
	require.Equal(t, math.NewInt(200), liquidity)
	require.Equal(t, int64(500), f.NativeBalance(alice))
	require.Equal(t, int64(0), f.NativeBalance(keepertest.RouterAddress))

	amountToken, amountNative, err = f.Router.RemoveLiquidityNative(f.Ctx, alice, tokenA,
		math.NewInt(1_000), math.ZeroInt(), math.ZeroInt(), bob, f.Deadline(time.Minute))
	require.NoError(t, err)
	require.Equal(t, math.NewInt(2_000), amountToken)
	require.Equal(t, math.NewInt(500), amountNative)
	require.Equal(t, int64(2_000), f.Balance(tokenA, bob))
	require.Equal(t, int64(500), f.NativeBalance(bob))
	require.Equal(t, int64(0), f.Balance(wnative, keepertest.RouterAddress))
}
