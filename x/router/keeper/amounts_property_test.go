package keeper_test

import (
	"errors"
	"testing"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"pgregory.net/rapid"

	keepertest "github.com/paw-chain/router/testutil/keeper"
	"github.com/paw-chain/router/x/router/keeper"
	"github.com/paw-chain/router/x/router/types"
)

func drawReserve(t *rapid.T, label string) math.Int {
	return math.NewInt(rapid.Int64Range(1_000, 1_000_000_000_000).Draw(t, label))
}

// TestGetAmountOutProperties tests bounds and monotonicity of output pricing
func TestGetAmountOutProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		reserveIn := drawReserve(t, "reserveIn")
		reserveOut := drawReserve(t, "reserveOut")
		in := rapid.Int64Range(1, 1_000_000_000_000).Draw(t, "amountIn")
		extra := rapid.Int64Range(0, 1_000_000).Draw(t, "extra")

		out, err := keeper.GetAmountOut(math.NewInt(in), reserveIn, reserveOut)
		if err != nil {
			t.Fatalf("GetAmountOut: %v", err)
		}
		// Property: a swap can never drain the output reserve
		if !out.LT(reserveOut) {
			t.Fatalf("output %s not below reserve %s", out, reserveOut)
		}

		// Property: more input never yields less output
		more, err := keeper.GetAmountOut(math.NewInt(in+extra), reserveIn, reserveOut)
		if err != nil {
			t.Fatalf("GetAmountOut: %v", err)
		}
		if more.LT(out) {
			t.Fatalf("output decreased from %s to %s", out, more)
		}

		// Property: the pool's product never decreases
		before := reserveIn.Mul(reserveOut)
		after := reserveIn.AddRaw(in).Mul(reserveOut.Sub(out))
		if after.LT(before) {
			t.Fatalf("k decreased from %s to %s", before, after)
		}
	})
}

// TestGetAmountInProperties tests that rounding never favors the trader
func TestGetAmountInProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		reserveIn := drawReserve(t, "reserveIn")
		reserveOut := drawReserve(t, "reserveOut")
		want := math.NewInt(rapid.Int64Range(1, reserveOut.Int64()-1).Draw(t, "amountOut"))

		in, err := keeper.GetAmountIn(want, reserveIn, reserveOut)
		if err != nil {
			t.Fatalf("GetAmountIn: %v", err)
		}
		// Property: paying the quoted input buys at least the requested output
		got, err := keeper.GetAmountOut(in, reserveIn, reserveOut)
		if err != nil {
			t.Fatalf("GetAmountOut: %v", err)
		}
		if got.LT(want) {
			t.Fatalf("paying %s bought %s, wanted %s", in, got, want)
		}

		// Property: one unit less would not have been enough
		if in.GT(math.OneInt()) {
			short, err := keeper.GetAmountOut(in.SubRaw(1), reserveIn, reserveOut)
			if err != nil {
				t.Fatalf("GetAmountOut: %v", err)
			}
			if !short.LT(want) {
				t.Fatalf("paying %s already bought %s", in.SubRaw(1), short)
			}
		}
	})
}

// TestRoundTripProperties tests the input quoted for a trade's own output
func TestRoundTripProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		reserveIn := drawReserve(t, "reserveIn")
		reserveOut := drawReserve(t, "reserveOut")
		in := math.NewInt(rapid.Int64Range(1, 1_000_000_000_000).Draw(t, "amountIn"))

		out, err := keeper.GetAmountOut(in, reserveIn, reserveOut)
		if err != nil {
			t.Fatalf("GetAmountOut: %v", err)
		}
		if out.IsZero() {
			return
		}
		// Property: the output actually received could have been bought
		// for no more than what was paid
		quoted, err := keeper.GetAmountIn(out, reserveIn, reserveOut)
		if err != nil {
			t.Fatalf("GetAmountIn: %v", err)
		}
		if quoted.GT(in) {
			t.Fatalf("quoted %s for %s, but %s already bought it", quoted, out, in)
		}
	})
}

// TestOptimalLiquidityProperties tests that deposits respect the desired caps
func TestOptimalLiquidityProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		reserveA := drawReserve(t, "reserveA")
		reserveB := drawReserve(t, "reserveB")
		desiredA := math.NewInt(rapid.Int64Range(1, 1_000_000_000).Draw(t, "desiredA"))
		desiredB := math.NewInt(rapid.Int64Range(1, 1_000_000_000).Draw(t, "desiredB"))

		amountA, amountB, err := keeper.OptimalLiquidity(reserveA, reserveB, desiredA, desiredB, math.ZeroInt(), math.ZeroInt())
		if err != nil {
			t.Fatalf("OptimalLiquidity: %v", err)
		}
		if amountA.GT(desiredA) || amountB.GT(desiredB) {
			t.Fatalf("deposit %s/%s exceeds desired %s/%s", amountA, amountB, desiredA, desiredB)
		}
		// Property: one side is always taken in full
		if !amountA.Equal(desiredA) && !amountB.Equal(desiredB) {
			t.Fatalf("neither side taken in full: %s/%s of %s/%s", amountA, amountB, desiredA, desiredB)
		}
	})
}

// TestQuoteLinearity tests that doubling the amount doubles the quote up to
// one unit of truncation
func TestQuoteLinearity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		reserveA := drawReserve(t, "reserveA")
		reserveB := drawReserve(t, "reserveB")
		a := math.NewInt(rapid.Int64Range(1, 1_000_000_000_000).Draw(t, "amount"))

		single, err := keeper.Quote(a, reserveA, reserveB)
		if err != nil {
			t.Fatalf("Quote: %v", err)
		}
		double, err := keeper.Quote(a.MulRaw(2), reserveA, reserveB)
		if err != nil {
			t.Fatalf("Quote: %v", err)
		}
		diff := double.Sub(single.MulRaw(2))
		if diff.IsNegative() || diff.GT(math.OneInt()) {
			t.Fatalf("quote(2a)=%s, 2*quote(a)=%s", double, single.MulRaw(2))
		}
	})
}

// TestPathConsistencyProperties tests forward and backward pricing over
// random 2 and 3 hop routes
func TestPathConsistencyProperties(t *testing.T) {
	tokens := []common.Address{tokenA, tokenB, tokenC, tokenD}

	rapid.Check(t, func(rt *rapid.T) {
		f := keepertest.RouterKeeper(t)
		hops := rapid.IntRange(2, 3).Draw(rt, "hops")
		path := types.Path(tokens[:hops+1])
		for i := 0; i < hops; i++ {
			f.CreatePool(t, path[i], path[i+1],
				rapid.Int64Range(1_000, 1_000_000_000_000).Draw(rt, "reserveIn"),
				rapid.Int64Range(1_000, 1_000_000_000_000).Draw(rt, "reserveOut"))
		}
		x := math.NewInt(rapid.Int64Range(1, 1_000_000_000).Draw(rt, "amountIn"))

		forward, err := f.Router.GetAmountsOut(f.Ctx, x, path)
		if errors.Is(err, types.ErrInsufficientAmount) {
			// an intermediate hop rounded to nothing
			return
		}
		if err != nil {
			rt.Fatalf("GetAmountsOut: %v", err)
		}
		out := forward[len(forward)-1]
		if out.IsZero() {
			return
		}

		// Property: buying the forward output back never costs more than x
		backward, err := f.Router.GetAmountsIn(f.Ctx, out, path)
		if err != nil {
			rt.Fatalf("GetAmountsIn: %v", err)
		}
		if backward[0].GT(x) {
			rt.Fatalf("amounts in %v exceed amounts out %v", backward, forward)
		}

		// Property: paying the exact-output quote delivers at least the target
		want := math.NewInt(rapid.Int64Range(1, out.Int64()).Draw(rt, "amountOut"))
		needed, err := f.Router.GetAmountsIn(f.Ctx, want, path)
		if err != nil {
			rt.Fatalf("GetAmountsIn: %v", err)
		}
		delivered, err := f.Router.GetAmountsOut(f.Ctx, needed[0], path)
		if err != nil {
			rt.Fatalf("GetAmountsOut: %v", err)
		}
		if got := delivered[len(delivered)-1]; got.LT(want) {
			rt.Fatalf("paying %s delivered %s, wanted %s", needed[0], got, want)
		}
	})
}

// TestPoolForSymmetry tests that the pool reference ignores argument order
func TestPoolForSymmetry(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := common.BytesToAddress(rapid.SliceOfN(rapid.Byte(), 20, 20).Draw(t, "a"))
		b := common.BytesToAddress(rapid.SliceOfN(rapid.Byte(), 20, 20).Draw(t, "b"))
		if a == b || a == (common.Address{}) || b == (common.Address{}) {
			t.Skip("need distinct non-zero assets")
		}

		ab, err := keeper.PoolFor(keepertest.Registry, keepertest.PoolCodeHash, a, b)
		if err != nil {
			t.Fatalf("PoolFor(a, b): %v", err)
		}
		ba, err := keeper.PoolFor(keepertest.Registry, keepertest.PoolCodeHash, b, a)
		if err != nil {
			t.Fatalf("PoolFor(b, a): %v", err)
		}
		if ab != ba {
			t.Fatalf("PoolFor(a, b)=%s, PoolFor(b, a)=%s", ab.Hex(), ba.Hex())
		}
	})
}
