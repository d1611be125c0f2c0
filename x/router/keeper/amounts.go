package keeper

import (
	"context"

	"cosmossdk.io/math"
	"github.com/holiman/uint256"

	"github.com/paw-chain/router/x/router/types"
)

// Every pool charges a 0.3% fee on the input side.
const (
	FeeNumerator   = 997
	FeeDenominator = 1000
)

var (
	feeNumerator   = uint256.NewInt(FeeNumerator)
	feeDenominator = uint256.NewInt(FeeDenominator)
)

// GetAmountOut returns the output of a single fee-charging swap of amountIn
// against (reserveIn, reserveOut), rounded down:
//
//	out = (in*997*reserveOut) / (reserveIn*1000 + in*997)
func GetAmountOut(amountIn, reserveIn, reserveOut math.Int) (math.Int, error) {
	if amountIn.IsNil() || !amountIn.IsPositive() {
		return math.Int{}, types.ErrInsufficientAmount.Wrapf("input amount must be positive, got %s", amountIn)
	}
	if !isPositive(reserveIn) || !isPositive(reserveOut) {
		return math.Int{}, types.ErrInsufficientAmount.Wrapf("insufficient liquidity: reserves %s/%s", reserveIn, reserveOut)
	}

	in, err := toU256(amountIn)
	if err != nil {
		return math.Int{}, err
	}
	rIn, err := toU256(reserveIn)
	if err != nil {
		return math.Int{}, err
	}
	rOut, err := toU256(reserveOut)
	if err != nil {
		return math.Int{}, err
	}

	inWithFee, err := mulU256(in, feeNumerator)
	if err != nil {
		return math.Int{}, err
	}
	numerator, err := mulU256(inWithFee, rOut)
	if err != nil {
		return math.Int{}, err
	}
	scaledReserve, err := mulU256(rIn, feeDenominator)
	if err != nil {
		return math.Int{}, err
	}
	denominator, err := addU256(scaledReserve, inWithFee)
	if err != nil {
		return math.Int{}, err
	}
	return fromU256(new(uint256.Int).Div(numerator, denominator)), nil
}

// GetAmountIn returns the input required for a single swap to yield
// amountOut, rounded up:
//
//	in = ceil(reserveIn*amountOut*1000 / ((reserveOut-amountOut)*997))
func GetAmountIn(amountOut, reserveIn, reserveOut math.Int) (math.Int, error) {
	if amountOut.IsNil() || !amountOut.IsPositive() {
		return math.Int{}, types.ErrInsufficientAmount.Wrapf("output amount must be positive, got %s", amountOut)
	}
	if !isPositive(reserveIn) || !isPositive(reserveOut) {
		return math.Int{}, types.ErrInsufficientAmount.Wrapf("insufficient liquidity: reserves %s/%s", reserveIn, reserveOut)
	}
	if amountOut.GTE(reserveOut) {
		return math.Int{}, types.NewBoundError(types.ErrInsufficientAmount, "reserve_out", reserveOut, amountOut)
	}

	out, err := toU256(amountOut)
	if err != nil {
		return math.Int{}, err
	}
	rIn, err := toU256(reserveIn)
	if err != nil {
		return math.Int{}, err
	}
	rOut, err := toU256(reserveOut)
	if err != nil {
		return math.Int{}, err
	}

	numerator, err := mulU256(rIn, out)
	if err != nil {
		return math.Int{}, err
	}
	numerator, err = mulU256(numerator, feeDenominator)
	if err != nil {
		return math.Int{}, err
	}
	denominator, err := mulU256(new(uint256.Int).Sub(rOut, out), feeNumerator)
	if err != nil {
		return math.Int{}, err
	}

	quotient, remainder := new(uint256.Int).DivMod(numerator, denominator, new(uint256.Int))
	if !remainder.IsZero() {
		quotient, err = addU256(quotient, uint256.NewInt(1))
		if err != nil {
			return math.Int{}, err
		}
	}
	return fromU256(quotient), nil
}

// Quote returns the amount of B proportional to amountA at the current
// reserve ratio, with no fee, rounded down.
func Quote(amountA, reserveA, reserveB math.Int) (math.Int, error) {
	if amountA.IsNil() || !amountA.IsPositive() {
		return math.Int{}, types.ErrInsufficientAmount.Wrapf("amount must be positive, got %s", amountA)
	}
	if !isPositive(reserveA) || !isPositive(reserveB) {
		return math.Int{}, types.ErrInsufficientAmount.Wrapf("insufficient liquidity: reserves %s/%s", reserveA, reserveB)
	}
	return mulDiv(amountA, reserveB, reserveA)
}

func isPositive(x math.Int) bool {
	return !x.IsNil() && x.IsPositive()
}

// GetAmountsOut chains GetAmountOut across every hop of path using the
// current reserves. The result has len(path) entries, the first being
// amountIn.
func (k Keeper) GetAmountsOut(ctx context.Context, amountIn math.Int, path types.Path) ([]math.Int, error) {
	route, err := k.planExactInput(ctx, amountIn, path)
	if err != nil {
		return nil, err
	}
	return route.plan.Amounts, nil
}

// GetAmountsIn chains GetAmountIn backwards from the last hop of path. The
// result has len(path) entries, the last being amountOut.
func (k Keeper) GetAmountsIn(ctx context.Context, amountOut math.Int, path types.Path) ([]math.Int, error) {
	route, err := k.planExactOutput(ctx, amountOut, path)
	if err != nil {
		return nil, err
	}
	return route.plan.Amounts, nil
}

// route is a priced path together with the pool handles of every hop.
type route struct {
	plan  types.SwapPlan
	pools []types.Pool
}

// resolveHops looks up every pool of path and records the direction-correct
// reserves of each hop.
func (k Keeper) resolveHops(ctx context.Context, path types.Path) (route, error) {
	if len(path) < 2 {
		return route{}, types.ErrInvalidPath.Wrapf("path needs at least 2 assets, got %d", len(path))
	}
	r := route{
		plan: types.SwapPlan{
			Path:     path,
			Amounts:  make([]math.Int, len(path)),
			Reserves: make([]types.Reserves, len(path)-1),
		},
		pools: make([]types.Pool, len(path)-1),
	}
	for i := 0; i < len(path)-1; i++ {
		reserveIn, reserveOut, pool, err := k.GetReserves(ctx, path[i], path[i+1])
		if err != nil {
			return route{}, err
		}
		r.pools[i] = pool
		r.plan.Reserves[i] = types.Reserves{
			Pool:       pool.Address(),
			ReserveIn:  reserveIn,
			ReserveOut: reserveOut,
		}
	}
	return r, nil
}

func (k Keeper) planExactInput(ctx context.Context, amountIn math.Int, path types.Path) (route, error) {
	r, err := k.resolveHops(ctx, path)
	if err != nil {
		return route{}, err
	}
	r.plan.Amounts[0] = amountIn
	for i, hop := range r.plan.Reserves {
		out, err := GetAmountOut(r.plan.Amounts[i], hop.ReserveIn, hop.ReserveOut)
		if err != nil {
			return route{}, err
		}
		r.plan.Amounts[i+1] = out
	}
	return r, nil
}

func (k Keeper) planExactOutput(ctx context.Context, amountOut math.Int, path types.Path) (route, error) {
	r, err := k.resolveHops(ctx, path)
	if err != nil {
		return route{}, err
	}
	last := len(path) - 1
	r.plan.Amounts[last] = amountOut
	for i := last; i > 0; i-- {
		hop := r.plan.Reserves[i-1]
		in, err := GetAmountIn(r.plan.Amounts[i], hop.ReserveIn, hop.ReserveOut)
		if err != nil {
			return route{}, err
		}
		r.plan.Amounts[i-1] = in
	}
	return r, nil
}
