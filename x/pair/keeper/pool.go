package keeper

import (
	"context"
	"math/big"
	"time"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/paw-chain/router/x/pair/types"
	routertypes "github.com/paw-chain/router/x/router/types"
)

// Pool is a handle on one deployed constant-product pool. State is read from
// the store on every call, so a handle never goes stale.
type Pool struct {
	k      Keeper
	addr   common.Address
	token0 common.Address
	token1 common.Address
}

// CreatePool deploys the pool of a pair at its derived address.
func (k Keeper) CreatePool(ctx context.Context, tokenA, tokenB common.Address) (*Pool, error) {
	token0, token1, err := sortTokens(tokenA, tokenB)
	if err != nil {
		return nil, err
	}
	addr, err := k.PoolAddress(token0, token1)
	if err != nil {
		return nil, err
	}
	store := k.getStore(ctx)
	if store.Has(types.PoolKey(addr)) {
		return nil, types.ErrPoolExists.Wrapf("%s/%s at %s", token0.Hex(), token1.Hex(), addr.Hex())
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	state := types.PoolState{
		Address:    addr,
		Token0:     token0,
		Token1:     token1,
		Reserve0:   math.ZeroInt(),
		Reserve1:   math.ZeroInt(),
		LastUpdate: sdkCtx.BlockTime(),
	}
	store.Set(types.PoolKey(addr), types.MustMarshalPoolState(state))

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePoolCreated,
			sdk.NewAttribute(types.AttributeKeyPool, addr.Hex()),
			sdk.NewAttribute(types.AttributeKeyToken0, token0.Hex()),
			sdk.NewAttribute(types.AttributeKeyToken1, token1.Hex()),
		),
	)
	return k.handle(state), nil
}

// GetPool returns the pool deployed at addr.
func (k Keeper) GetPool(ctx context.Context, addr common.Address) (*Pool, bool) {
	state, found := k.getPoolState(ctx, addr)
	if !found {
		return nil, false
	}
	return k.handle(state), true
}

// GetPoolByTokens returns the pool of a pair.
func (k Keeper) GetPoolByTokens(ctx context.Context, tokenA, tokenB common.Address) (*Pool, bool) {
	addr, err := k.PoolAddress(tokenA, tokenB)
	if err != nil {
		return nil, false
	}
	return k.GetPool(ctx, addr)
}

// Pools returns the state of every deployed pool.
func (k Keeper) Pools(ctx context.Context) ([]types.PoolState, error) {
	iter := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.PoolKeyPrefix)
	defer iter.Close()

	var pools []types.PoolState
	for ; iter.Valid(); iter.Next() {
		state, err := types.UnmarshalPoolState(iter.Value())
		if err != nil {
			return nil, err
		}
		pools = append(pools, state)
	}
	return pools, nil
}

func (k Keeper) handle(state types.PoolState) *Pool {
	return &Pool{k: k, addr: state.Address, token0: state.Token0, token1: state.Token1}
}

func (k Keeper) getPoolState(ctx context.Context, addr common.Address) (types.PoolState, bool) {
	bz := k.getStore(ctx).Get(types.PoolKey(addr))
	if bz == nil {
		return types.PoolState{}, false
	}
	state, err := types.UnmarshalPoolState(bz)
	if err != nil {
		k.Logger(ctx).Error("corrupt pool state", "pool", addr.Hex(), "error", err)
		return types.PoolState{}, false
	}
	return state, true
}

// Address is the pool's ledger address. Pool shares use it as token id.
func (p *Pool) Address() common.Address { return p.addr }

func (p *Pool) Token0() common.Address { return p.token0 }

func (p *Pool) Token1() common.Address { return p.token1 }

// GetReserves returns the reserves recorded at the last update.
func (p *Pool) GetReserves(ctx context.Context) (reserve0, reserve1 math.Int, lastUpdate time.Time, err error) {
	state, err := p.state(ctx)
	if err != nil {
		return math.Int{}, math.Int{}, time.Time{}, err
	}
	return state.Reserve0, state.Reserve1, state.LastUpdate, nil
}

// Mint issues shares to `to` for whatever the pool holds above its
// reserves. The first mint locks MinimumLiquidity shares forever.
func (p *Pool) Mint(ctx context.Context, to common.Address) (math.Int, error) {
	state, err := p.state(ctx)
	if err != nil {
		return math.Int{}, err
	}
	balance0, balance1 := p.balances(ctx)
	amount0 := balance0.Sub(state.Reserve0)
	amount1 := balance1.Sub(state.Reserve1)
	if !amount0.IsPositive() || !amount1.IsPositive() {
		return math.Int{}, types.ErrInsufficientLiquidityMint.Wrapf("deposits %s/%s", amount0, amount1)
	}

	var liquidity math.Int
	supply := p.k.TotalSupply(ctx, p.addr)
	if supply.IsZero() {
		product, err := amount0.SafeMul(amount1)
		if err != nil {
			return math.Int{}, routertypes.ErrOverflow.Wrapf("initial deposit: %s", err)
		}
		root := math.NewIntFromBigInt(new(big.Int).Sqrt(product.BigInt()))
		liquidity = root.SubRaw(types.MinimumLiquidity)
		if !liquidity.IsPositive() {
			return math.Int{}, types.ErrInsufficientLiquidityMint.Wrapf("initial deposit below minimum liquidity %d", types.MinimumLiquidity)
		}
		if err := p.k.Mint(ctx, p.addr, types.BurnAddress, math.NewInt(types.MinimumLiquidity)); err != nil {
			return math.Int{}, err
		}
	} else {
		liquidity = math.MinInt(
			amount0.Mul(supply).Quo(state.Reserve0),
			amount1.Mul(supply).Quo(state.Reserve1),
		)
	}
	if !liquidity.IsPositive() {
		return math.Int{}, types.ErrInsufficientLiquidityMint
	}
	if err := p.k.Mint(ctx, p.addr, to, liquidity); err != nil {
		return math.Int{}, err
	}
	p.update(ctx, state, balance0, balance1)

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeMint,
			sdk.NewAttribute(types.AttributeKeyPool, p.addr.Hex()),
			sdk.NewAttribute(types.AttributeKeyTo, to.Hex()),
			sdk.NewAttribute(types.AttributeKeyAmount0, amount0.String()),
			sdk.NewAttribute(types.AttributeKeyAmount1, amount1.String()),
			sdk.NewAttribute(types.AttributeKeyLiquidity, liquidity.String()),
		),
	)
	return liquidity, nil
}

// Burn redeems the shares held by the pool itself, paying a proportional
// amount of both assets to `to`.
func (p *Pool) Burn(ctx context.Context, to common.Address) (amount0, amount1 math.Int, err error) {
	state, err := p.state(ctx)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	balance0, balance1 := p.balances(ctx)
	liquidity := p.k.BalanceOf(ctx, p.addr, p.addr)
	supply := p.k.TotalSupply(ctx, p.addr)
	if supply.IsZero() {
		return math.Int{}, math.Int{}, types.ErrInsufficientLiquidityBurn.Wrap("pool has no shares")
	}

	amount0 = liquidity.Mul(balance0).Quo(supply)
	amount1 = liquidity.Mul(balance1).Quo(supply)
	if !amount0.IsPositive() || !amount1.IsPositive() {
		return math.Int{}, math.Int{}, types.ErrInsufficientLiquidityBurn.Wrapf("shares %s redeem %s/%s", liquidity, amount0, amount1)
	}

	if err := p.k.Burn(ctx, p.addr, p.addr, liquidity); err != nil {
		return math.Int{}, math.Int{}, err
	}
	if err := p.k.Transfer(ctx, p.token0, p.addr, to, amount0); err != nil {
		return math.Int{}, math.Int{}, err
	}
	if err := p.k.Transfer(ctx, p.token1, p.addr, to, amount1); err != nil {
		return math.Int{}, math.Int{}, err
	}
	balance0, balance1 = p.balances(ctx)
	p.update(ctx, state, balance0, balance1)

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeBurn,
			sdk.NewAttribute(types.AttributeKeyPool, p.addr.Hex()),
			sdk.NewAttribute(types.AttributeKeyTo, to.Hex()),
			sdk.NewAttribute(types.AttributeKeyAmount0, amount0.String()),
			sdk.NewAttribute(types.AttributeKeyAmount1, amount1.String()),
			sdk.NewAttribute(types.AttributeKeyLiquidity, liquidity.String()),
		),
	)
	return amount0, amount1, nil
}

// Swap pays out the requested amounts and then checks, on balances adjusted
// for the 0.3% input fee, that the constant product did not decrease. The
// input must have been transferred to the pool beforehand.
func (p *Pool) Swap(ctx context.Context, amount0Out, amount1Out math.Int, to common.Address, data []byte) error {
	if len(data) > 0 {
		return types.ErrInvalidAmount.Wrap("flash swap callbacks are not supported")
	}
	if !amount0Out.IsPositive() && !amount1Out.IsPositive() {
		return types.ErrInsufficientOutputAmount
	}
	state, err := p.state(ctx)
	if err != nil {
		return err
	}
	if amount0Out.GTE(state.Reserve0) || amount1Out.GTE(state.Reserve1) {
		return types.ErrInsufficientLiquidity.Wrapf("outputs %s/%s against reserves %s/%s",
			amount0Out, amount1Out, state.Reserve0, state.Reserve1)
	}
	if to == p.token0 || to == p.token1 {
		return types.ErrInvalidRecipient.Wrap(to.Hex())
	}

	if amount0Out.IsPositive() {
		if err := p.k.Transfer(ctx, p.token0, p.addr, to, amount0Out); err != nil {
			return err
		}
	}
	if amount1Out.IsPositive() {
		if err := p.k.Transfer(ctx, p.token1, p.addr, to, amount1Out); err != nil {
			return err
		}
	}

	balance0, balance1 := p.balances(ctx)
	amount0In := amountIn(balance0, state.Reserve0, amount0Out)
	amount1In := amountIn(balance1, state.Reserve1, amount1Out)
	if !amount0In.IsPositive() && !amount1In.IsPositive() {
		return types.ErrInsufficientInputAmount
	}

	before, after, err := feeAdjustedK(state, balance0, balance1, amount0In, amount1In)
	if err != nil {
		return err
	}
	if after.LT(before) {
		return types.ErrInvariantViolation.Wrapf("k fell from %s to %s", before, after)
	}
	p.update(ctx, state, balance0, balance1)

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeSwap,
			sdk.NewAttribute(types.AttributeKeyPool, p.addr.Hex()),
			sdk.NewAttribute(types.AttributeKeyTo, to.Hex()),
			sdk.NewAttribute(types.AttributeKeyAmount0In, amount0In.String()),
			sdk.NewAttribute(types.AttributeKeyAmount1In, amount1In.String()),
			sdk.NewAttribute(types.AttributeKeyAmount0Out, amount0Out.String()),
			sdk.NewAttribute(types.AttributeKeyAmount1Out, amount1Out.String()),
		),
	)
	return nil
}

// feeAdjustedK returns the scaled constant product before the swap and after
// it with the 0.3% fee taken off the inputs. Products past 256 bits fail with
// ErrOverflow.
func feeAdjustedK(state types.PoolState, balance0, balance1, amount0In, amount1In math.Int) (math.Int, math.Int, error) {
	scale := math.NewInt(1000)
	scaled0, err0 := balance0.SafeMul(scale)
	scaled1, err1 := balance1.SafeMul(scale)
	if err0 != nil || err1 != nil {
		return math.Int{}, math.Int{}, routertypes.ErrOverflow.Wrapf("balances %s/%s", balance0, balance1)
	}
	after, err := scaled0.Sub(amount0In.MulRaw(3)).SafeMul(scaled1.Sub(amount1In.MulRaw(3)))
	if err != nil {
		return math.Int{}, math.Int{}, routertypes.ErrOverflow.Wrapf("adjusted balances %s/%s", balance0, balance1)
	}
	before, err := state.Reserve0.SafeMul(state.Reserve1)
	if err == nil {
		before, err = before.SafeMul(scale.Mul(scale))
	}
	if err != nil {
		return math.Int{}, math.Int{}, routertypes.ErrOverflow.Wrapf("reserves %s/%s", state.Reserve0, state.Reserve1)
	}
	return before, after, nil
}

// Skim sends any balance above the reserves to `to`.
func (p *Pool) Skim(ctx context.Context, to common.Address) error {
	state, err := p.state(ctx)
	if err != nil {
		return err
	}
	balance0, balance1 := p.balances(ctx)
	if excess := balance0.Sub(state.Reserve0); excess.IsPositive() {
		if err := p.k.Transfer(ctx, p.token0, p.addr, to, excess); err != nil {
			return err
		}
	}
	if excess := balance1.Sub(state.Reserve1); excess.IsPositive() {
		if err := p.k.Transfer(ctx, p.token1, p.addr, to, excess); err != nil {
			return err
		}
	}
	return nil
}

// Sync forces the reserves to match the pool's balances.
func (p *Pool) Sync(ctx context.Context) error {
	state, err := p.state(ctx)
	if err != nil {
		return err
	}
	balance0, balance1 := p.balances(ctx)
	p.update(ctx, state, balance0, balance1)
	return nil
}

func (p *Pool) state(ctx context.Context) (types.PoolState, error) {
	state, found := p.k.getPoolState(ctx, p.addr)
	if !found {
		return types.PoolState{}, types.ErrPoolNotFound.Wrap(p.addr.Hex())
	}
	return state, nil
}

func (p *Pool) balances(ctx context.Context) (math.Int, math.Int) {
	return p.k.BalanceOf(ctx, p.token0, p.addr), p.k.BalanceOf(ctx, p.token1, p.addr)
}

func (p *Pool) update(ctx context.Context, state types.PoolState, balance0, balance1 math.Int) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	state.Reserve0 = balance0
	state.Reserve1 = balance1
	state.LastUpdate = sdkCtx.BlockTime()
	p.k.getStore(ctx).Set(types.PoolKey(p.addr), types.MustMarshalPoolState(state))

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeSync,
			sdk.NewAttribute(types.AttributeKeyPool, p.addr.Hex()),
			sdk.NewAttribute(types.AttributeKeyReserve0, balance0.String()),
			sdk.NewAttribute(types.AttributeKeyReserve1, balance1.String()),
		),
	)
}

// amountIn is how much of an asset arrived on top of what the reserve
// should hold after paying amountOut.
func amountIn(balance, reserve, amountOut math.Int) math.Int {
	expected := reserve.Sub(amountOut)
	if balance.GT(expected) {
		return balance.Sub(expected)
	}
	return math.ZeroInt()
}
