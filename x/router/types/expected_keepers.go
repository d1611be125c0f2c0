package types

import (
	"context"
	"time"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
)

// Pool is the constant-product pool collaborator the router drives. The
// router never holds custody: inputs are transferred straight to the pool
// before Swap or Mint is invoked.
type Pool interface {
	// Address is the pool's ledger address.
	Address() common.Address
	Token0() common.Address
	Token1() common.Address

	GetReserves(ctx context.Context) (reserve0, reserve1 math.Int, lastUpdate time.Time, err error)
	// Swap sends amount0Out of token0 and/or amount1Out of token1 to `to`.
	// The input asset must already have been transferred to the pool.
	// Constant product arithmetic past 256 bits fails with ErrOverflow.
	Swap(ctx context.Context, amount0Out, amount1Out math.Int, to common.Address, data []byte) error
	// Mint issues pool shares to `to` for the assets transferred in beforehand.
	Mint(ctx context.Context, to common.Address) (math.Int, error)
	// Burn redeems the pool shares held by the pool itself and pays out both
	// assets to `to`.
	Burn(ctx context.Context, to common.Address) (amount0, amount1 math.Int, err error)
}

// PoolRegistry resolves pool handles.
type PoolRegistry interface {
	// PoolAt returns the pool deployed at addr.
	PoolAt(ctx context.Context, addr common.Address) (Pool, bool)
	// CreatePool deploys the pool for a pair at its derived address.
	CreatePool(ctx context.Context, tokenA, tokenB common.Address) (Pool, error)
}

// TokenLedger moves fungible assets and the native asset between holders.
type TokenLedger interface {
	Transfer(ctx context.Context, token, from, to common.Address, amount math.Int) error
	BalanceOf(ctx context.Context, token, holder common.Address) math.Int
	TransferNative(ctx context.Context, from, to common.Address, amount math.Int) error
	NativeBalanceOf(ctx context.Context, holder common.Address) math.Int
}

// NativeAdapter converts between the native asset and its wrapped,
// fungible representation.
type NativeAdapter interface {
	// Address is the wrapped asset identifier.
	Address() common.Address
	// Wrap converts amount of holder's native balance into wrapped tokens held by holder.
	Wrap(ctx context.Context, holder common.Address, amount math.Int) error
	// Unwrap converts amount of holder's wrapped tokens back to native.
	Unwrap(ctx context.Context, holder common.Address, amount math.Int) error
	Transfer(ctx context.Context, from, to common.Address, amount math.Int) error
}
