package keeper

import (
	"bytes"
	"context"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/paw-chain/router/x/router/types"
)

// SortTokens orders two distinct, non-null assets by their byte value.
func SortTokens(tokenA, tokenB common.Address) (token0, token1 common.Address, err error) {
	if tokenA == tokenB {
		return common.Address{}, common.Address{}, types.ErrInvalidPath.Wrapf("identical assets %s", tokenA.Hex())
	}
	token0, token1 = tokenA, tokenB
	if bytes.Compare(tokenA.Bytes(), tokenB.Bytes()) > 0 {
		token0, token1 = tokenB, tokenA
	}
	if token0 == (common.Address{}) {
		return common.Address{}, common.Address{}, types.ErrZeroAddress.Wrap("pair contains the null asset")
	}
	return token0, token1, nil
}

// PoolFor derives the pool reference of a pair without any lookup:
// CREATE2(registry, keccak256(token0 ‖ token1), poolCodeHash). Both
// orderings of the pair yield the same reference.
func PoolFor(registry common.Address, poolCodeHash common.Hash, tokenA, tokenB common.Address) (common.Address, error) {
	token0, token1, err := SortTokens(tokenA, tokenB)
	if err != nil {
		return common.Address{}, err
	}
	salt := crypto.Keccak256Hash(token0.Bytes(), token1.Bytes())
	return crypto.CreateAddress2(registry, salt, poolCodeHash.Bytes()), nil
}

// PoolFor derives the pool reference of a pair under the keeper's registry.
func (k Keeper) PoolFor(tokenA, tokenB common.Address) (common.Address, error) {
	return PoolFor(k.cfg.Registry, k.cfg.PoolCodeHash, tokenA, tokenB)
}

// GetReserves returns the reserves of the (tokenA, tokenB) pool oriented so
// that reserveA belongs to tokenA, along with the pool handle.
func (k Keeper) GetReserves(ctx context.Context, tokenA, tokenB common.Address) (reserveA, reserveB math.Int, pool types.Pool, err error) {
	pool, err = k.poolFor(ctx, tokenA, tokenB)
	if err != nil {
		return math.Int{}, math.Int{}, nil, err
	}
	reserveA, reserveB, err = orientedReserves(ctx, pool, tokenA)
	if err != nil {
		return math.Int{}, math.Int{}, nil, err
	}
	return reserveA, reserveB, pool, nil
}

// poolFor resolves the pool handle of a pair, enforcing pair authorization
// when it is enabled.
func (k Keeper) poolFor(ctx context.Context, tokenA, tokenB common.Address) (types.Pool, error) {
	addr, err := k.PoolFor(tokenA, tokenB)
	if err != nil {
		return nil, err
	}
	if err := k.checkPairAuthorized(ctx, tokenA, tokenB); err != nil {
		return nil, err
	}
	pool, found := k.registry.PoolAt(ctx, addr)
	if !found {
		return nil, types.ErrPoolNotFound.Wrapf("no pool for %s/%s at %s", tokenA.Hex(), tokenB.Hex(), addr.Hex())
	}
	return pool, nil
}

// poolForOrCreate resolves the pool of a pair, deploying it first if the
// registry has none yet.
func (k Keeper) poolForOrCreate(ctx context.Context, tokenA, tokenB common.Address) (types.Pool, error) {
	pool, err := k.poolFor(ctx, tokenA, tokenB)
	if err == nil {
		return pool, nil
	}
	if !errorsmod.IsOf(err, types.ErrPoolNotFound) {
		return nil, err
	}
	pool, err = k.registry.CreatePool(ctx, tokenA, tokenB)
	if err != nil {
		return nil, err
	}
	k.Logger(ctx).Info("pool created", "pool", pool.Address().Hex(), "token0", pool.Token0().Hex(), "token1", pool.Token1().Hex())
	return pool, nil
}

func orientedReserves(ctx context.Context, pool types.Pool, tokenA common.Address) (math.Int, math.Int, error) {
	reserve0, reserve1, _, err := pool.GetReserves(ctx)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	if tokenA == pool.Token0() {
		return reserve0, reserve1, nil
	}
	return reserve1, reserve0, nil
}
