package keeper

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	routertypes "github.com/paw-chain/router/x/router/types"
)

// Registry exposes the keeper's pools to the router.
type Registry struct {
	k Keeper
}

var _ routertypes.PoolRegistry = Registry{}

// Registry returns the router-facing view of the pool registry.
func (k Keeper) Registry() Registry {
	return Registry{k: k}
}

func (r Registry) PoolAt(ctx context.Context, addr common.Address) (routertypes.Pool, bool) {
	pool, found := r.k.GetPool(ctx, addr)
	if !found {
		return nil, false
	}
	return pool, true
}

func (r Registry) CreatePool(ctx context.Context, tokenA, tokenB common.Address) (routertypes.Pool, error) {
	pool, err := r.k.CreatePool(ctx, tokenA, tokenB)
	if err != nil {
		return nil, err
	}
	return pool, nil
}

var (
	_ routertypes.Pool          = (*Pool)(nil)
	_ routertypes.TokenLedger   = Keeper{}
	_ routertypes.NativeAdapter = WrappedNative{}
)
