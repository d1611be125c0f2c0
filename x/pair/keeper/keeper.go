package keeper

import (
	"bytes"
	"context"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/paw-chain/router/x/pair/types"
)

// Keeper owns the fungible asset ledger, native balances and every
// constant-product pool.
type Keeper struct {
	storeKey      storetypes.StoreKey
	registry      common.Address
	poolCodeHash  common.Hash
	wrappedNative common.Address
}

// NewKeeper creates a new pair Keeper instance. Pools are deployed at
// addresses derived from registry and poolCodeHash.
func NewKeeper(key storetypes.StoreKey, registry common.Address, poolCodeHash common.Hash, wrappedNative common.Address) Keeper {
	return Keeper{
		storeKey:      key,
		registry:      registry,
		poolCodeHash:  poolCodeHash,
		wrappedNative: wrappedNative,
	}
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx context.Context) log.Logger {
	return sdk.UnwrapSDKContext(ctx).Logger().With("module", "x/"+types.ModuleName)
}

func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	return sdk.UnwrapSDKContext(ctx).KVStore(k.storeKey)
}

// PoolAddress derives the deployment address of the (tokenA, tokenB) pool.
func (k Keeper) PoolAddress(tokenA, tokenB common.Address) (common.Address, error) {
	token0, token1, err := sortTokens(tokenA, tokenB)
	if err != nil {
		return common.Address{}, err
	}
	salt := crypto.Keccak256Hash(token0.Bytes(), token1.Bytes())
	return crypto.CreateAddress2(k.registry, salt, k.poolCodeHash.Bytes()), nil
}

func sortTokens(tokenA, tokenB common.Address) (common.Address, common.Address, error) {
	if tokenA == tokenB {
		return common.Address{}, common.Address{}, types.ErrIdenticalAddresses.Wrap(tokenA.Hex())
	}
	if bytes.Compare(tokenA.Bytes(), tokenB.Bytes()) > 0 {
		tokenA, tokenB = tokenB, tokenA
	}
	if tokenA == (common.Address{}) {
		return common.Address{}, common.Address{}, types.ErrZeroAddress
	}
	return tokenA, tokenB, nil
}
