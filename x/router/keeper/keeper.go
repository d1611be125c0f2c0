package keeper

import (
	"context"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/paw-chain/router/x/router/types"
)

// Config is the static deployment configuration of the router.
type Config struct {
	// Authority is the only address allowed to mutate administrative state.
	Authority common.Address
	// Router is the router's own ledger address, used for native legs.
	Router common.Address
	// Registry is the pool registry address pool references are derived from.
	Registry common.Address
	// PoolCodeHash is mixed into every derived pool reference.
	PoolCodeHash common.Hash
}

// Keeper of the router store
type Keeper struct {
	storeKey storetypes.StoreKey
	cfg      Config

	registry types.PoolRegistry
	ledger   types.TokenLedger
	native   types.NativeAdapter

	metrics *RouterMetrics
}

// NewKeeper creates a new router Keeper instance
func NewKeeper(
	key storetypes.StoreKey,
	cfg Config,
	registry types.PoolRegistry,
	ledger types.TokenLedger,
	native types.NativeAdapter,
) Keeper {
	if cfg.Authority == (common.Address{}) {
		panic("router keeper: authority must be set")
	}
	if cfg.Router == (common.Address{}) {
		panic("router keeper: router address must be set")
	}
	return Keeper{
		storeKey: key,
		cfg:      cfg,
		registry: registry,
		ledger:   ledger,
		native:   native,
		metrics:  NewRouterMetrics(),
	}
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx context.Context) log.Logger {
	return sdk.UnwrapSDKContext(ctx).Logger().With("module", "x/"+types.ModuleName)
}

// Authority returns the administrative address.
func (k Keeper) Authority() common.Address { return k.cfg.Authority }

// RouterAddress returns the router's own ledger address.
func (k Keeper) RouterAddress() common.Address { return k.cfg.Router }

// WrappedNative returns the wrapped native asset identifier.
func (k Keeper) WrappedNative() common.Address { return k.native.Address() }

// getStore returns the KVStore for the router module
func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	return sdk.UnwrapSDKContext(ctx).KVStore(k.storeKey)
}

// InitGenesis stores the initial params.
func (k Keeper) InitGenesis(ctx context.Context, params types.Params) error {
	if err := params.Validate(); err != nil {
		return err
	}
	k.setParams(ctx, params)
	return nil
}
