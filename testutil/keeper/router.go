package keeper

import (
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	pairkeeper "github.com/paw-chain/router/x/pair/keeper"
	pairtypes "github.com/paw-chain/router/x/pair/types"
	"github.com/paw-chain/router/x/router/keeper"
	"github.com/paw-chain/router/x/router/types"
)

// Well-known test addresses.
var (
	Authority     = common.HexToAddress("0x00000000000000000000000000000000000A0711")
	RouterAddress = common.HexToAddress("0x00000000000000000000000000000000000B0B0B")
	Registry      = common.HexToAddress("0x5C69bEe701ef814a2B6a3EDD4B1652CB9cc5aA6f")
	WrappedNative = common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
	PoolCodeHash  = crypto.Keccak256Hash([]byte("constant-product-pool"))

	// GenesisTime is the block time of contexts returned by RouterKeeper.
	GenesisTime = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
)

// Fixture bundles a router keeper with the pair keeper backing it.
type Fixture struct {
	Router keeper.Keeper
	Pairs  pairkeeper.Keeper
	Ctx    sdk.Context
}

// RouterKeeper creates a router keeper wired to a real pair keeper on an
// in-memory multistore, with default params.
func RouterKeeper(t testing.TB) Fixture {
	return RouterKeeperWithRegistry(t, nil)
}

// RouterKeeperWithRegistry is RouterKeeper with the pool registry the router
// sees replaced by wrap(registry). A nil wrap leaves it untouched.
func RouterKeeperWithRegistry(t testing.TB, wrap func(types.PoolRegistry) types.PoolRegistry) Fixture {
	routerKey := storetypes.NewKVStoreKey(types.StoreKey)
	pairKey := storetypes.NewKVStoreKey(pairtypes.StoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(routerKey, storetypes.StoreTypeIAVL, nil)
	stateStore.MountStoreWithDB(pairKey, storetypes.StoreTypeIAVL, nil)
	require.NoError(t, stateStore.LoadLatestVersion())

	pairs := pairkeeper.NewKeeper(pairKey, Registry, PoolCodeHash, WrappedNative)

	var registry types.PoolRegistry = pairs.Registry()
	if wrap != nil {
		registry = wrap(registry)
	}
	k := keeper.NewKeeper(
		routerKey,
		keeper.Config{
			Authority:    Authority,
			Router:       RouterAddress,
			Registry:     Registry,
			PoolCodeHash: PoolCodeHash,
		},
		registry,
		pairs,
		pairs.WrappedNative(),
	)

	ctx := sdk.NewContext(stateStore, cmtproto.Header{Time: GenesisTime}, false, log.NewNopLogger())
	require.NoError(t, k.InitGenesis(ctx, types.DefaultParams()))

	return Fixture{Router: k, Pairs: pairs, Ctx: ctx}
}

// Fund mints amount of token to holder. Wrapped native is minted together
// with the native value backing it.
func (f Fixture) Fund(t testing.TB, token, holder common.Address, amount int64) {
	require.NoError(t, f.Pairs.Mint(f.Ctx, token, holder, math.NewInt(amount)))
	if token == WrappedNative {
		f.FundNative(t, WrappedNative, amount)
	}
}

// FundNative credits native value to holder.
func (f Fixture) FundNative(t testing.TB, holder common.Address, amount int64) {
	require.NoError(t, f.Pairs.FundNative(f.Ctx, holder, math.NewInt(amount)))
}

// CreatePool deploys the (tokenA, tokenB) pool seeded with the given
// reserves. No pool shares are issued for the seed.
func (f Fixture) CreatePool(t testing.TB, tokenA, tokenB common.Address, reserveA, reserveB int64) *pairkeeper.Pool {
	pool, err := f.Pairs.CreatePool(f.Ctx, tokenA, tokenB)
	require.NoError(t, err)
	f.Fund(t, tokenA, pool.Address(), reserveA)
	f.Fund(t, tokenB, pool.Address(), reserveB)
	require.NoError(t, pool.Sync(f.Ctx))
	return pool
}

// Balance returns holder's balance of token as an int64.
func (f Fixture) Balance(token, holder common.Address) int64 {
	return f.Pairs.BalanceOf(f.Ctx, token, holder).Int64()
}

// NativeBalance returns holder's native balance as an int64.
func (f Fixture) NativeBalance(holder common.Address) int64 {
	return f.Pairs.NativeBalanceOf(f.Ctx, holder).Int64()
}

// SetParams overwrites the router params through the authority.
func (f Fixture) SetParams(t testing.TB, mutate func(*types.Params)) {
	params := f.Router.GetParams(f.Ctx)
	mutate(&params)
	require.NoError(t, f.Router.UpdateParams(f.Ctx, Authority, params))
}

// At returns a copy of the fixture whose context has the given block time.
func (f Fixture) At(blockTime time.Time) Fixture {
	f.Ctx = f.Ctx.WithBlockTime(blockTime)
	return f
}

// Deadline returns a deadline d after the context's block time.
func (f Fixture) Deadline(d time.Duration) time.Time {
	return f.Ctx.BlockTime().Add(d)
}
