// Package app wires the router and pair modules onto a single in-memory
// multistore and serializes every state-changing call against it.
//
// The App is the host environment the router assumes: one call at a time,
// a block time per call, and all-or-nothing commits.
package app

import (
	"fmt"
	"sync"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"

	pairkeeper "github.com/paw-chain/router/x/pair/keeper"
	pairtypes "github.com/paw-chain/router/x/pair/types"
	routerkeeper "github.com/paw-chain/router/x/router/keeper"
	routertypes "github.com/paw-chain/router/x/router/types"
)

// Name is the application name.
const Name = "routerd"

// App holds the keepers and the backing multistore.
type App struct {
	mu sync.Mutex

	cfg    Config
	logger log.Logger
	clock  func() time.Time

	cms  storetypes.CommitMultiStore
	keys map[string]*storetypes.KVStoreKey

	PairKeeper   pairkeeper.Keeper
	RouterKeeper routerkeeper.Keeper
}

// Option customizes an App.
type Option func(*App)

// WithClock overrides the source of block times.
func WithClock(clock func() time.Time) Option {
	return func(a *App) { a.clock = clock }
}

// New builds an App from cfg, mounts its stores and applies the genesis
// section of cfg.
func New(cfg Config, logger log.Logger, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &App{
		cfg:    cfg,
		logger: logger.With("app", Name),
		clock:  time.Now,
		keys:   storetypes.NewKVStoreKeys(routertypes.StoreKey, pairtypes.StoreKey),
	}
	for _, opt := range opts {
		opt(a)
	}

	db := dbm.NewMemDB()
	a.cms = store.NewCommitMultiStore(db, logger, metrics.NewNoOpMetrics())
	for _, key := range a.keys {
		a.cms.MountStoreWithDB(key, storetypes.StoreTypeIAVL, nil)
	}
	if err := a.cms.LoadLatestVersion(); err != nil {
		return nil, fmt.Errorf("load stores: %w", err)
	}

	authority, router, registry, wrapped, codeHash := cfg.Addresses()
	a.PairKeeper = pairkeeper.NewKeeper(a.keys[pairtypes.StoreKey], registry, codeHash, wrapped)
	a.RouterKeeper = routerkeeper.NewKeeper(
		a.keys[routertypes.StoreKey],
		routerkeeper.Config{
			Authority:    authority,
			Router:       router,
			Registry:     registry,
			PoolCodeHash: codeHash,
		},
		a.PairKeeper.Registry(),
		a.PairKeeper,
		a.PairKeeper.WrappedNative(),
	)

	if err := a.Execute(func(ctx sdk.Context) error {
		return a.InitGenesis(ctx, cfg.Params, cfg.Genesis)
	}); err != nil {
		return nil, fmt.Errorf("init genesis: %w", err)
	}
	a.logger.Info("application initialized",
		"router", router.Hex(),
		"authority", authority.Hex(),
		"wrapped_native", wrapped.Hex(),
	)
	return a, nil
}

// Config returns the configuration the App was built from.
func (a *App) Config() Config { return a.cfg }

// Logger returns the application logger.
func (a *App) Logger() log.Logger { return a.logger }

// Height returns the number of committed state transitions.
func (a *App) Height() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cms.LastCommitID().Version
}

func (a *App) newContext() sdk.Context {
	header := cmtproto.Header{
		ChainID: Name,
		Height:  a.cms.LastCommitID().Version + 1,
		Time:    a.clock().UTC(),
	}
	return sdk.NewContext(a.cms, header, false, a.logger)
}

// Execute runs fn as one state transition. Writes are committed only when
// fn succeeds. Calls are serialized.
func (a *App) Execute(fn func(ctx sdk.Context) error) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	ctx := a.newContext()
	cacheCtx, write := ctx.CacheContext()
	if err := fn(cacheCtx); err != nil {
		return err
	}
	write()
	a.cms.Commit()
	return nil
}

// Query runs fn against the latest state and discards any writes.
func (a *App) Query(fn func(ctx sdk.Context) error) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	cacheCtx, _ := a.newContext().CacheContext()
	return fn(cacheCtx)
}
