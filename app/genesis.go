package app

import (
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	routertypes "github.com/paw-chain/router/x/router/types"
)

// InitGenesis stores params and applies the configured seed state.
func (a *App) InitGenesis(ctx sdk.Context, params routertypes.Params, gen GenesisConfig) error {
	if err := a.RouterKeeper.InitGenesis(ctx, params); err != nil {
		return err
	}

	for i, b := range gen.Balances {
		token, holder, err := parseAddresses(b.Token, b.Holder)
		if err != nil {
			return fmt.Errorf("genesis balance %d: %w", i, err)
		}
		amount, err := ParseAmount(b.Amount)
		if err != nil {
			return fmt.Errorf("genesis balance %d: %w", i, err)
		}
		if err := a.PairKeeper.Mint(ctx, token, holder, amount); err != nil {
			return fmt.Errorf("genesis balance %d: %w", i, err)
		}
	}

	for i, n := range gen.Native {
		holder, err := parseAddress(n.Holder)
		if err != nil {
			return fmt.Errorf("genesis native %d: %w", i, err)
		}
		amount, err := ParseAmount(n.Amount)
		if err != nil {
			return fmt.Errorf("genesis native %d: %w", i, err)
		}
		if err := a.PairKeeper.FundNative(ctx, holder, amount); err != nil {
			return fmt.Errorf("genesis native %d: %w", i, err)
		}
	}

	for i, p := range gen.Pools {
		if err := a.seedPool(ctx, p); err != nil {
			return fmt.Errorf("genesis pool %d: %w", i, err)
		}
	}

	for i, p := range gen.AuthorizedPairs {
		tokenA, tokenB, err := parseAddresses(p.TokenA, p.TokenB)
		if err != nil {
			return fmt.Errorf("genesis authorized pair %d: %w", i, err)
		}
		if err := a.RouterKeeper.AuthorizePair(ctx, a.RouterKeeper.Authority(), tokenA, tokenB); err != nil {
			return fmt.Errorf("genesis authorized pair %d: %w", i, err)
		}
	}
	return nil
}

// seedPool deploys a pool and credits its reserves directly. Reserves of the
// wrapped native asset are backed by escrowed native value.
func (a *App) seedPool(ctx sdk.Context, p PoolConfig) error {
	tokenA, tokenB, err := parseAddresses(p.TokenA, p.TokenB)
	if err != nil {
		return err
	}
	reserveA, err := ParseAmount(p.ReserveA)
	if err != nil {
		return err
	}
	reserveB, err := ParseAmount(p.ReserveB)
	if err != nil {
		return err
	}

	pool, err := a.PairKeeper.CreatePool(ctx, tokenA, tokenB)
	if err != nil {
		return err
	}
	wrapped := a.PairKeeper.WrappedNative().Address()
	for _, leg := range []struct {
		token  common.Address
		amount math.Int
	}{{tokenA, reserveA}, {tokenB, reserveB}} {
		if err := a.PairKeeper.Mint(ctx, leg.token, pool.Address(), leg.amount); err != nil {
			return err
		}
		if leg.token == wrapped {
			if err := a.PairKeeper.FundNative(ctx, wrapped, leg.amount); err != nil {
				return err
			}
		}
	}

	if p.Provider == "" {
		return pool.Sync(ctx)
	}
	provider, err := parseAddress(p.Provider)
	if err != nil {
		return err
	}
	_, err = pool.Mint(ctx, provider)
	return err
}

// ParseAmount parses a non-negative decimal integer amount.
func ParseAmount(s string) (math.Int, error) {
	amount, ok := math.NewIntFromString(s)
	if !ok || amount.IsNegative() {
		return math.Int{}, fmt.Errorf("invalid amount %q", s)
	}
	return amount, nil
}

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}

func parseAddresses(a, b string) (common.Address, common.Address, error) {
	first, err := parseAddress(a)
	if err != nil {
		return common.Address{}, common.Address{}, err
	}
	second, err := parseAddress(b)
	if err != nil {
		return common.Address{}, common.Address{}, err
	}
	return first, second, nil
}
