package keeper

import (
	"context"
	"encoding/binary"
	"strconv"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/paw-chain/router/x/router/types"
)

// requireAuthority rejects any caller other than the configured authority.
func (k Keeper) requireAuthority(authority common.Address) error {
	if authority != k.cfg.Authority {
		return types.ErrUnauthorized.Wrapf("invalid authority; expected %s, got %s", k.cfg.Authority.Hex(), authority.Hex())
	}
	return nil
}

// GetParams returns the current params, falling back to defaults when none
// have been stored yet.
func (k Keeper) GetParams(ctx context.Context) types.Params {
	bz := k.getStore(ctx).Get(types.ParamsKey)
	if bz == nil {
		return types.DefaultParams()
	}
	params, err := types.UnmarshalParams(bz)
	if err != nil {
		k.Logger(ctx).Error("corrupt router params, using defaults", "error", err)
		return types.DefaultParams()
	}
	return params
}

func (k Keeper) setParams(ctx context.Context, params types.Params) {
	k.getStore(ctx).Set(types.ParamsKey, types.MustMarshalParams(params))
}

// UpdateParams replaces the router params.
func (k Keeper) UpdateParams(ctx context.Context, authority common.Address, params types.Params) error {
	if err := k.requireAuthority(authority); err != nil {
		return err
	}
	if err := params.Validate(); err != nil {
		return err
	}
	k.setParams(ctx, params)

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeParamsUpdated,
			sdk.NewAttribute(types.AttributeKeyAuthority, authority.Hex()),
		),
	)
	k.Logger(ctx).Info("router params updated", "params", params.String())
	return nil
}

// IsEmergencyStopped reports whether the emergency stop is engaged.
func (k Keeper) IsEmergencyStopped(ctx context.Context) bool {
	bz := k.getStore(ctx).Get(types.EmergencyStopKey)
	return len(bz) == 1 && bz[0] == 1
}

// SetEmergencyStop engages or releases the emergency stop. While engaged
// every swap and liquidity operation fails before doing any work.
func (k Keeper) SetEmergencyStop(ctx context.Context, authority common.Address, stopped bool) error {
	if err := k.requireAuthority(authority); err != nil {
		return err
	}

	store := k.getStore(ctx)
	if stopped {
		store.Set(types.EmergencyStopKey, []byte{1})
		k.metrics.EmergencyStop.Set(1)
	} else {
		store.Delete(types.EmergencyStopKey)
		k.metrics.EmergencyStop.Set(0)
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeEmergencyStop,
			sdk.NewAttribute(types.AttributeKeyAuthority, authority.Hex()),
			sdk.NewAttribute(types.AttributeKeyStopped, strconv.FormatBool(stopped)),
		),
	)
	k.Logger(ctx).Info("emergency stop toggled", "stopped", stopped, "authority", authority.Hex())
	return nil
}

// AuthorizePair adds a pair to the authorization set.
func (k Keeper) AuthorizePair(ctx context.Context, authority, tokenA, tokenB common.Address) error {
	return k.setPairAuthorization(ctx, authority, tokenA, tokenB, true)
}

// RevokePair removes a pair from the authorization set.
func (k Keeper) RevokePair(ctx context.Context, authority, tokenA, tokenB common.Address) error {
	return k.setPairAuthorization(ctx, authority, tokenA, tokenB, false)
}

func (k Keeper) setPairAuthorization(ctx context.Context, authority, tokenA, tokenB common.Address, authorized bool) error {
	if err := k.requireAuthority(authority); err != nil {
		return err
	}
	token0, token1, err := SortTokens(tokenA, tokenB)
	if err != nil {
		return err
	}

	key := types.AuthorizedPairKeyFor(token0, token1)
	if authorized {
		k.getStore(ctx).Set(key, []byte{1})
	} else {
		k.getStore(ctx).Delete(key)
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePairAuthorization,
			sdk.NewAttribute(types.AttributeKeyToken0, token0.Hex()),
			sdk.NewAttribute(types.AttributeKeyToken1, token1.Hex()),
			sdk.NewAttribute(types.AttributeKeyAuthorized, strconv.FormatBool(authorized)),
		),
	)
	return nil
}

// IsPairAuthorized reports whether a pair is in the authorization set.
func (k Keeper) IsPairAuthorized(ctx context.Context, tokenA, tokenB common.Address) bool {
	token0, token1, err := SortTokens(tokenA, tokenB)
	if err != nil {
		return false
	}
	return k.getStore(ctx).Has(types.AuthorizedPairKeyFor(token0, token1))
}

func (k Keeper) checkPairAuthorized(ctx context.Context, tokenA, tokenB common.Address) error {
	if !k.GetParams(ctx).RestrictPairs {
		return nil
	}
	if !k.IsPairAuthorized(ctx, tokenA, tokenB) {
		return types.ErrUnauthorizedPair.Wrapf("%s/%s", tokenA.Hex(), tokenB.Hex())
	}
	return nil
}

// LastCallTime returns the time of caller's last accepted swap.
func (k Keeper) LastCallTime(ctx context.Context, caller common.Address) (time.Time, bool) {
	bz := k.getStore(ctx).Get(types.LastCallKey(caller))
	if len(bz) != 8 {
		return time.Time{}, false
	}
	return time.Unix(0, int64(binary.BigEndian.Uint64(bz))).UTC(), true
}

func (k Keeper) setLastCallTime(ctx context.Context, caller common.Address, t time.Time) {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, uint64(t.UnixNano()))
	k.getStore(ctx).Set(types.LastCallKey(caller), bz)
}
