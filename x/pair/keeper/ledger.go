package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/paw-chain/router/x/pair/types"
)

// nativeToken labels native transfers in events.
const nativeToken = "native"

func (k Keeper) getAmount(ctx context.Context, key []byte) math.Int {
	bz := k.getStore(ctx).Get(key)
	if bz == nil {
		return math.ZeroInt()
	}
	var amount math.Int
	if err := amount.Unmarshal(bz); err != nil {
		panic(fmt.Errorf("corrupt amount at %x: %w", key, err))
	}
	return amount
}

func (k Keeper) setAmount(ctx context.Context, key []byte, amount math.Int) {
	if amount.IsZero() {
		k.getStore(ctx).Delete(key)
		return
	}
	bz, err := amount.Marshal()
	if err != nil {
		panic(err)
	}
	k.getStore(ctx).Set(key, bz)
}

// BalanceOf returns holder's balance of token.
func (k Keeper) BalanceOf(ctx context.Context, token, holder common.Address) math.Int {
	return k.getAmount(ctx, types.BalanceKey(token, holder))
}

// TotalSupply returns the total minted supply of token.
func (k Keeper) TotalSupply(ctx context.Context, token common.Address) math.Int {
	return k.getAmount(ctx, types.SupplyKey(token))
}

// Transfer moves amount of token from one holder to another.
func (k Keeper) Transfer(ctx context.Context, token, from, to common.Address, amount math.Int) error {
	if amount.IsNil() || amount.IsNegative() {
		return types.ErrInvalidAmount.Wrapf("transfer amount %s", amount)
	}
	if to == (common.Address{}) {
		return types.ErrZeroAddress.Wrap("transfer recipient")
	}
	if err := k.move(ctx, types.BalanceKey(token, from), types.BalanceKey(token, to), amount); err != nil {
		return types.ErrInsufficientBalance.Wrapf("%s of %s: %s", from.Hex(), token.Hex(), err)
	}
	emitTransfer(ctx, token.Hex(), from, to, amount)
	return nil
}

// Mint creates amount of token for `to`.
func (k Keeper) Mint(ctx context.Context, token, to common.Address, amount math.Int) error {
	if amount.IsNil() || amount.IsNegative() {
		return types.ErrInvalidAmount.Wrapf("mint amount %s", amount)
	}
	supply, err := k.TotalSupply(ctx, token).SafeAdd(amount)
	if err != nil {
		return types.ErrInvalidAmount.Wrapf("supply of %s overflows: %s", token.Hex(), err)
	}
	k.setAmount(ctx, types.SupplyKey(token), supply)
	k.setAmount(ctx, types.BalanceKey(token, to), k.BalanceOf(ctx, token, to).Add(amount))
	emitTransfer(ctx, token.Hex(), common.Address{}, to, amount)
	return nil
}

// Burn destroys amount of token held by from.
func (k Keeper) Burn(ctx context.Context, token, from common.Address, amount math.Int) error {
	balance := k.BalanceOf(ctx, token, from)
	if amount.IsNil() || amount.IsNegative() || balance.LT(amount) {
		return types.ErrInsufficientBalance.Wrapf("burn %s of %s from %s holding %s", amount, token.Hex(), from.Hex(), balance)
	}
	k.setAmount(ctx, types.BalanceKey(token, from), balance.Sub(amount))
	k.setAmount(ctx, types.SupplyKey(token), k.TotalSupply(ctx, token).Sub(amount))
	emitTransfer(ctx, token.Hex(), from, common.Address{}, amount)
	return nil
}

// NativeBalanceOf returns holder's native balance.
func (k Keeper) NativeBalanceOf(ctx context.Context, holder common.Address) math.Int {
	return k.getAmount(ctx, types.NativeKey(holder))
}

// TransferNative moves native value between holders.
func (k Keeper) TransferNative(ctx context.Context, from, to common.Address, amount math.Int) error {
	if amount.IsNil() || amount.IsNegative() {
		return types.ErrInvalidAmount.Wrapf("native transfer amount %s", amount)
	}
	if to == (common.Address{}) {
		return types.ErrZeroAddress.Wrap("native transfer recipient")
	}
	if err := k.move(ctx, types.NativeKey(from), types.NativeKey(to), amount); err != nil {
		return types.ErrInsufficientBalance.Wrapf("native balance of %s: %s", from.Hex(), err)
	}
	emitTransfer(ctx, nativeToken, from, to, amount)
	return nil
}

// FundNative credits native value to holder out of thin air. It is used for
// genesis seeding only.
func (k Keeper) FundNative(ctx context.Context, holder common.Address, amount math.Int) error {
	if amount.IsNil() || amount.IsNegative() {
		return types.ErrInvalidAmount.Wrapf("fund amount %s", amount)
	}
	balance, err := k.NativeBalanceOf(ctx, holder).SafeAdd(amount)
	if err != nil {
		return types.ErrInvalidAmount.Wrapf("native balance of %s overflows: %s", holder.Hex(), err)
	}
	k.setAmount(ctx, types.NativeKey(holder), balance)
	return nil
}

func (k Keeper) move(ctx context.Context, fromKey, toKey []byte, amount math.Int) error {
	fromBalance := k.getAmount(ctx, fromKey)
	if fromBalance.LT(amount) {
		return fmt.Errorf("have %s, need %s", fromBalance, amount)
	}
	k.setAmount(ctx, fromKey, fromBalance.Sub(amount))
	toBalance, err := k.getAmount(ctx, toKey).SafeAdd(amount)
	if err != nil {
		return err
	}
	k.setAmount(ctx, toKey, toBalance)
	return nil
}

func emitTransfer(ctx context.Context, token string, from, to common.Address, amount math.Int) {
	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeTransfer,
			sdk.NewAttribute(types.AttributeKeyToken, token),
			sdk.NewAttribute(types.AttributeKeyFrom, from.Hex()),
			sdk.NewAttribute(types.AttributeKeyTo, to.Hex()),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
		),
	)
}
