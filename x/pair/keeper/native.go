package keeper

import (
	"context"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
)

// WrappedNative is the fungible, ledger-held representation of the native
// asset. Native value backing it is escrowed at the wrapped asset address.
type WrappedNative struct {
	k Keeper
}

// WrappedNative returns the adapter for the configured wrapped native asset.
func (k Keeper) WrappedNative() WrappedNative {
	return WrappedNative{k: k}
}

// Address is the wrapped asset identifier.
func (w WrappedNative) Address() common.Address { return w.k.wrappedNative }

// Wrap converts amount of holder's native balance into wrapped tokens.
func (w WrappedNative) Wrap(ctx context.Context, holder common.Address, amount math.Int) error {
	if err := w.k.TransferNative(ctx, holder, w.k.wrappedNative, amount); err != nil {
		return err
	}
	return w.k.Mint(ctx, w.k.wrappedNative, holder, amount)
}

// Unwrap converts amount of holder's wrapped tokens back to native value.
func (w WrappedNative) Unwrap(ctx context.Context, holder common.Address, amount math.Int) error {
	if err := w.k.Burn(ctx, w.k.wrappedNative, holder, amount); err != nil {
		return err
	}
	return w.k.TransferNative(ctx, w.k.wrappedNative, holder, amount)
}

// Transfer moves wrapped tokens between holders.
func (w WrappedNative) Transfer(ctx context.Context, from, to common.Address, amount math.Int) error {
	return w.k.Transfer(ctx, w.k.wrappedNative, from, to, amount)
}
