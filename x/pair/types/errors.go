package types

import (
	errorsmod "cosmossdk.io/errors"
)

// Pair module sentinel errors
var (
	ErrIdenticalAddresses        = errorsmod.Register(ModuleName, 2, "identical addresses")
	ErrZeroAddress               = errorsmod.Register(ModuleName, 3, "zero address")
	ErrPoolExists                = errorsmod.Register(ModuleName, 4, "pool already exists")
	ErrPoolNotFound              = errorsmod.Register(ModuleName, 5, "pool not found")
	ErrInsufficientBalance       = errorsmod.Register(ModuleName, 6, "insufficient balance")
	ErrInsufficientLiquidity     = errorsmod.Register(ModuleName, 7, "insufficient liquidity")
	ErrInsufficientOutputAmount  = errorsmod.Register(ModuleName, 8, "insufficient output amount")
	ErrInsufficientInputAmount   = errorsmod.Register(ModuleName, 9, "insufficient input amount")
	ErrInvalidRecipient          = errorsmod.Register(ModuleName, 10, "invalid recipient")
	ErrInvariantViolation        = errorsmod.Register(ModuleName, 11, "constant product invariant violated")
	ErrInsufficientLiquidityMint = errorsmod.Register(ModuleName, 12, "insufficient liquidity minted")
	ErrInsufficientLiquidityBurn = errorsmod.Register(ModuleName, 13, "insufficient liquidity burned")
	ErrInvalidAmount             = errorsmod.Register(ModuleName, 14, "invalid amount")
)
