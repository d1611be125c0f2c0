package types

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
)

// Router sentinel errors
var (
	// Input validity
	ErrInvalidPath        = errorsmod.Register(ModuleName, 2, "invalid path")
	ErrZeroAddress        = errorsmod.Register(ModuleName, 3, "zero address")
	ErrInvalidAmounts     = errorsmod.Register(ModuleName, 4, "invalid amounts")
	ErrInsufficientAmount = errorsmod.Register(ModuleName, 5, "insufficient amount")

	// Temporal
	ErrExpiredDeadline = errorsmod.Register(ModuleName, 6, "expired deadline")
	ErrTooSoon         = errorsmod.Register(ModuleName, 7, "too soon since last call")

	// Economic safety
	ErrExcessiveSlippage    = errorsmod.Register(ModuleName, 8, "excessive slippage")
	ErrExcessivePriceImpact = errorsmod.Register(ModuleName, 9, "excessive price impact")

	// Authorization / operational
	ErrEmergencyStopActive = errorsmod.Register(ModuleName, 10, "emergency stop active")
	ErrUnauthorizedPair    = errorsmod.Register(ModuleName, 11, "unauthorized pair")
	ErrUnauthorized        = errorsmod.Register(ModuleName, 12, "unauthorized")
	ErrReentrancy          = errorsmod.Register(ModuleName, 13, "reentrant call")

	// External-call failure
	ErrTransferFailed = errorsmod.Register(ModuleName, 14, "transfer failed")
	ErrPoolNotFound   = errorsmod.Register(ModuleName, 15, "pool not found")

	ErrOverflow      = errorsmod.Register(ModuleName, 16, "arithmetic overflow")
	ErrInvalidParams = errorsmod.Register(ModuleName, 17, "invalid params")
)

// BoundError reports a violated numeric bound together with the values that
// violated it. It unwraps to one of the registered errors above.
type BoundError struct {
	Err    *errorsmod.Error
	Field  string
	Limit  math.Int
	Actual math.Int
}

// NewBoundError builds a BoundError for field.
func NewBoundError(err *errorsmod.Error, field string, limit, actual math.Int) *BoundError {
	return &BoundError{Err: err, Field: field, Limit: limit, Actual: actual}
}

func (e *BoundError) Error() string {
	return fmt.Sprintf("%s: %s limit %s, got %s", e.Err.Error(), e.Field, e.Limit, e.Actual)
}

func (e *BoundError) Unwrap() error { return e.Err }
