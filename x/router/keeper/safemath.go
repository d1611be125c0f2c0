package keeper

import (
	"cosmossdk.io/math"
	"github.com/holiman/uint256"

	"github.com/paw-chain/router/x/router/types"
)

// Amounts are bounded to 256 bits. Intermediate products are computed on
// uint256 so an overflow surfaces as ErrOverflow instead of silently growing.

func toU256(x math.Int) (*uint256.Int, error) {
	if x.IsNil() || x.IsNegative() {
		return nil, types.ErrInvalidAmounts.Wrapf("amount must be non-negative, got %s", x)
	}
	u, overflow := uint256.FromBig(x.BigInt())
	if overflow {
		return nil, types.ErrOverflow.Wrapf("%s exceeds 256 bits", x)
	}
	return u, nil
}

func fromU256(u *uint256.Int) math.Int {
	return math.NewIntFromBigInt(u.ToBig())
}

func mulU256(a, b *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).MulOverflow(a, b)
	if overflow {
		return nil, types.ErrOverflow.Wrapf("%s * %s", a.Dec(), b.Dec())
	}
	return z, nil
}

func addU256(a, b *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow {
		return nil, types.ErrOverflow.Wrapf("%s + %s", a.Dec(), b.Dec())
	}
	return z, nil
}

// mulDiv returns floor(a*b/c). c must be non-zero.
func mulDiv(a, b, c math.Int) (math.Int, error) {
	ua, err := toU256(a)
	if err != nil {
		return math.Int{}, err
	}
	ub, err := toU256(b)
	if err != nil {
		return math.Int{}, err
	}
	uc, err := toU256(c)
	if err != nil {
		return math.Int{}, err
	}
	if uc.IsZero() {
		return math.Int{}, types.ErrInsufficientAmount.Wrap("division by zero")
	}
	num, err := mulU256(ua, ub)
	if err != nil {
		return math.Int{}, err
	}
	return fromU256(new(uint256.Int).Div(num, uc)), nil
}
