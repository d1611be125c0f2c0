package types

import (
	"strings"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
)

// Reserves is the direction-correct reserve snapshot of one hop.
type Reserves struct {
	Pool       common.Address
	ReserveIn  math.Int
	ReserveOut math.Int
}

// SwapPlan is the amount array for a path plus the reserve snapshots each
// hop was priced against. Amounts has one entry per path node.
type SwapPlan struct {
	Path     Path
	Amounts  []math.Int
	Reserves []Reserves
}

// AmountIn is the amount entering the first pool.
func (p SwapPlan) AmountIn() math.Int { return p.Amounts[0] }

// AmountOut is the amount leaving the last pool.
func (p SwapPlan) AmountOut() math.Int { return p.Amounts[len(p.Amounts)-1] }

// FormatAmounts renders amounts as a comma separated list.
func FormatAmounts(amounts []math.Int) string {
	parts := make([]string, len(amounts))
	for i, a := range amounts {
		parts[i] = a.String()
	}
	return strings.Join(parts, ",")
}
