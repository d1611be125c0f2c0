package keeper

import (
	"errors"
	"testing"
	"time"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/router/x/router/types"
)

func TestCheckDeadline(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, checkDeadline(now, now))
	require.NoError(t, checkDeadline(now, now.Add(time.Nanosecond)))
	require.ErrorIs(t, checkDeadline(now, now.Add(-time.Second)), types.ErrExpiredDeadline)
}

func TestCheckPriceImpact(t *testing.T) {
	plan := types.SwapPlan{
		Amounts: []math.Int{math.NewInt(100), math.NewInt(90), math.NewInt(304)},
		Reserves: []types.Reserves{
			{ReserveIn: math.NewInt(1_000), ReserveOut: math.NewInt(1_000)},
			{ReserveIn: math.NewInt(500), ReserveOut: math.NewInt(2_000)},
		},
	}

	require.NoError(t, checkPriceImpact(plan, 1_800))

	err := checkPriceImpact(plan, 1_799)
	require.ErrorIs(t, err, types.ErrExcessivePriceImpact)
	var bound *types.BoundError
	require.True(t, errors.As(err, &bound))
	require.Equal(t, math.NewInt(1_800), bound.Actual)

	impact, err := PriceImpactBps(math.NewInt(1), math.NewInt(3))
	require.NoError(t, err)
	require.Equal(t, math.NewInt(3_333), impact)
}

func TestCheckSlippage(t *testing.T) {
	plan := types.SwapPlan{Amounts: []math.Int{math.NewInt(100), math.NewInt(90)}}

	require.NoError(t, checkMinimumOutput(plan, math.NewInt(90)))
	require.ErrorIs(t, checkMinimumOutput(plan, math.NewInt(91)), types.ErrExcessiveSlippage)
	require.NoError(t, checkMaximumInput(plan, math.NewInt(100)))
	require.ErrorIs(t, checkMaximumInput(plan, math.NewInt(99)), types.ErrExcessiveSlippage)
}

func TestRejectionReason(t *testing.T) {
	require.Equal(t, "emergency_stop", rejectionReason(types.ErrEmergencyStopActive))
	require.Equal(t, "rate_limit", rejectionReason(types.NewBoundError(types.ErrTooSoon, "x", math.OneInt(), math.ZeroInt())))
	require.Equal(t, "path", rejectionReason(types.ErrZeroAddress.Wrap("recipient")))
	require.Equal(t, "", rejectionReason(types.ErrTransferFailed))
}
