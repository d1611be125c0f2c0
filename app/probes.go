package app

import (
	"context"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/router/app/health"
)

// HealthProbes returns the probes served by the operations server.
func (a *App) HealthProbes() map[string]health.Probe {
	return map[string]health.Probe{
		"store":  a.probeStore,
		"router": a.probeRouter,
	}
}

func (a *App) probeStore(context.Context) health.ComponentHealth {
	start := time.Now()
	height := a.Height()
	return health.ComponentHealth{
		Status:  health.StatusHealthy,
		Message: "store is readable",
		Metrics: map[string]interface{}{
			"height":        height,
			"query_time_ms": time.Since(start).Milliseconds(),
		},
	}
}

// probeRouter reports degraded while the emergency stop is engaged.
func (a *App) probeRouter(context.Context) health.ComponentHealth {
	var (
		stopped bool
		pools   int
	)
	err := a.Query(func(ctx sdk.Context) error {
		stopped = a.RouterKeeper.IsEmergencyStopped(ctx)
		states, err := a.PairKeeper.Pools(ctx)
		pools = len(states)
		return err
	})
	if err != nil {
		return health.ComponentHealth{Status: health.StatusUnhealthy, Message: err.Error()}
	}

	result := health.ComponentHealth{
		Status:  health.StatusHealthy,
		Message: "router accepting calls",
		Metrics: map[string]interface{}{
			"emergency_stop": stopped,
			"pools":          pools,
		},
	}
	if stopped {
		result.Status = health.StatusDegraded
		result.Message = "emergency stop engaged"
	}
	return result
}
