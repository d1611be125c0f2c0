package keeper

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("github.com/paw-chain/router/x/router")

// RouterMetrics holds all Prometheus metrics for the router module
type RouterMetrics struct {
	// Swap metrics
	SwapsTotal  *prometheus.CounterVec
	SwapHops    prometheus.Histogram
	SwapLatency *prometheus.HistogramVec

	// Safety metrics
	GuardRejections *prometheus.CounterVec
	EmergencyStop   prometheus.Gauge

	// Liquidity metrics
	LiquidityEvents *prometheus.CounterVec
}

var (
	routerMetricsOnce sync.Once
	routerMetrics     *RouterMetrics
)

// NewRouterMetrics creates and registers router metrics (singleton pattern)
func NewRouterMetrics() *RouterMetrics {
	routerMetricsOnce.Do(func() {
		routerMetrics = &RouterMetrics{
			SwapsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "paw",
					Subsystem: "router",
					Name:      "swaps_total",
					Help:      "Total number of swap calls by entry point and outcome",
				},
				[]string{"kind", "status"},
			),
			SwapHops: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Namespace: "paw",
					Subsystem: "router",
					Name:      "swap_hops",
					Help:      "Number of pools traversed by successful swaps",
					Buckets:   prometheus.LinearBuckets(1, 1, 8),
				},
			),
			SwapLatency: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Namespace: "paw",
					Subsystem: "router",
					Name:      "swap_latency_seconds",
					Help:      "Swap execution latency in seconds",
					Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14),
				},
				[]string{"kind"},
			),
			GuardRejections: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "paw",
					Subsystem: "router",
					Name:      "guard_rejections_total",
					Help:      "Calls rejected by a safety check, by reason",
				},
				[]string{"reason"},
			),
			EmergencyStop: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "paw",
					Subsystem: "router",
					Name:      "emergency_stop",
					Help:      "1 while the emergency stop is engaged",
				},
			),
			LiquidityEvents: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "paw",
					Subsystem: "router",
					Name:      "liquidity_events_total",
					Help:      "Liquidity operations by action and outcome",
				},
				[]string{"action", "status"},
			),
		}
	})
	return routerMetrics
}
