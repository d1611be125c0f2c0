package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"cosmossdk.io/log"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

func fixed(status Status) Probe {
	return func(context.Context) ComponentHealth {
		return ComponentHealth{Status: status}
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.Equal(t, 5*time.Second, cfg.Timeout)
	require.Equal(t, 5*time.Second, cfg.CacheDuration)
}

func TestCalculateOverallStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		components map[string]ComponentHealth
		expected   Status
	}{
		{"no components", map[string]ComponentHealth{}, StatusHealthy},
		{
			"all healthy",
			map[string]ComponentHealth{"a": {Status: StatusHealthy}, "b": {Status: StatusHealthy}},
			StatusHealthy,
		},
		{
			"one degraded",
			map[string]ComponentHealth{"a": {Status: StatusHealthy}, "b": {Status: StatusDegraded}},
			StatusDegraded,
		},
		{
			"unhealthy wins",
			map[string]ComponentHealth{"a": {Status: StatusDegraded}, "b": {Status: StatusUnhealthy}},
			StatusUnhealthy,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.expected, calculateOverallStatus(tt.components))
		})
	}
}

func TestCheckCachesResults(t *testing.T) {
	var calls atomic.Int32
	probe := func(context.Context) ComponentHealth {
		calls.Add(1)
		return ComponentHealth{Status: StatusHealthy}
	}
	checker := NewChecker(log.NewNopLogger(), Config{Timeout: time.Second, CacheDuration: time.Hour},
		map[string]Probe{"store": probe})

	require.False(t, checker.shouldUseCached())
	first := checker.Check(context.Background(), false)
	require.Equal(t, StatusHealthy, first.Status)
	require.False(t, first.Components["store"].Timestamp.IsZero())

	second := checker.Check(context.Background(), false)
	require.Same(t, first, second)
	require.EqualValues(t, 1, calls.Load())

	// detailed checks always run the probes
	checker.Check(context.Background(), true)
	require.EqualValues(t, 2, calls.Load())
}

func TestHandlers(t *testing.T) {
	tests := []struct {
		name   string
		probes map[string]Probe
		path   string
		code   int
	}{
		{"liveness ignores probes", map[string]Probe{"x": fixed(StatusUnhealthy)}, "/health", http.StatusOK},
		{"ready when healthy", map[string]Probe{"x": fixed(StatusHealthy)}, "/health/ready", http.StatusOK},
		{"ready when degraded", map[string]Probe{"x": fixed(StatusDegraded)}, "/health/ready", http.StatusOK},
		{"not ready when unhealthy", map[string]Probe{"x": fixed(StatusUnhealthy)}, "/health/ready", http.StatusServiceUnavailable},
		{"detailed", map[string]Probe{"x": fixed(StatusDegraded)}, "/health/detailed", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := mux.NewRouter()
			NewChecker(log.NewNopLogger(), DefaultConfig(), tt.probes).RegisterRoutes(router)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			require.Equal(t, tt.code, w.Code)
			require.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			require.NotEmpty(t, body["status"])
		})
	}
}
