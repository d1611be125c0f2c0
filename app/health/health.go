// Package health serves liveness and readiness checks for routerd.
//
// Endpoints:
//   - /health          liveness
//   - /health/ready    readiness, 503 when any probe is unhealthy
//   - /health/detailed every probe with its metrics
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"cosmossdk.io/log"
	"github.com/gorilla/mux"
)

// Status represents the health status of a component
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// ComponentHealth represents the health status of a single component
type ComponentHealth struct {
	Status    Status                 `json:"status"`
	Message   string                 `json:"message,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Metrics   map[string]interface{} `json:"metrics,omitempty"`
}

// HealthCheck represents the overall health check response
type HealthCheck struct {
	Status     Status                     `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Version    string                     `json:"version,omitempty"`
	Components map[string]ComponentHealth `json:"components,omitempty"`
}

// Probe reports the health of one component.
type Probe func(ctx context.Context) ComponentHealth

// Config holds configuration for the health checker
type Config struct {
	Version       string
	Timeout       time.Duration
	CacheDuration time.Duration
}

// DefaultConfig returns the default health check configuration
func DefaultConfig() Config {
	return Config{
		Timeout:       5 * time.Second,
		CacheDuration: 5 * time.Second,
	}
}

// Checker runs probes and caches the aggregate result.
type Checker struct {
	logger log.Logger
	cfg    Config
	probes map[string]Probe

	mu           sync.RWMutex
	lastCheck    time.Time
	cachedHealth *HealthCheck
}

// NewChecker creates a new health checker
func NewChecker(logger log.Logger, cfg Config, probes map[string]Probe) *Checker {
	return &Checker{
		logger: logger,
		cfg:    cfg,
		probes: probes,
	}
}

// Check runs every probe in parallel. Non-detailed checks may be served
// from cache.
func (c *Checker) Check(ctx context.Context, detailed bool) *HealthCheck {
	if !detailed && c.shouldUseCached() {
		c.mu.RLock()
		defer c.mu.RUnlock()
		return c.cachedHealth
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	health := &HealthCheck{
		Timestamp:  time.Now(),
		Version:    c.cfg.Version,
		Components: make(map[string]ComponentHealth, len(c.probes)),
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	for name, probe := range c.probes {
		wg.Add(1)
		go func(name string, probe Probe) {
			defer wg.Done()
			result := probe(ctx)
			if result.Timestamp.IsZero() {
				result.Timestamp = time.Now()
			}
			mu.Lock()
			health.Components[name] = result
			mu.Unlock()
		}(name, probe)
	}
	wg.Wait()

	health.Status = calculateOverallStatus(health.Components)

	c.mu.Lock()
	c.lastCheck = time.Now()
	c.cachedHealth = health
	c.mu.Unlock()

	return health
}

func calculateOverallStatus(components map[string]ComponentHealth) Status {
	hasDegraded := false
	for _, component := range components {
		switch component.Status {
		case StatusUnhealthy:
			return StatusUnhealthy
		case StatusDegraded:
			hasDegraded = true
		}
	}
	if hasDegraded {
		return StatusDegraded
	}
	return StatusHealthy
}

func (c *Checker) shouldUseCached() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.cachedHealth == nil {
		return false
	}
	return time.Since(c.lastCheck) < c.cfg.CacheDuration
}

// RegisterRoutes registers health check endpoints
func (c *Checker) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", c.handleHealth).Methods("GET")
	router.HandleFunc("/health/ready", c.handleHealthReady).Methods("GET")
	router.HandleFunc("/health/detailed", c.handleHealthDetailed).Methods("GET")
}

func (c *Checker) handleHealth(w http.ResponseWriter, r *http.Request) {
	c.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (c *Checker) handleHealthReady(w http.ResponseWriter, r *http.Request) {
	health := c.Check(r.Context(), false)
	c.writeJSON(w, statusCode(health), health)
}

func (c *Checker) handleHealthDetailed(w http.ResponseWriter, r *http.Request) {
	health := c.Check(r.Context(), true)
	c.writeJSON(w, statusCode(health), health)
}

// statusCode keeps degraded components ready.
func statusCode(health *HealthCheck) int {
	if health.Status == StatusUnhealthy {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}

func (c *Checker) writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		c.logger.Error("failed to write health response", "error", err)
	}
}
