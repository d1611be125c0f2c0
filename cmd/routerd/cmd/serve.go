package cmd

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/paw-chain/router/api"
	"github.com/paw-chain/router/app"
	"github.com/paw-chain/router/app/health"
	"github.com/paw-chain/router/app/telemetry"
)

// ServeCmd starts the HTTP API and the operations server.
func ServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the router HTTP API, /metrics and health endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger, err := app.NewLogger(os.Stderr, cfg.Log)
			if err != nil {
				return err
			}

			provider, err := telemetry.NewProvider(telemetry.Config{
				Enabled:      cfg.Telemetry.TracingEnabled,
				OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
				SampleRate:   cfg.Telemetry.SampleRate,
				Environment:  cfg.Telemetry.Environment,
				RouterAddr:   cfg.RouterAddress,
			})
			if err != nil {
				return err
			}
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := provider.Shutdown(ctx); err != nil {
					logger.Error("telemetry shutdown failed", "error", err)
				}
			}()

			a, err := app.New(cfg, logger)
			if err != nil {
				return err
			}

			probes := a.HealthProbes()
			probes["telemetry"] = func(context.Context) health.ComponentHealth {
				if err := provider.HealthCheck(); err != nil {
					return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
				}
				return health.ComponentHealth{Status: health.StatusHealthy}
			}
			checker := health.NewChecker(logger, health.Config{
				Version:       Version,
				Timeout:       5 * time.Second,
				CacheDuration: 5 * time.Second,
			}, probes)

			server, err := api.NewServer(a, api.ConfigFromApp(cfg.API))
			if err != nil {
				return err
			}
			defer server.Close()

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				return server.Run(ctx)
			})
			g.Go(func() error {
				return api.NewOpsServer(cfg.API.OpsListenAddr, checker, logger).Run(ctx)
			})
			return g.Wait()
		},
	}
}
