package api

import (
	"context"
	"net/http"
	"time"

	"cosmossdk.io/log"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/paw-chain/router/app/health"
)

// OpsServer serves /metrics and the health endpoints on a separate port.
type OpsServer struct {
	addr    string
	handler http.Handler
	logger  log.Logger
}

// NewOpsServer builds the operations server for checker.
func NewOpsServer(addr string, checker *health.Checker, logger log.Logger) *OpsServer {
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	checker.RegisterRoutes(router)

	return &OpsServer{
		addr:    addr,
		handler: handlers.RecoveryHandler(handlers.PrintRecoveryStack(false))(handlers.CompressHandler(router)),
		logger:  logger.With("server", "ops"),
	}
}

// Handler exposes the mux for tests.
func (o *OpsServer) Handler() http.Handler { return o.handler }

// Run serves until ctx is cancelled.
func (o *OpsServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              o.addr,
		Handler:           o.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return serve(ctx, srv, 5*time.Second, o.logger)
}
