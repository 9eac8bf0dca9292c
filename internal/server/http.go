// Package server wires the dashboard HTTP API: routing, auth middleware,
// request metrics, and health.
package server

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"signoff-dashboard/backend/internal/config"
	reporthandler "signoff-dashboard/backend/internal/report/handler"
	"signoff-dashboard/backend/internal/security"
)

// Deps holds the dependencies for the HTTP server.
type Deps struct {
	Cfg *config.Config
	// DB is pinged by the health endpoint. If nil, the ping is skipped.
	DB *sql.DB
	// Reports serves every /api/v1 route.
	Reports *reporthandler.Handler
	// Verifier validates Bearer tokens on /api/v1. Required unless Cfg.AuthDisabled.
	Verifier *security.TokenVerifier
}

// Server is the dashboard HTTP server.
type Server struct {
	http *http.Server
}

// New builds the server: public /healthz and /metrics, authenticated /api/v1.
func New(deps Deps) *Server {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	metrics := newHTTPMetrics(reg)

	api := http.NewServeMux()
	deps.Reports.Register(api)

	mux := http.NewServeMux()
	mux.Handle("GET /healthz", newHealthHandler(deps.DB, deps.Cfg.Version, deps.Cfg.Env))
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.Handle("/api/v1/", metrics.wrap(authMiddleware(deps.Verifier, deps.Cfg.AuthDisabled, api)))

	return &Server{
		http: &http.Server{
			Addr:              deps.Cfg.HTTPAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// ListenAndServe blocks serving requests until Shutdown or a listener error.
func (s *Server) ListenAndServe() error {
	return s.http.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// Handler exposes the root handler for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}
