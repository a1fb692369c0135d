// Package api provides the HTTP REST API and WebSocket server for the
// energy metrics service.
//
// It exposes metric submission and query endpoints, a derived sensor view,
// and real-time state updates over WebSocket.
//
// The server follows the same lifecycle pattern as other infrastructure components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nerrad567/energy-metrics-core/internal/infrastructure/config"
	"github.com/nerrad567/energy-metrics-core/internal/infrastructure/logging"
	"github.com/nerrad567/energy-metrics-core/internal/metric"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config      config.APIConfig
	WS          config.WebSocketConfig
	Ingest      config.IngestConfig
	Security    config.SecurityConfig
	Logger      *logging.Logger
	Store       *metric.Store
	Ingestor    *metric.Ingestor
	Projector   *metric.Projector
	ExternalHub *Hub // If set, the server uses this hub instead of creating its own
	Version     string
}

// Server is the HTTP API server for the energy metrics service.
//
// It manages the HTTP listener, routes, middleware, and WebSocket hub.
// The server is created with New() and started with Start().
type Server struct {
	cfg         config.APIConfig
	wsCfg       config.WebSocketConfig
	ingestCfg   config.IngestConfig
	secCfg      config.SecurityConfig
	logger      *logging.Logger
	store       *metric.Store
	ingestor    *metric.Ingestor
	projector   *metric.Projector
	version     string
	server      *http.Server
	hub         *Hub
	externalHub bool               // true if hub was injected externally
	cancel      context.CancelFunc // cancels background goroutines on Close()
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Store == nil {
		return nil, fmt.Errorf("metric store is required")
	}
	if deps.Ingestor == nil {
		return nil, fmt.Errorf("ingestor is required")
	}
	if deps.Projector == nil {
		return nil, fmt.Errorf("projector is required")
	}

	s := &Server{
		cfg:       deps.Config,
		wsCfg:     deps.WS,
		ingestCfg: deps.Ingest,
		secCfg:    deps.Security,
		logger:    deps.Logger,
		store:     deps.Store,
		ingestor:  deps.Ingestor,
		projector: deps.Projector,
		version:   deps.Version,
	}

	// Use externally-provided hub if available (needed when the projector
	// also requires the hub for WebSocket broadcasting).
	if deps.ExternalHub != nil {
		s.hub = deps.ExternalHub
		s.externalHub = true
	}

	return s, nil
}

// Hub returns the server's WebSocket hub, creating it if necessary. Use
// this to register the hub as a view publisher before Start().
func (s *Server) Hub() *Hub {
	if s.hub == nil {
		s.hub = NewHub(s.wsCfg, s.logger)
	}
	return s.hub
}

// Start begins listening for HTTP connections.
//
// It sets up the router, starts the WebSocket hub, and launches the HTTP
// listener in a background goroutine. The server can be stopped with Close().
func (s *Server) Start(ctx context.Context) error {
	// Internal context so Close() can stop background goroutines
	// independently of the parent context.
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	if s.hub == nil {
		s.hub = NewHub(s.wsCfg, s.logger)
	}
	if !s.externalHub {
		go s.hub.Run(srvCtx)
	}

	router := s.buildRouter()

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           router,
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		var err error
		if s.cfg.TLS.Enabled {
			s.logger.Info("API server starting with TLS",
				"address", s.server.Addr,
				"cert", s.cfg.TLS.CertFile,
			)
			err = s.server.ListenAndServeTLS(s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
		} else {
			err = s.server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running and responsive.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}
