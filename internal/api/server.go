// Package api provides the HTTP REST API and WebSocket server for Flotilla.
//
// It exposes the reconciled device list, persisted dashboard
// preferences, and a real-time WebSocket feed to the browser UI.
//
// The server follows the same lifecycle pattern as other infrastructure
// components:
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

	"github.com/nerrad567/flotilla/internal/fleet"
	"github.com/nerrad567/flotilla/internal/infrastructure/config"
	"github.com/nerrad567/flotilla/internal/infrastructure/logging"
	"github.com/nerrad567/flotilla/internal/prefs"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// DashboardService is the device view the API serves. Implemented by
// the dashboard controller; abstracted so handlers can be tested
// without feeds.
type DashboardService interface {
	ViewList() fleet.ViewList
	Online() fleet.OnlineMap
	Device(name string) (fleet.Entry, bool)
	IsNew(name string) bool
	Refresh(ctx context.Context) error
}

// HealthChecker is implemented by infrastructure components that can
// report their own liveness.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config    config.APIConfig
	WS        config.WebSocketConfig
	Security  config.SecurityConfig
	Logger    *logging.Logger
	Dashboard DashboardService
	Prefs     prefs.Store
	Broker    HealthChecker // optional, surfaces in /health
	Database  HealthChecker // optional, surfaces in /health
	Hub       *Hub          // if set, the server uses this hub instead of creating its own
	Version   string
}

// Server is the HTTP API server for Flotilla.
//
// It manages the HTTP listener, routes, middleware, and WebSocket hub.
// The server is created with New() and started with Start().
type Server struct {
	cfg       config.APIConfig
	wsCfg     config.WebSocketConfig
	secCfg    config.SecurityConfig
	logger    *logging.Logger
	dashboard DashboardService
	prefs     prefs.Store
	broker    HealthChecker
	database  HealthChecker
	version   string

	server  *http.Server
	hub     *Hub
	tickets *ticketStore
	cancel  context.CancelFunc
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Dashboard == nil {
		return nil, fmt.Errorf("dashboard service is required")
	}
	if deps.Prefs == nil {
		return nil, fmt.Errorf("preference store is required")
	}

	return &Server{
		hub:       deps.Hub,
		cfg:       deps.Config,
		wsCfg:     deps.WS,
		secCfg:    deps.Security,
		logger:    deps.Logger,
		dashboard: deps.Dashboard,
		prefs:     deps.Prefs,
		broker:    deps.Broker,
		database:  deps.Database,
		version:   deps.Version,
		tickets:   newTicketStore(),
	}, nil
}

// Hub returns the WebSocket hub, creating it on first use unless one
// was injected through Deps. Exposed so the dashboard controller can
// broadcast before Start() runs.
func (s *Server) Hub() *Hub {
	if s.hub == nil {
		s.hub = NewHub(s.wsCfg, s.logger)
	}
	return s.hub
}

// Start begins listening for HTTP connections.
//
// It builds the router, starts the WebSocket hub and ticket cleanup,
// and launches the HTTP listener in a background goroutine. The server
// is stopped with Close().
func (s *Server) Start(ctx context.Context) error {
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	hub := s.Hub()
	go hub.Run(srvCtx)
	go s.tickets.cleanLoop(srvCtx)

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
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
			s.logger.Info("API server starting", "address", s.server.Addr)
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
// It waits up to gracefulShutdownTimeout for in-flight requests to
// complete, then forcefully closes remaining connections.
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

// HealthCheck verifies the API server is running.
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
