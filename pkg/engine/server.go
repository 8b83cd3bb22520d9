package engine

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/tracedapp/tracedapp/pkg/config"
	"github.com/tracedapp/tracedapp/pkg/logging"
	"github.com/tracedapp/tracedapp/pkg/simulate"
)

// Server is the HTTP server hosting the simulated endpoints.
type Server struct {
	cfg        *config.ServerConfiguration
	log        *slog.Logger
	handler    *Handler
	injector   *simulate.Injector
	middleware []func(http.Handler) http.Handler
	httpServer *http.Server
	mu         sync.RWMutex
	running    bool
	startTime  time.Time
}

// ServerOption is a functional option for configuring a Server.
type ServerOption func(*Server)

// WithLogger sets the operational logger for the server.
func WithLogger(log *slog.Logger) ServerOption {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithInjector replaces the server's injector. Mainly for tests that need
// deterministic draws.
func WithInjector(injector *simulate.Injector) ServerOption {
	return func(s *Server) {
		if injector != nil {
			s.injector = injector
		}
	}
}

// WithMiddleware attaches an instrumentation wrapper around the whole
// request path. Wrappers run before routing and after error translation, so
// an external tracing layer sees every request and every final response
// without the engine knowing anything about propagation formats. Multiple
// wrappers are applied in the order given, first one outermost.
func WithMiddleware(mw func(http.Handler) http.Handler) ServerOption {
	return func(s *Server) {
		if mw != nil {
			s.middleware = append(s.middleware, mw)
		}
	}
}

// NewServer creates a Server with the given configuration.
func NewServer(cfg *config.ServerConfiguration, opts ...ServerOption) *Server {
	if cfg == nil {
		cfg = config.DefaultServerConfiguration()
	}

	s := &Server{
		cfg:      cfg,
		log:      logging.Nop(),
		injector: simulate.NewInjector(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.handler = NewHandler(cfg.Simulation, s.injector)
	s.handler.SetLogger(s.log)

	return s
}

// HTTPHandler returns the fully wrapped request handler: request-ID and
// request-log middleware around the router, with any configured
// instrumentation wrappers outermost.
func (s *Server) HTTPHandler() http.Handler {
	var h http.Handler = s.handler
	h = RequestLogMiddleware(s.log)(h)
	h = RequestIDMiddleware(h)

	for i := len(s.middleware) - 1; i >= 0; i-- {
		h = s.middleware[i](h)
	}
	return h
}

// Start starts the HTTP server. It does not block; errors from the listener
// after startup are logged.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("server is already running")
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.HTTPHandler(),
		ReadTimeout:  time.Duration(s.cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeout) * time.Second,
	}

	s.log.Info("starting HTTP server", "port", s.cfg.Port)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error("HTTP server error", "error", err)
		}
	}()

	s.running = true
	s.startTime = time.Now()
	return nil
}

// Stop gracefully shuts down the server, letting in-flight simulated delays
// run to completion within the context's deadline. The drain happens outside
// the server lock so status queries stay responsive while slow requests
// finish.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	httpServer := s.httpServer
	s.mu.Unlock()

	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP shutdown: %w", err)
	}

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	s.log.Info("server stopped")
	return nil
}

// IsRunning returns whether the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Uptime returns the server uptime in seconds, or 0 when stopped.
func (s *Server) Uptime() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.running {
		return 0
	}
	return int(time.Since(s.startTime).Seconds())
}

// Config returns the server configuration.
func (s *Server) Config() *config.ServerConfiguration {
	return s.cfg
}

// Injector returns the simulation injector, e.g. for reading stats.
func (s *Server) Injector() *simulate.Injector {
	return s.injector
}

// Routes returns the registered endpoint paths.
func (s *Server) Routes() []string {
	return s.handler.Routes()
}
