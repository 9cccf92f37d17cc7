package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vfa-khuongdv/gdrive-stories/internal/config"
)

const shutdownTimeout = 10 * time.Second

// Server is the HTTP server backed by Gin
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	log        zerolog.Logger
}

// NewRouter builds the Gin engine with middleware and routes
func NewRouter(handler *Handler, log zerolog.Logger) *gin.Engine {
	engine := gin.New()
	engine.Use(Recovery(log))
	engine.Use(RequestID())
	engine.Use(CORS())
	engine.Use(RequestLogger(log))

	routes := map[string]gin.HandlerFunc{
		"/":        handler.Home,
		"/ping":    handler.Ping,
		"/health":  handler.Health,
		"/stories": handler.ListStories,
		"/media":   handler.Media,
	}
	for path, h := range routes {
		engine.GET(path, h)
		engine.HEAD(path, h)
	}

	return engine
}

// New creates a new Server
func New(cfg config.ServerConfig, handler *Handler, log zerolog.Logger) *Server {
	if log.GetLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	log = log.With().Str("component", "server").Logger()
	engine := NewRouter(handler, log)

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      engine,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		engine: engine,
		log:    log,
	}
}

// Engine returns the underlying Gin engine
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Addr returns the configured listen address
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start binds the port and begins serving. It returns once the listener is
// bound; serve errors are sent on the returned channel.
func (s *Server) Start() (<-chan error, error) {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return nil, fmt.Errorf("failed to bind %s: %w", s.httpServer.Addr, err)
	}

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Msg("Server error")
			errCh <- err
		}
	}()

	s.log.Info().Str("addr", listener.Addr().String()).Msg("HTTP server started")
	return errCh, nil
}

// Stop gracefully shuts down the server
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	s.log.Info().Msg("HTTP server shut down successfully")
	return nil
}
