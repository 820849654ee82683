package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/ropa-cli/internal/core/ports/driving"
	"github.com/custodia-labs/ropa-cli/internal/logger"
)

// ErrMissingSessionService is returned when the session service is not provided.
var ErrMissingSessionService = errors.New("httpapi: session service is required")

// Ports aggregates the driving ports served over HTTP.
// Only Sessions is required; routes of a missing port answer 503.
type Ports struct {
	Sessions driving.SessionService
	Analysis driving.AnalysisService
	Chat     driving.ChatService
	Export   driving.ExportService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Sessions == nil {
		return ErrMissingSessionService
	}
	return nil
}

// Server serves the JSON API.
type Server struct {
	ports  *Ports
	engine *gin.Engine
}

// NewServer builds the router for the given ports.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger())
	engine.MaxMultipartMemory = 32 << 20

	s := &Server{ports: ports, engine: engine}
	s.routes()
	return s, nil
}

// Handler returns the underlying http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	logger.Info("listening on http://%s", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) routes() {
	api := s.engine.Group("/api")
	{
		api.POST("/analyze", s.analyze)
		api.POST("/brainstorming", s.brainstorm)

		api.GET("/sessions", s.listSessions)
		api.POST("/sessions", s.createSession)
		api.GET("/sessions/active", s.activeSession)
		api.GET("/sessions/:id", s.getSession)
		api.POST("/sessions/:id/activate", s.activateSession)
		api.DELETE("/sessions/:id", s.deleteSession)

		api.PUT("/cells", s.editCell)
		api.GET("/table", s.table)
		api.GET("/export", s.export)
	}
}

// requestLogger logs each request through the application logger.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("%s %s -> %d (%s)",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start).Round(time.Millisecond))
	}
}
