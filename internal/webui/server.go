// Package webui is the terminal-facing web front-end: server-rendered
// pages for order building, checkout, tickets, history, and reports.
// It holds no durable state; everything flows through the session's
// backend client.
package webui

import (
	"context"
	"log"
	"net/http"
	"time"

	"pos-terminal/internal/backend"
	"pos-terminal/internal/catalog"
	"pos-terminal/internal/session"

	"github.com/gin-gonic/gin"
)

// Deps carries the wired collaborators for the web front-end.
type Deps struct {
	Sessions *session.Store
	Catalog  *catalog.Catalog
	// Probe is an unauthenticated backend client used only by the
	// readiness check.
	Probe *backend.Client
	// AllowedOrigins feeds the CORS middleware.
	AllowedOrigins []string
}

// Server wraps the HTTP server setup.
type Server struct {
	httpServer *http.Server
	logger     *log.Logger
}

// New builds a Server with all routes wired.
func New(addr string, logger *log.Logger, deps Deps) (*Server, error) {
	router, err := buildRouter(logger, deps)
	if err != nil {
		return nil, err
	}

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Server{
		httpServer: httpSrv,
		logger:     logger,
	}, nil
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func readyHandler(probe *backend.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if probe == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "backend not configured"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()
		if err := probe.Health(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "backend not reachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}
