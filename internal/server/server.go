// Package server exposes the ingestion pipeline over HTTP/JSON.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dkazlauskas/bendrija-ingest/internal/common"
)

// HealthChecker reports storage reachability for the health endpoint.
type HealthChecker func(ctx context.Context) error

type Server struct {
	service IngestService
	health  HealthChecker
	auth    common.AuthConfig
	logger  *slog.Logger
	httpSrv *http.Server
}

func New(cfg common.ServerConfig, auth common.AuthConfig, service IngestService, health HealthChecker, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		service: service,
		health:  health,
		auth:    auth,
		logger:  logger,
	}
	s.httpSrv = &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Router builds the route table. Exposed separately so handler tests can
// drive it through httptest without binding a listener.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", s.handleHealthz)

	api := r.Group("/api/v1", JWTAuth(s.auth), RequireRole(s.auth.AdminRole))
	api.POST("/statements/ingest", s.handleIngestStatements)
	api.POST("/vendor-invoices/analyze", s.handleAnalyzeInvoice)
	api.POST("/vendor-invoices/confirm", s.handleConfirmPattern)
	return r
}

func (s *Server) handleHealthz(c *gin.Context) {
	if s.health != nil {
		if err := s.health(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Start blocks serving HTTP until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("http.listen", "addr", s.httpSrv.Addr)
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests within the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http.shutdown")
	return s.httpSrv.Shutdown(ctx)
}
