package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"tokmeta/internal/extractor"
)

// Extractor is the extraction capability the HTTP layer exposes
type Extractor interface {
	Extract(ctx context.Context, url string, opts extractor.Options) (*extractor.Result, error)
}

// Server is the HTTP front-end for tokmeta
type Server struct {
	port    int
	service Extractor
	log     *zap.Logger
	server  *http.Server
	engine  *gin.Engine
}

// New creates a new HTTP server
func New(port int, service Extractor, log *zap.Logger) *Server {
	s := &Server{
		port:    port,
		service: service,
		log:     log,
	}

	gin.SetMode(gin.ReleaseMode)

	s.engine = gin.New()
	s.engine.Use(gin.Recovery())
	s.engine.Use(s.requestLogger())

	s.engine.GET("/", s.handleRoot)
	s.engine.GET("/health", s.handleHealth)
	s.engine.GET("/extract/", s.handleExtract)

	return s
}

// Handler exposes the routing engine, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s.engine,
		// No write timeout: extraction waits on the engine and, on a cold
		// start, a full browser session.
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	s.log.Info("starting tokmeta server", zap.Int("port", s.port))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.NewString()
		c.Set("request_id", requestID)

		c.Next()

		s.log.Info("request",
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)))
	}
}
