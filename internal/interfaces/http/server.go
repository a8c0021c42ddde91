// Package http exposes the trained segmentation artifacts over a small REST
// surface: a health probe, a single-airline predictor, and the evaluation
// metrics of the surrogate classifier.
package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/airnalytics/air-modernity/internal/application/segmentation"
	"github.com/airnalytics/air-modernity/internal/config"
	"github.com/airnalytics/air-modernity/internal/infrastructure/monitoring/logging"
	"github.com/airnalytics/air-modernity/internal/infrastructure/monitoring/prometheus"
)

// Server wraps the gin engine and the underlying http.Server.
type Server struct {
	engine *gin.Engine
	srv    *http.Server
	log    logging.Logger
}

// NewServer builds the scoring server over a loaded predictor.  The metrics
// endpoint reads artifacts from outDir on each request so that a pipeline
// rerun is picked up without a restart.
func NewServer(cfg *config.Config, log logging.Logger, p *segmentation.Predictor, outDir string) *Server {
	gin.SetMode(ginMode(cfg.Server.Mode))
	m := prometheus.New()
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestObserver(log, m))

	h := &handler{predictor: p, outDir: outDir, metrics: m}
	engine.GET("/healthz", h.health)
	engine.GET("/metrics", gin.WrapH(m.Handler()))
	api := engine.Group("/api/v1")
	api.POST("/predict", h.predict)
	api.GET("/metrics", h.knnMetrics)

	return &Server{
		engine: engine,
		srv: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:      engine,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		log: log.Named("http"),
	}
}

// Start blocks serving requests until Stop is called or the listener fails.
func (s *Server) Start() error {
	s.log.Info("http server listening", logging.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop drains in-flight requests and shuts the listener down.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}

// Handler exposes the engine for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func ginMode(mode string) string {
	switch mode {
	case gin.DebugMode, gin.TestMode:
		return mode
	default:
		return gin.ReleaseMode
	}
}

// requestObserver logs one line per request and records the request counter
// and latency histogram.  Health and scrape probes are skipped to keep the
// log and the cardinality quiet.
func requestObserver(log logging.Logger, m *prometheus.Metrics) gin.HandlerFunc {
	log = log.Named("http")
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if path == "/healthz" || path == "/metrics" {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		m.RequestsTotal.WithLabelValues(
			c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.RequestDuration.WithLabelValues(c.Request.Method, path).Observe(elapsed.Seconds())
		log.Info("request",
			logging.String("method", c.Request.Method),
			logging.String("path", path),
			logging.Int("status", c.Writer.Status()),
			logging.Duration("latency", elapsed))
	}
}
