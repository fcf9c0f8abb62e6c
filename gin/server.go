// Package gin serves the tenk web shell and its JSON API.
package gin

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/tenk"
	"github.com/gin-gonic/gin"
)

// APIKeyHeader carries the operator's API key on JSON API requests.
const APIKeyHeader = "X-API-Key"

// ShutdownTimeout bounds the wait for in-flight requests on shutdown.
const ShutdownTimeout = 10 * time.Second

// Server serves the web shell and JSON API over a QueryService. Errors
// returned by the service are rendered to the client and never stop the
// server.
type Server struct {
	Queries tenk.QueryService

	// DataDir is the data directory used when a request names none.
	DataDir string
	TopK    int

	// Metrics, if set, is served at /metrics.
	Metrics http.Handler

	Logger *slog.Logger
}

// NewServer returns a Server with default settings.
func NewServer(queries tenk.QueryService) *Server {
	return &Server{
		Queries: queries,
		DataDir: tenk.DefaultConfig().DataDir,
		TopK:    tenk.DefaultTopK,
	}
}

// Handler returns the router with every route registered.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), s.logRequests())
	r.SetHTMLTemplate(pageTemplate)

	r.GET("/", s.handleIndex)
	r.POST("/", s.handleForm)
	r.GET("/healthz", handleHealth)
	if s.Metrics != nil {
		r.GET("/metrics", gin.WrapH(s.Metrics))
	}

	api := r.Group("/api")
	api.POST("/query/year", s.handleQueryYear)
	api.POST("/query/all", s.handleQueryAllYears)
	api.POST("/query/graph", s.handleQueryGraph)
	api.POST("/answer/year", s.handleAnswerYear)

	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.logger().Info("serving", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		begin := time.Now()
		c.Next()
		s.logger().Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(begin),
		)
	}
}

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) topK(k int) int {
	if k > 0 {
		return k
	}
	if s.TopK > 0 {
		return s.TopK
	}
	return tenk.DefaultTopK
}

func (s *Server) dataDir(dir string) string {
	if dir != "" {
		return dir
	}
	return s.DataDir
}

func (s *Server) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.New(slog.DiscardHandler)
}
