package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"

	"github.com/ytget/clipshr/internal/model"
)

// Server timeouts
const (
	ReadHeaderTimeout = 10 * time.Second
	ShutdownTimeout   = 15 * time.Second
)

// Service is the job surface the handlers call into
type Service interface {
	Analyze(ctx context.Context, url string) (*model.Analysis, error)
	Download(ctx context.Context, opts model.DownloadOptions) (*model.JobResult, error)
	StartDownload(ctx context.Context, opts model.DownloadOptions) (string, error)
	Progress(jobID string) model.ProgressRecord
	History() ([]model.HistoryRecord, error)
	Delete(filename string) error
	ClearHistory() (int, error)
}

// Server binds the router to a listener
type Server struct {
	router   *gin.Engine
	logger   hclog.Logger
	listener net.Listener
}

// NewServer creates the HTTP server for svc serving files from mediaDir
func NewServer(svc Service, mediaDir string, logger hclog.Logger) *Server {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Server{
		router: SetupRouter(NewHandler(svc, mediaDir, logger), logger),
		logger: logger,
	}
}

// Router returns the configured gin engine
func (s *Server) Router() *gin.Engine {
	return s.router
}

// SetupRouter configures and returns the main router
func SetupRouter(h *Handler, logger hclog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(logger))

	r.POST("/analyze", h.Analyze)
	r.POST("/download", h.Download)
	r.POST("/downloads", h.StartDownload)
	r.GET("/progress/:id", h.Progress)
	r.GET("/history", h.History)
	r.POST("/delete", h.Delete)
	r.POST("/clear-history", h.ClearHistory)
	r.GET("/media/*filename", h.Media)

	return r
}

// Listen binds bind:port. When the port is taken, an ephemeral port on the
// same interface is used instead.
func (s *Server) Listen(bind string, port int) (net.Listener, error) {
	addr := net.JoinHostPort(bind, strconv.Itoa(port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		s.logger.Warn("preferred port unavailable, using a free port", "addr", addr, "error", err)
		listener, err = net.Listen("tcp", net.JoinHostPort(bind, "0"))
		if err != nil {
			return nil, fmt.Errorf("listen on %s: %w", bind, err)
		}
	}
	s.listener = listener
	s.logger.Info("listening", "url", "http://"+listener.Addr().String())
	return listener, nil
}

// Serve runs until ctx is canceled, then shuts down gracefully
func (s *Server) Serve(ctx context.Context) error {
	if s.listener == nil {
		return errors.New("server is not listening")
	}

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(s.listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

// requestLogger logs every request at debug level
func requestLogger(logger hclog.Logger) gin.HandlerFunc {
	log := logger.Named("http")
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()
		log.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(started).Round(time.Microsecond))
	}
}
