// Package httpapi serves the time clock over JSON for the clock terminal and
// the admin screen.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"timeclock/internal/api"
	"timeclock/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

// Options configures the router
type Options struct {
	Logger *slog.Logger
	// LevelVar enables the /logLevel endpoints when set.
	LevelVar *slog.LevelVar
}

// Handler holds the dependencies of every route
type Handler struct {
	api      api.BusinessAPI
	logger   *slog.Logger
	levelVar *slog.LevelVar
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(b api.BusinessAPI, opts Options) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	h := &Handler{api: b, logger: logger, levelVar: opts.LevelVar}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger), corsMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "healthy"})
	})
	if h.levelVar != nil {
		router.GET("/logLevel", h.getLogLevel)
		router.GET("/logLevel/:level", h.setLogLevel)
	}

	employees := router.Group("/employees")
	employees.GET("", h.listEmployees)
	employees.GET("/:id", h.getEmployee)
	employees.DELETE("/:id", h.deleteEmployee)
	employees.GET("/:id/status", h.getStatus)
	employees.GET("/:id/history", h.getHistory)
	employees.GET("/:id/summary", h.getSummary)

	router.POST("/punch", h.postPunch)
	router.GET("/roster", h.getRoster)
	router.GET("/admin/summary", h.getAdminSummary)
	return router
}

// Serve runs the router on addr until ctx is done, then shuts down.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	if logger == nil {
		logger = logging.Discard()
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logger.Info("http server shutting down")
	return srv.Shutdown(shutdownCtx)
}

// requestLogger tags each request with an id and attaches the tagged logger to
// the request context for the services below.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		reqLogger := logger.With("request_id", id)
		c.Request = c.Request.WithContext(logging.ContextWithLogger(c.Request.Context(), reqLogger))

		c.Next()
		reqLogger.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"elapsed", time.Since(start))
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
