package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bugtracker/internal/storage"
	"bugtracker/internal/webui"
)

// Server provides the HTTP handlers for the bug tracker backend.
type Server struct {
	engine *gin.Engine
	store  storage.Store
	logger *slog.Logger
}

// New constructs the HTTP server with routes and middleware configured.
func New(store storage.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	srv := &Server{
		engine: router,
		store:  store,
		logger: logger,
	}

	router.Use(srv.requestLog())
	router.Use(corsMiddleware())

	srv.registerRoutes()
	return srv
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// registerRoutes wires the API and the embedded UI together.
func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	{
		api.GET("/healthz", s.handleHealth)

		bugs := api.Group("/bugs")
		{
			bugs.GET("", s.handleListBugs)
			bugs.POST("", s.handleCreateBug)
			bugs.PUT(":id", s.handleUpdateBug)
			bugs.DELETE(":id", s.handleDeleteBug)
		}
	}

	webui.Mount(s.engine)
}

// handleHealth provides a basic readiness endpoint.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// requestLog tags every request with an id and logs method, path, status and
// duration once the handler chain finishes.
func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader("X-Request-Id")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header("X-Request-Id", reqID)

		c.Next()

		s.logger.Info("request",
			slog.String("id", reqID),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
		)
	}
}

// corsMiddleware allows browser clients from any origin, matching the open
// access model of the API.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// respondStoreError is the single error responder for store failures: a
// missing id maps to 404, anything else is logged and surfaced as a generic
// server error so internals never leak to the caller.
func (s *Server) respondStoreError(c *gin.Context, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Bug not found"})
		return
	}
	s.logger.Error("store failure",
		slog.String("path", c.FullPath()),
		slog.String("error", err.Error()),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
}
