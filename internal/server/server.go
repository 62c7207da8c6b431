// Package server serves the board over HTTP: the task list and placement
// updates consumed by web clients and by the http store backend.
package server

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/twiced-technology-gmbh/mioplan/internal/lane"
	"github.com/twiced-technology-gmbh/mioplan/internal/logging"
	"github.com/twiced-technology-gmbh/mioplan/internal/store"
	"github.com/twiced-technology-gmbh/mioplan/internal/timeline"
)

// Options configures a Server.
type Options struct {
	BoardName string
	BoardDir  string // activity log location; empty disables it
	// Context returns the layout context for /api/layout.
	Context func() timeline.Context
	Metrics lane.Metrics
	// AllowedOrigins lists browser origins allowed to call the API.
	AllowedOrigins []string
	Logger         *logging.Logger
	Now            func() time.Time
}

// Server is the mioplan API server.
type Server struct {
	store  store.Store
	opts   Options
	router *gin.Engine
}

// New creates a server over st.
func New(st store.Store, opts Options) *Server {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	router := gin.New()
	router.Use(gin.Recovery(), requestLog(opts.Logger))
	if len(opts.AllowedOrigins) > 0 {
		router.Use(cors(opts.AllowedOrigins))
	}

	s := &Server{store: st, opts: opts, router: router}

	api := router.Group("/api")
	{
		api.GET("/health", s.handleHealth)
		api.GET("/tasks", s.handleListTasks)
		api.GET("/tasks/:id", s.handleGetTask)
		api.PUT("/tasks/:id", s.handleUpdateTask)
		api.GET("/layout", s.handleLayout)
		api.GET("/overview", s.handleOverview)
	}

	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on addr until the listener fails.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

func requestLog(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Printf("http: %s %s %d %s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start).Round(time.Microsecond))
	}
}

func cors(origins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && slices.Contains(origins, origin) {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Methods", "GET, PUT, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type")
			h.Add("Vary", "Origin")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
