package api

import (
	"io"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"mockup-compositor/internal/batch"
	"mockup-compositor/internal/brand"
	"mockup-compositor/internal/mockup"
)

const maxUploadBytes = 25 << 20

type Options struct {
	Orchestrator *batch.Orchestrator
	Registry     *mockup.Registry
	Directions   []*brand.Direction
	Templates    []batch.Template
	Logger       *slog.Logger
}

type server struct {
	orch       *batch.Orchestrator
	registry   *mockup.Registry
	directions []*brand.Direction
	byID       map[string]*brand.Direction
	templates  []batch.Template
	logger     *slog.Logger
}

// NewRouter builds the HTTP surface over a loaded set of directions and
// templates.
func NewRouter(opts Options) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &server{
		orch:       opts.Orchestrator,
		registry:   opts.Registry,
		directions: opts.Directions,
		byID:       make(map[string]*brand.Direction, len(opts.Directions)),
		templates:  opts.Templates,
		logger:     logger,
	}
	for _, d := range opts.Directions {
		s.byID[d.ID] = d
	}

	r := gin.New()
	r.MaxMultipartMemory = maxUploadBytes
	r.Use(gin.Recovery(), requestLogger(logger))

	r.GET("/health", s.health)
	api := r.Group("/api")
	{
		api.GET("/templates", s.listTemplates)
		api.GET("/directions", s.listDirections)
		api.POST("/composite", s.composite)
	}
	return r
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"dur_ms", time.Since(start).Milliseconds(),
		)
	}
}
