package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/budova/aptgraph/internal/runner"
	"github.com/budova/aptgraph/pkg/summary"
	"github.com/budova/aptgraph/pkg/writeback"
)

// Server exposes a project's schedule over HTTP.
type Server struct {
	router *gin.Engine
	runner *runner.Runner
	logger *zap.Logger
	port   int
}

// New creates a server for the runner's project.
func New(r *runner.Runner, port int, devMode bool, logger *zap.Logger) *Server {
	if !devMode {
		gin.SetMode(gin.ReleaseMode)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		router: gin.New(),
		runner: r,
		logger: logger,
		port:   port,
	}
	s.router.Use(gin.Recovery(), s.logRequests)
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	api := s.router.Group("/api")
	{
		api.GET("/project", s.handleProject)
		api.GET("/lots", s.handleLots)
		api.GET("/validation", s.handleValidation)
		api.GET("/summary", s.handleSummary)
		api.POST("/run", s.handleRun)
	}
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Start launches the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("server starting",
		zap.String("addr", "http://localhost"+addr),
		zap.String("project", s.runner.Project().Dir))
	return s.router.Run(addr)
}

func (s *Server) logRequests(c *gin.Context) {
	c.Next()
	s.logger.Debug("request",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", c.Writer.Status()))
}

func (s *Server) handleIndex(c *gin.Context) {
	c.String(http.StatusOK, "aptgraph: GET /api/lots, /api/validation, /api/summary; POST /api/run\n")
}

func (s *Server) handleProject(c *gin.Context) {
	c.JSON(http.StatusOK, s.runner.Project())
}

func (s *Server) handleLots(c *gin.Context) {
	out, err := s.runner.Resolve(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"schedule_id": out.Schedule.ID,
		"valid":       out.Report.Valid,
		"lots":        summary.Build(out.Schedule).Lots,
	})
}

func (s *Server) handleValidation(c *gin.Context) {
	out, err := s.runner.Resolve(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out.Report)
}

func (s *Server) handleSummary(c *gin.Context) {
	out, err := s.runner.Resolve(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary.Build(out.Schedule))
}

func (s *Server) handleRun(c *gin.Context) {
	out, err := s.runner.Run(c.Request.Context(), nil)
	if err != nil {
		if errors.Is(err, writeback.ErrInvalidSchedule) && out != nil {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "validation": out.Report})
			return
		}
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out.Result)
}

func (s *Server) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if runner.IsConfigError(err) {
		status = http.StatusUnprocessableEntity
	}
	s.logger.Warn("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.JSON(status, gin.H{"error": err.Error()})
}
