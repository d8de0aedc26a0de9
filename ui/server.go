package ui

import (
	"context"
	"net/http"
	"sync"

	"socialpulse/adapters/coercer"
	"socialpulse/app"
	"socialpulse/domain/engagement"
	"socialpulse/internal"
	"socialpulse/internal/errors"
	"socialpulse/ui/middleware"

	"github.com/gin-gonic/gin"
)

// Server is the JSON API over the loaded dataset
type Server struct {
	router  *gin.Engine
	service *app.DashboardService
	store   middleware.StatusReporter
	coercer *coercer.TypeCoercer
	logger  *internal.Logger

	loadOnce sync.Once
}

// NewServer creates the API server. store reports the load state that gates the data endpoints.
func NewServer(service *app.DashboardService, store middleware.StatusReporter, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	s := &Server{
		router:  gin.New(),
		service: service,
		store:   store,
		coercer: coercer.NewTypeCoercer(coercer.DefaultCoercionConfig()),
		logger:  logger.WithComponent("Server"),
	}
	s.router.Use(gin.Recovery(), middleware.RequestLogger(logger))
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.router.Group("/api")
	api.GET("/dataset/status", s.handleStatus)
	api.POST("/filters/toggle", s.handleToggle)
	api.POST("/calculator", s.handleCalculator)

	data := api.Group("", middleware.RequireReady(s.store))
	data.GET("/dashboard", s.handleDashboard)
	data.GET("/dashboard/distribution", s.handleDistribution)
	data.GET("/recommendations", s.handleRecommendations)
	data.GET("/filters/options", s.handleOptions)
}

// Handler exposes the router for embedding and tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves the API on addr
func (s *Server) Start(addr string) error {
	s.logger.Info("Starting API server on %s", addr)
	return s.router.Run(addr)
}

// StartDatasetLoader runs load in the background exactly once.
// Load failures are logged; the store keeps the failure for the status endpoint.
func (s *Server) StartDatasetLoader(ctx context.Context, load func(context.Context) error) {
	s.loadOnce.Do(func() {
		go func() {
			s.logger.Info("Loading dataset in background...")
			if err := load(ctx); err != nil {
				s.logger.Error("Dataset load failed: %v", err)
				return
			}
			s.logger.Info("Dataset ready")
		}()
	})
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Status())
}

func (s *Server) handleDashboard(c *gin.Context) {
	filters, err := app.FiltersFromMap(app.ScopeDashboard, queryFilters(c, engagement.DashboardDimensions))
	if err != nil {
		s.respondError(c, err)
		return
	}
	view, err := s.service.Dashboard(filters)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) handleDistribution(c *gin.Context) {
	filters, err := app.FiltersFromMap(app.ScopeDashboard, queryFilters(c, engagement.DashboardDimensions))
	if err != nil {
		s.respondError(c, err)
		return
	}
	view, err := s.service.Distribution(filters)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) handleRecommendations(c *gin.Context) {
	filters, err := app.FiltersFromMap(app.ScopeRecommender, queryFilters(c, engagement.RecommenderDimensions))
	if err != nil {
		s.respondError(c, err)
		return
	}
	view, err := s.service.Recommend(filters)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) handleOptions(c *gin.Context) {
	opts, err := s.service.Options()
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, opts)
}

type toggleRequest struct {
	Scope     app.Scope         `json:"scope"`
	Filters   map[string]string `json:"filters"`
	Dimension string            `json:"dimension" binding:"required"`
	Value     string            `json:"value"`
}

func (s *Server) handleToggle(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	next, err := app.ToggleFilter(req.Scope, req.Filters, req.Dimension, req.Value)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"filters":       next,
		"activeFilters": next.ActiveCount(),
	})
}

// handleCalculator accepts counts as numbers or numeric strings
func (s *Server) handleCalculator(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	calc := engagement.ComputeERR(
		s.coercer.Count(body[engagement.InputLikes]),
		s.coercer.Count(body[engagement.InputComments]),
		s.coercer.Count(body[engagement.InputShares]),
		s.coercer.Count(body[engagement.InputViews]),
	)
	c.JSON(http.StatusOK, app.NewCalculationView(calc))
}

func (s *Server) respondError(c *gin.Context, err error) {
	switch errors.GetCode(err) {
	case errors.CodeNotReady:
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":  err.Error(),
			"code":   errors.CodeNotReady,
			"status": s.store.Status(),
		})
	case errors.CodeInvalidInput:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": errors.CodeInvalidInput})
	default:
		s.logger.Error("Request %s failed: %v", c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "code": errors.GetCode(err)})
	}
}
