// Package http exposes the engine as a JSON API on gin.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	applog "timeworth/internal/log"
	"timeworth/internal/middleware/ratelimit"
	"timeworth/internal/middleware/security"
	"timeworth/internal/middleware/trace"
	"timeworth/internal/services"
)

// Services groups the orchestrators the handlers call.
type Services struct {
	Profile   *services.ProfileService
	Ledger    *services.LedgerService
	Budgets   *services.BudgetService
	Goals     *services.GoalService
	Analytics *services.AnalyticsService
}

// Options tune the router.
type Options struct {
	CORSOrigins []string
	// RateLimitPerMinute caps requests per client IP; 0 disables limiting.
	RateLimitPerMinute int
	// Location resolves date-only query parameters.
	Location *time.Location
}

type Server struct {
	http.Server
	svc     Services
	loc     *time.Location
	logger  *applog.Logger
	tracer  *trace.Middleware
	limiter *ratelimit.Limiter

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run http.Server.
func NewServer(addr string, svc Services, opts Options, logger *applog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	if opts.Location == nil {
		opts.Location = time.Local
	}

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
		},
		svc:    svc,
		loc:    opts.Location,
		logger: logger.WithComponent(applog.ComponentHTTP),
		tracer: trace.NewMiddleware(logger),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.tracer.Handler())
	router.Use(cors.New(corsConfig(opts.CORSOrigins)))
	router.Use(security.Headers(security.DefaultHeadersConfig()))
	if opts.RateLimitPerMinute > 0 {
		s.limiter = ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute})
		router.Use(s.limiter.Handler())
	}

	router.GET("/healthz", handleHealth)
	router.GET("/readyz", handleReady)

	api := router.Group("/api")
	{
		api.GET("/profile", s.handleGetProfile)
		api.PUT("/profile", s.handleSaveProfile)
		api.PUT("/profile/wage", s.handleUpdateWage)
		api.GET("/settings", s.handleGetSettings)
		api.PUT("/settings", s.handleUpdateSettings)
		api.GET("/hours", s.handleHours)

		api.GET("/transactions", s.handleListTransactions)
		api.POST("/transactions", s.handleRecordTransaction)
		api.DELETE("/transactions/:id", s.handleDeleteTransaction)

		api.GET("/budgets", s.handleListBudgets)
		api.POST("/budgets", s.handleCreateBudget)
		api.GET("/budgets/status", s.handleBudgetStatus)
		api.PUT("/budgets/:id", s.handleUpdateBudget)
		api.POST("/budgets/:id/toggle", s.handleToggleBudget)
		api.DELETE("/budgets/:id", s.handleDeleteBudget)

		api.GET("/goals", s.handleListGoals)
		api.POST("/goals", s.handleCreateGoal)
		api.PUT("/goals/:id", s.handleUpdateGoal)
		api.DELETE("/goals/:id", s.handleDeleteGoal)

		stats := api.Group("/stats")
		stats.GET("/summary", s.handleSummary)
		stats.GET("/monthly", s.handleMonthly)
		stats.GET("/yearly", s.handleYearly)
		stats.GET("/categories", s.handleCategories)
		stats.GET("/weekdays", s.handleWeekdays)
		stats.GET("/week", s.handleWeek)
		stats.GET("/yoy", s.handleYearOverYear)
		stats.GET("/range", s.handleRange)
		stats.GET("/savings", s.handleSavings)

		api.GET("/projection", s.handleProjection)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})

	s.Handler = router
	return s
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", trace.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", trace.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// Metrics exposes request counters gathered by the tracing middleware.
func (s *Server) Metrics() trace.Metrics {
	return s.tracer.GetMetrics()
}

// Shutdown gracefully shuts down the server and its background routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.limiter != nil {
			s.limiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
}

func handleReady(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
