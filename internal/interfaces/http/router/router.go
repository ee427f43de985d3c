package router

import (
	"github.com/gin-gonic/gin"
	"github.com/groundplan/backend/internal/infrastructure/auth"
	"github.com/groundplan/backend/internal/infrastructure/config"
	"github.com/groundplan/backend/internal/infrastructure/logger"
	"github.com/groundplan/backend/internal/interfaces/http/handler"
	"github.com/groundplan/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Handlers bundles the HTTP handlers wired into the router
type Handlers struct {
	Health  *handler.HealthHandler
	Report  *handler.ReportHandler
	Expense *handler.ExpenseHandler
	Project *handler.ProjectHandler
}

// New builds the gin engine with the full middleware chain and all
// application routes. Decision endpoints (approve, reject, pay) and
// project administration require the admin role.
func New(cfg *config.Config, log *zap.Logger, jwtService *auth.JWTService, h Handlers) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(logger.GinMiddleware(log))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	engine.Use(middleware.CORSWithConfig(corsCfg))

	if len(cfg.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(cfg.HTTP.TrustedProxies)
	}

	engine.GET("/health", h.Health.Health)
	engine.GET("/ready", h.Health.Ready)

	api := engine.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		Logger:     log,
	}))

	api.GET("/dashboard/stats", h.Report.DashboardStats)

	reports := api.Group("/reports")
	{
		reports.GET("/summary", h.Report.Summary)
		reports.GET("/trend", h.Report.Trend)
		reports.GET("/comparison", h.Report.Comparison)
	}

	expenses := api.Group("/expenses")
	{
		expenses.POST("", h.Expense.Create)
		expenses.GET("", h.Expense.List)
		expenses.GET("/:id", h.Expense.GetByID)
		expenses.PUT("/:id", h.Expense.Update)
		expenses.DELETE("/:id", h.Expense.Delete)
		expenses.POST("/:id/approve", RequireAdmin(), h.Expense.Approve)
		expenses.POST("/:id/reject", RequireAdmin(), h.Expense.Reject)
		expenses.POST("/:id/pay", RequireAdmin(), h.Expense.MarkPaid)
	}

	projects := api.Group("/projects")
	{
		projects.GET("", h.Project.List)
		projects.POST("", RequireAdmin(), h.Project.Create)
		projects.POST("/:id/members", RequireAdmin(), h.Project.AssignMember)
		projects.DELETE("/:id/members/:user_id", RequireAdmin(), h.Project.RemoveMember)
		projects.POST("/:id/archive", RequireAdmin(), h.Project.Archive)
	}

	return engine
}

// RequireAdmin rejects requests whose token does not carry the admin role
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if middleware.GetJWTRole(c) != "ADMIN" {
			c.AbortWithStatusJSON(403, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ERR_FORBIDDEN",
					"message": "Admin role required",
				},
			})
			return
		}
		c.Next()
	}
}
