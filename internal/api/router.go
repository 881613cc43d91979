package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/portfolio/blog-admin/docs"
	"github.com/portfolio/blog-admin/internal/api/handler"
	"github.com/portfolio/blog-admin/internal/api/middleware"
	"github.com/portfolio/blog-admin/internal/core/ports"
)

// Dependencies are the services and probes the router exposes.
type Dependencies struct {
	Auth      ports.AuthService
	Users     ports.UserService
	Analytics ports.AnalyticsService
	Audit     ports.AuditReader // optional; /admin/audit is only mounted when set

	// Checks feed /health/ready, keyed by dependency name.
	Checks map[string]handler.Check

	// Registerer receives the HTTP request metrics. Nil means the default registry.
	Registerer prometheus.Registerer

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
//
// @title                       Blog Admin API
// @version                     1.0
// @description                 Admin panel backend: login, permissions, user registry and analytics.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func NewRouter(d Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "blog_admin",
		Subsystem:  "http",
		Registerer: d.Registerer,
	}))

	authHandler := handler.NewAuthHandler(d.Auth)
	userHandler := handler.NewUserHandler(d.Users)
	analyticsHandler := handler.NewAnalyticsHandler(d.Analytics)
	requireSession := middleware.Auth(d.Auth)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)

	auth := e.Group("/auth", requireSession)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/session", authHandler.Session)
	auth.GET("/permissions/check", authHandler.CheckPermission)

	// --- Admin routes (session + permission required) ---
	admin := e.Group("/admin", requireSession)

	users := admin.Group("/users")
	users.GET("", userHandler.List, middleware.RequirePermission("read", "users"))
	users.GET("/:id", userHandler.Get, middleware.RequirePermission("read", "users"))
	users.POST("", userHandler.Create, middleware.RequirePermission("write", "users"))
	users.PUT("/:id", userHandler.Update, middleware.RequirePermission("write", "users"))
	users.POST("/:id/deactivate", userHandler.Deactivate, middleware.RequirePermission("write", "users"))

	analytics := admin.Group("/analytics", middleware.RequirePermission("read", "analytics"))
	analytics.GET("", analyticsHandler.Overview)
	analytics.GET("/timeseries", analyticsHandler.TimeSeries)

	if d.Audit != nil {
		admin.GET("/audit", handler.NewAuditHandler(d.Audit).List, middleware.RequirePermission("read", "users"))
	}

	// --- Health probes and tooling (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(d.Checks).Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil || v.Status >= 500 {
				evt = log.Error().Err(v.Error)
			}
			evt.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
