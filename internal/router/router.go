// Package router registers the HTTP routes on an echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/tedris-portal/internal/catalog"
	"github.com/iliyamo/tedris-portal/internal/config"
	"github.com/iliyamo/tedris-portal/internal/handler"
	"github.com/iliyamo/tedris-portal/internal/middleware"
)

// Handlers groups everything routes are bound to.
type Handlers struct {
	Auth   *handler.AuthHandler
	Admin  *handler.AdminHandler
	Public *handler.PublicHandler
	DB     handler.Pinger
}

// Options carries the cross-cutting middleware settings. A nil Redis
// client disables both the cache and the rate limit.
type Options struct {
	JWTSecret string
	Redis     *redis.Client
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
	Log       *zap.Logger
}

// RegisterRoutes registers the probes and the metrics endpoint.
func RegisterRoutes(e *echo.Echo, h Handlers) {
	e.GET("/healthz", handler.Health)
	if h.DB != nil {
		e.GET("/readyz", handler.Ready(h.DB))
	}
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterAuth registers the session routes. Register and login sit
// behind the token bucket; the rest only need a valid token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, opt Options) {
	limit := middleware.NewTokenBucket(opt.RateLimit, opt.Redis, opt.Log)

	g := e.Group("/v1/auth")
	g.POST("/register", a.Register, limit)
	g.POST("/login", a.Login, limit)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(opt.JWTSecret))
	auth.GET("/me", a.Me)
}

// RegisterAdmin registers the dashboard routes for the administration
// category. Stats responses are cached in Redis.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, opt Options) {
	g := e.Group("/v1/admin",
		middleware.JWTAuth(opt.JWTSecret),
		middleware.RequireRole(catalog.Administration),
	)
	g.GET("/stats", h.GetStats, middleware.NewRedisCache(opt.Cache, opt.Redis, opt.Log))
	g.GET("/users", h.ListUsers)
}

// RegisterPublic registers the unauthenticated lookups.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler) {
	e.GET("/v1/catalog", p.GetCatalog)
	e.GET("/v1/schools", p.GetSchools)
}

// New builds an echo instance with every route registered.
func New(h Handlers, opt Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	if opt.Log != nil {
		e.Use(middleware.RequestLogger(opt.Log))
	}
	e.Use(middleware.Recover(opt.Log))
	RegisterRoutes(e, h)
	RegisterAuth(e, h.Auth, opt)
	RegisterAdmin(e, h.Admin, opt)
	RegisterPublic(e, h.Public)
	return e
}
