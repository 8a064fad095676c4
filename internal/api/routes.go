// routes.go - Route registration helpers
// This file provides a clean way to register all API routes
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/supplier-portal/backend/internal/requirements"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	SessionMgr   SessionManager
	Requirements *requirements.Resolver
	Upstreams    map[string]UpstreamState
	Metrics      http.Handler
	MaxFileSize  int64
	Version      string
}

// Handlers holds all handler instances
type Handlers struct {
	Health  HealthHandler
	Config  ConfigHandler
	Session SessionHandler
	Portal  PortalHandler
	Metrics http.Handler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(deps.Version, deps.Upstreams),
		Config:  NewConfigHandler(deps.Requirements, deps.MaxFileSize),
		Session: NewSessionHandler(deps.SessionMgr),
		Portal:  NewPortalHandler(deps.SessionMgr),
		Metrics: deps.Metrics,
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	e.GET("/api/health", handlers.Health.HandleHealth)

	configGroup := e.Group("/api")
	configGroup.GET("/config/upload-rules", handlers.Config.HandleGetUploadRules)
	configGroup.GET("/requirements", handlers.Config.HandleGetRequirements)

	sessionGroup := e.Group("/api/sessions")
	sessionGroup.POST("", handlers.Session.HandleCreateSession)
	sessionGroup.GET("/:sessionId", handlers.Session.HandleGetSession)
	sessionGroup.GET("/:sessionId/msgpack", handlers.Session.HandleGetSessionMsgpack)
	sessionGroup.DELETE("/:sessionId", handlers.Session.HandleDeleteSession)
	sessionGroup.POST("/:sessionId/keepalive", handlers.Session.HandleSessionKeepAlive)

	sessionGroup.POST("/:sessionId/supplier", handlers.Portal.HandleSearchSupplier)
	sessionGroup.PUT("/:sessionId/category", handlers.Portal.HandleSetCategory)
	sessionGroup.GET("/:sessionId/requirements", handlers.Portal.HandleGetRequirements)
	sessionGroup.GET("/:sessionId/slots", handlers.Portal.HandleGetSlots)
	sessionGroup.PUT("/:sessionId/slots/:slotId", handlers.Portal.HandleAssignFile)
	sessionGroup.DELETE("/:sessionId/slots/:slotId", handlers.Portal.HandleRemoveFile)
	sessionGroup.POST("/:sessionId/submit", handlers.Portal.HandleSubmit)
	sessionGroup.GET("/:sessionId/history", handlers.Portal.HandleGetHistory)

	if handlers.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(handlers.Metrics))
	}
}

// MiddlewareOptions tune SetupMiddleware
type MiddlewareOptions struct {
	LogRequests  bool
	EnableGzip   bool
	CORSOrigins  []string
	BodyLimit    string
	ExposeErrors bool
}

// SetupMiddleware configures common middleware
func SetupMiddleware(e *echo.Echo, opts MiddlewareOptions) {
	e.HTTPErrorHandler = ErrorHandler
	e.Validator = NewRequestValidator()
	SetExposeErrorDetails(opts.ExposeErrors)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	if opts.LogRequests {
		e.Use(RequestLogger("/api/health", "/metrics"))
	}
	if len(opts.CORSOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: opts.CORSOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		}))
	}
	if opts.BodyLimit != "" {
		e.Use(middleware.BodyLimit(opts.BodyLimit))
	}
	if opts.EnableGzip {
		e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
			Skipper: func(c echo.Context) bool {
				return c.Request().URL.Path == "/metrics"
			},
		}))
	}
}
