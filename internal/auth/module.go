// Package auth wires builder accounts into the HTTP server.
package auth

import (
	"estatepilot_backend/internal/auth/handler"
	"estatepilot_backend/internal/auth/service"
	"estatepilot_backend/internal/http"
)

// Module is the auth bounded context.
type Module struct {
	handler *handler.Handler
}

// NewModule creates the auth module.
func NewModule(svc *service.Service) *Module {
	return &Module{handler: handler.New(svc)}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "auth" }

// RegisterRoutes mounts the auth routes. Register and login are public
// behind the stricter rate limiter; the rest require a session.
func (m *Module) RegisterRoutes(ctx *http.RouterContext) {
	public := ctx.V1.Group("/auth")
	public.Use(ctx.AuthRateLimiter.RateLimit())
	{
		public.POST("/register", m.handler.Register)
		public.POST("/login", m.handler.Login)
	}

	private := ctx.V1.Group("/auth")
	private.Use(ctx.AuthMiddleware)
	{
		private.GET("/me", m.handler.Me)
	}
}
