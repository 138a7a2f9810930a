// Package followups wires follow-up scheduling into the HTTP server.
package followups

import (
	"estatepilot_backend/internal/followups/handler"
	"estatepilot_backend/internal/followups/service"
	"estatepilot_backend/internal/http"
)

// Module is the follow-ups bounded context.
type Module struct {
	handler *handler.Handler
}

// NewModule creates the follow-ups module.
func NewModule(svc *service.Service) *Module {
	return &Module{handler: handler.New(svc)}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "followups" }

// RegisterRoutes mounts the follow-up dashboard routes.
func (m *Module) RegisterRoutes(ctx *http.RouterContext) {
	followups := ctx.Protected.Group("/followups")
	{
		followups.GET("/stats", m.handler.Stats)
	}
}
