// Package leads wires the lead pipeline into the HTTP server.
package leads

import (
	convservice "estatepilot_backend/internal/conversations/service"
	"estatepilot_backend/internal/http"
	"estatepilot_backend/internal/leads/handler"
	"estatepilot_backend/internal/leads/service"
)

// Module is the leads bounded context.
type Module struct {
	handler *handler.Handler
}

// NewModule creates the leads module.
func NewModule(svc *service.Service, conv *convservice.Service) *Module {
	return &Module{handler: handler.New(svc, conv)}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "leads" }

// RegisterRoutes mounts the leads dashboard routes. All routes require
// builder authentication.
func (m *Module) RegisterRoutes(ctx *http.RouterContext) {
	leads := ctx.Protected.Group("/leads")
	{
		leads.GET("", m.handler.List)
		leads.GET("/stats", m.handler.Stats)
		leads.GET("/:id", m.handler.Get)
		leads.PATCH("/:id/status", m.handler.UpdateStatus)
		leads.DELETE("/:id", m.handler.Delete)
		leads.GET("/:id/conversation", m.handler.Conversation)
	}
}
