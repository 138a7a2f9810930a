// Package projects wires the project catalog into the HTTP server.
package projects

import (
	"estatepilot_backend/internal/http"
	"estatepilot_backend/internal/projects/handler"
	"estatepilot_backend/internal/projects/service"
	"estatepilot_backend/platform/validator"
)

// Module is the projects bounded context.
type Module struct {
	handler *handler.Handler
}

// NewModule creates the projects module.
func NewModule(svc *service.Service, val *validator.Validator) *Module {
	return &Module{handler: handler.New(svc, val)}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "projects" }

// RegisterRoutes mounts the catalog routes. All routes require builder
// authentication.
func (m *Module) RegisterRoutes(ctx *http.RouterContext) {
	projects := ctx.Protected.Group("/projects")
	{
		projects.POST("", m.handler.Create)
		projects.GET("", m.handler.List)
		projects.GET("/:id", m.handler.Get)
		projects.PATCH("/:id", m.handler.Update)
		projects.PATCH("/:id/active", m.handler.SetActive)
		projects.DELETE("/:id", m.handler.Delete)
	}
}
