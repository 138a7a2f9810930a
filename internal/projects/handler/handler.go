// Package handler exposes the project catalog API.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"estatepilot_backend/internal/projects/repository"
	"estatepilot_backend/internal/projects/service"
	"estatepilot_backend/internal/projects/transport"
	"estatepilot_backend/platform/httpkit"
	"estatepilot_backend/platform/validator"
)

const (
	msgInvalidRequest = "invalid request"
	msgValidation     = "validation error"
	msgInvalidID      = "invalid project ID"
)

// Handler handles HTTP requests for projects.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new projects handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidation, err.Error())
		return false
	}
	return true
}

func mustGetBuilderID(c *gin.Context) (uuid.UUID, bool) {
	builderID, ok := httpkit.BuilderID(c)
	if !ok {
		httpkit.Error(c, http.StatusForbidden, "builder account required", nil)
		return uuid.Nil, false
	}
	return builderID, true
}

// Create adds a project.
// POST /api/v1/projects
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateProjectRequest
	if !h.bindAndValidate(c, &req) {
		return
	}
	builderID, ok := mustGetBuilderID(c)
	if !ok {
		return
	}

	project, err := h.svc.Create(c.Request.Context(), repository.CreateParams{
		BuilderID:          builderID,
		ProjectName:        req.ProjectName,
		Location:           req.Location,
		PriceMin:           req.PriceMin,
		PriceMax:           req.PriceMax,
		UnitConfigurations: req.UnitConfigurations,
		Amenities:          req.Amenities,
		Specifications:     req.Specifications,
		ReraNumber:         req.ReraNumber,
		PossessionTimeline: req.PossessionTimeline,
		PaymentPlans:       req.PaymentPlans,
		LoanOptions:        req.LoanOptions,
		FAQPoints:          req.FAQPoints,
		ObjectionPoints:    req.ObjectionPoints,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, project)
}

// List returns the builder's catalog.
// GET /api/v1/projects
func (h *Handler) List(c *gin.Context) {
	builderID, ok := mustGetBuilderID(c)
	if !ok {
		return
	}

	projects, err := h.svc.List(c.Request.Context(), builderID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"projects": projects})
}

// Get retrieves a single project.
// GET /api/v1/projects/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	builderID, ok := mustGetBuilderID(c)
	if !ok {
		return
	}

	project, err := h.svc.Get(c.Request.Context(), builderID, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, project)
}

// Update edits a project.
// PATCH /api/v1/projects/:id
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	var req transport.UpdateProjectRequest
	if !h.bindAndValidate(c, &req) {
		return
	}
	builderID, ok := mustGetBuilderID(c)
	if !ok {
		return
	}

	project, err := h.svc.Update(c.Request.Context(), builderID, id, repository.UpdateParams{
		ProjectName:        req.ProjectName,
		Location:           req.Location,
		PriceMin:           req.PriceMin,
		PriceMax:           req.PriceMax,
		UnitConfigurations: req.UnitConfigurations,
		Amenities:          req.Amenities,
		Specifications:     req.Specifications,
		ReraNumber:         req.ReraNumber,
		PossessionTimeline: req.PossessionTimeline,
		PaymentPlans:       req.PaymentPlans,
		LoanOptions:        req.LoanOptions,
		FAQPoints:          req.FAQPoints,
		ObjectionPoints:    req.ObjectionPoints,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, project)
}

// SetActive toggles a project's availability to the assistant.
// PATCH /api/v1/projects/:id/active
func (h *Handler) SetActive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	var req transport.SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Active == nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	builderID, ok := mustGetBuilderID(c)
	if !ok {
		return
	}

	if err := h.svc.SetActive(c.Request.Context(), builderID, id, *req.Active); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"status": "updated"})
}

// Delete removes a project.
// DELETE /api/v1/projects/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	builderID, ok := mustGetBuilderID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), builderID, id); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"status": "deleted"})
}
