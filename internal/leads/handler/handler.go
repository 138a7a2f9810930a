// Package handler exposes the leads dashboard API.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	convservice "estatepilot_backend/internal/conversations/service"
	"estatepilot_backend/internal/leads/repository"
	"estatepilot_backend/internal/leads/scoring"
	"estatepilot_backend/internal/leads/service"
	"estatepilot_backend/internal/leads/transport"
	"estatepilot_backend/platform/httpkit"
)

const (
	msgInvalidRequest = "invalid request"
	msgInvalidID      = "invalid lead ID"
)

// Handler handles HTTP requests for leads.
type Handler struct {
	svc  *service.Service
	conv *convservice.Service
}

// New creates a new leads handler.
func New(svc *service.Service, conv *convservice.Service) *Handler {
	return &Handler{svc: svc, conv: conv}
}

func mustGetBuilderID(c *gin.Context) (uuid.UUID, bool) {
	builderID, ok := httpkit.BuilderID(c)
	if !ok {
		httpkit.Error(c, http.StatusForbidden, "builder account required", nil)
		return uuid.Nil, false
	}
	return builderID, true
}

// List retrieves a builder's leads.
// GET /api/v1/leads
func (h *Handler) List(c *gin.Context) {
	var req transport.ListLeadsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	builderID, ok := mustGetBuilderID(c)
	if !ok {
		return
	}

	params := repository.ListParams{
		Search: req.Search,
		Limit:  req.Limit,
		Offset: req.Offset,
	}
	if req.Status != "" {
		status := scoring.Status(req.Status)
		params.Status = &status
	}

	leads, total, err := h.svc.List(c.Request.Context(), builderID, params)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ListLeadsResponse{
		Leads:  leads,
		Total:  total,
		Limit:  params.Limit,
		Offset: params.Offset,
	})
}

// Get retrieves a single lead.
// GET /api/v1/leads/:id
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

	lead, err := h.svc.Get(c.Request.Context(), builderID, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, lead)
}

// UpdateStatus transitions a lead's status manually.
// PATCH /api/v1/leads/:id/status
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	var req transport.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	builderID, ok := mustGetBuilderID(c)
	if !ok {
		return
	}

	lead, err := h.svc.UpdateStatus(c.Request.Context(), builderID, id, scoring.Status(req.Status))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, lead)
}

// Delete deactivates a lead. The record is kept for reporting.
// DELETE /api/v1/leads/:id
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

	if httpkit.HandleError(c, h.svc.Deactivate(c.Request.Context(), builderID, id)) {
		return
	}
	c.Status(http.StatusNoContent)
}

// Stats returns pipeline aggregates for the builder.
// GET /api/v1/leads/stats
func (h *Handler) Stats(c *gin.Context) {
	builderID, ok := mustGetBuilderID(c)
	if !ok {
		return
	}

	stats, err := h.svc.Stats(c.Request.Context(), builderID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, stats)
}

// Conversation returns a lead's message thread.
// GET /api/v1/leads/:id/conversation
func (h *Handler) Conversation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	builderID, ok := mustGetBuilderID(c)
	if !ok {
		return
	}

	messages, err := h.conv.HistoryForLead(c.Request.Context(), builderID, id, 0)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"messages": messages})
}
