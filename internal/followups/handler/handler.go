// Package handler exposes the follow-up dashboard API.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"estatepilot_backend/internal/followups/service"
	"estatepilot_backend/platform/httpkit"
)

// Handler handles HTTP requests for follow-ups.
type Handler struct {
	svc *service.Service
}

// New creates a new follow-ups handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func mustGetBuilderID(c *gin.Context) (uuid.UUID, bool) {
	builderID, ok := httpkit.BuilderID(c)
	if !ok {
		httpkit.Error(c, http.StatusForbidden, "builder account required", nil)
		return uuid.Nil, false
	}
	return builderID, true
}

// Stats summarises a builder's follow-up activity.
// GET /api/v1/followups/stats
func (h *Handler) Stats(c *gin.Context) {
	builderID, ok := mustGetBuilderID(c)
	if !ok {
		return
	}
	stats, err := h.svc.StatsForBuilder(c.Request.Context(), builderID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, stats)
}
