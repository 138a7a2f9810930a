// Package handler exposes builder registration and login endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"estatepilot_backend/internal/auth/service"
	"estatepilot_backend/internal/auth/transport"
	"estatepilot_backend/platform/httpkit"
)

const msgInvalidRequest = "invalid request"

// Handler handles HTTP requests for builder accounts.
type Handler struct {
	svc *service.Service
}

// New creates a new auth handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register creates a builder account.
// POST /api/v1/auth/register
func (h *Handler) Register(c *gin.Context) {
	var req transport.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	builder, token, err := h.svc.Register(c.Request.Context(), req.Email, req.Password, req.CompanyName, req.WhatsAppPhoneNumberID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, transport.SessionResponse{Builder: builder, Token: token})
}

// Login authenticates a builder.
// POST /api/v1/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req transport.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	builder, token, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.SessionResponse{Builder: builder, Token: token})
}

// Me returns the authenticated builder's account.
// GET /api/v1/auth/me
func (h *Handler) Me(c *gin.Context) {
	builderID, ok := httpkit.BuilderID(c)
	if !ok {
		httpkit.Error(c, http.StatusForbidden, "builder account required", nil)
		return
	}

	builder, err := h.svc.Me(c.Request.Context(), builderID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, builder)
}
