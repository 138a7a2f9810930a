// Package webhook receives WhatsApp Cloud API deliveries and feeds inbound
// messages into the conversation pipeline.
package webhook

import (
	apphttp "estatepilot_backend/internal/http"
	"estatepilot_backend/platform/config"
	"estatepilot_backend/platform/logger"
)

// Module is the webhook bounded context module implementing http.Module.
type Module struct {
	handler   *Handler
	appSecret string
	log       *logger.Logger
}

// NewModule creates and initializes the webhook module with all its dependencies.
func NewModule(cfg config.WhatsAppConfig, builders BuilderResolver, engine InboundHandler, log *logger.Logger) *Module {
	service := NewService(builders, engine, log)
	handler := NewHandler(service, cfg.GetWhatsAppWebhookVerifyToken(), log)

	return &Module{
		handler:   handler,
		appSecret: cfg.GetWhatsAppAppSecret(),
		log:       log,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "webhook"
}

// RegisterRoutes mounts the public webhook routes. Meta authenticates the
// GET handshake with the verify token and signs POST deliveries with the
// app secret, so neither goes through JWT auth.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	webhookGroup := ctx.V1.Group("/webhook/whatsapp")
	webhookGroup.GET("", m.handler.Verify)
	webhookGroup.POST("", SignatureMiddleware(m.appSecret, m.log), m.handler.Receive)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
