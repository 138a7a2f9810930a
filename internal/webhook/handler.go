package webhook

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"estatepilot_backend/platform/logger"
)

// dispatchTimeout bounds background processing of one delivery. The webhook
// is acknowledged before processing starts, so Meta never retries a batch
// we are already working on.
const dispatchTimeout = 30 * time.Second

// Handler handles webhook HTTP requests from the WhatsApp Cloud API.
type Handler struct {
	service     *Service
	verifyToken string
	log         *logger.Logger
}

func NewHandler(service *Service, verifyToken string, log *logger.Logger) *Handler {
	return &Handler{service: service, verifyToken: verifyToken, log: log}
}

// Verify answers Meta's subscription handshake.
// GET /api/v1/webhook/whatsapp
func (h *Handler) Verify(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode != "subscribe" || token != h.verifyToken {
		h.log.WebhookEvent("verification", c.ClientIP(), false, "token mismatch")
		c.String(http.StatusForbidden, "verification failed")
		return
	}

	h.log.WebhookEvent("verification", c.ClientIP(), true, "")
	c.String(http.StatusOK, challenge)
}

// Receive accepts a webhook delivery. The delivery is acknowledged
// immediately and processed in the background; Meta only needs a 200.
// POST /api/v1/webhook/whatsapp
func (h *Handler) Receive(c *gin.Context) {
	var payload Payload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.log.WebhookEvent("inbound_delivery", c.ClientIP(), false, "malformed payload")
		c.String(http.StatusBadRequest, "malformed payload")
		return
	}

	c.String(http.StatusOK, "EVENT_RECEIVED")

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()
		h.service.Dispatch(ctx, payload)
	}()
}
