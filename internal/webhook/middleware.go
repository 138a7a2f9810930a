package webhook

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"estatepilot_backend/platform/logger"
)

const signatureHeader = "X-Hub-Signature-256"

// SignatureMiddleware verifies the X-Hub-Signature-256 header Meta sends
// with every delivery. The signature is an HMAC-SHA256 of the raw body
// keyed with the app secret. The body is restored for downstream handlers.
func SignatureMiddleware(appSecret string, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if appSecret == "" {
			c.Next()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			log.WebhookEvent("signature_check", c.ClientIP(), false, "unreadable body")
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		header := c.GetHeader(signatureHeader)
		if !ValidSignature(body, header, appSecret) {
			log.WebhookEvent("signature_check", c.ClientIP(), false, "invalid signature")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
			return
		}

		c.Next()
	}
}

// ValidSignature reports whether header is a valid "sha256=<hex>" HMAC of
// body under appSecret.
func ValidSignature(body []byte, header, appSecret string) bool {
	provided, ok := strings.CutPrefix(header, "sha256=")
	if !ok {
		return false
	}

	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(provided), []byte(expected))
}
