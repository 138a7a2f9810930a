// Package whatsapp sends outbound messages through the WhatsApp Cloud API.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"estatepilot_backend/platform/config"
	"estatepilot_backend/platform/logger"
	"estatepilot_backend/platform/phone"
)

// Sender delivers a text message to a WhatsApp phone number.
// Conversation and follow-up services depend on this interface so tests
// can substitute a fake.
type Sender interface {
	SendMessage(ctx context.Context, phoneNumber string, message string) error
}

type Client struct {
	baseURL       string
	phoneNumberID string
	accessToken   string
	http          *http.Client
	log           *logger.Logger
}

type textPayload struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

type textBody struct {
	Body string `json:"body"`
}

type templatePayload struct {
	MessagingProduct string       `json:"messaging_product"`
	RecipientType    string       `json:"recipient_type"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Template         templateBody `json:"template"`
}

type templateBody struct {
	Name     string           `json:"name"`
	Language templateLanguage `json:"language"`
}

type templateLanguage struct {
	Code string `json:"code"`
}

// NewClient creates a Cloud API client. Returns nil when the access token
// is not configured; a nil client silently drops messages.
func NewClient(cfg config.WhatsAppConfig, log *logger.Logger) *Client {
	if cfg.GetWhatsAppAccessToken() == "" {
		return nil
	}

	return &Client{
		baseURL:       strings.TrimRight(cfg.GetWhatsAppAPIBaseURL(), "/"),
		phoneNumberID: cfg.GetWhatsAppPhoneNumberID(),
		accessToken:   cfg.GetWhatsAppAccessToken(),
		http:          &http.Client{Timeout: 10 * time.Second},
		log:           log,
	}
}

func (c *Client) SendMessage(ctx context.Context, phoneNumber string, message string) error {
	if c == nil {
		return nil
	}

	normalized := strings.TrimPrefix(phone.NormalizeE164(phoneNumber), "+")

	payload := textPayload{
		MessagingProduct: "whatsapp",
		To:               normalized,
		Type:             "text",
		Text:             textBody{Body: message},
	}
	if err := c.post(ctx, payload); err != nil {
		return err
	}

	c.log.Info("whatsapp message sent", "phone", normalized)
	return nil
}

// SendTemplate delivers a pre-approved template message. Templates are the
// only business-initiated sends WhatsApp accepts outside the 24 hour
// customer service window.
func (c *Client) SendTemplate(ctx context.Context, phoneNumber, templateName, languageCode string) error {
	if c == nil {
		return nil
	}
	if languageCode == "" {
		languageCode = "en"
	}

	normalized := strings.TrimPrefix(phone.NormalizeE164(phoneNumber), "+")

	payload := templatePayload{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               normalized,
		Type:             "template",
		Template: templateBody{
			Name:     templateName,
			Language: templateLanguage{Code: languageCode},
		},
	}
	if err := c.post(ctx, payload); err != nil {
		return err
	}

	c.log.Info("whatsapp template sent", "phone", normalized, "template", templateName)
	return nil
}

func (c *Client) post(ctx context.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal whatsapp payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("whatsapp api returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return nil
}
