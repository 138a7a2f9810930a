package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"estatepilot_backend/internal/auth/repository"
	"estatepilot_backend/internal/conversation"
	"estatepilot_backend/platform/apperr"
	"estatepilot_backend/platform/logger"
)

type fakeBuilders struct {
	builder repository.Builder
}

func (b *fakeBuilders) BuilderByPhoneNumberID(ctx context.Context, phoneNumberID string) (repository.Builder, error) {
	if phoneNumberID != b.builder.WhatsAppPhoneNumberID {
		return repository.Builder{}, apperr.NotFound("builder not found")
	}
	return b.builder, nil
}

type fakeEngine struct {
	mu      sync.Mutex
	inbound []conversation.Inbound
}

func (e *fakeEngine) HandleInbound(ctx context.Context, msg conversation.Inbound) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.inbound = append(e.inbound, msg)
	return nil
}

func (e *fakeEngine) received() []conversation.Inbound {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]conversation.Inbound(nil), e.inbound...)
}

const (
	testVerifyToken = "verify-me"
	testAppSecret   = "app-secret"
	testPhoneID     = "1122334455"
)

func newTestRouter(t *testing.T) (*gin.Engine, *fakeEngine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := &fakeEngine{}
	builders := &fakeBuilders{builder: repository.Builder{
		ID:                    uuid.New(),
		Email:                 "builder@example.com",
		CompanyName:           "Acme Constructions",
		WhatsAppPhoneNumberID: testPhoneID,
	}}
	log := logger.New("test")
	service := NewService(builders, engine, log)
	handler := NewHandler(service, testVerifyToken, log)

	router := gin.New()
	group := router.Group("/api/v1/webhook/whatsapp")
	group.GET("", handler.Verify)
	group.POST("", SignatureMiddleware(testAppSecret, log), handler.Receive)
	return router, engine
}

func sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(testAppSecret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func textPayload(phoneID, from, name, text string) []byte {
	return []byte(`{
		"object": "whatsapp_business_account",
		"entry": [{
			"id": "entry-1",
			"changes": [{
				"field": "messages",
				"value": {
					"messaging_product": "whatsapp",
					"metadata": {"display_phone_number": "+911234567890", "phone_number_id": "` + phoneID + `"},
					"contacts": [{"wa_id": "` + from + `", "profile": {"name": "` + name + `"}}],
					"messages": [{"id": "wamid.1", "from": "` + from + `", "type": "text", "text": {"body": "` + text + `"}}]
				}
			}]
		}]
	}`)
}

func waitForInbound(t *testing.T, engine *fakeEngine, want int) []conversation.Inbound {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if got := engine.received(); len(got) >= want {
			return got
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d inbound messages, got %d", want, len(engine.received()))
	return nil
}

func TestVerifyEchoesChallenge(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/webhook/whatsapp?hub.mode=subscribe&hub.verify_token="+testVerifyToken+"&hub.challenge=12345", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "12345" {
		t.Fatalf("body = %q, want the challenge", rec.Body.String())
	}
}

func TestVerifyRejectsWrongToken(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/webhook/whatsapp?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=12345", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestReceiveDispatchesTextMessage(t *testing.T) {
	router, engine := newTestRouter(t)
	body := textPayload(testPhoneID, "919876543210", "Priya", "hello")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhook/whatsapp", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(signatureHeader, sign(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "EVENT_RECEIVED" {
		t.Fatalf("body = %q, want acknowledgement", rec.Body.String())
	}

	inbound := waitForInbound(t, engine, 1)
	if inbound[0].Phone != "919876543210" {
		t.Fatalf("phone = %q", inbound[0].Phone)
	}
	if inbound[0].Name != "Priya" {
		t.Fatalf("name = %q", inbound[0].Name)
	}
	if inbound[0].Text != "hello" {
		t.Fatalf("text = %q", inbound[0].Text)
	}
}

func TestReceiveRejectsInvalidSignature(t *testing.T) {
	router, engine := newTestRouter(t)
	body := textPayload(testPhoneID, "919876543210", "Priya", "hello")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhook/whatsapp", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(signatureHeader, "sha256=deadbeef")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	time.Sleep(20 * time.Millisecond)
	if got := engine.received(); len(got) != 0 {
		t.Fatalf("pipeline received %d messages, want 0", len(got))
	}
}

func TestReceiveIgnoresUnknownPhoneNumberID(t *testing.T) {
	router, engine := newTestRouter(t)
	body := textPayload("9999999999", "919876543210", "Priya", "hello")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhook/whatsapp", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(signatureHeader, sign(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	time.Sleep(20 * time.Millisecond)
	if got := engine.received(); len(got) != 0 {
		t.Fatalf("pipeline received %d messages, want 0", len(got))
	}
}

func TestDispatchStatusesOnly(t *testing.T) {
	builders := &fakeBuilders{builder: repository.Builder{ID: uuid.New(), WhatsAppPhoneNumberID: testPhoneID}}
	engine := &fakeEngine{}
	service := NewService(builders, engine, logger.New("test"))

	service.Dispatch(context.Background(), Payload{
		Object: "whatsapp_business_account",
		Entry: []Entry{{
			Changes: []Change{{
				Field: "messages",
				Value: Value{
					Metadata: Metadata{PhoneNumberID: testPhoneID},
					Statuses: []Status{{ID: "wamid.1", Status: "delivered"}},
				},
			}},
		}},
	})

	if got := engine.received(); len(got) != 0 {
		t.Fatalf("pipeline received %d messages, want 0", len(got))
	}
}

func TestMessageTextInteractiveReplies(t *testing.T) {
	button := Message{Type: "interactive", Interactive: &Interactive{
		Type:        "button_reply",
		ButtonReply: &Reply{ID: "1", Title: "2 BHK"},
	}}
	if got := messageText(button); got != "2 BHK" {
		t.Fatalf("button reply text = %q", got)
	}

	list := Message{Type: "interactive", Interactive: &Interactive{
		Type:      "list_reply",
		ListReply: &Reply{ID: "2", Title: "Within 3 months"},
	}}
	if got := messageText(list); got != "Within 3 months" {
		t.Fatalf("list reply text = %q", got)
	}

	image := Message{Type: "image"}
	if got := messageText(image); got != "" {
		t.Fatalf("image text = %q, want empty", got)
	}
}
