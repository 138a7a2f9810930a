package whatsapp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"estatepilot_backend/platform/logger"
)

func testClient(baseURL string) *Client {
	return &Client{
		baseURL:       baseURL,
		phoneNumberID: "12345",
		accessToken:   "token",
		http:          &http.Client{Timeout: 5 * time.Second},
		log:           logger.New("test"),
	}
}

func TestSendMessagePostsTextPayload(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/12345/messages" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer token" {
			t.Errorf("auth = %q", auth)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Fatalf("unmarshal body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := testClient(srv.URL)
	if err := client.SendMessage(context.Background(), "+919876543210", "hello"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	if got["type"] != "text" {
		t.Errorf("type = %v, want text", got["type"])
	}
	if got["to"] != "919876543210" {
		t.Errorf("to = %v, want 919876543210", got["to"])
	}
}

func TestSendTemplatePostsTemplatePayload(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Fatalf("unmarshal body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := testClient(srv.URL)
	if err := client.SendTemplate(context.Background(), "+919876543210", "lead_reengagement", "hi"); err != nil {
		t.Fatalf("SendTemplate: %v", err)
	}

	if got["type"] != "template" {
		t.Errorf("type = %v, want template", got["type"])
	}
	tpl, ok := got["template"].(map[string]any)
	if !ok {
		t.Fatalf("template missing from payload: %v", got)
	}
	if tpl["name"] != "lead_reengagement" {
		t.Errorf("template name = %v", tpl["name"])
	}
	lang, _ := tpl["language"].(map[string]any)
	if lang["code"] != "hi" {
		t.Errorf("language code = %v", lang["code"])
	}
}

func TestSendTemplateDefaultsLanguage(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := testClient(srv.URL)
	if err := client.SendTemplate(context.Background(), "+919876543210", "lead_reengagement", ""); err != nil {
		t.Fatalf("SendTemplate: %v", err)
	}

	tpl, _ := got["template"].(map[string]any)
	lang, _ := tpl["language"].(map[string]any)
	if lang["code"] != "en" {
		t.Errorf("language code = %v, want en", lang["code"])
	}
}

func TestSendTemplateSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"template not found"}`))
	}))
	defer srv.Close()

	client := testClient(srv.URL)
	err := client.SendTemplate(context.Background(), "+919876543210", "nope", "en")
	if err == nil {
		t.Fatal("expected error for 400 response")
	}
}

func TestNilClientDropsSends(t *testing.T) {
	var client *Client
	if err := client.SendMessage(context.Background(), "+919876543210", "hello"); err != nil {
		t.Fatalf("nil client SendMessage: %v", err)
	}
	if err := client.SendTemplate(context.Background(), "+919876543210", "t", "en"); err != nil {
		t.Fatalf("nil client SendTemplate: %v", err)
	}
}
