package webhook

import (
	"context"
	"log/slog"

	"estatepilot_backend/internal/auth/repository"
	"estatepilot_backend/internal/conversation"
	"estatepilot_backend/platform/apperr"
	"estatepilot_backend/platform/logger"
	"estatepilot_backend/platform/sanitize"
)

// Payload is the WhatsApp Cloud API webhook envelope.
type Payload struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

type Change struct {
	Field string `json:"field"`
	Value Value  `json:"value"`
}

type Value struct {
	MessagingProduct string    `json:"messaging_product"`
	Metadata         Metadata  `json:"metadata"`
	Contacts         []Contact `json:"contacts"`
	Messages         []Message `json:"messages"`
	Statuses         []Status  `json:"statuses"`
}

type Metadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

type Contact struct {
	WaID    string  `json:"wa_id"`
	Profile Profile `json:"profile"`
}

type Profile struct {
	Name string `json:"name"`
}

type Message struct {
	ID          string       `json:"id"`
	From        string       `json:"from"`
	Timestamp   string       `json:"timestamp"`
	Type        string       `json:"type"`
	Text        *Text        `json:"text,omitempty"`
	Interactive *Interactive `json:"interactive,omitempty"`
}

type Text struct {
	Body string `json:"body"`
}

type Interactive struct {
	Type        string `json:"type"`
	ButtonReply *Reply `json:"button_reply,omitempty"`
	ListReply   *Reply `json:"list_reply,omitempty"`
}

type Reply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type Status struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	RecipientID string `json:"recipient_id"`
}

// BuilderResolver maps a WhatsApp phone number ID to the builder it belongs to.
type BuilderResolver interface {
	BuilderByPhoneNumberID(ctx context.Context, phoneNumberID string) (repository.Builder, error)
}

// InboundHandler runs the conversation pipeline for one inbound message.
type InboundHandler interface {
	HandleInbound(ctx context.Context, msg conversation.Inbound) error
}

// Service routes webhook deliveries to the conversation pipeline.
type Service struct {
	builders BuilderResolver
	engine   InboundHandler
	log      *logger.Logger
}

func NewService(builders BuilderResolver, engine InboundHandler, log *logger.Logger) *Service {
	return &Service{builders: builders, engine: engine, log: log}
}

// Dispatch walks the delivery and hands each text message to the pipeline.
// Delivery statuses are logged and dropped. Errors are logged per message
// so one bad entry never blocks the rest of the batch.
func (s *Service) Dispatch(ctx context.Context, payload Payload) {
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			if change.Field != "messages" {
				continue
			}
			s.dispatchValue(ctx, change.Value)
		}
	}
}

func (s *Service) dispatchValue(ctx context.Context, value Value) {
	for _, status := range value.Statuses {
		s.log.Info("message_status",
			slog.String("message_id", status.ID),
			slog.String("status", status.Status),
		)
	}

	if len(value.Messages) == 0 {
		return
	}

	builder, err := s.builders.BuilderByPhoneNumberID(ctx, value.Metadata.PhoneNumberID)
	if err != nil {
		reason := "builder lookup failed"
		if apperr.GetKind(err) == apperr.KindNotFound {
			reason = "unknown phone number id"
		}
		s.log.WebhookEvent("inbound_message", value.Metadata.PhoneNumberID, false, reason)
		return
	}

	names := contactNames(value.Contacts)
	for _, message := range value.Messages {
		text := messageText(message)
		if text == "" {
			s.log.WebhookEvent("inbound_message", message.From, false, "unsupported message type "+message.Type)
			continue
		}

		inbound := conversation.Inbound{
			BuilderID: builder.ID,
			Phone:     message.From,
			Name:      names[message.From],
			Text:      text,
		}
		if err := s.engine.HandleInbound(ctx, inbound); err != nil {
			s.log.Error("inbound_processing_failed",
				slog.String("message_id", message.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		s.log.WebhookEvent("inbound_message", message.From, true, "")
	}
}

// messageText extracts the reply text from a message. Interactive replies
// carry their text in the selected option's title. The text is stored and
// later rendered in the dashboard, so HTML is stripped on the way in.
func messageText(message Message) string {
	switch message.Type {
	case "text":
		if message.Text != nil {
			return sanitize.Text(message.Text.Body)
		}
	case "interactive":
		if message.Interactive == nil {
			return ""
		}
		if message.Interactive.ButtonReply != nil {
			return sanitize.Text(message.Interactive.ButtonReply.Title)
		}
		if message.Interactive.ListReply != nil {
			return sanitize.Text(message.Interactive.ListReply.Title)
		}
	}
	return ""
}

func contactNames(contacts []Contact) map[string]string {
	names := make(map[string]string, len(contacts))
	for _, contact := range contacts {
		names[contact.WaID] = contact.Profile.Name
	}
	return names
}
