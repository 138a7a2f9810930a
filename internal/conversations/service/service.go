// Package service records conversation turns and tracks flow state.
package service

import (
	"context"

	"github.com/google/uuid"

	"estatepilot_backend/internal/conversations/repository"
	"estatepilot_backend/internal/events"
	"estatepilot_backend/platform/logger"
)

// Service wraps the conversation store for the message pipeline and the
// dashboard API.
type Service struct {
	repo     repository.Repository
	eventBus events.Bus
	log      *logger.Logger
}

func New(repo repository.Repository, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, eventBus: eventBus, log: log}
}

// Start returns the lead's conversation, creating it on first contact.
func (s *Service) Start(ctx context.Context, builderID, leadID uuid.UUID) (repository.Conversation, error) {
	return s.repo.GetOrCreate(ctx, builderID, leadID)
}

// RecordInbound stores a user turn and announces it on the event bus.
func (s *Service) RecordInbound(ctx context.Context, conv repository.Conversation, content, intent, phone, language string) (repository.Message, error) {
	msg, err := s.repo.AppendMessage(ctx, conv.ID, repository.MessageParams{
		Role:    repository.RoleUser,
		Content: content,
		Intent:  intent,
	})
	if err != nil {
		return repository.Message{}, err
	}
	s.eventBus.Publish(ctx, events.MessageReceived{
		BaseEvent:      events.NewBaseEvent(),
		ConversationID: conv.ID,
		LeadID:         conv.LeadID,
		Phone:          phone,
		Language:       language,
		Intent:         intent,
	})
	return msg, nil
}

// RecordReply stores an assistant turn.
func (s *Service) RecordReply(ctx context.Context, conversationID uuid.UUID, content string, isQualification bool) (repository.Message, error) {
	return s.repo.AppendMessage(ctx, conversationID, repository.MessageParams{
		Role:            repository.RoleAssistant,
		Content:         content,
		IsQualification: isQualification,
	})
}

// Advance persists a new flow state for the conversation.
func (s *Service) Advance(ctx context.Context, conversationID uuid.UUID, convCtx repository.Context) error {
	return s.repo.UpdateContext(ctx, conversationID, convCtx)
}

// History returns recent messages oldest first.
func (s *Service) History(ctx context.Context, conversationID uuid.UUID, limit int) ([]repository.Message, error) {
	return s.repo.History(ctx, conversationID, limit)
}

// HistoryForLead returns a lead's thread for the dashboard.
func (s *Service) HistoryForLead(ctx context.Context, builderID, leadID uuid.UUID, limit int) ([]repository.Message, error) {
	conv, err := s.repo.GetByLead(ctx, builderID, leadID)
	if err != nil {
		return nil, err
	}
	return s.repo.History(ctx, conv.ID, limit)
}

// MessageCount reports how many turns the conversation holds.
func (s *Service) MessageCount(ctx context.Context, conversationID uuid.UUID) (int, error) {
	return s.repo.MessageCount(ctx, conversationID)
}
