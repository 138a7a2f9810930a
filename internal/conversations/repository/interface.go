package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Stage is where a conversation sits in the assistant flow.
type Stage string

const (
	StageGreeting      Stage = "greeting"
	StageQualification Stage = "qualification"
	StageQA            Stage = "qa"
)

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Context is the conversation's flow state, stored as a JSONB column so it
// can grow without migrations.
type Context struct {
	Stage             Stage  `json:"stage"`
	QualificationStep string `json:"qualificationStep,omitempty"`
	Qualified         bool   `json:"qualified"`
}

// Conversation is the single message thread between a lead and the
// assistant. One per lead.
type Conversation struct {
	ID        uuid.UUID `json:"id"`
	BuilderID uuid.UUID `json:"builderId"`
	LeadID    uuid.UUID `json:"leadId"`
	Context   Context   `json:"context"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Message is one turn in a conversation.
type Message struct {
	ID              uuid.UUID `json:"id"`
	ConversationID  uuid.UUID `json:"conversationId"`
	Role            Role      `json:"role"`
	Content         string    `json:"content"`
	Intent          string    `json:"intent,omitempty"`
	IsQualification bool      `json:"isQualification"`
	CreatedAt       time.Time `json:"createdAt"`
}

// MessageParams appends a message to a conversation.
type MessageParams struct {
	Role            Role
	Content         string
	Intent          string
	IsQualification bool
}

// Repository is the conversation persistence contract.
type Repository interface {
	GetOrCreate(ctx context.Context, builderID, leadID uuid.UUID) (Conversation, error)
	GetByLead(ctx context.Context, builderID, leadID uuid.UUID) (Conversation, error)
	UpdateContext(ctx context.Context, id uuid.UUID, convCtx Context) error
	AppendMessage(ctx context.Context, conversationID uuid.UUID, params MessageParams) (Message, error)
	History(ctx context.Context, conversationID uuid.UUID, limit int) ([]Message, error)
	MessageCount(ctx context.Context, conversationID uuid.UUID) (int, error)
}
