// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"estatepilot_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCreated is published when a new lead is captured from an inbound message.
type LeadCreated struct {
	BaseEvent
	LeadID    uuid.UUID `json:"leadId"`
	BuilderID uuid.UUID `json:"builderId"`
	ProjectID uuid.UUID `json:"projectId"`
	Phone     string    `json:"phone"`
	Language  string    `json:"language"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// LeadQualified is published when a lead completes all qualification steps.
type LeadQualified struct {
	BaseEvent
	LeadID    uuid.UUID `json:"leadId"`
	BuilderID uuid.UUID `json:"builderId"`
	ProjectID uuid.UUID `json:"projectId"`
	Score     int       `json:"score"`
	Tier      string    `json:"tier"`
}

func (e LeadQualified) EventName() string { return "leads.lead.qualified" }

// LeadEscalated is published when a conversation is handed off to a human agent.
type LeadEscalated struct {
	BaseEvent
	LeadID    uuid.UUID `json:"leadId"`
	BuilderID uuid.UUID `json:"builderId"`
	Reason    string    `json:"reason"`
}

func (e LeadEscalated) EventName() string { return "leads.lead.escalated" }

// LeadTierChanged is published when rescoring or a manual status update
// moves a lead to a different tier.
type LeadTierChanged struct {
	BaseEvent
	LeadID    uuid.UUID `json:"leadId"`
	BuilderID uuid.UUID `json:"builderId"`
	OldTier   string    `json:"oldTier"`
	NewTier   string    `json:"newTier"`
	Score     int       `json:"score"`
}

func (e LeadTierChanged) EventName() string { return "leads.lead.tier_changed" }

// =============================================================================
// Follow-Up Domain Events
// =============================================================================

// FollowUpScheduled is published when a follow-up is queued for a lead.
type FollowUpScheduled struct {
	BaseEvent
	FollowUpID uuid.UUID `json:"followupId"`
	LeadID     uuid.UUID `json:"leadId"`
	Tier       string    `json:"tier"`
	Attempt    int       `json:"attempt"`
}

func (e FollowUpScheduled) EventName() string { return "followups.scheduled" }

// FollowUpSent is published when a follow-up message is delivered.
type FollowUpSent struct {
	BaseEvent
	FollowUpID uuid.UUID `json:"followupId"`
	LeadID     uuid.UUID `json:"leadId"`
	Attempt    int       `json:"attempt"`
}

func (e FollowUpSent) EventName() string { return "followups.sent" }

// FollowUpExhausted is published when a lead hits the attempt ceiling
// without replying.
type FollowUpExhausted struct {
	BaseEvent
	LeadID   uuid.UUID `json:"leadId"`
	Attempts int       `json:"attempts"`
}

func (e FollowUpExhausted) EventName() string { return "followups.exhausted" }

// =============================================================================
// Conversation Domain Events
// =============================================================================

// MessageReceived is published when an inbound WhatsApp message is accepted.
type MessageReceived struct {
	BaseEvent
	ConversationID uuid.UUID `json:"conversationId"`
	LeadID         uuid.UUID `json:"leadId"`
	Phone          string    `json:"phone"`
	Language       string    `json:"language"`
	Intent         string    `json:"intent"`
}

func (e MessageReceived) EventName() string { return "conversations.message.received" }

// ReplyBlocked is published when a generated reply fails validation and a
// safe fallback is sent instead.
type ReplyBlocked struct {
	BaseEvent
	ConversationID uuid.UUID `json:"conversationId"`
	LeadID         uuid.UUID `json:"leadId"`
	Reason         string    `json:"reason"`
}

func (e ReplyBlocked) EventName() string { return "conversations.reply.blocked" }
