package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"estatepilot_backend/internal/classify"
	"estatepilot_backend/internal/leads/scoring"
)

// Lead is a prospective buyer identified by builder and WhatsApp phone
// number. Qualification attributes are nil until collected.
type Lead struct {
	ID             uuid.UUID         `json:"id"`
	BuilderID      uuid.UUID         `json:"builderId"`
	ProjectID      *uuid.UUID        `json:"projectId,omitempty"`
	Phone          string            `json:"phone"`
	Name           string            `json:"name"`
	Language       classify.Language `json:"language"`
	Status         scoring.Status    `json:"status"`
	Score          int               `json:"score"`
	BudgetMin      *int64            `json:"budgetMin,omitempty"`
	BudgetMax      *int64            `json:"budgetMax,omitempty"`
	UnitType       *string           `json:"unitType,omitempty"`
	Timeline       *scoring.Timeline `json:"timeline,omitempty"`
	LastIntent     string            `json:"lastIntent"`
	Escalated      bool              `json:"escalated"`
	IsActive       bool              `json:"isActive"`
	FollowUpCount  int               `json:"followupCount"`
	NextFollowUpAt *time.Time        `json:"nextFollowupAt,omitempty"`
	LastFollowUp   *time.Time        `json:"lastFollowupAt,omitempty"`
	LastMessageAt  time.Time         `json:"lastMessageAt"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// Attributes returns the lead's scoring inputs.
func (l Lead) Attributes() scoring.Attributes {
	attrs := scoring.Attributes{
		EngagedIntent: l.LastIntent != "" && l.LastIntent != "GENERAL",
	}
	if l.BudgetMin != nil {
		attrs.BudgetMin = *l.BudgetMin
	}
	if l.BudgetMax != nil {
		attrs.BudgetMax = *l.BudgetMax
	}
	if l.UnitType != nil {
		attrs.UnitType = *l.UnitType
	}
	if l.Timeline != nil {
		attrs.Timeline = *l.Timeline
	}
	return attrs
}

// CreateParams creates a lead on first inbound contact.
type CreateParams struct {
	BuilderID uuid.UUID
	ProjectID *uuid.UUID
	Phone     string
	Name      string
	Language  classify.Language
}

// UpdateParams updates lead fields. Nil fields are left untouched.
type UpdateParams struct {
	Name       *string
	Language   *classify.Language
	BudgetMin  *int64
	BudgetMax  *int64
	UnitType   *string
	Timeline   *scoring.Timeline
	LastIntent *string
	ProjectID  *uuid.UUID
}

// ListParams filters and pages a builder's leads.
type ListParams struct {
	Status *scoring.Status
	Search string
	Limit  int
	Offset int
}

// Stats aggregates a builder's pipeline by tier.
type Stats struct {
	Total     int `json:"total"`
	Hot       int `json:"hot"`
	Warm      int `json:"warm"`
	Cold      int `json:"cold"`
	Converted int `json:"converted"`
	Lost      int `json:"lost"`
	Escalated int `json:"escalated"`
}

// Reader provides read access to leads.
type Reader interface {
	GetByID(ctx context.Context, builderID, id uuid.UUID) (Lead, error)
	GetByPhone(ctx context.Context, builderID uuid.UUID, phone string) (Lead, error)
	List(ctx context.Context, builderID uuid.UUID, params ListParams) ([]Lead, int, error)
	Stats(ctx context.Context, builderID uuid.UUID) (Stats, error)
}

// Writer mutates leads.
type Writer interface {
	Create(ctx context.Context, params CreateParams) (Lead, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateParams) (Lead, error)
	TouchLastMessage(ctx context.Context, id uuid.UUID, at time.Time) error
	UpdateScore(ctx context.Context, id uuid.UUID, score int, status scoring.Status) error
	UpdateStatus(ctx context.Context, builderID, id uuid.UUID, status scoring.Status) (Lead, error)
	SetEscalated(ctx context.Context, id uuid.UUID, escalated bool) error
	RecordFollowUp(ctx context.Context, id uuid.UUID, count int, at time.Time) error
	SetNextFollowUp(ctx context.Context, id uuid.UUID, at *time.Time) error
	SetActive(ctx context.Context, builderID, id uuid.UUID, active bool) error
}

// Repository is the full lead persistence contract.
type Repository interface {
	Reader
	Writer
}
