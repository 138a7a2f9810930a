package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// FollowUp is one scheduled re-engagement touch. At most one row per lead
// is active at a time, enforced by a partial unique index.
type FollowUp struct {
	ID          uuid.UUID  `json:"id"`
	BuilderID   uuid.UUID  `json:"builderId"`
	LeadID      uuid.UUID  `json:"leadId"`
	Tier        string     `json:"tier"`
	Attempt     int        `json:"attempt"`
	ScheduledAt time.Time  `json:"scheduledAt"`
	Active      bool       `json:"active"`
	SentAt      *time.Time `json:"sentAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// CreateParams schedules a follow-up.
type CreateParams struct {
	BuilderID   uuid.UUID
	LeadID      uuid.UUID
	Tier        string
	Attempt     int
	ScheduledAt time.Time
}

// Stats aggregates a builder's follow-up activity.
type Stats struct {
	Pending   int `json:"pending"`
	Due       int `json:"due"`
	Sent      int `json:"sent"`
	SentToday int `json:"sentToday"`
}

// Repository is the follow-up persistence contract.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (FollowUp, error)
	GetByID(ctx context.Context, id uuid.UUID) (FollowUp, error)
	GetActiveByLead(ctx context.Context, leadID uuid.UUID) (FollowUp, error)
	CancelActiveForLead(ctx context.Context, leadID uuid.UUID) error
	MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	Due(ctx context.Context, now time.Time, limit int) ([]FollowUp, error)
	StatsForBuilder(ctx context.Context, builderID uuid.UUID) (Stats, error)
}
