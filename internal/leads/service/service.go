// Package service contains lead lifecycle business logic.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"estatepilot_backend/internal/classify"
	"estatepilot_backend/internal/events"
	"estatepilot_backend/internal/leads/repository"
	"estatepilot_backend/internal/leads/scoring"
	"estatepilot_backend/platform/apperr"
	"estatepilot_backend/platform/logger"
	"estatepilot_backend/platform/phone"
)

// Service implements lead lifecycle operations.
type Service struct {
	repo     repository.Repository
	eventBus events.Bus
	log      *logger.Logger
}

func New(repo repository.Repository, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, eventBus: eventBus, log: log}
}

// QualificationUpdate carries attributes parsed from an inbound message.
// Nil fields were not present in the message.
type QualificationUpdate struct {
	BudgetMin *int64
	BudgetMax *int64
	UnitType  *string
	Timeline  *scoring.Timeline
}

// Empty reports whether the update carries no attributes.
func (u QualificationUpdate) Empty() bool {
	return u.BudgetMin == nil && u.BudgetMax == nil && u.UnitType == nil && u.Timeline == nil
}

// EnsureLead finds or creates the lead for an inbound sender and records
// the activity timestamp. The returned bool is true when the lead is new.
func (s *Service) EnsureLead(ctx context.Context, builderID uuid.UUID, projectID *uuid.UUID, rawPhone, name string, language classify.Language) (repository.Lead, bool, error) {
	normalized := phone.NormalizeE164(rawPhone)

	lead, err := s.repo.GetByPhone(ctx, builderID, normalized)
	if err == nil {
		if touchErr := s.repo.TouchLastMessage(ctx, lead.ID, time.Now()); touchErr != nil {
			return repository.Lead{}, false, touchErr
		}
		lead.LastMessageAt = time.Now()
		// A reply restarts the follow-up cycle from attempt one.
		lead.FollowUpCount = 0
		return lead, false, nil
	}
	if apperr.GetKind(err) != apperr.KindNotFound {
		return repository.Lead{}, false, err
	}

	lead, err = s.repo.Create(ctx, repository.CreateParams{
		BuilderID: builderID,
		ProjectID: projectID,
		Phone:     normalized,
		Name:      name,
		Language:  language,
	})
	if err != nil {
		return repository.Lead{}, false, err
	}

	event := events.LeadCreated{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		BuilderID: builderID,
		Phone:     normalized,
		Language:  string(language),
	}
	if projectID != nil {
		event.ProjectID = *projectID
	}
	s.eventBus.Publish(ctx, event)
	s.log.Info("lead_created",
		slog.String("lead_id", lead.ID.String()),
		slog.String("builder_id", builderID.String()),
	)
	return lead, true, nil
}

// ApplyQualification merges newly parsed attributes into the lead. An
// attribute already on file wins over a re-stated one. The lead is rescored
// afterwards and tier transitions are published.
func (s *Service) ApplyQualification(ctx context.Context, lead repository.Lead, update QualificationUpdate, language classify.Language, intent classify.LeadIntent) (repository.Lead, error) {
	params := repository.UpdateParams{}

	if update.BudgetMin != nil && lead.BudgetMin == nil {
		params.BudgetMin = update.BudgetMin
	}
	if update.BudgetMax != nil && lead.BudgetMax == nil {
		params.BudgetMax = update.BudgetMax
	}
	if update.UnitType != nil && lead.UnitType == nil {
		params.UnitType = update.UnitType
	}
	if update.Timeline != nil && lead.Timeline == nil {
		params.Timeline = update.Timeline
	}
	if language != "" && language != lead.Language {
		params.Language = &language
	}
	if intent != "" && string(intent) != lead.LastIntent {
		intentValue := string(intent)
		params.LastIntent = &intentValue
	}

	updated, err := s.repo.Update(ctx, lead.ID, params)
	if err != nil {
		return repository.Lead{}, fmt.Errorf("apply qualification: %w", err)
	}
	return s.rescore(ctx, updated)
}

// rescore recomputes score and tier and persists them when they changed.
// Terminal statuses are never overwritten.
func (s *Service) rescore(ctx context.Context, lead repository.Lead) (repository.Lead, error) {
	score, _ := scoring.Compute(lead.Attributes())
	next := scoring.Next(lead.Status, score)
	if score == lead.Score && next == lead.Status {
		return lead, nil
	}

	if err := s.repo.UpdateScore(ctx, lead.ID, score, next); err != nil {
		return repository.Lead{}, err
	}

	if next != lead.Status {
		s.eventBus.Publish(ctx, events.LeadTierChanged{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    lead.ID,
			BuilderID: lead.BuilderID,
			OldTier:   string(lead.Status),
			NewTier:   string(next),
			Score:     score,
		})
	}
	if isQualified(lead) {
		event := events.LeadQualified{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    lead.ID,
			BuilderID: lead.BuilderID,
			Score:     score,
			Tier:      string(next),
		}
		if lead.ProjectID != nil {
			event.ProjectID = *lead.ProjectID
		}
		s.eventBus.Publish(ctx, event)
	}

	lead.Score = score
	lead.Status = next
	return lead, nil
}

// isQualified reports whether all three qualification attributes are on file.
func isQualified(lead repository.Lead) bool {
	return lead.BudgetMin != nil && lead.BudgetMax != nil && lead.UnitType != nil && lead.Timeline != nil
}

// Escalate flags the lead for human handoff. Escalating twice is a no-op.
func (s *Service) Escalate(ctx context.Context, lead repository.Lead, reason string) error {
	if lead.Escalated {
		return nil
	}
	if err := s.repo.SetEscalated(ctx, lead.ID, true); err != nil {
		return err
	}
	s.eventBus.Publish(ctx, events.LeadEscalated{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		BuilderID: lead.BuilderID,
		Reason:    reason,
	})
	s.log.WithLead(lead.ID.String()).Info("lead_escalated", slog.String("reason", reason))
	return nil
}

// UpdateStatus performs a manual status transition from the dashboard.
func (s *Service) UpdateStatus(ctx context.Context, builderID, id uuid.UUID, status scoring.Status) (repository.Lead, error) {
	if !scoring.ValidStatus(status) {
		return repository.Lead{}, apperr.Validation(fmt.Sprintf("invalid status %q", status))
	}
	current, err := s.repo.GetByID(ctx, builderID, id)
	if err != nil {
		return repository.Lead{}, err
	}
	if current.Status == status {
		return current, nil
	}
	updated, err := s.repo.UpdateStatus(ctx, builderID, id, status)
	if err != nil {
		return repository.Lead{}, err
	}
	s.eventBus.Publish(ctx, events.LeadTierChanged{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    updated.ID,
		BuilderID: updated.BuilderID,
		OldTier:   string(current.Status),
		NewTier:   string(status),
		Score:     updated.Score,
	})
	return updated, nil
}

// AttachProject links a lead created before any project lookup to the
// builder's active project.
func (s *Service) AttachProject(ctx context.Context, leadID, projectID uuid.UUID) error {
	_, err := s.repo.Update(ctx, leadID, repository.UpdateParams{ProjectID: &projectID})
	return err
}

// Deactivate soft-deletes a lead. The row stays for reporting; reads and
// follow-ups skip it.
func (s *Service) Deactivate(ctx context.Context, builderID, id uuid.UUID) error {
	return s.repo.SetActive(ctx, builderID, id, false)
}

// Get returns a single lead scoped to a builder.
func (s *Service) Get(ctx context.Context, builderID, id uuid.UUID) (repository.Lead, error) {
	return s.repo.GetByID(ctx, builderID, id)
}

// List returns a filtered page of a builder's leads with the total count.
func (s *Service) List(ctx context.Context, builderID uuid.UUID, params repository.ListParams) ([]repository.Lead, int, error) {
	if params.Status != nil && !scoring.ValidStatus(*params.Status) {
		return nil, 0, apperr.Validation(fmt.Sprintf("invalid status %q", *params.Status))
	}
	return s.repo.List(ctx, builderID, params)
}

// Stats returns the builder's pipeline aggregates.
func (s *Service) Stats(ctx context.Context, builderID uuid.UUID) (repository.Stats, error) {
	return s.repo.Stats(ctx, builderID)
}
