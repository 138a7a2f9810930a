// Package service schedules and delivers lead follow-up messages.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"estatepilot_backend/internal/classify"
	"estatepilot_backend/internal/conversation"
	convrepo "estatepilot_backend/internal/conversations/repository"
	"estatepilot_backend/internal/events"
	"estatepilot_backend/internal/followups/repository"
	leadsrepo "estatepilot_backend/internal/leads/repository"
	"estatepilot_backend/internal/leads/scoring"
	projectsrepo "estatepilot_backend/internal/projects/repository"
	"estatepilot_backend/internal/reply"
	"estatepilot_backend/internal/whatsapp"
	"estatepilot_backend/platform/apperr"
	"estatepilot_backend/platform/logger"
	"estatepilot_backend/platform/phone"
)

// maxAttempts is the per-lead follow-up ceiling. A lead that never replies
// is left alone after this many touches.
const maxAttempts = 3

// replySuppressionWindow skips a due follow-up when the lead messaged us
// recently; the conversation is already alive.
const replySuppressionWindow = 30 * time.Minute

// serviceWindow is how long after a lead's last message WhatsApp still
// accepts free-form text. Later sends must use an approved template.
const serviceWindow = 24 * time.Hour

// reengagementTemplate is the approved template name for follow-ups sent
// outside the service window.
const reengagementTemplate = "lead_reengagement"

// tierIntervals is the wait before the next touch per lead temperature.
var tierIntervals = map[scoring.Status]time.Duration{
	scoring.StatusHot:  2 * time.Hour,
	scoring.StatusWarm: 24 * time.Hour,
	scoring.StatusCold: 72 * time.Hour,
}

// Enqueuer queues a follow-up for processing after a delay.
type Enqueuer interface {
	EnqueueFollowUp(ctx context.Context, followUpID uuid.UUID, delay time.Duration) error
}

// Sender is the outbound WhatsApp surface follow-ups need. Template sends
// cover leads whose last message is outside the service window.
type Sender interface {
	whatsapp.Sender
	SendTemplate(ctx context.Context, phoneNumber, templateName, languageCode string) error
}

// LeadSource is the slice of the leads store follow-ups need.
type LeadSource interface {
	GetByID(ctx context.Context, builderID, id uuid.UUID) (leadsrepo.Lead, error)
	RecordFollowUp(ctx context.Context, id uuid.UUID, count int, at time.Time) error
	SetNextFollowUp(ctx context.Context, id uuid.UUID, at *time.Time) error
}

// ProjectSource resolves the project follow-up copy is grounded on.
type ProjectSource interface {
	Active(ctx context.Context, builderID uuid.UUID) (projectsrepo.Project, error)
}

// ConversationRecorder stores sent follow-ups in the lead's thread.
type ConversationRecorder interface {
	Start(ctx context.Context, builderID, leadID uuid.UUID) (convrepo.Conversation, error)
	RecordReply(ctx context.Context, conversationID uuid.UUID, content string, isQualification bool) (convrepo.Message, error)
}

// Service implements follow-up scheduling and delivery.
type Service struct {
	repo     repository.Repository
	locker   conversation.LeadLocker
	leads    LeadSource
	projects ProjectSource
	replies  *reply.Generator
	sender   Sender
	enqueue  Enqueuer
	convs    ConversationRecorder
	eventBus events.Bus
	log      *logger.Logger
}

func New(
	repo repository.Repository,
	locker conversation.LeadLocker,
	leads LeadSource,
	projects ProjectSource,
	replies *reply.Generator,
	sender Sender,
	enqueue Enqueuer,
	convs ConversationRecorder,
	eventBus events.Bus,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:     repo,
		locker:   locker,
		leads:    leads,
		projects: projects,
		replies:  replies,
		sender:   sender,
		enqueue:  enqueue,
		convs:    convs,
		eventBus: eventBus,
		log:      log,
	}
}

// ScheduleForLead queues the lead's next touch. Terminal, escalated and
// exhausted leads are left alone; an existing active follow-up wins.
func (s *Service) ScheduleForLead(ctx context.Context, lead leadsrepo.Lead) error {
	if scoring.Terminal(lead.Status) || lead.Escalated {
		return nil
	}
	attempt := lead.FollowUpCount + 1
	if attempt > maxAttempts {
		return nil
	}

	interval, ok := tierIntervals[lead.Status]
	if !ok {
		interval = tierIntervals[scoring.StatusCold]
	}
	scheduledAt := time.Now().Add(interval)

	followUp, err := s.repo.Create(ctx, repository.CreateParams{
		BuilderID:   lead.BuilderID,
		LeadID:      lead.ID,
		Tier:        string(lead.Status),
		Attempt:     attempt,
		ScheduledAt: scheduledAt,
	})
	if err != nil {
		if apperr.GetKind(err) == apperr.KindConflict {
			return nil
		}
		return err
	}

	// A lost queue entry is recovered by the sweep, so enqueue failures
	// only get logged.
	if err := s.enqueue.EnqueueFollowUp(ctx, followUp.ID, interval); err != nil {
		s.log.Error("followup_enqueue_failed",
			slog.String("followup_id", followUp.ID.String()),
			slog.String("error", err.Error()),
		)
	}

	if err := s.leads.SetNextFollowUp(ctx, lead.ID, &scheduledAt); err != nil {
		s.log.Error("followup_mirror_failed",
			slog.String("lead_id", lead.ID.String()),
			slog.String("error", err.Error()),
		)
	}

	s.eventBus.Publish(ctx, events.FollowUpScheduled{
		BaseEvent:  events.NewBaseEvent(),
		FollowUpID: followUp.ID,
		LeadID:     lead.ID,
		Tier:       string(lead.Status),
		Attempt:    attempt,
	})
	return nil
}

// CancelForLead deactivates the lead's pending follow-up and clears the
// due time mirrored on the lead row.
func (s *Service) CancelForLead(ctx context.Context, leadID uuid.UUID) error {
	if err := s.repo.CancelActiveForLead(ctx, leadID); err != nil {
		return err
	}
	if err := s.leads.SetNextFollowUp(ctx, leadID, nil); err != nil && apperr.GetKind(err) != apperr.KindNotFound {
		return err
	}
	return nil
}

// Process delivers one due follow-up. Returning an error requeues the task;
// conditions that make the touch unnecessary deactivate it instead.
func (s *Service) Process(ctx context.Context, followUpID uuid.UUID) error {
	followUp, err := s.repo.GetByID(ctx, followUpID)
	if err != nil {
		if apperr.GetKind(err) == apperr.KindNotFound {
			return nil
		}
		return err
	}
	if !followUp.Active {
		return nil
	}
	log := s.log.WithLead(followUp.LeadID.String())

	lead, err := s.leads.GetByID(ctx, followUp.BuilderID, followUp.LeadID)
	if err != nil {
		if apperr.GetKind(err) == apperr.KindNotFound {
			return s.repo.Deactivate(ctx, followUp.ID)
		}
		return err
	}

	// Same lock key as live webhook handling, so a reply being processed
	// right now lands before the suppression check reads the lead again.
	lockKey := followUp.BuilderID.String() + "/" + phone.NormalizeE164(lead.Phone)
	s.locker.Lock(lockKey)
	defer s.locker.Unlock(lockKey)

	lead, err = s.leads.GetByID(ctx, followUp.BuilderID, followUp.LeadID)
	if err != nil {
		if apperr.GetKind(err) == apperr.KindNotFound {
			return s.repo.Deactivate(ctx, followUp.ID)
		}
		return err
	}

	if time.Since(lead.LastMessageAt) < replySuppressionWindow {
		log.Info("followup_suppressed", slog.String("reason", "recent reply"))
		return s.deactivate(ctx, followUp.ID, lead.ID)
	}
	if !lead.IsActive || scoring.Terminal(lead.Status) || lead.Escalated {
		return s.deactivate(ctx, followUp.ID, lead.ID)
	}

	project, err := s.projects.Active(ctx, followUp.BuilderID)
	if err != nil {
		if apperr.GetKind(err) == apperr.KindNotFound {
			return s.deactivate(ctx, followUp.ID, lead.ID)
		}
		return err
	}

	// Free-form text is undeliverable once the lead has been silent past the
	// service window; those touches go out as an approved template.
	var sentText string
	if time.Since(lead.LastMessageAt) >= serviceWindow {
		if err := s.sender.SendTemplate(ctx, lead.Phone, reengagementTemplate, string(lead.Language)); err != nil {
			return fmt.Errorf("send followup template: %w", err)
		}
	} else {
		info := reply.LeadInfo{Name: lead.Name}
		if lead.UnitType != nil {
			info.UnitType = *lead.UnitType
		}
		if lead.LastIntent != "" {
			info.LastIntent = classify.LeadIntent(lead.LastIntent)
		}
		result := s.replies.FollowUp(ctx, project, lead.Language, info, string(lead.Status))
		if err := s.sender.SendMessage(ctx, lead.Phone, result.Text); err != nil {
			return fmt.Errorf("send followup: %w", err)
		}
		sentText = result.Text
	}

	now := time.Now()
	if err := s.repo.MarkSent(ctx, followUp.ID, now); err != nil {
		return err
	}
	if err := s.leads.RecordFollowUp(ctx, lead.ID, followUp.Attempt, now); err != nil {
		return err
	}
	if sentText != "" {
		s.recordInThread(ctx, followUp.BuilderID, lead.ID, sentText)
	}

	s.eventBus.Publish(ctx, events.FollowUpSent{
		BaseEvent:  events.NewBaseEvent(),
		FollowUpID: followUp.ID,
		LeadID:     lead.ID,
		Attempt:    followUp.Attempt,
	})
	log.Info("followup_sent", slog.Int("attempt", followUp.Attempt))

	if followUp.Attempt >= maxAttempts {
		s.eventBus.Publish(ctx, events.FollowUpExhausted{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    lead.ID,
			Attempts:  followUp.Attempt,
		})
		if err := s.leads.SetNextFollowUp(ctx, lead.ID, nil); err != nil {
			log.Error("followup_mirror_failed", slog.String("error", err.Error()))
		}
		return nil
	}

	lead.FollowUpCount = followUp.Attempt
	return s.ScheduleForLead(ctx, lead)
}

// deactivate retires a follow-up that should not be sent and clears the due
// time mirrored on the lead.
func (s *Service) deactivate(ctx context.Context, followUpID, leadID uuid.UUID) error {
	if err := s.repo.Deactivate(ctx, followUpID); err != nil {
		return err
	}
	if err := s.leads.SetNextFollowUp(ctx, leadID, nil); err != nil && apperr.GetKind(err) != apperr.KindNotFound {
		return err
	}
	return nil
}

// recordInThread appends the sent follow-up to the conversation. Delivery
// already happened, so failures here only get logged.
func (s *Service) recordInThread(ctx context.Context, builderID, leadID uuid.UUID, text string) {
	conv, err := s.convs.Start(ctx, builderID, leadID)
	if err != nil {
		s.log.Error("followup_thread_record_failed", slog.String("error", err.Error()))
		return
	}
	if _, err := s.convs.RecordReply(ctx, conv.ID, text, false); err != nil {
		s.log.Error("followup_thread_record_failed", slog.String("error", err.Error()))
	}
}

// Sweep re-enqueues due follow-ups whose queue entry was lost.
func (s *Service) Sweep(ctx context.Context, limit int) (int, error) {
	due, err := s.repo.Due(ctx, time.Now(), limit)
	if err != nil {
		return 0, err
	}
	for _, followUp := range due {
		if err := s.enqueue.EnqueueFollowUp(ctx, followUp.ID, 0); err != nil {
			s.log.Error("followup_sweep_enqueue_failed",
				slog.String("followup_id", followUp.ID.String()),
				slog.String("error", err.Error()),
			)
		}
	}
	return len(due), nil
}

// StatsForBuilder aggregates a builder's follow-up activity.
func (s *Service) StatsForBuilder(ctx context.Context, builderID uuid.UUID) (repository.Stats, error) {
	return s.repo.StatsForBuilder(ctx, builderID)
}
