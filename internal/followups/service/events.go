package service

import (
	"context"

	"estatepilot_backend/internal/events"
	"estatepilot_backend/internal/leads/scoring"
	"estatepilot_backend/platform/apperr"
)

// RegisterEventHandlers subscribes follow-up scheduling to lead lifecycle
// events, so tier changes made outside the conversation pipeline, such as a
// dashboard status update, still adjust the cadence.
func (s *Service) RegisterEventHandlers(bus events.Bus) {
	bus.Subscribe(events.LeadTierChanged{}.EventName(), events.HandlerFunc(s.handleTierChanged))
}

// handleTierChanged re-intervals the lead's pending follow-up for its new
// tier. Terminal tiers just cancel.
func (s *Service) handleTierChanged(ctx context.Context, event events.Event) error {
	change, ok := event.(events.LeadTierChanged)
	if !ok {
		return nil
	}
	if err := s.CancelForLead(ctx, change.LeadID); err != nil {
		return err
	}
	if scoring.Terminal(scoring.Status(change.NewTier)) {
		return nil
	}
	lead, err := s.leads.GetByID(ctx, change.BuilderID, change.LeadID)
	if err != nil {
		if apperr.GetKind(err) == apperr.KindNotFound {
			return nil
		}
		return err
	}
	return s.ScheduleForLead(ctx, lead)
}
