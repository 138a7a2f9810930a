package conversation

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"estatepilot_backend/internal/classify"
	convrepo "estatepilot_backend/internal/conversations/repository"
	"estatepilot_backend/internal/events"
	leadsrepo "estatepilot_backend/internal/leads/repository"
	leadsservice "estatepilot_backend/internal/leads/service"
	projectsrepo "estatepilot_backend/internal/projects/repository"
	"estatepilot_backend/internal/reply"
	"estatepilot_backend/internal/whatsapp"
	"estatepilot_backend/platform/apperr"
	"estatepilot_backend/platform/logger"
	"estatepilot_backend/platform/phone"
)

// ProjectSource resolves the project a builder's assistant talks about.
type ProjectSource interface {
	Active(ctx context.Context, builderID uuid.UUID) (projectsrepo.Project, error)
}

// LeadStore is the slice of the leads service the engine needs.
type LeadStore interface {
	EnsureLead(ctx context.Context, builderID uuid.UUID, projectID *uuid.UUID, rawPhone, name string, language classify.Language) (leadsrepo.Lead, bool, error)
	AttachProject(ctx context.Context, leadID, projectID uuid.UUID) error
	ApplyQualification(ctx context.Context, lead leadsrepo.Lead, update leadsservice.QualificationUpdate, language classify.Language, intent classify.LeadIntent) (leadsrepo.Lead, error)
	Escalate(ctx context.Context, lead leadsrepo.Lead, reason string) error
}

// ConversationStore is the slice of the conversations service the engine needs.
type ConversationStore interface {
	Start(ctx context.Context, builderID, leadID uuid.UUID) (convrepo.Conversation, error)
	RecordInbound(ctx context.Context, conv convrepo.Conversation, content, intent, phoneNumber, language string) (convrepo.Message, error)
	RecordReply(ctx context.Context, conversationID uuid.UUID, content string, isQualification bool) (convrepo.Message, error)
	Advance(ctx context.Context, conversationID uuid.UUID, convCtx convrepo.Context) error
	History(ctx context.Context, conversationID uuid.UUID, limit int) ([]convrepo.Message, error)
	MessageCount(ctx context.Context, conversationID uuid.UUID) (int, error)
}

// FollowUpScheduler lets the engine reset follow-up state when a lead
// replies and queue the next touch after the exchange.
type FollowUpScheduler interface {
	CancelForLead(ctx context.Context, leadID uuid.UUID) error
	ScheduleForLead(ctx context.Context, lead leadsrepo.Lead) error
}

// Inbound is one WhatsApp message routed to a builder.
type Inbound struct {
	BuilderID uuid.UUID
	Phone     string
	Name      string
	Text      string
}

// Engine runs the inbound message pipeline end to end.
type Engine struct {
	locker    LeadLocker
	projects  ProjectSource
	leads     LeadStore
	convs     ConversationStore
	replies   *reply.Generator
	sender    whatsapp.Sender
	followups FollowUpScheduler
	eventBus  events.Bus
	log       *logger.Logger
}

func NewEngine(
	locker LeadLocker,
	projects ProjectSource,
	leads LeadStore,
	convs ConversationStore,
	replies *reply.Generator,
	sender whatsapp.Sender,
	followups FollowUpScheduler,
	eventBus events.Bus,
	log *logger.Logger,
) *Engine {
	return &Engine{
		locker:    locker,
		projects:  projects,
		leads:     leads,
		convs:     convs,
		replies:   replies,
		sender:    sender,
		followups: followups,
		eventBus:  eventBus,
		log:       log,
	}
}

// HandleInbound processes one message. Work for the same lead is serialized
// on a key of builder and normalized phone number.
func (e *Engine) HandleInbound(ctx context.Context, msg Inbound) error {
	normalized := phone.NormalizeE164(msg.Phone)
	lockKey := msg.BuilderID.String() + "/" + normalized
	e.locker.Lock(lockKey)
	defer e.locker.Unlock(lockKey)

	language := classify.DetectLanguage(msg.Text)
	intent := classify.DetectIntent(msg.Text)
	leadIntent := classify.MapLeadIntent(intent)

	// The lead is persisted before anything that can stop the pipeline, so
	// a misconfigured builder still captures the contact.
	lead, created, err := e.leads.EnsureLead(ctx, msg.BuilderID, nil, normalized, msg.Name, language)
	if err != nil {
		return fmt.Errorf("ensure lead: %w", err)
	}
	log := e.log.WithLead(lead.ID.String())

	conv, err := e.convs.Start(ctx, msg.BuilderID, lead.ID)
	if err != nil {
		return fmt.Errorf("start conversation: %w", err)
	}
	if _, err := e.convs.RecordInbound(ctx, conv, msg.Text, string(leadIntent), normalized, string(language)); err != nil {
		return fmt.Errorf("record inbound: %w", err)
	}

	// The lead replied, so any pending follow-up is stale.
	if err := e.followups.CancelForLead(ctx, lead.ID); err != nil {
		log.Error("followup_cancel_failed", slog.String("error", err.Error()))
	}

	project, err := e.projects.Active(ctx, msg.BuilderID)
	if err != nil {
		if apperr.GetKind(err) == apperr.KindNotFound {
			log.Warn("inbound_without_active_project", slog.String("builder_id", msg.BuilderID.String()))
			e.send(ctx, normalized, reply.Template(reply.TemplateNoProject, language, nil))
			return nil
		}
		return fmt.Errorf("resolve active project: %w", err)
	}
	if lead.ProjectID == nil {
		if err := e.leads.AttachProject(ctx, lead.ID, project.ID); err != nil {
			log.Error("lead_project_attach_failed", slog.String("error", err.Error()))
		} else {
			lead.ProjectID = &project.ID
		}
	}

	if created || conv.Context.Stage == convrepo.StageGreeting {
		lead, err = e.handleFirstContact(ctx, project, conv, lead, language, msg)
	} else if conv.Context.Stage == convrepo.StageQualification {
		lead, err = e.handleQualificationAnswer(ctx, project, conv, lead, language, leadIntent, msg.Text)
	} else {
		lead, err = e.handleQuestion(ctx, project, conv, lead, language, leadIntent, msg.Text)
	}
	if err != nil {
		log.Error("inbound_pipeline_failed", slog.String("error", err.Error()))
		e.send(ctx, normalized, reply.Template(reply.TemplateProcessError, language, nil))
		return err
	}

	if err := e.followups.ScheduleForLead(ctx, lead); err != nil {
		log.Error("followup_schedule_failed", slog.String("error", err.Error()))
	}
	return nil
}

// handleFirstContact greets the sender and opens qualification with the
// budget question.
func (e *Engine) handleFirstContact(ctx context.Context, project projectsrepo.Project, conv convrepo.Conversation, lead leadsrepo.Lead, language classify.Language, msg Inbound) (leadsrepo.Lead, error) {
	greeting := e.replies.Greeting(ctx, project, language, msg.Name, msg.Text)
	if err := e.deliver(ctx, conv, lead, greeting, false); err != nil {
		return lead, err
	}

	question := e.replies.QualificationQuestion(ctx, project, language, reply.StepBudget, nil)
	if err := e.deliver(ctx, conv, lead, question, true); err != nil {
		return lead, err
	}

	return lead, e.convs.Advance(ctx, conv.ID, convrepo.Context{
		Stage:             convrepo.StageQualification,
		QualificationStep: string(reply.StepBudget),
	})
}

// handleQualificationAnswer parses the answer to the pending step, records
// it and either asks the next question or completes qualification.
func (e *Engine) handleQualificationAnswer(ctx context.Context, project projectsrepo.Project, conv convrepo.Conversation, lead leadsrepo.Lead, language classify.Language, intent classify.LeadIntent, text string) (leadsrepo.Lead, error) {
	step := reply.Step(conv.Context.QualificationStep)
	update := parseAnswer(step, text)

	lead, err := e.leads.ApplyQualification(ctx, lead, update, language, intent)
	if err != nil {
		return lead, err
	}

	next, done := nextStep(lead)
	if done {
		completion := fmt.Sprintf("Thanks for sharing that information! How can I help you with %s today?", project.ProjectName)
		if err := e.deliver(ctx, conv, lead, reply.Result{Text: completion}, false); err != nil {
			return lead, err
		}
		return lead, e.convs.Advance(ctx, conv.ID, convrepo.Context{
			Stage:     convrepo.StageQA,
			Qualified: true,
		})
	}

	collected := collectedAnswers(lead)
	question := e.replies.QualificationQuestion(ctx, project, language, next, collected)
	if err := e.deliver(ctx, conv, lead, question, true); err != nil {
		return lead, err
	}
	return lead, e.convs.Advance(ctx, conv.ID, convrepo.Context{
		Stage:             convrepo.StageQualification,
		QualificationStep: string(next),
	})
}

// handleQuestion answers a qualified lead, escalating when the message asks
// for a human. Attributes re-stated mid-chat are still captured.
func (e *Engine) handleQuestion(ctx context.Context, project projectsrepo.Project, conv convrepo.Conversation, lead leadsrepo.Lead, language classify.Language, intent classify.LeadIntent, text string) (leadsrepo.Lead, error) {
	if update := opportunisticParse(text); !update.Empty() {
		updated, err := e.leads.ApplyQualification(ctx, lead, update, language, intent)
		if err != nil {
			return lead, err
		}
		lead = updated
	}

	history, err := e.convs.History(ctx, conv.ID, 6)
	if err != nil {
		return lead, err
	}
	turns := make([]reply.Turn, 0, len(history))
	for _, m := range history {
		turns = append(turns, reply.Turn{Role: string(m.Role), Text: m.Content})
	}

	result := e.replies.Answer(ctx, project, language, text, intent, turns)
	if result.Escalated {
		if err := e.leads.Escalate(ctx, lead, escalationReason(text, intent)); err != nil {
			return lead, err
		}
	}
	if result.Fallback {
		e.eventBus.Publish(ctx, events.ReplyBlocked{
			BaseEvent:      events.NewBaseEvent(),
			ConversationID: conv.ID,
			LeadID:         lead.ID,
			Reason:         "generation rejected, template sent",
		})
	}
	return lead, e.deliver(ctx, conv, lead, result, false)
}

// deliver sends a reply over WhatsApp and records the assistant turn.
func (e *Engine) deliver(ctx context.Context, conv convrepo.Conversation, lead leadsrepo.Lead, result reply.Result, isQualification bool) error {
	if err := e.send(ctx, lead.Phone, result.Text); err != nil {
		return err
	}
	_, err := e.convs.RecordReply(ctx, conv.ID, result.Text, isQualification)
	return err
}

func (e *Engine) send(ctx context.Context, phoneNumber, text string) error {
	if err := e.sender.SendMessage(ctx, phoneNumber, text); err != nil {
		return fmt.Errorf("send whatsapp message: %w", err)
	}
	return nil
}

// parseAnswer extracts the attribute the pending step asked for, plus any
// others the answer happens to contain.
func parseAnswer(step reply.Step, text string) leadsservice.QualificationUpdate {
	update := opportunisticParse(text)

	// A bare number is read in the context of the question it answers.
	if step == reply.StepBudget && update.BudgetMin == nil {
		if min, max, ok := ParseBudget(text); ok {
			update.BudgetMin = &min
			update.BudgetMax = &max
		}
	}
	if step == reply.StepUnitType && update.UnitType == nil {
		if unit := ParseUnitType(text); unit != "" {
			update.UnitType = &unit
		}
	}
	if step == reply.StepTimeline && update.Timeline == nil {
		if timeline := ParseTimeline(text); timeline != "" {
			update.Timeline = &timeline
		}
	}
	return update
}

// opportunisticParse captures attributes from any message without step
// context. Budgets need an explicit rupee or L/Cr marker here so ordinary
// digits are not misread as money.
func opportunisticParse(text string) leadsservice.QualificationUpdate {
	var update leadsservice.QualificationUpdate

	if looksLikeBudget(text) {
		if min, max, ok := ParseBudget(text); ok {
			update.BudgetMin = &min
			update.BudgetMax = &max
		}
	}
	if unit := ParseUnitType(text); unit != "" && len(strings.TrimSpace(text)) > 1 {
		update.UnitType = &unit
	}
	if timeline := ParseTimeline(text); timeline != "" && len(strings.TrimSpace(text)) > 1 {
		update.Timeline = &timeline
	}
	return update
}

var explicitAmountPattern = regexp.MustCompile(`₹|\d+(?:\.\d+)?\s*(?:lakhs?|lacs?|l\b|crores?|cr\b)`)

func looksLikeBudget(text string) bool {
	return explicitAmountPattern.MatchString(strings.ToLower(text))
}

// nextStep returns the first unanswered qualification step.
func nextStep(lead leadsrepo.Lead) (reply.Step, bool) {
	switch {
	case lead.BudgetMin == nil || lead.BudgetMax == nil:
		return reply.StepBudget, false
	case lead.UnitType == nil:
		return reply.StepUnitType, false
	case lead.Timeline == nil:
		return reply.StepTimeline, false
	default:
		return "", true
	}
}

// collectedAnswers summarizes answered steps for the next question's prompt.
func collectedAnswers(lead leadsrepo.Lead) map[string]string {
	collected := make(map[string]string)
	if lead.BudgetMin != nil && lead.BudgetMax != nil {
		collected["budget"] = fmt.Sprintf("₹%d - ₹%d", *lead.BudgetMin, *lead.BudgetMax)
	}
	if lead.UnitType != nil {
		collected["unit type"] = *lead.UnitType
	}
	if lead.Timeline != nil {
		collected["timeline"] = string(*lead.Timeline)
	}
	if len(collected) == 0 {
		return nil
	}
	return collected
}

func escalationReason(text string, intent classify.LeadIntent) string {
	if intent == classify.LeadIntentSiteVisit {
		return "site visit request"
	}
	if strings.Contains(strings.ToLower(text), "discount") || strings.Contains(strings.ToLower(text), "negotiate") {
		return "price negotiation"
	}
	return "human assistance requested"
}
