package reply

import (
	"context"
	"log/slog"
	"strings"

	"estatepilot_backend/internal/classify"
	"estatepilot_backend/internal/grounding"
	"estatepilot_backend/internal/projects/repository"
	"estatepilot_backend/platform/ai/gemini"
	"estatepilot_backend/platform/logger"
)

// Result is a finished outbound reply. Escalated marks replies that should
// hand the conversation to a human agent; Fallback marks template text used
// because the model output was unavailable or failed validation.
type Result struct {
	Text      string
	Escalated bool
	Fallback  bool
}

// Generator produces WhatsApp replies. Every path returns usable text; model
// failures degrade to localized templates rather than surfacing errors to
// the conversation flow.
type Generator struct {
	model gemini.Generator
	log   *logger.Logger
}

func NewGenerator(model gemini.Generator, log *logger.Logger) *Generator {
	return &Generator{model: model, log: log}
}

var bareGreetings = map[string]bool{
	"hi":      true,
	"hello":   true,
	"hey":     true,
	"नमस्ते":    true,
	"हैलो":     true,
}

// IsBareGreeting reports whether the message is just a salutation with no
// question attached.
func IsBareGreeting(message string) bool {
	return bareGreetings[strings.ToLower(strings.TrimSpace(message))]
}

var escalationKeywords = []string{
	"meet", "visit", "call", "contact", "speak", "talk", "discuss",
	"मिलना", "बात", "कॉल", "संपर्क", "मिलो",
	"negotiate", "deal", "discount", "offer", "bargain",
	"मोलभाव", "छूट", "ऑफर", "डील",
}

// ShouldEscalate reports whether the message asks for something an assistant
// must not handle on its own, such as meetings or price negotiation. Long
// free-form messages without a recognized intent also escalate.
func ShouldEscalate(message string, intent classify.LeadIntent) bool {
	lower := strings.ToLower(message)
	for _, keyword := range escalationKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	if intent == classify.LeadIntentGeneral && len(strings.Fields(message)) > 10 {
		return true
	}
	return false
}

// Greeting builds the first message of a conversation. Bare salutations skip
// the model entirely.
func (g *Generator) Greeting(ctx context.Context, project repository.Project, language classify.Language, userName, userMessage string) Result {
	params := map[string]string{"name": displayName(userName), "projectName": project.ProjectName}
	if IsBareGreeting(userMessage) {
		return Result{Text: Template(TemplateGreeting, language, params), Fallback: true}
	}
	text, ok := g.generate(ctx, greetingPrompt(project, language, userName), project, "greeting")
	if !ok {
		return Result{Text: Template(TemplateGreeting, language, params), Fallback: true}
	}
	return Result{Text: text}
}

// QualificationQuestion asks for the next missing lead attribute.
func (g *Generator) QualificationQuestion(ctx context.Context, project repository.Project, language classify.Language, step Step, previous map[string]string) Result {
	text, ok := g.generate(ctx, qualificationPrompt(project, language, step, previous), project, "qualification")
	if !ok {
		return Result{Text: Template(stepTemplate(step), language, nil), Fallback: true}
	}
	return Result{Text: text}
}

// Answer responds to a qualified lead's question. Escalation is checked
// before the model is consulted.
func (g *Generator) Answer(ctx context.Context, project repository.Project, language classify.Language, userMessage string, intent classify.LeadIntent, history []Turn) Result {
	// A lead who just says hello mid-chat gets the greeting, not the model.
	if IsBareGreeting(userMessage) {
		return g.Greeting(ctx, project, language, "", userMessage)
	}
	if ShouldEscalate(userMessage, intent) {
		return Result{
			Text:      Template(TemplateUnknown, language, nil),
			Escalated: true,
		}
	}
	text, ok := g.generate(ctx, answerPrompt(project, language, userMessage, intent, history), project, "answer")
	if !ok {
		return Result{Text: Template(TemplateDataMissing, language, nil), Fallback: true}
	}
	return Result{Text: text}
}

// FollowUp writes a re-engagement message for a dormant lead.
func (g *Generator) FollowUp(ctx context.Context, project repository.Project, language classify.Language, info LeadInfo, tier string) Result {
	params := map[string]string{
		"name":        displayName(info.Name),
		"projectName": project.ProjectName,
		"unitType":    defaultString(info.UnitType, "our units"),
	}
	text, ok := g.generate(ctx, followUpPrompt(project, language, info, tier), project, "followup")
	if !ok {
		return Result{Text: Template(tierTemplate(tier), language, params), Fallback: true}
	}
	return Result{Text: text}
}

// generate runs the model and validates its output against project facts.
// Returns false whenever template fallback should be used instead.
func (g *Generator) generate(ctx context.Context, prompt string, project repository.Project, kind string) (string, bool) {
	if g.model == nil {
		return "", false
	}
	result, err := g.model.Generate(ctx, prompt, gemini.Options{})
	if err != nil {
		g.log.Error("reply_generation_failed",
			slog.String("kind", kind),
			slog.String("error", err.Error()),
		)
		return "", false
	}
	if result.SafetyBlocked {
		g.log.Warn("reply_safety_blocked", slog.String("kind", kind))
		return "", false
	}
	text := grounding.FormatForWhatsApp(result.Text)
	if text == "" {
		return "", false
	}
	if !Validate(text, project) {
		g.log.Warn("reply_validation_failed",
			slog.String("kind", kind),
			slog.String("project_id", project.ID.String()),
		)
		return "", false
	}
	return text, true
}

func stepTemplate(step Step) TemplateKey {
	switch step {
	case StepUnitType:
		return TemplateUnitTypeQuestion
	case StepTimeline:
		return TemplateTimelineQuestion
	default:
		return TemplateBudgetQuestion
	}
}

func tierTemplate(tier string) TemplateKey {
	switch strings.ToLower(tier) {
	case "hot":
		return TemplateFollowUpHot
	case "warm":
		return TemplateFollowUpWarm
	default:
		return TemplateFollowUpCold
	}
}

func displayName(name string) string {
	if name == "" {
		return "there"
	}
	return name
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
