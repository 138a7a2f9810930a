package reply

import (
	"fmt"
	"strings"

	"estatepilot_backend/internal/classify"
	"estatepilot_backend/internal/grounding"
	"estatepilot_backend/internal/projects/repository"
)

// Step is a qualification step identifier. Steps are collected in fixed
// order budget, unit type, timeline before open Q&A begins.
type Step string

const (
	StepBudget   Step = "budget"
	StepUnitType Step = "unit_type"
	StepTimeline Step = "timeline"
)

// Turn is one prior conversation exchange included in the prompt.
type Turn struct {
	Role string
	Text string
}

func greetingPrompt(project repository.Project, language classify.Language, userName string) string {
	greeting := "Hello! Welcome to " + project.ProjectName + "."
	if userName != "" {
		greeting = "Hello " + userName + "! Welcome to " + project.ProjectName + "."
	}

	var b strings.Builder
	b.WriteString(grounding.BuildText(project, language))
	b.WriteString("\n\n")
	b.WriteString(strings.Join(grounding.Constraints(), "\n"))
	fmt.Fprintf(&b, "\n\nUSER MESSAGE: %q\n\n", greeting)
	b.WriteString("RESPONSE GUIDELINES:\n")
	fmt.Fprintf(&b, "1. Greet the user warmly\n2. Introduce yourself as the AI assistant for %s\n", project.ProjectName)
	b.WriteString("3. Ask how you can help them today\n4. Keep it under 2 sentences\n\nYOUR RESPONSE:")
	return b.String()
}

func qualificationPrompt(project repository.Project, language classify.Language, step Step, previous map[string]string) string {
	var guidance string
	switch step {
	case StepBudget:
		guidance = "Ask about their budget range in a polite way. Mention our price ranges if relevant."
	case StepUnitType:
		guidance = "Ask about their preferred unit type. Mention available unit configurations."
	case StepTimeline:
		guidance = "Ask about their purchase timeline politely."
	}

	contextLines := "First qualification question."
	if len(previous) > 0 {
		var lines []string
		for key, value := range previous {
			lines = append(lines, key+": "+value)
		}
		contextLines = strings.Join(lines, "\n")
	}

	var b strings.Builder
	b.WriteString(grounding.BuildText(project, language))
	b.WriteString("\n\n")
	b.WriteString(strings.Join(grounding.Constraints(), "\n"))
	fmt.Fprintf(&b, "\n\nCONVERSATION CONTEXT:\n%s\n\n", contextLines)
	fmt.Fprintf(&b, "YOUR TASK: Ask the next qualification question about %s.\n\n", step)
	fmt.Fprintf(&b, "GUIDANCE: %s\n", guidance)
	b.WriteString("Do NOT answer their question yet. Just ask the qualification question.\n\n")
	b.WriteString("YOUR RESPONSE (just the question, be polite and concise):")
	return b.String()
}

func answerPrompt(project repository.Project, language classify.Language, userMessage string, intent classify.LeadIntent, history []Turn) string {
	var intentGuidance string
	switch intent {
	case classify.LeadIntentPricing:
		intentGuidance = "Provide accurate pricing information from project data. Do not speculate."
	case classify.LeadIntentLocation:
		intentGuidance = "Provide location details exactly as in project data."
	case classify.LeadIntentAmenities:
		intentGuidance = "List amenities exactly as in project data. Do not add any."
	case classify.LeadIntentRera:
		intentGuidance = "Provide RERA number exactly as in project data."
	case classify.LeadIntentPossession:
		intentGuidance = "Provide possession timeline exactly as in project data."
	case classify.LeadIntentPaymentPlan:
		intentGuidance = "Explain payment plans exactly as in project data."
	case classify.LeadIntentLoan:
		intentGuidance = "Explain loan options exactly as in project data."
	default:
		intentGuidance = "Provide helpful, factual information based on project data."
	}

	historyText := "No recent conversation history."
	if len(history) > 0 {
		recent := history
		if len(recent) > 3 {
			recent = recent[len(recent)-3:]
		}
		var lines []string
		for _, turn := range recent {
			lines = append(lines, turn.Role+": "+turn.Text)
		}
		historyText = "Recent Conversation:\n" + strings.Join(lines, "\n")
	}

	var b strings.Builder
	b.WriteString(grounding.BuildText(project, language))
	b.WriteString("\n\n")
	b.WriteString(strings.Join(grounding.Constraints(), "\n"))
	fmt.Fprintf(&b, "\n\nCONVERSATION HISTORY:\n%s\n\n", historyText)
	fmt.Fprintf(&b, "DETECTED INTENT: %s\nGUIDANCE: %s\n\n", intent, intentGuidance)
	fmt.Fprintf(&b, "USER MESSAGE: %q\n\n", userMessage)
	b.WriteString("YOUR TASK: Respond to the user's query based ONLY on the project data above.\n")
	b.WriteString("If information is not available in project data, say you'll connect them with the team.\n")
	b.WriteString("Keep response concise and helpful.\n\nYOUR RESPONSE:")
	return b.String()
}

// LeadInfo carries the lead attributes a follow-up prompt personalizes with.
type LeadInfo struct {
	Name       string
	UnitType   string
	LastIntent classify.LeadIntent
}

func followUpPrompt(project repository.Project, language classify.Language, info LeadInfo, tier string) string {
	var guidance string
	switch strings.ToLower(tier) {
	case "hot":
		guidance = "Send a quick followup to check if they have questions. Offer to connect with sales team."
	case "warm":
		guidance = "Send a gentle followup, share any updates if available."
	default:
		guidance = "Send a polite check-in, ask if they need more information."
	}

	unitType := info.UnitType
	if unitType == "" {
		unitType = "available units"
	}
	lastIntent := string(info.LastIntent)
	if lastIntent == "" {
		lastIntent = "General inquiry"
	}

	var b strings.Builder
	b.WriteString(grounding.BuildText(project, language))
	b.WriteString("\n\n")
	b.WriteString(strings.Join(grounding.Constraints(), "\n"))
	fmt.Fprintf(&b, "\n\nFOLLOWUP GUIDANCE: %s\n\n", guidance)
	b.WriteString("LEAD INFORMATION:\n")
	fmt.Fprintf(&b, "- Name: %s\n- Interested in: %s\n- Last inquiry: %s\n\n", info.Name, unitType, lastIntent)
	b.WriteString("YOUR TASK: Write a followup message for this lead.\n")
	b.WriteString("Message should be personalized if name is available.\n")
	b.WriteString("Mention the project name.\n")
	b.WriteString("Do not sound pushy or salesy.\n")
	b.WriteString("Keep it under 2 sentences.\n\nYOUR FOLLOWUP MESSAGE:")
	return b.String()
}
