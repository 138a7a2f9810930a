package reply

import (
	"context"
	"errors"
	"strings"
	"testing"

	"estatepilot_backend/internal/classify"
	"estatepilot_backend/platform/ai/gemini"
	"estatepilot_backend/platform/logger"
)

type fakeModel struct {
	text    string
	blocked bool
	err     error
	prompts []string
}

func (f *fakeModel) Generate(ctx context.Context, prompt string, opts gemini.Options) (gemini.Result, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return gemini.Result{}, f.err
	}
	return gemini.Result{Text: f.text, SafetyBlocked: f.blocked}, nil
}

func newTestGenerator(model gemini.Generator) *Generator {
	return NewGenerator(model, logger.New("test"))
}

func TestGreetingBareSalutationSkipsModel(t *testing.T) {
	model := &fakeModel{text: "should not be used"}
	gen := newTestGenerator(model)

	for _, msg := range []string{"hi", "Hello", "  hey  ", "नमस्ते"} {
		result := gen.Greeting(context.Background(), testProject(), classify.LanguageEnglish, "Rahul", msg)
		if !result.Fallback {
			t.Fatalf("expected template reply for %q", msg)
		}
		if !strings.Contains(result.Text, "Green Valley Heights") {
			t.Fatalf("expected project name in greeting, got %q", result.Text)
		}
	}
	if len(model.prompts) != 0 {
		t.Fatalf("model should not be called for bare greetings, got %d calls", len(model.prompts))
	}
}

func TestGreetingUsesModelOutput(t *testing.T) {
	model := &fakeModel{text: "Hello! Welcome to Green Valley Heights, how can I help?"}
	gen := newTestGenerator(model)

	result := gen.Greeting(context.Background(), testProject(), classify.LanguageEnglish, "", "hi, tell me about the project")
	if result.Fallback {
		t.Fatalf("expected model reply, got fallback %q", result.Text)
	}
	if result.Text != model.text {
		t.Fatalf("got %q", result.Text)
	}
}

func TestAnswerBareGreetingReturnsGreeting(t *testing.T) {
	model := &fakeModel{text: "should not be used"}
	gen := newTestGenerator(model)

	result := gen.Answer(context.Background(), testProject(), classify.LanguageEnglish, "hi", classify.LeadIntentGeneral, nil)
	if !result.Fallback {
		t.Fatalf("expected greeting template for bare salutation, got %q", result.Text)
	}
	if !strings.Contains(result.Text, "Green Valley Heights") {
		t.Fatalf("expected project name in greeting, got %q", result.Text)
	}
	if len(model.prompts) != 0 {
		t.Fatalf("model should not run for a bare greeting, got %d calls", len(model.prompts))
	}
}

func TestAnswerEscalatesOnKeyword(t *testing.T) {
	model := &fakeModel{text: "some answer"}
	gen := newTestGenerator(model)

	result := gen.Answer(context.Background(), testProject(), classify.LanguageEnglish, "Can I get a discount on the 3BHK?", classify.LeadIntentPricing, nil)
	if !result.Escalated {
		t.Fatalf("expected escalation for negotiation keyword")
	}
	if len(model.prompts) != 0 {
		t.Fatalf("model should not run for escalated messages")
	}
}

func TestAnswerEscalatesOnLongGeneralMessage(t *testing.T) {
	gen := newTestGenerator(&fakeModel{text: "ok"})
	msg := "I have been thinking about moving my whole family somewhere new for quite a while now honestly"
	result := gen.Answer(context.Background(), testProject(), classify.LanguageEnglish, msg, classify.LeadIntentGeneral, nil)
	if !result.Escalated {
		t.Fatalf("expected long general message to escalate")
	}
}

func TestAnswerFallsBackOnModelError(t *testing.T) {
	gen := newTestGenerator(&fakeModel{err: errors.New("upstream timeout")})
	result := gen.Answer(context.Background(), testProject(), classify.LanguageEnglish, "What is the price?", classify.LeadIntentPricing, nil)
	if !result.Fallback {
		t.Fatalf("expected fallback on model error")
	}
	if result.Text == "" {
		t.Fatalf("fallback text must not be empty")
	}
}

func TestAnswerFallsBackOnSafetyBlock(t *testing.T) {
	gen := newTestGenerator(&fakeModel{blocked: true})
	result := gen.Answer(context.Background(), testProject(), classify.LanguageEnglish, "What is the price?", classify.LeadIntentPricing, nil)
	if !result.Fallback {
		t.Fatalf("expected fallback when model output is safety blocked")
	}
}

func TestAnswerFallsBackOnHallucinatedPrice(t *testing.T) {
	gen := newTestGenerator(&fakeModel{text: "Units start at just ₹20,00,000!"})
	result := gen.Answer(context.Background(), testProject(), classify.LanguageEnglish, "What is the price?", classify.LeadIntentPricing, nil)
	if !result.Fallback {
		t.Fatalf("expected hallucinated price to be replaced with fallback")
	}
	if strings.Contains(result.Text, "₹20,00,000") {
		t.Fatalf("hallucinated price leaked into reply: %q", result.Text)
	}
}

func TestAnswerWithNilModelFallsBack(t *testing.T) {
	gen := NewGenerator(nil, logger.New("test"))
	result := gen.Answer(context.Background(), testProject(), classify.LanguageHindi, "कीमत क्या है", classify.LeadIntentPricing, nil)
	if !result.Fallback {
		t.Fatalf("expected fallback when no model is configured")
	}
}

func TestQualificationQuestionFallbackPerStep(t *testing.T) {
	gen := newTestGenerator(&fakeModel{err: errors.New("down")})

	budget := gen.QualificationQuestion(context.Background(), testProject(), classify.LanguageEnglish, StepBudget, nil)
	if !strings.Contains(budget.Text, "budget") {
		t.Fatalf("expected budget question, got %q", budget.Text)
	}
	unit := gen.QualificationQuestion(context.Background(), testProject(), classify.LanguageEnglish, StepUnitType, nil)
	if !strings.Contains(unit.Text, "unit") {
		t.Fatalf("expected unit type question, got %q", unit.Text)
	}
	timeline := gen.QualificationQuestion(context.Background(), testProject(), classify.LanguageEnglish, StepTimeline, nil)
	if !strings.Contains(timeline.Text, "timeline") {
		t.Fatalf("expected timeline question, got %q", timeline.Text)
	}
}

func TestFollowUpFallbackSubstitutesLeadInfo(t *testing.T) {
	gen := newTestGenerator(&fakeModel{err: errors.New("down")})
	result := gen.FollowUp(context.Background(), testProject(), classify.LanguageEnglish, LeadInfo{Name: "Priya", UnitType: "3BHK"}, "hot")
	if !result.Fallback {
		t.Fatalf("expected fallback follow-up")
	}
	if !strings.Contains(result.Text, "Priya") || !strings.Contains(result.Text, "3BHK") {
		t.Fatalf("expected lead details in follow-up, got %q", result.Text)
	}
}

func TestShouldEscalate(t *testing.T) {
	cases := []struct {
		message string
		intent  classify.LeadIntent
		want    bool
	}{
		{"I want to visit the site", classify.LeadIntentSiteVisit, true},
		{"can we negotiate the price", classify.LeadIntentPricing, true},
		{"मुझे आपसे बात करनी है", classify.LeadIntentGeneral, true},
		{"What is the price of 2BHK?", classify.LeadIntentPricing, false},
		{"ok", classify.LeadIntentGeneral, false},
	}
	for _, tc := range cases {
		if got := ShouldEscalate(tc.message, tc.intent); got != tc.want {
			t.Fatalf("ShouldEscalate(%q, %s) = %v, want %v", tc.message, tc.intent, got, tc.want)
		}
	}
}
