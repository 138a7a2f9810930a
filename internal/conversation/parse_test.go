package conversation

import (
	"testing"

	"estatepilot_backend/internal/leads/scoring"
)

func TestParseBudgetRanges(t *testing.T) {
	cases := []struct {
		text     string
		min, max int64
		ok       bool
	}{
		{"50L to 80L", 5000000, 8000000, true},
		{"50 to 80L", 5000000, 8000000, true},
		{"around 60 lakhs", 6000000, 6000000, true},
		{"1.5 cr", 15000000, 15000000, true},
		{"1Cr - 2Cr", 10000000, 20000000, true},
		{"₹50,00,000", 5000000, 5000000, true},
		{"80L to 50L", 5000000, 8000000, true},
		{"1", 5000000, 10000000, true},
		{"2", 10000000, 20000000, true},
		{"3", 20000000, 50000000, true},
		{"no idea yet", 0, 0, false},
		{"2bhk", 0, 0, false},
		{"maybe a 3 bhk", 0, 0, false},
		{"50L for a 3bhk", 5000000, 5000000, true},
	}
	for _, tc := range cases {
		min, max, ok := ParseBudget(tc.text)
		if ok != tc.ok || min != tc.min || max != tc.max {
			t.Fatalf("ParseBudget(%q) = (%d, %d, %v), want (%d, %d, %v)", tc.text, min, max, ok, tc.min, tc.max, tc.ok)
		}
	}
}

func TestParseUnitType(t *testing.T) {
	cases := map[string]string{
		"3bhk":                    "3BHK",
		"Looking for a 2 BHK":     "2BHK",
		"penthouse please":        "PENTHOUSE",
		"a villa would be great":  "VILLA",
		"4":                       "PENTHOUSE",
		"1":                       "2BHK",
		"something with a view":   "",
	}
	for text, want := range cases {
		if got := ParseUnitType(text); got != want {
			t.Fatalf("ParseUnitType(%q) = %q, want %q", text, got, want)
		}
	}
}

func TestParseTimeline(t *testing.T) {
	cases := map[string]scoring.Timeline{
		"immediate":               scoring.TimelineImmediate,
		"need it ASAP":            scoring.TimelineImmediate,
		"in 1-3 months":           scoring.TimelineShortTerm,
		"maybe in a few months":   scoring.TimelineMediumTerm,
		"just exploring options":  scoring.TimelineExploring,
		"2":                       scoring.TimelineShortTerm,
		"4":                       scoring.TimelineExploring,
		"whenever":                "",
	}
	for text, want := range cases {
		if got := ParseTimeline(text); got != want {
			t.Fatalf("ParseTimeline(%q) = %q, want %q", text, got, want)
		}
	}
}

func TestBudgetStepReadsUnitAnswerAsUnit(t *testing.T) {
	update := parseAnswer("budget", "2bhk")
	if update.BudgetMin != nil {
		t.Fatalf("budget captured from a unit answer: %d", *update.BudgetMin)
	}
	if update.UnitType == nil || *update.UnitType != "2BHK" {
		t.Fatalf("unit type not captured: %+v", update.UnitType)
	}
}

func TestLooksLikeBudget(t *testing.T) {
	positives := []string{"₹50 lakh", "my budget is 80l", "around 1.2 cr"}
	for _, text := range positives {
		if !looksLikeBudget(text) {
			t.Fatalf("expected %q to look like a budget", text)
		}
	}
	negatives := []string{"3bhk please", "call me at 9876543210", "what is the price"}
	for _, text := range negatives {
		if looksLikeBudget(text) {
			t.Fatalf("expected %q to not look like a budget", text)
		}
	}
}
