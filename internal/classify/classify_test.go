package classify

import "testing"

func TestDetectLanguageHindiWinsOverHinglish(t *testing.T) {
	// Contains both a Devanagari pattern and Hinglish keywords.
	got := DetectLanguage("नमस्ते, price kya hai?")
	if got != LanguageHindi {
		t.Fatalf("expected hi, got %s", got)
	}
}

func TestDetectLanguageHinglishWinsOverEnglish(t *testing.T) {
	got := DetectLanguage("price kya hoga for 2bhk")
	if got != LanguageHinglish {
		t.Fatalf("expected hinglish, got %s", got)
	}
}

func TestDetectLanguageDefaultsToEnglish(t *testing.T) {
	got := DetectLanguage("What is the possession timeline?")
	if got != LanguageEnglish {
		t.Fatalf("expected en, got %s", got)
	}
}

func TestDetectIntent(t *testing.T) {
	tests := []struct {
		text string
		want Intent
	}{
		{"What is the price of a 3BHK?", IntentPrice},
		{"Where is the project located?", IntentLocation},
		{"Does it have a swimming pool?", IntentAmenities},
		{"Is the project RERA registered?", IntentRera},
		{"When is possession expected?", IntentPossession},
		{"Tell me about the payment options", IntentPaymentPlan},
		{"Can I get a home loan through you?", IntentLoan},
		{"I want to visit the site this weekend", IntentSiteVisit},
		{"random gibberish xyzzy", IntentUnknown},
		{"", IntentUnknown},
	}

	for _, tt := range tests {
		if got := DetectIntent(tt.text); got != tt.want {
			t.Errorf("DetectIntent(%q) = %s, want %s", tt.text, got, tt.want)
		}
	}
}

func TestDetectIntentIsDeterministic(t *testing.T) {
	text := "price and location please"
	first := DetectIntent(text)
	for i := 0; i < 10; i++ {
		if got := DetectIntent(text); got != first {
			t.Fatalf("intent detection not deterministic: %s vs %s", got, first)
		}
	}
}

func TestMapLeadIntent(t *testing.T) {
	tests := []struct {
		in   Intent
		want LeadIntent
	}{
		{IntentPrice, LeadIntentPricing},
		{IntentAmenities, LeadIntentAmenities},
		{IntentSiteVisit, LeadIntentSiteVisit},
		{IntentGreeting, LeadIntentGeneral},
		{IntentUnknown, LeadIntentGeneral},
		{IntentContact, LeadIntentGeneral},
	}

	for _, tt := range tests {
		if got := MapLeadIntent(tt.in); got != tt.want {
			t.Errorf("MapLeadIntent(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestExtractKeywordsDropsStopWords(t *testing.T) {
	keywords := ExtractKeywords("What is the price of the unit?")
	for _, kw := range keywords {
		if kw == "the" || kw == "of" {
			t.Fatalf("stop word %q survived extraction", kw)
		}
	}
}
