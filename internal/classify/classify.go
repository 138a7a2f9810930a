// Package classify maps raw message text to a detected language and intent.
// Detection is keyword and pattern based, deterministic, with no side effects
// and no model calls.
package classify

import (
	"regexp"
	"strings"
)

// Language is the detected conversation language.
type Language string

const (
	LanguageEnglish  Language = "en"
	LanguageHindi    Language = "hi"
	LanguageHinglish Language = "hinglish"
)

// Intent is the message-level intent tag.
type Intent string

const (
	IntentGreeting    Intent = "GREETING"
	IntentPrice       Intent = "PRICE"
	IntentLocation    Intent = "LOCATION"
	IntentAmenities   Intent = "AMENITIES"
	IntentRera        Intent = "RERA"
	IntentPossession  Intent = "POSSESSION"
	IntentPaymentPlan Intent = "PAYMENT_PLAN"
	IntentLoan        Intent = "LOAN"
	IntentSiteVisit   Intent = "SITE_VISIT"
	IntentContact     Intent = "CONTACT"
	IntentUnknown     Intent = "UNKNOWN"
)

// LeadIntent is the lead-level intent enum the scoring engine consumes.
type LeadIntent string

const (
	LeadIntentPricing     LeadIntent = "PRICING"
	LeadIntentAmenities   LeadIntent = "AMENITIES"
	LeadIntentLocation    LeadIntent = "LOCATION"
	LeadIntentRera        LeadIntent = "RERA"
	LeadIntentPossession  LeadIntent = "POSSESSION"
	LeadIntentPaymentPlan LeadIntent = "PAYMENT_PLAN"
	LeadIntentLoan        LeadIntent = "LOAN"
	LeadIntentSiteVisit   LeadIntent = "SITE_VISIT"
	LeadIntentGeneral     LeadIntent = "GENERAL"
)

var (
	hindiPattern    = regexp.MustCompile(`नमस्ते|कैसे|है|हूं|में|का|की|के|हैं|था|थी|थे`)
	hinglishPattern = regexp.MustCompile(`\b(hello|hi|hey|kaise|hai|hain|kyu|kya|mein|ke|ki|ka|please|help)\b`)

	nonWordPattern    = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// intentKeywords holds the per-intent keyword lists. Matching order is fixed
// so ties resolve deterministically.
var intentOrder = []Intent{
	IntentGreeting, IntentPrice, IntentLocation, IntentAmenities, IntentRera,
	IntentPossession, IntentPaymentPlan, IntentLoan, IntentSiteVisit, IntentContact,
}

var intentKeywords = map[Intent][]string{
	IntentGreeting:    {"hello", "hi", "hey", "नमस्ते", "हैलो"},
	IntentPrice:       {"price", "cost", "rate", "मूल्य", "कीमत", "दाम", "budget", "पैसा"},
	IntentLocation:    {"location", "address", "where", "जगह", "स्थान", "map"},
	IntentAmenities:   {"amenities", "facilities", "features", "सुविधाएं", "फीचर्स", "gym", "pool", "park"},
	IntentRera:        {"rera", "registration", "legal", "कानूनी", "अनुमति", "approval"},
	IntentPossession:  {"possession", "delivery", "ready", "मिलेगा", "हैंडओवर"},
	IntentPaymentPlan: {"payment", "installment", "plan", "भुगतान", "किस्त", "ईएमआई"},
	IntentLoan:        {"loan", "finance", "bank", "ऋण", "बैंक"},
	IntentSiteVisit:   {"visit", "site", "देखना", "मिलना", "विज़िट"},
	IntentContact:     {"contact", "call", "speak", "talk", "संपर्क", "कॉल"},
}

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "but": {}, "in": {},
	"on": {}, "at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {},
	"है": {}, "हैं": {}, "था": {}, "थी": {}, "थे": {}, "का": {}, "की": {},
	"के": {}, "को": {}, "से": {}, "में": {}, "पर": {},
}

// DetectLanguage classifies the text as Hindi, Hinglish or English.
// Hindi-script matches win over Hinglish keyword matches, which win over
// the English default.
func DetectLanguage(text string) Language {
	normalized := strings.ToLower(text)

	if hindiPattern.MatchString(normalized) {
		return LanguageHindi
	}
	if hinglishPattern.MatchString(normalized) {
		return LanguageHinglish
	}
	return LanguageEnglish
}

// Normalize lowercases, strips punctuation and collapses whitespace.
func Normalize(text string) string {
	normalized := strings.ToLower(text)
	normalized = nonWordPattern.ReplaceAllString(normalized, " ")
	normalized = whitespacePattern.ReplaceAllString(normalized, " ")
	return strings.TrimSpace(normalized)
}

// ExtractKeywords returns normalized tokens with stop words and short
// tokens dropped.
func ExtractKeywords(text string) []string {
	normalized := Normalize(text)
	if normalized == "" {
		return nil
	}

	var keywords []string
	for _, word := range strings.Split(normalized, " ") {
		if len([]rune(word)) <= 2 {
			continue
		}
		if _, skip := stopWords[word]; skip {
			continue
		}
		keywords = append(keywords, word)
	}
	return keywords
}

// DetectIntent classifies the text against the per-intent keyword lists.
// Returns IntentUnknown when nothing matches.
func DetectIntent(text string) Intent {
	keywords := ExtractKeywords(text)
	if len(keywords) == 0 {
		return IntentUnknown
	}

	for _, intent := range intentOrder {
		for _, pattern := range intentKeywords[intent] {
			for _, keyword := range keywords {
				if matchKeyword(keyword, pattern) {
					return intent
				}
			}
		}
	}
	return IntentUnknown
}

// matchKeyword compares a token against a pattern. Short patterns require
// an exact match so "hi" does not fire inside "this"; longer patterns match
// as substrings to cover plurals and inflections.
func matchKeyword(keyword, pattern string) bool {
	if len([]rune(pattern)) <= 3 {
		return keyword == pattern
	}
	return strings.Contains(keyword, pattern)
}

// MapLeadIntent folds a detected message intent into the lead-level enum.
// Greetings and unknowns map to GENERAL.
func MapLeadIntent(intent Intent) LeadIntent {
	switch intent {
	case IntentPrice:
		return LeadIntentPricing
	case IntentLocation:
		return LeadIntentLocation
	case IntentAmenities:
		return LeadIntentAmenities
	case IntentRera:
		return LeadIntentRera
	case IntentPossession:
		return LeadIntentPossession
	case IntentPaymentPlan:
		return LeadIntentPaymentPlan
	case IntentLoan:
		return LeadIntentLoan
	case IntentSiteVisit:
		return LeadIntentSiteVisit
	default:
		return LeadIntentGeneral
	}
}
