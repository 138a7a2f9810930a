// Package conversation drives the inbound message pipeline: qualification
// flow, reply generation and lead updates.
package conversation

import (
	"regexp"
	"strconv"
	"strings"

	"estatepilot_backend/internal/leads/scoring"
)

const (
	lakh  = 100_000
	crore = 10_000_000
)

var amountPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(lakhs?|lacs?|l\b|crores?|cr\b)?`)

// budgetOptions are the numbered choices offered by the budget question.
var budgetOptions = map[string][2]int64{
	"1": {50 * lakh, 1 * crore},
	"2": {1 * crore, 2 * crore},
	"3": {2 * crore, 5 * crore},
}

// ParseBudget extracts a budget range from a free-form answer. Amounts with
// L or Cr suffixes are scaled to rupees; a single amount becomes a closed
// range. Returns false when no amount is present.
func ParseBudget(text string) (int64, int64, bool) {
	normalized := strings.ToLower(strings.TrimSpace(text))
	normalized = strings.ReplaceAll(normalized, "₹", "")
	normalized = strings.ReplaceAll(normalized, ",", "")

	if bounds, ok := budgetOptions[normalized]; ok {
		return bounds[0], bounds[1], true
	}

	// "2bhk" carries a digit but names a unit size, not money.
	normalized = unitTypePattern.ReplaceAllString(normalized, "")

	matches := amountPattern.FindAllStringSubmatch(normalized, -1)
	var amounts []int64
	var units []string
	for _, m := range matches {
		if m[1] == "" {
			continue
		}
		value, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		amounts = append(amounts, int64(value*float64(unitMultiplier(m[2], value))))
		units = append(units, m[2])
	}
	if len(amounts) == 0 {
		return 0, 0, false
	}

	// "50 to 80L": a bare first amount inherits the second amount's unit.
	if len(amounts) >= 2 && units[0] == "" && units[1] != "" {
		value, _ := strconv.ParseFloat(matches[0][1], 64)
		amounts[0] = int64(value * float64(unitMultiplier(units[1], value)))
	}

	if len(amounts) == 1 {
		return amounts[0], amounts[0], true
	}
	min, max := amounts[0], amounts[1]
	if min > max {
		min, max = max, min
	}
	return min, max, true
}

// unitMultiplier scales an amount to rupees. Bare small numbers are read as
// lakhs, the unit Indian buyers usually omit.
func unitMultiplier(unit string, value float64) int64 {
	switch {
	case strings.HasPrefix(unit, "l"):
		return lakh
	case strings.HasPrefix(unit, "c"):
		return crore
	case value < 1000:
		return lakh
	default:
		return 1
	}
}

var unitTypePattern = regexp.MustCompile(`([1-4])\s*bhk`)

// unitTypeOptions are the numbered choices offered by the unit question.
var unitTypeOptions = map[string]string{
	"1": "2BHK",
	"2": "3BHK",
	"3": "4BHK",
	"4": "PENTHOUSE",
}

// ParseUnitType extracts a unit preference. Returns "" when none is found.
func ParseUnitType(text string) string {
	normalized := strings.ToLower(strings.TrimSpace(text))

	if m := unitTypePattern.FindStringSubmatch(normalized); m != nil {
		return m[1] + "BHK"
	}
	if strings.Contains(normalized, "penthouse") {
		return "PENTHOUSE"
	}
	if strings.Contains(normalized, "villa") {
		return "VILLA"
	}
	if unit, ok := unitTypeOptions[normalized]; ok {
		return unit
	}
	return ""
}

// timelineOptions are the numbered choices offered by the timeline question.
var timelineOptions = map[string]scoring.Timeline{
	"1": scoring.TimelineImmediate,
	"2": scoring.TimelineShortTerm,
	"3": scoring.TimelineMediumTerm,
	"4": scoring.TimelineExploring,
}

var timelineKeywords = []struct {
	keywords []string
	timeline scoring.Timeline
}{
	{[]string{"immediate", "asap", "urgent", "right away", "this month", "तुरंत"}, scoring.TimelineImmediate},
	{[]string{"1-3", "1 to 3", "short", "next month", "soon", "couple of months"}, scoring.TimelineShortTerm},
	{[]string{"3-6", "3 to 6", "medium", "few months", "this year"}, scoring.TimelineMediumTerm},
	{[]string{"exploring", "just looking", "browsing", "research", "no plan", "later"}, scoring.TimelineExploring},
}

// ParseTimeline extracts a purchase horizon. Returns "" when none is found.
func ParseTimeline(text string) scoring.Timeline {
	normalized := strings.ToLower(strings.TrimSpace(text))

	if timeline, ok := timelineOptions[normalized]; ok {
		return timeline
	}
	for _, group := range timelineKeywords {
		for _, keyword := range group.keywords {
			if strings.Contains(normalized, keyword) {
				return group.timeline
			}
		}
	}
	return ""
}
