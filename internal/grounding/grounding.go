// Package grounding renders a project record into the fact sheet and the
// fixed constraint list handed to the reply generator. The rendered text is
// the only permissible grounding context; any fact not present in it must
// never appear in a generated reply.
package grounding

import (
	"fmt"
	"strconv"
	"strings"

	"estatepilot_backend/internal/classify"
	"estatepilot_backend/internal/projects/repository"
)

// BuildText renders every project field deterministically, followed by a
// language instruction. Changing any material fact changes the output.
func BuildText(project repository.Project, language classify.Language) string {
	var b strings.Builder

	b.WriteString("PROJECT INFORMATION FOR REFERENCE (USE ONLY THIS DATA):\n\n")
	fmt.Fprintf(&b, "Project Name: %s\n\n", project.ProjectName)

	b.WriteString("Location:\n")
	fmt.Fprintf(&b, "- Address: %s\n", project.Location.Address)
	fmt.Fprintf(&b, "- City: %s\n", project.Location.City)
	fmt.Fprintf(&b, "- State: %s\n", project.Location.State)
	fmt.Fprintf(&b, "- Pincode: %s\n", project.Location.Pincode)
	if project.Location.GoogleMapsLink != "" {
		fmt.Fprintf(&b, "- Google Maps: %s\n", project.Location.GoogleMapsLink)
	}

	fmt.Fprintf(&b, "\nPrice Range: %s - %s\n", FormatRupees(project.PriceMin), FormatRupees(project.PriceMax))

	b.WriteString("\nUnit Configurations Available:\n")
	for _, unit := range project.UnitConfigurations {
		fmt.Fprintf(&b, "- %s: Carpet Area %d sq.ft, Super Area %d sq.ft, Price %s - %s\n",
			unit.Type, unit.CarpetArea, unit.SuperArea,
			FormatRupees(unit.PriceMin), FormatRupees(unit.PriceMax))
	}

	b.WriteString("\nAmenities:\n")
	for _, amenity := range project.Amenities {
		fmt.Fprintf(&b, "- %s\n", amenity)
	}

	b.WriteString("\nKey Specifications:\n")
	for _, spec := range project.Specifications {
		fmt.Fprintf(&b, "- %s\n", spec)
	}

	fmt.Fprintf(&b, "\nRERA Registration Number: %s\n", project.ReraNumber)
	fmt.Fprintf(&b, "\nPossession Timeline: %s\n", project.PossessionTimeline)

	b.WriteString("\nPayment Plans:\n")
	for _, plan := range project.PaymentPlans {
		fmt.Fprintf(&b, "- %s: %s. %d%% on booking, %d%% construction linked, %d%% on possession\n",
			plan.Name, plan.Description, plan.PercentageOnBooking,
			plan.ConstructionLinkedPercentage, plan.PossessionLinkedPercentage)
	}

	b.WriteString("\nLoan Options:\n")
	for _, loan := range project.LoanOptions {
		fmt.Fprintf(&b, "- %s: %s%% interest rate, up to %d%% loan, tenure options: %s months\n",
			loan.BankName, strconv.FormatFloat(loan.InterestRate, 'f', -1, 64),
			loan.MaxLoanPercentage, joinInts(loan.TenureOptions))
	}

	b.WriteString("\nFrequently Asked Questions:\n")
	for i, faq := range project.FAQPoints {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Q: %s\nA: %s\n", faq.Question, faq.Answer)
	}

	b.WriteString("\nObjection Handling Points:\n")
	for i, obj := range project.ObjectionPoints {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Objection: %s\nResponse: %s\n", obj.Objection, obj.Response)
	}

	b.WriteString("\n")
	b.WriteString(languageInstruction(language))

	return b.String()
}

// Constraints returns the fixed rule list appended to every prompt.
func Constraints() []string {
	return []string{
		"DO NOT invent or hallucinate any information not present in the provided project data.",
		"DO NOT provide prices, amenities, or specifications that are not explicitly listed.",
		"DO NOT make promises about possession dates, offers, or discounts unless specified.",
		"DO NOT use emojis, exaggerated language, or marketing fluff.",
		`If asked about something not covered in the project data, say: "I'll connect you with our team for more information."`,
		"Keep responses concise and factual.",
		`If user asks for contact info, say: "I'll connect you with our sales team who can provide personalized assistance."`,
		`If user wants to negotiate price, say: "Our prices are as per the mentioned ranges. I can connect you with our team for detailed discussion."`,
		"ALWAYS maintain professional and helpful tone.",
	}
}

// FormatRupees renders an amount with the Indian digit grouping used
// throughout the fact sheet (₹12,34,56,789).
func FormatRupees(amount int64) string {
	return "₹" + GroupIndianDigits(amount)
}

// GroupIndianDigits applies en-IN grouping: the last three digits form one
// group, every preceding pair forms another.
func GroupIndianDigits(amount int64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	if len(digits) > 3 {
		head := digits[:len(digits)-3]
		tail := digits[len(digits)-3:]

		var groups []string
		for len(head) > 2 {
			groups = append([]string{head[len(head)-2:]}, groups...)
			head = head[:len(head)-2]
		}
		if head != "" {
			groups = append([]string{head}, groups...)
		}
		digits = strings.Join(groups, ",") + "," + tail
	}

	if negative {
		return "-" + digits
	}
	return digits
}

func languageInstruction(language classify.Language) string {
	switch language {
	case classify.LanguageHindi:
		return "IMPORTANT: Respond in Hindi only. Use formal Hindi language. Do not mix English."
	case classify.LanguageHinglish:
		return "IMPORTANT: Respond in Hinglish (Hindi-English mix). Use simple words that are commonly understood."
	default:
		return "IMPORTANT: Respond in English only. Use professional, concise language."
	}
}

// FormatForWhatsApp tidies generated text before delivery.
func FormatForWhatsApp(text string) string {
	text = strings.TrimSpace(text)
	for strings.Contains(text, "\n\n\n") {
		text = strings.ReplaceAll(text, "\n\n\n", "\n\n")
	}
	return text
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}
