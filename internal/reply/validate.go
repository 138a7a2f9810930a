package reply

import (
	"regexp"
	"strings"

	"estatepilot_backend/internal/projects/repository"
)

var (
	pricePattern    = regexp.MustCompile(`₹\s*[\d,]+`)
	nonDigitPattern = regexp.MustCompile(`[^\d]`)
)

// commonAmenities are amenity words a model tends to invent when a project
// lacks them. Mentions of any of these must be backed by project data.
var commonAmenities = []string{"gym", "pool", "park", "garden", "club", "security", "lift"}

var marketingPatterns = []string{
	"special offer",
	"limited time",
	"discount",
	"deal",
	"exclusive",
	"promise",
	"guarantee",
	"assure",
	"definitely",
	"certainly",
}

// Validate reports whether a generated reply stays inside the project's
// declared facts. A false result means the reply must not be sent.
func Validate(reply string, project repository.Project) bool {
	if !validatePrices(reply, project) {
		return false
	}
	if !validateAmenities(reply, project) {
		return false
	}
	return validateMarketing(reply, project)
}

// validatePrices checks every rupee amount in the reply against the
// project's declared price values.
func validatePrices(reply string, project repository.Project) bool {
	for _, match := range pricePattern.FindAllString(reply, -1) {
		digits := nonDigitPattern.ReplaceAllString(match, "")
		if digits == "" {
			continue
		}
		amount, ok := parseDigits(digits)
		if !ok {
			return false
		}
		if priceDeclared(amount, project) {
			continue
		}
		return false
	}
	return true
}

// priceDeclared reports whether the amount equals one of the price bounds the
// project actually declares. An in-band figure that matches no declared value
// is still an invention.
func priceDeclared(amount int64, project repository.Project) bool {
	if amount == project.PriceMin || amount == project.PriceMax {
		return true
	}
	for _, unit := range project.UnitConfigurations {
		if amount == unit.PriceMin || amount == unit.PriceMax {
			return true
		}
	}
	return false
}

func validateAmenities(reply string, project repository.Project) bool {
	lowerReply := strings.ToLower(reply)
	for _, amenity := range commonAmenities {
		if !strings.Contains(lowerReply, amenity) {
			continue
		}
		if !amenityDeclared(amenity, project) {
			return false
		}
	}
	return true
}

func amenityDeclared(amenity string, project repository.Project) bool {
	for _, declared := range project.Amenities {
		if strings.Contains(strings.ToLower(declared), amenity) {
			return true
		}
	}
	return false
}

func validateMarketing(reply string, project repository.Project) bool {
	lowerReply := strings.ToLower(reply)
	for _, pattern := range marketingPatterns {
		if !strings.Contains(lowerReply, pattern) {
			continue
		}
		if !inProjectData(pattern, project) {
			return false
		}
	}
	return true
}

// inProjectData allows a marketing phrase only when the project's own data
// literally contains it, for example a payment plan named "Festive Deal".
func inProjectData(phrase string, project repository.Project) bool {
	fields := []string{project.ProjectName}
	for _, plan := range project.PaymentPlans {
		fields = append(fields, plan.Name, plan.Description)
	}
	for _, faq := range project.FAQPoints {
		fields = append(fields, faq.Question, faq.Answer)
	}
	for _, objection := range project.ObjectionPoints {
		fields = append(fields, objection.Objection, objection.Response)
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), phrase) {
			return true
		}
	}
	return false
}

func parseDigits(s string) (int64, bool) {
	var n int64
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		if n > (int64(1)<<62)/10 {
			return 0, false
		}
		n = n*10 + int64(r-'0')
	}
	return n, true
}
