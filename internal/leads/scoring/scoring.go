// Package scoring computes lead quality scores and temperature tiers from
// the attributes collected during qualification.
package scoring

// Status is the temperature tier of a lead. HOT, WARM and COLD are derived
// from the score; CONVERTED and LOST are terminal states set manually and
// never overwritten by recomputation.
type Status string

const (
	StatusHot       Status = "HOT"
	StatusWarm      Status = "WARM"
	StatusCold      Status = "COLD"
	StatusConverted Status = "CONVERTED"
	StatusLost      Status = "LOST"
)

// Timeline is a lead's stated purchase horizon.
type Timeline string

const (
	TimelineImmediate  Timeline = "immediate"
	TimelineShortTerm  Timeline = "short_term"
	TimelineMediumTerm Timeline = "medium_term"
	TimelineExploring  Timeline = "exploring"
)

const (
	maxScore      = 10
	hotThreshold  = 8
	warmThreshold = 4
)

// Attributes are the scoring inputs collected from a conversation.
type Attributes struct {
	BudgetMin int64
	BudgetMax int64
	UnitType  string
	Timeline  Timeline
	// EngagedIntent is set when the lead asked about anything beyond a
	// general inquiry.
	EngagedIntent bool
}

// Compute returns the score and derived tier for the given attributes.
// Scores are clamped to maxScore.
func Compute(attrs Attributes) (int, Status) {
	score := 0
	if attrs.BudgetMin > 0 && attrs.BudgetMax > 0 {
		score += 3
	}
	if attrs.UnitType != "" {
		score += 2
	}
	switch attrs.Timeline {
	case TimelineImmediate:
		score += 3
	case TimelineShortTerm:
		score += 2
	case TimelineMediumTerm:
		score += 1
	}
	if attrs.EngagedIntent {
		score++
	}
	if score > maxScore {
		score = maxScore
	}
	return score, TierForScore(score)
}

// TierForScore maps a score to a temperature tier.
func TierForScore(score int) Status {
	switch {
	case score >= hotThreshold:
		return StatusHot
	case score >= warmThreshold:
		return StatusWarm
	default:
		return StatusCold
	}
}

// Terminal reports whether a status must be preserved across recomputes.
func Terminal(status Status) bool {
	return status == StatusConverted || status == StatusLost
}

// Next returns the status a lead should hold after recomputation. Terminal
// statuses are sticky.
func Next(current Status, score int) Status {
	if Terminal(current) {
		return current
	}
	return TierForScore(score)
}

// ValidStatus reports whether s is a recognized lead status.
func ValidStatus(s Status) bool {
	switch s {
	case StatusHot, StatusWarm, StatusCold, StatusConverted, StatusLost:
		return true
	}
	return false
}

// ValidTimeline reports whether t is a recognized purchase timeline.
func ValidTimeline(t Timeline) bool {
	switch t {
	case TimelineImmediate, TimelineShortTerm, TimelineMediumTerm, TimelineExploring:
		return true
	}
	return false
}
