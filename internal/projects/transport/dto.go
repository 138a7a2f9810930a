// Package transport defines request shapes for the projects API.
package transport

import (
	"estatepilot_backend/internal/projects/repository"
)

// CreateProjectRequest creates a catalog entry.
type CreateProjectRequest struct {
	ProjectName        string                           `json:"projectName" validate:"required,min=1,max=200"`
	Location           repository.Location              `json:"location"`
	PriceMin           int64                            `json:"priceMin" validate:"gte=0"`
	PriceMax           int64                            `json:"priceMax" validate:"gte=0"`
	UnitConfigurations []repository.UnitConfiguration   `json:"unitConfigurations"`
	Amenities          []string                         `json:"amenities"`
	Specifications     []string                         `json:"specifications"`
	ReraNumber         string                           `json:"reraNumber"`
	PossessionTimeline string                           `json:"possessionTimeline"`
	PaymentPlans       []repository.PaymentPlan         `json:"paymentPlans"`
	LoanOptions        []repository.LoanOption          `json:"loanOptions"`
	FAQPoints          []repository.FAQPoint            `json:"faqPoints"`
	ObjectionPoints    []repository.ObjectionPoint      `json:"objectionPoints"`
}

// UpdateProjectRequest edits a catalog entry. Absent fields are untouched.
type UpdateProjectRequest struct {
	ProjectName        *string                          `json:"projectName" validate:"omitempty,min=1,max=200"`
	Location           *repository.Location             `json:"location"`
	PriceMin           *int64                           `json:"priceMin" validate:"omitempty,gte=0"`
	PriceMax           *int64                           `json:"priceMax" validate:"omitempty,gte=0"`
	UnitConfigurations *[]repository.UnitConfiguration  `json:"unitConfigurations"`
	Amenities          *[]string                        `json:"amenities"`
	Specifications     *[]string                        `json:"specifications"`
	ReraNumber         *string                          `json:"reraNumber"`
	PossessionTimeline *string                          `json:"possessionTimeline"`
	PaymentPlans       *[]repository.PaymentPlan        `json:"paymentPlans"`
	LoanOptions        *[]repository.LoanOption         `json:"loanOptions"`
	FAQPoints          *[]repository.FAQPoint           `json:"faqPoints"`
	ObjectionPoints    *[]repository.ObjectionPoint     `json:"objectionPoints"`
}

// SetActiveRequest toggles a project's availability to the assistant.
type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}
