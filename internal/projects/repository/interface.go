package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Location is the project's address block, stored as JSONB.
type Location struct {
	Address        string `json:"address"`
	City           string `json:"city"`
	State          string `json:"state"`
	Pincode        string `json:"pincode"`
	GoogleMapsLink string `json:"googleMapsLink,omitempty"`
}

// UnitConfiguration describes one sellable unit type with its price sub-range.
type UnitConfiguration struct {
	Type       string `json:"type"`
	CarpetArea int    `json:"carpetArea"`
	SuperArea  int    `json:"superArea"`
	PriceMin   int64  `json:"priceMin"`
	PriceMax   int64  `json:"priceMax"`
}

// PaymentPlan describes a payment schedule option.
type PaymentPlan struct {
	Name                         string `json:"name"`
	Description                  string `json:"description"`
	PercentageOnBooking          int    `json:"percentageOnBooking"`
	ConstructionLinkedPercentage int    `json:"constructionLinkedPercentage"`
	PossessionLinkedPercentage   int    `json:"possessionLinkedPercentage"`
}

// LoanOption describes a partner bank's financing terms.
type LoanOption struct {
	BankName          string  `json:"bankName"`
	InterestRate      float64 `json:"interestRate"`
	MaxLoanPercentage int     `json:"maxLoanPercentage"`
	TenureOptions     []int   `json:"tenureOptions"`
}

// FAQPoint is a canned question/answer pair.
type FAQPoint struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ObjectionPoint is a known objection with its approved response.
type ObjectionPoint struct {
	Objection string `json:"objection"`
	Response  string `json:"response"`
}

// Project is the grounding source record. Every generated reply must be
// supported by facts present here.
type Project struct {
	ID                 uuid.UUID           `json:"id"`
	BuilderID          uuid.UUID           `json:"builderId"`
	ProjectName        string              `json:"projectName"`
	Location           Location            `json:"location"`
	PriceMin           int64               `json:"priceMin"`
	PriceMax           int64               `json:"priceMax"`
	UnitConfigurations []UnitConfiguration `json:"unitConfigurations"`
	Amenities          []string            `json:"amenities"`
	Specifications     []string            `json:"specifications"`
	ReraNumber         string              `json:"reraNumber"`
	PossessionTimeline string              `json:"possessionTimeline"`
	PaymentPlans       []PaymentPlan       `json:"paymentPlans"`
	LoanOptions        []LoanOption        `json:"loanOptions"`
	FAQPoints          []FAQPoint          `json:"faqPoints"`
	ObjectionPoints    []ObjectionPoint    `json:"objectionPoints"`
	IsActive           bool                `json:"isActive"`
	CreatedAt          time.Time           `json:"createdAt"`
	UpdatedAt          time.Time           `json:"updatedAt"`
}

// CreateParams contains the fields for creating a project.
type CreateParams struct {
	BuilderID          uuid.UUID
	ProjectName        string
	Location           Location
	PriceMin           int64
	PriceMax           int64
	UnitConfigurations []UnitConfiguration
	Amenities          []string
	Specifications     []string
	ReraNumber         string
	PossessionTimeline string
	PaymentPlans       []PaymentPlan
	LoanOptions        []LoanOption
	FAQPoints          []FAQPoint
	ObjectionPoints    []ObjectionPoint
}

// UpdateParams contains the mutable fields for updating a project.
// Nil pointers leave the column untouched.
type UpdateParams struct {
	ProjectName        *string
	Location           *Location
	PriceMin           *int64
	PriceMax           *int64
	UnitConfigurations *[]UnitConfiguration
	Amenities          *[]string
	Specifications     *[]string
	ReraNumber         *string
	PossessionTimeline *string
	PaymentPlans       *[]PaymentPlan
	LoanOptions        *[]LoanOption
	FAQPoints          *[]FAQPoint
	ObjectionPoints    *[]ObjectionPoint
}

// Reader provides read operations for projects.
type Reader interface {
	GetByID(ctx context.Context, builderID, id uuid.UUID) (Project, error)
	ListByBuilder(ctx context.Context, builderID uuid.UUID) ([]Project, error)
	// ActiveForBuilder returns the builder's first active project, the
	// grounding source for conversations.
	ActiveForBuilder(ctx context.Context, builderID uuid.UUID) (Project, error)
}

// Writer provides write operations for projects.
type Writer interface {
	Create(ctx context.Context, params CreateParams) (Project, error)
	Update(ctx context.Context, builderID, id uuid.UUID, params UpdateParams) (Project, error)
	SetActive(ctx context.Context, builderID, id uuid.UUID, active bool) error
	Delete(ctx context.Context, builderID, id uuid.UUID) error
}

// Repository combines all project repository operations.
type Repository interface {
	Reader
	Writer
}
