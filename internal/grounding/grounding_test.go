package grounding

import (
	"strings"
	"testing"

	"estatepilot_backend/internal/classify"
	"estatepilot_backend/internal/projects/repository"
)

func sampleProject() repository.Project {
	return repository.Project{
		ProjectName: "Green Valley Heights",
		Location: repository.Location{
			Address: "12 Hill Road",
			City:    "Pune",
			State:   "Maharashtra",
			Pincode: "411001",
		},
		PriceMin: 5000000,
		PriceMax: 9000000,
		UnitConfigurations: []repository.UnitConfiguration{
			{Type: "2BHK", CarpetArea: 850, SuperArea: 1100, PriceMin: 5000000, PriceMax: 6500000},
			{Type: "3BHK", CarpetArea: 1200, SuperArea: 1550, PriceMin: 7000000, PriceMax: 9000000},
		},
		Amenities:          []string{"Gym", "Swimming Pool", "Clubhouse"},
		Specifications:     []string{"Vitrified tiles", "Modular kitchen"},
		ReraNumber:         "P52100012345",
		PossessionTimeline: "December 2026",
		PaymentPlans: []repository.PaymentPlan{
			{Name: "CLP", Description: "Construction linked plan", PercentageOnBooking: 10, ConstructionLinkedPercentage: 80, PossessionLinkedPercentage: 10},
		},
		LoanOptions: []repository.LoanOption{
			{BankName: "HDFC", InterestRate: 8.5, MaxLoanPercentage: 80, TenureOptions: []int{120, 240}},
		},
		FAQPoints: []repository.FAQPoint{
			{Question: "Is parking included?", Answer: "Yes, one covered slot per unit."},
		},
		ObjectionPoints: []repository.ObjectionPoint{
			{Objection: "Price is high", Response: "Pricing reflects the location and specifications."},
		},
	}
}

func TestBuildTextContainsEveryField(t *testing.T) {
	text := BuildText(sampleProject(), classify.LanguageEnglish)

	wantFragments := []string{
		"Green Valley Heights",
		"12 Hill Road",
		"Pune",
		"₹50,00,000",
		"₹90,00,000",
		"2BHK",
		"3BHK",
		"Gym",
		"Swimming Pool",
		"Vitrified tiles",
		"P52100012345",
		"December 2026",
		"CLP",
		"HDFC",
		"Is parking included?",
		"Price is high",
	}
	for _, fragment := range wantFragments {
		if !strings.Contains(text, fragment) {
			t.Errorf("grounding text missing %q", fragment)
		}
	}
}

func TestBuildTextChangesOnMaterialFactChange(t *testing.T) {
	base := BuildText(sampleProject(), classify.LanguageEnglish)

	priceChanged := sampleProject()
	priceChanged.PriceMax = 9500000
	if BuildText(priceChanged, classify.LanguageEnglish) == base {
		t.Error("price change did not change grounding text")
	}

	amenityChanged := sampleProject()
	amenityChanged.Amenities = append(amenityChanged.Amenities, "Tennis Court")
	if BuildText(amenityChanged, classify.LanguageEnglish) == base {
		t.Error("amenity change did not change grounding text")
	}

	reraChanged := sampleProject()
	reraChanged.ReraNumber = "P52100099999"
	if BuildText(reraChanged, classify.LanguageEnglish) == base {
		t.Error("RERA change did not change grounding text")
	}
}

func TestBuildTextIsDeterministic(t *testing.T) {
	first := BuildText(sampleProject(), classify.LanguageHindi)
	for i := 0; i < 5; i++ {
		if BuildText(sampleProject(), classify.LanguageHindi) != first {
			t.Fatal("grounding text is not deterministic")
		}
	}
}

func TestBuildTextLanguageInstruction(t *testing.T) {
	en := BuildText(sampleProject(), classify.LanguageEnglish)
	hi := BuildText(sampleProject(), classify.LanguageHindi)
	hinglish := BuildText(sampleProject(), classify.LanguageHinglish)

	if !strings.Contains(en, "Respond in English only") {
		t.Error("english instruction missing")
	}
	if !strings.Contains(hi, "Respond in Hindi only") {
		t.Error("hindi instruction missing")
	}
	if !strings.Contains(hinglish, "Respond in Hinglish") {
		t.Error("hinglish instruction missing")
	}
}

func TestConstraintsFixedAndNonEmpty(t *testing.T) {
	first := Constraints()
	if len(first) == 0 {
		t.Fatal("constraints list is empty")
	}

	second := Constraints()
	if len(first) != len(second) {
		t.Fatalf("constraints length changed: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("constraint %d changed between calls", i)
		}
	}
}

func TestGroupIndianDigits(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{100000, "1,00,000"},
		{5000000, "50,00,000"},
		{12000000, "1,20,00,000"},
		{123456789, "12,34,56,789"},
	}
	for _, tt := range tests {
		if got := GroupIndianDigits(tt.in); got != tt.want {
			t.Errorf("GroupIndianDigits(%d) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
