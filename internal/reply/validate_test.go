package reply

import (
	"testing"

	"estatepilot_backend/internal/projects/repository"
)

func testProject() repository.Project {
	return repository.Project{
		ProjectName: "Green Valley Heights",
		PriceMin:    5000000,
		PriceMax:    9000000,
		UnitConfigurations: []repository.UnitConfiguration{
			{Type: "2BHK", PriceMin: 5000000, PriceMax: 6500000},
			{Type: "3BHK", PriceMin: 7000000, PriceMax: 9000000},
		},
		Amenities:          []string{"Gym", "Swimming Pool", "Clubhouse"},
		ReraNumber:         "P52100012345",
		PossessionTimeline: "Dec 2026",
	}
}

func TestValidateAcceptsDeclaredPrice(t *testing.T) {
	project := testProject()
	reply := "Our 2BHK units start at ₹50,00,000 and go up to ₹65,00,000."
	if !Validate(reply, project) {
		t.Fatalf("expected reply with declared prices to pass")
	}
}

func TestValidateRejectsFabricatedPrice(t *testing.T) {
	project := testProject()
	reply := "We have a special unit for just ₹30,00,000."
	if Validate(reply, project) {
		t.Fatalf("expected reply with out-of-range price to fail")
	}
}

func TestValidateRejectsPriceAboveAllBands(t *testing.T) {
	project := testProject()
	if Validate("Penthouse available at ₹2,50,00,000.", project) {
		t.Fatalf("expected price above every declared band to fail")
	}
}

func TestValidateRejectsInBandUndeclaredPrice(t *testing.T) {
	project := testProject()
	// 75L sits between the project's 50L and 90L bounds but matches no
	// declared value, so it is an invented figure.
	if Validate("This unit costs ₹75,00,000 only.", project) {
		t.Fatalf("expected undeclared in-band price to fail")
	}
}

func TestValidateAcceptsDeclaredAmenity(t *testing.T) {
	project := testProject()
	if !Validate("Yes, we have a gym and a swimming pool on site.", project) {
		t.Fatalf("expected declared amenities to pass")
	}
}

func TestValidateRejectsUndeclaredAmenity(t *testing.T) {
	project := testProject()
	if Validate("The project also includes a beautiful garden.", project) {
		t.Fatalf("expected undeclared amenity to fail")
	}
}

func TestValidateRejectsMarketingLanguage(t *testing.T) {
	project := testProject()
	cases := []string{
		"This is a limited time offer, book now!",
		"I guarantee you will love this project.",
		"We have a special offer running this week.",
	}
	for _, reply := range cases {
		if Validate(reply, project) {
			t.Fatalf("expected marketing phrase to fail: %q", reply)
		}
	}
}

func TestValidateAllowsMarketingPhraseFromProjectData(t *testing.T) {
	project := testProject()
	project.PaymentPlans = []repository.PaymentPlan{
		{Name: "Festive Deal", Description: "10% on booking"},
	}
	if !Validate("Ask us about the Festive Deal payment plan.", project) {
		t.Fatalf("expected phrase present in project data to pass")
	}
}

func TestValidateAcceptsPlainFactualReply(t *testing.T) {
	project := testProject()
	reply := "The project is RERA registered under P52100012345 with possession by Dec 2026."
	if !Validate(reply, project) {
		t.Fatalf("expected factual reply to pass")
	}
}
