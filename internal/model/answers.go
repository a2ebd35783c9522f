package model

import "strings"

// Vibe options (step 1 interior style preference)
const (
	VibeModern = "modern"
	VibeCozy   = "cozy"
	VibePop    = "pop"
	VibeLuxury = "luxury"
)

// Housing types (step 3)
const (
	HousingApartment = "apartment"
	HousingOfficetel = "officetel"
	HousingDetached  = "detached"
	HousingStudio    = "studio"
)

// Main space tags (step 3, multi-select; SpaceAll is a singleton choice)
const (
	SpaceLiving   = "living"
	SpaceBedroom  = "bedroom"
	SpaceKitchen  = "kitchen"
	SpaceDressing = "dressing"
	SpaceStudy    = "study"
	SpaceAll      = "all"
)

// Priority tags (step 5, ordered multi-select)
const (
	PriorityDesign = "design"
	PriorityTech   = "tech"
	PriorityEco    = "eco"
	PriorityValue  = "value"
)

// Budget levels (step 6)
const (
	BudgetLow      = "budget"
	BudgetStandard = "standard"
	BudgetPremium  = "premium"
)

// Pyung bounds for the area slider; studio housing pins the value.
const (
	PyungMin     = 10
	PyungMax     = 50
	PyungDefault = 25
	PyungStudio  = 15
)

// OnboardingAnswers accumulates the wizard's form state. A field counts as
// answered only through an explicit answer event; defaults are injected by
// ApplyDefaults at submission time, never during validation.
type OnboardingAnswers struct {
	// Step 1
	Vibe string `json:"vibe"`
	// Step 2; HouseholdSize keeps the raw option value ("2", "5인 이상" from
	// older question sets) and is normalized to an integer at submission.
	HouseholdSize string `json:"household_size"`
	HasPet        *bool  `json:"has_pet"`
	// Step 3
	HousingType string   `json:"housing_type"`
	MainSpaces  []string `json:"main_space"`
	Pyung       int      `json:"pyung"`
	// Step 4 (each relevant only when the selected spaces imply it)
	Cooking string `json:"cooking"`
	Laundry string `json:"laundry"`
	Media   string `json:"media"`
	// Step 5; Priority mirrors PriorityList[0] for backward compatibility.
	Priority     string   `json:"priority"`
	PriorityList []string `json:"priority_list"`
	// Step 6
	BudgetLevel string `json:"budget_level"`
	// Chosen automatically or by the user at completion.
	SelectedCategories []string `json:"selected_categories"`
}

// HasSpace reports whether the given space tag is selected.
func (a *OnboardingAnswers) HasSpace(space string) bool {
	for _, s := range a.MainSpaces {
		if s == space {
			return true
		}
	}
	return false
}

// EffectiveSpaces resolves the spaces step 4 reasons over: studio housing
// always behaves as the full-home package even if the space list is empty.
func (a *OnboardingAnswers) EffectiveSpaces() []string {
	if a.HousingType == HousingStudio {
		return []string{SpaceAll}
	}
	return a.MainSpaces
}

// NormalizeHouseholdSize converts the raw household option into an integer,
// stripping unit suffix text such as "인" and "이상". Returns fallback when
// nothing parses.
func NormalizeHouseholdSize(raw string, fallback int) int {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "이상", "")
	s = strings.ReplaceAll(s, "인", "")
	s = strings.TrimSpace(s)

	n := 0
	ok := false
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
		ok = true
	}
	if !ok || n <= 0 {
		return fallback
	}
	return n
}
