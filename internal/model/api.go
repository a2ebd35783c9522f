package model

// Request/response shapes for this service's own API.

// AnswerEvent applies one form interaction to a wizard session. Exactly one
// field group is set per event, mirroring a single radio/checkbox/range change.
type AnswerEvent struct {
	Field string `json:"field" binding:"required"`
	// Value carries scalar answers (vibe, household_size, housing_type,
	// cooking, laundry, media, budget_level, category).
	Value string `json:"value,omitempty"`
	// Bool carries has_pet.
	Bool *bool `json:"bool,omitempty"`
	// Number carries pyung.
	Number int `json:"number,omitempty"`
	// Space/priority toggles reuse Value as the tag being toggled.
}

// Answer event field names.
const (
	FieldVibe          = "vibe"
	FieldHouseholdSize = "household_size"
	FieldHasPet        = "has_pet"
	FieldHousingType   = "housing_type"
	FieldMainSpace     = "main_space"
	FieldPyung         = "pyung"
	FieldCooking       = "cooking"
	FieldLaundry       = "laundry"
	FieldMedia         = "media"
	FieldPriority      = "priority"
	FieldBudgetLevel   = "budget_level"
	FieldCategory      = "category"
)

// WizardState is the session view returned after every wizard operation.
type WizardState struct {
	SessionID   string            `json:"session_id"`
	Step        int               `json:"step"`
	MaxStep     int               `json:"max_step"`
	StepValid   bool              `json:"step_valid"`
	Answers     OnboardingAnswers `json:"answers"`
	InFlight    bool              `json:"in_flight"`
	LastError   string            `json:"last_error,omitempty"`
	PortfolioID string            `json:"portfolio_id,omitempty"`
}

// SubmitResult is the outcome of a terminal-step submission. Exactly one of
// PortfolioID or Recommendations is populated on success.
type SubmitResult struct {
	PortfolioID     string           `json:"portfolio_id,omitempty"`
	InternalKey     string           `json:"internal_key,omitempty"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
}

// ResultView is the assembled results page model.
type ResultView struct {
	PortfolioID  string           `json:"portfolio_id,omitempty"`
	PurchaseType string           `json:"purchase_type"`
	Products     []DisplayProduct `json:"products"`
	Benefit      BenefitSummary   `json:"benefit"`
	Groups       []CategoryGroup  `json:"groups"`
	StyleTitle   string           `json:"style_title,omitempty"`
	StyleSub     string           `json:"style_subtitle,omitempty"`
	// Empty is true when the source carried zero recommendations; the client
	// shows the no-results message instead of the sample fallback.
	Empty bool `json:"empty"`
	// Sample marks the built-in preview set, used when no source resolves or
	// a portfolio fetch fails. Alert carries the failure detail in that case.
	Sample bool   `json:"sample"`
	Alert  string `json:"alert,omitempty"`
	// HighlightMillis is the transient highlight duration applied after a
	// category-image scroll.
	HighlightMillis int `json:"highlight_millis"`
}

// Slide is one promotional carousel entry.
type Slide struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
	Link     string `json:"link,omitempty"`
}

// CarouselState is the landing-page rotator view.
type CarouselState struct {
	Slides  []Slide `json:"slides"`
	Current int     `json:"current"`
	Paused  bool    `json:"paused"`
}
