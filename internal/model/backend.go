package model

import "encoding/json"

// Upstream backend payloads. Every response carries a success flag; error
// detail may arrive under error, detail, or message depending on the endpoint.

// CompleteOnboardingRequest is the wizard submission payload
// (POST /api/onboarding/complete/).
type CompleteOnboardingRequest struct {
	SessionID          string   `json:"session_id"`
	Vibe               string   `json:"vibe"`
	HouseholdSize      int      `json:"household_size"`
	HasPet             *bool    `json:"has_pet,omitempty"`
	HousingType        string   `json:"housing_type"`
	MainSpace          []string `json:"main_space"`
	Pyung              int      `json:"pyung"`
	Cooking            string   `json:"cooking,omitempty"`
	Laundry            string   `json:"laundry,omitempty"`
	Media              string   `json:"media,omitempty"`
	Priority           string   `json:"priority"`
	PriorityList       []string `json:"priority_list"`
	BudgetLevel        string   `json:"budget_level"`
	SelectedCategories []string `json:"selected_categories"`
}

// CompleteOnboardingResponse carries either a persisted portfolio id or an
// inline recommendation list.
type CompleteOnboardingResponse struct {
	Success         bool             `json:"success"`
	PortfolioID     string           `json:"portfolio_id,omitempty"`
	InternalKey     string           `json:"internal_key,omitempty"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
	Error           string           `json:"error,omitempty"`
}

// OnboardingSessionResponse wraps GET /api/onboarding/session/{id}/. The
// recommendation_result field is double-encoded JSON in older backend rows, so
// it is kept raw and decoded leniently.
type OnboardingSessionResponse struct {
	Success bool `json:"success"`
	Session struct {
		RecommendationResult json.RawMessage `json:"recommendation_result"`
	} `json:"session"`
	Error string `json:"error,omitempty"`
}

// RecommendationResult is the decoded shape of a session's stored result.
type RecommendationResult struct {
	Recommendations []Recommendation `json:"recommendations"`
}

// Portfolio is the upstream portfolio entity (GET /api/portfolio/{id}/).
type Portfolio struct {
	Products      []Recommendation `json:"products"`
	StyleType     string           `json:"style_type,omitempty"`
	StyleTitle    string           `json:"style_title,omitempty"`
	StyleSubtitle string           `json:"style_subtitle,omitempty"`
}

// PortfolioResponse wraps the portfolio fetch.
type PortfolioResponse struct {
	Success   bool       `json:"success"`
	Portfolio *Portfolio `json:"portfolio,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// ShareResponse wraps POST /api/portfolio/{id}/share/.
type ShareResponse struct {
	Success        bool            `json:"success"`
	ShareURL       string          `json:"share_url,omitempty"`
	ShareCount     int             `json:"share_count,omitempty"`
	KakaoShareData *KakaoShareData `json:"kakao_share_data,omitempty"`
	Error          string          `json:"error,omitempty"`
}

// ConsultationRequest books a bestshop consultation for a portfolio.
type ConsultationRequest struct {
	PortfolioID         string `json:"portfolio_id"`
	ConsultationPurpose string `json:"consultation_purpose"`
}

// ConsultationResponse wraps POST /api/bestshop/consultation/.
type ConsultationResponse struct {
	Success       bool   `json:"success"`
	ReservationID string `json:"reservation_id,omitempty"`
	Error         string `json:"error,omitempty"`
}

// ChatRequest posts one user message with the trailing transcript as context.
type ChatRequest struct {
	Message string      `json:"message"`
	Context ChatContext `json:"context"`
}

// ChatContext carries the conversation history.
type ChatContext struct {
	History []ChatTurn `json:"history"`
}

// ChatResponse wraps POST /api/ai/chat/.
type ChatResponse struct {
	Success  bool   `json:"success"`
	Response string `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
}

// QuickRecommendRequest is the landing-page form payload
// (POST /api/recommend/).
type QuickRecommendRequest struct {
	Vibe             string   `json:"vibe"`
	HouseholdSize    int      `json:"household_size"`
	HousingType      string   `json:"housing_type"`
	MainSpace        string   `json:"main_space"`
	SpaceSize        string   `json:"space_size"`
	Priority         string   `json:"priority"`
	BudgetLevel      string   `json:"budget_level"`
	TargetCategories []string `json:"target_categories"`
}

// QuickRecommendResponse wraps the landing-page recommendation call.
type QuickRecommendResponse struct {
	Success         bool             `json:"success"`
	Count           int              `json:"count"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
	Error           string           `json:"error,omitempty"`
	Message         string           `json:"message,omitempty"`
}

// ProductImageResponse wraps GET /api/products/image-by-name/.
type ProductImageResponse struct {
	Success  bool   `json:"success"`
	ImageURL string `json:"image_url,omitempty"`
	Error    string `json:"error,omitempty"`
}
