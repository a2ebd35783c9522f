package model

import "encoding/json"

// Purchase types for the results-view toggle.
const (
	PurchaseSubscription = "subscription"
	PurchaseOneTime      = "purchase"
)

// SubscriptionMonths is the fixed 6-year amortization divisor applied to
// absolute prices under subscription mode.
const SubscriptionMonths = 72

// Recommendation is the raw upstream recommendation item. Older backend
// revisions populate different field names for the same value, so most fields
// exist in pairs; NormalizeRecommendation collapses them into a Product once
// at the API boundary.
type Recommendation struct {
	ProductID   json.Number       `json:"product_id,omitempty"`
	ID          json.Number       `json:"id,omitempty"`
	Name        string            `json:"name,omitempty"`
	ProductName string            `json:"product_name,omitempty"`
	Model       string            `json:"model,omitempty"`
	ModelNumber string            `json:"model_number,omitempty"`
	Category    string            `json:"category,omitempty"`
	MainCat     string            `json:"main_category,omitempty"`
	Price       int64             `json:"price,omitempty"`
	Discount    int64             `json:"discount_price,omitempty"`
	Reason      string            `json:"reason,omitempty"`
	RecReason   string            `json:"recommend_reason,omitempty"`
	Score       float64           `json:"score,omitempty"`
	TasteScore  float64           `json:"taste_score,omitempty"`
	ImageURL    string            `json:"image_url,omitempty"`
	Recommended bool              `json:"is_recommended,omitempty"`
	Specs       map[string]string `json:"specs,omitempty"`

	ContractPeriod   string `json:"contract_period,omitempty"`
	CareServiceCycle string `json:"care_service_cycle,omitempty"`
	CareServiceType  string `json:"care_service_type,omitempty"`
}

// Product is the canonical internal product shape. It owns a single name per
// field; nothing downstream of normalization touches the duck-typed upstream
// shape again.
type Product struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Model            string            `json:"model,omitempty"`
	Category         string            `json:"category"`
	Reason           string            `json:"reason,omitempty"`
	Score            float64           `json:"score,omitempty"`
	Price            int64             `json:"price"`
	DiscountPrice    int64             `json:"discount_price,omitempty"`
	ImageURL         string            `json:"image_url,omitempty"`
	IsRecommended    bool              `json:"is_recommended,omitempty"`
	Specs            map[string]string `json:"specs,omitempty"`
	ContractPeriod   string            `json:"contract_period,omitempty"`
	CareServiceCycle string            `json:"care_service_cycle,omitempty"`
	CareServiceType  string            `json:"care_service_type,omitempty"`
}

// PriceBlock is the formatted price trio shown on a product card. Empty
// strings mean the figure is absent (zero or negative amounts are never
// rendered as "0원").
type PriceBlock struct {
	Original string `json:"original,omitempty"`
	Discount string `json:"discount,omitempty"`
	Final    string `json:"final,omitempty"`
}

// DisplayProduct is a Product reformatted for a single results render under
// the active purchase type.
type DisplayProduct struct {
	Product
	PriceBlock PriceBlock `json:"price_block"`
	// DisplayPrice/DisplayDiscount feed benefit aggregation: the amortized
	// monthly figures under subscription mode, the absolutes otherwise.
	DisplayPrice    int64 `json:"display_price"`
	DisplayDiscount int64 `json:"display_discount"`
}

// CategorySubtotal is one line of the benefit box detail list.
type CategorySubtotal struct {
	Category string `json:"category"`
	Price    int64  `json:"price"`
	Label    string `json:"label"`
}

// BenefitSummary is derived from the display list and never stored apart from
// it. Invariant: NetBenefit = TotalPrice - TotalDiscount.
type BenefitSummary struct {
	TotalPrice    int64              `json:"total_price"`
	TotalDiscount int64              `json:"total_discount"`
	NetBenefit    int64              `json:"net_benefit"`
	Items         []CategorySubtotal `json:"items"`
}

// CategoryGroup clusters display products by category for the representative
// imagery strip; clicking an image scrolls to AnchorProductID client-side.
type CategoryGroup struct {
	Category        string   `json:"category"`
	ImageURL        string   `json:"image_url,omitempty"`
	AnchorProductID string   `json:"anchor_product_id"`
	ProductIDs      []string `json:"product_ids"`
}

// KakaoShareData is the third-party share SDK payload returned by the share
// endpoint; Link doubles as the clipboard fallback URL.
type KakaoShareData struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Link        string `json:"link"`
}
