package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"homestyling/internal/model"
	"homestyling/internal/utils"
)

// consultationPurpose is the fixed purpose tag sent with every bestshop
// booking made from the results view.
const consultationPurpose = "구매상담"

// highlightMillis is the transient highlight applied after a category-image
// scroll on the results page.
const highlightMillis = 2000

// defaultReason fills a recommendation that arrived without one.
const defaultReason = "고객님의 선호도에 맞는 제품입니다."

// defaultCategory buckets products that arrived without a category tag.
const defaultCategory = "기타"

// PortfolioService assembles the results-view display model from either an
// inline recommendation list, a persisted portfolio, or the built-in sample
// set.
type PortfolioService struct {
	backend *BackendClient
	logger  *zap.Logger
}

// NewPortfolioService creates a new portfolio service.
func NewPortfolioService(backend *BackendClient, logger *zap.Logger) *PortfolioService {
	return &PortfolioService{
		backend: backend,
		logger:  logger,
	}
}

// NormalizeRecommendation collapses the upstream's duck-typed field pairs
// into the canonical Product once, at the API boundary. Everything downstream
// uses only the canonical shape.
func NormalizeRecommendation(rec *model.Recommendation) model.Product {
	id := rec.ProductID.String()
	if id == "" {
		id = rec.ID.String()
	}

	name := rec.Name
	if name == "" {
		name = rec.ProductName
	}
	if name == "" {
		name = "제품명 없음"
	}

	modelCode := rec.Model
	if modelCode == "" {
		modelCode = rec.ModelNumber
	}

	category := rec.Category
	if category == "" {
		category = rec.MainCat
	}
	if category == "" {
		category = defaultCategory
	}

	reason := rec.Reason
	if reason == "" {
		reason = rec.RecReason
	}
	if reason == "" {
		reason = defaultReason
	}

	score := rec.Score
	if score == 0 {
		score = rec.TasteScore
	}

	// A product arriving with only a discount figure uses it as the base price.
	price := rec.Price
	if price == 0 {
		price = rec.Discount
	}

	return model.Product{
		ID:               id,
		Name:             name,
		Model:            modelCode,
		Category:         category,
		Reason:           reason,
		Score:            score,
		Price:            price,
		DiscountPrice:    rec.Discount,
		ImageURL:         rec.ImageURL,
		IsRecommended:    rec.Recommended,
		Specs:            rec.Specs,
		ContractPeriod:   rec.ContractPeriod,
		CareServiceCycle: rec.CareServiceCycle,
		CareServiceType:  rec.CareServiceType,
	}
}

// BuildDisplay reformats a canonical product for the active purchase type.
// Subscription mode amortizes absolute figures over the fixed 72-month
// contract; one-time mode uses them directly. Figures of zero or less are
// absent, never rendered as "0원".
func BuildDisplay(p model.Product, purchaseType string) model.DisplayProduct {
	d := model.DisplayProduct{Product: p}

	if purchaseType == model.PurchaseSubscription {
		monthly := p.Price / model.SubscriptionMonths
		monthlyDiscount := p.DiscountPrice / model.SubscriptionMonths
		final := monthly - monthlyDiscount

		d.DisplayPrice = monthly
		d.DisplayDiscount = monthlyDiscount
		if monthly > 0 {
			d.PriceBlock.Original = utils.FormatMonthlyPrice(monthly)
		}
		if monthlyDiscount > 0 {
			d.PriceBlock.Discount = utils.FormatMonthlyDiscount(monthlyDiscount)
		}
		if final > 0 {
			d.PriceBlock.Final = utils.FormatMonthlyPrice(final)
		} else if monthly > 0 {
			d.PriceBlock.Final = utils.FormatMonthlyPrice(monthly)
		}
		return d
	}

	final := p.Price - p.DiscountPrice
	d.DisplayPrice = p.Price
	d.DisplayDiscount = p.DiscountPrice
	if p.Price > 0 {
		d.PriceBlock.Original = utils.FormatPrice(p.Price)
	}
	if p.DiscountPrice > 0 {
		d.PriceBlock.Discount = utils.FormatDiscount(p.DiscountPrice)
	}
	if final > 0 {
		d.PriceBlock.Final = utils.FormatPrice(final)
	}
	return d
}

// BuildFromRecommendations maps an inline recommendation list (terminal
// wizard submission) to a results view. An empty list yields the explicit
// no-results state, never the sample fallback.
func (s *PortfolioService) BuildFromRecommendations(recs []model.Recommendation, purchaseType, portfolioID string) *model.ResultView {
	purchaseType = normalizePurchaseType(purchaseType)

	if len(recs) == 0 {
		return &model.ResultView{
			PortfolioID:     portfolioID,
			PurchaseType:    purchaseType,
			Products:        []model.DisplayProduct{},
			Empty:           true,
			HighlightMillis: highlightMillis,
		}
	}

	products := make([]model.DisplayProduct, 0, len(recs))
	for i := range recs {
		products = append(products, BuildDisplay(NormalizeRecommendation(&recs[i]), purchaseType))
	}

	return &model.ResultView{
		PortfolioID:     portfolioID,
		PurchaseType:    purchaseType,
		Products:        products,
		Benefit:         Aggregate(products),
		Groups:          GroupByCategory(products),
		HighlightMillis: highlightMillis,
	}
}

// ResolveSessionResult fetches a stored onboarding session's recommendation
// result and assembles its view. An absent or empty result yields the explicit
// no-results state.
func (s *PortfolioService) ResolveSessionResult(ctx context.Context, sessionID, purchaseType string) (*model.ResultView, error) {
	result, err := s.backend.GetOnboardingSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.BuildFromRecommendations(result.Recommendations, purchaseType, ""), nil
}

// ResolvePortfolio fetches a persisted portfolio and assembles its view. Any
// fetch failure falls back to the sample set with an alert naming the id, so
// the results page is never blank.
func (s *PortfolioService) ResolvePortfolio(ctx context.Context, portfolioID, purchaseType string) *model.ResultView {
	portfolio, err := s.backend.GetPortfolio(ctx, portfolioID)
	if err != nil {
		s.logger.Warn("portfolio fetch failed, serving sample data",
			zap.String("portfolio_id", portfolioID),
			zap.Error(err),
		)
		view := s.SampleView(purchaseType)
		view.Alert = fmt.Sprintf("포트폴리오를 불러올 수 없습니다 (%s): %s", portfolioID, err.Error())
		return view
	}

	if len(portfolio.Products) == 0 {
		s.logger.Warn("portfolio has no products, serving sample data",
			zap.String("portfolio_id", portfolioID),
		)
		return s.SampleView(purchaseType)
	}

	view := s.BuildFromRecommendations(portfolio.Products, purchaseType, portfolioID)
	view.StyleTitle = portfolio.StyleTitle
	view.StyleSub = portfolio.StyleSubtitle
	return view
}

// SampleView builds the fixed preview set used when no live data resolves.
// Sample data is never mixed with live data.
func (s *PortfolioService) SampleView(purchaseType string) *model.ResultView {
	view := s.BuildFromRecommendations(sampleRecommendations(), purchaseType, "")
	view.Sample = true
	return view
}

// Share fetches the Kakao share payload for a portfolio; the returned link is
// also the clipboard fallback.
func (s *PortfolioService) Share(ctx context.Context, portfolioID string) (*model.ShareResponse, error) {
	return s.backend.SharePortfolio(ctx, portfolioID)
}

// BookConsultation books a bestshop consultation for the portfolio. With no
// portfolio id the client navigates straight to the reservation-status view,
// so an empty reservation id is returned without booking.
func (s *PortfolioService) BookConsultation(ctx context.Context, portfolioID string) (*model.ConsultationResponse, error) {
	if portfolioID == "" {
		return &model.ConsultationResponse{Success: true}, nil
	}
	return s.backend.BookConsultation(ctx, &model.ConsultationRequest{
		PortfolioID:         portfolioID,
		ConsultationPurpose: consultationPurpose,
	})
}

// ProductImage resolves a product image URL by name.
func (s *PortfolioService) ProductImage(ctx context.Context, name string) (string, error) {
	return s.backend.ProductImageByName(ctx, name)
}

func normalizePurchaseType(t string) string {
	if t == model.PurchaseOneTime {
		return model.PurchaseOneTime
	}
	return model.PurchaseSubscription
}

// sampleRecommendations is the built-in preview product set.
func sampleRecommendations() []model.Recommendation {
	return []model.Recommendation{
		{
			ID:       "1",
			Name:     "LG 올레드 TV (스탠드형)",
			Model:    "OLED65B4NNA",
			Category: "TV",
			Reason:   "우리 아이에게 영화관 같은 기분을 선물할 수 있어요",
			Price:    4708800,
			Discount: 1872000,

			ContractPeriod:   "6년",
			CareServiceCycle: "12개월마다",
			CareServiceType:  "프리미엄",
		},
		{
			ID:       "2",
			Name:     "LG 디오스 오브제컬렉션 매직스페이스 냉장고",
			Model:    "S834MBC13",
			Category: "냉장고",
			Reason:   "넉넉한 수납 공간으로 깔끔한 주방을 완성할 수 있어요",
			Price:    2726000,
			Discount: 126000,
			Specs: map[string]string{
				"color":    "베이지/베이지",
				"door":     "네이처(메탈)",
				"capacity": "367L/503L",
				"power":    "49.0kW",
			},
			Recommended: true,
		},
		{
			ID:       "3",
			Name:     "LG 휘센 스탠드형 에어컨",
			Model:    "FQ17VDWWK",
			Category: "에어컨",
			Reason:   "시원한 바람으로 여름을 시원하게 보낼 수 있어요",
			Price:    6436800,
			Discount: 1440000,

			ContractPeriod:   "6년",
			CareServiceCycle: "12개월마다",
			CareServiceType:  "프리미엄",
		},
	}
}
