package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"homestyling/internal/config"
	"homestyling/internal/model"
)

// csrfCookieName is the anti-forgery cookie set by the upstream backend.
const csrfCookieName = "csrftoken"

// ErrBackendUnreachable marks transport-level failures (connection refused,
// DNS, timeout). Callers treat it as retryable and show the connectivity
// message instead of a server error.
var ErrBackendUnreachable = errors.New("서버에 연결할 수 없습니다. 서버가 실행 중인지 확인해주세요.")

// BackendError carries a server-reported failure: the HTTP status plus the
// error/detail/message field extracted from the JSON body, or the raw text
// body when the response was not JSON.
type BackendError struct {
	Status int
	Detail string
}

func (e *BackendError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("HTTP error! status: %d", e.Status)
}

// BackendClient wraps every upstream request with ambient cookie credentials,
// the X-CSRFToken header, and JSON error normalization.
type BackendClient struct {
	httpClient *resty.Client
	baseURL    string
	primePath  string
	logger     *zap.Logger
}

// NewBackendClient creates the upstream storefront API client.
func NewBackendClient(cfg *config.BackendConfig, logger *zap.Logger) *BackendClient {
	jar, _ := cookiejar.New(nil)

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetCookieJar(jar).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(cfg.RetryMaxWait).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &BackendClient{
		httpClient: client,
		baseURL:    cfg.BaseURL,
		primePath:  cfg.CSRFPrimePath,
		logger:     logger,
	}
}

// csrfToken returns the current anti-forgery token from the cookie jar, or ""
// when the backend has not set one yet.
func (c *BackendClient) csrfToken() string {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return ""
	}
	for _, cookie := range c.httpClient.GetClient().Jar.Cookies(u) {
		if cookie.Name == csrfCookieName {
			return cookie.Value
		}
	}
	return ""
}

// PrimeCSRF issues the priming GET that causes the backend to set the
// csrftoken cookie, then returns the token. A failure here is logged, not
// fatal: state-changing requests will simply go out without the header and
// the backend rejects them with a normal error.
func (c *BackendClient) PrimeCSRF(ctx context.Context) string {
	_, err := c.httpClient.R().SetContext(ctx).Get(c.primePath)
	if err != nil {
		c.logger.Warn("CSRF 토큰 초기화 실패", zap.Error(err))
		return ""
	}
	return c.csrfToken()
}

// post issues a state-changing request with the CSRF header, priming the
// cookie first when it is absent.
func (c *BackendClient) post(ctx context.Context, path string, body any, out any) error {
	token := c.csrfToken()
	if token == "" {
		token = c.PrimeCSRF(ctx)
	}

	req := c.httpClient.R().SetContext(ctx).SetBody(body)
	if token != "" {
		req.SetHeader("X-CSRFToken", token)
	}

	resp, err := req.Post(path)
	return c.normalize(path, resp, err, out)
}

// get issues a read request.
func (c *BackendClient) get(ctx context.Context, path string, query map[string]string, out any) error {
	req := c.httpClient.R().SetContext(ctx)
	if query != nil {
		req.SetQueryParams(query)
	}
	resp, err := req.Get(path)
	return c.normalize(path, resp, err, out)
}

// normalize converts a resty response into either a decoded payload or one of
// the two error shapes: ErrBackendUnreachable for transport failures,
// *BackendError for non-success responses.
func (c *BackendClient) normalize(path string, resp *resty.Response, err error, out any) error {
	if err != nil {
		c.logger.Error("backend request failed",
			zap.String("path", path),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", ErrBackendUnreachable, err)
	}

	body := resp.Body()
	isJSON := strings.Contains(resp.Header().Get("Content-Type"), "application/json")

	if !resp.IsSuccess() {
		detail := ""
		if isJSON {
			detail = extractErrorDetail(body)
		} else {
			detail = strings.TrimSpace(string(body))
			if len(detail) > 200 {
				detail = detail[:200]
			}
		}
		c.logger.Warn("backend returned error status",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode()),
			zap.String("detail", detail),
		)
		return &BackendError{Status: resp.StatusCode(), Detail: detail}
	}

	if out == nil {
		return nil
	}
	if !isJSON {
		return &BackendError{Status: resp.StatusCode(), Detail: fmt.Sprintf("서버 응답 파싱 실패: %.100s", string(body))}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &BackendError{Status: resp.StatusCode(), Detail: fmt.Sprintf("서버 응답 파싱 실패: %.100s", string(body))}
	}
	return nil
}

// extractErrorDetail picks the server's error field out of a JSON error body,
// trying error, detail, then message.
func extractErrorDetail(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	switch {
	case payload.Error != "":
		return payload.Error
	case payload.Detail != "":
		return payload.Detail
	default:
		return payload.Message
	}
}

// CompleteOnboarding submits the finished wizard answers.
func (c *BackendClient) CompleteOnboarding(ctx context.Context, req *model.CompleteOnboardingRequest) (*model.CompleteOnboardingResponse, error) {
	c.logger.Info("submitting onboarding answers",
		zap.String("session_id", req.SessionID),
		zap.String("vibe", req.Vibe),
		zap.String("budget_level", req.BudgetLevel),
	)

	var out model.CompleteOnboardingResponse
	if err := c.post(ctx, "/api/onboarding/complete/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetOnboardingSession fetches a stored onboarding session and decodes its
// recommendation result, which older backend rows keep double-encoded.
func (c *BackendClient) GetOnboardingSession(ctx context.Context, sessionID string) (*model.RecommendationResult, error) {
	var out model.OnboardingSessionResponse
	if err := c.get(ctx, fmt.Sprintf("/api/onboarding/session/%s/", sessionID), nil, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, &BackendError{Status: http.StatusOK, Detail: out.Error}
	}

	raw := out.Session.RecommendationResult
	if len(raw) == 0 {
		return &model.RecommendationResult{}, nil
	}
	// Unwrap one level of string encoding if present.
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err == nil {
		raw = []byte(encoded)
	}

	var result model.RecommendationResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to decode recommendation result: %w", err)
	}
	return &result, nil
}

// GetPortfolio fetches a persisted portfolio by id.
func (c *BackendClient) GetPortfolio(ctx context.Context, portfolioID string) (*model.Portfolio, error) {
	var out model.PortfolioResponse
	if err := c.get(ctx, fmt.Sprintf("/api/portfolio/%s/", portfolioID), nil, &out); err != nil {
		return nil, err
	}
	if !out.Success || out.Portfolio == nil {
		return nil, &BackendError{Status: http.StatusOK, Detail: out.Error}
	}
	return out.Portfolio, nil
}

// SharePortfolio records a share and returns the Kakao share payload.
func (c *BackendClient) SharePortfolio(ctx context.Context, portfolioID string) (*model.ShareResponse, error) {
	var out model.ShareResponse
	if err := c.post(ctx, fmt.Sprintf("/api/portfolio/%s/share/", portfolioID), struct{}{}, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, &BackendError{Status: http.StatusOK, Detail: out.Error}
	}
	return &out, nil
}

// BookConsultation books a bestshop consultation for a portfolio.
func (c *BackendClient) BookConsultation(ctx context.Context, req *model.ConsultationRequest) (*model.ConsultationResponse, error) {
	var out model.ConsultationResponse
	if err := c.post(ctx, "/api/bestshop/consultation/", req, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, &BackendError{Status: http.StatusOK, Detail: out.Error}
	}
	return &out, nil
}

// Chat posts one user message with the trailing transcript as context.
func (c *BackendClient) Chat(ctx context.Context, req *model.ChatRequest) (*model.ChatResponse, error) {
	var out model.ChatResponse
	if err := c.post(ctx, "/api/ai/chat/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// QuickRecommend runs the landing-page one-shot recommendation.
func (c *BackendClient) QuickRecommend(ctx context.Context, req *model.QuickRecommendRequest) (*model.QuickRecommendResponse, error) {
	var out model.QuickRecommendResponse
	if err := c.post(ctx, "/api/recommend/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProductImageByName resolves a product image URL by product name.
func (c *BackendClient) ProductImageByName(ctx context.Context, name string) (string, error) {
	var out model.ProductImageResponse
	if err := c.get(ctx, "/api/products/image-by-name/", map[string]string{"name": name}, &out); err != nil {
		return "", err
	}
	if !out.Success {
		return "", &BackendError{Status: http.StatusOK, Detail: out.Error}
	}
	return out.ImageURL, nil
}
