package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"homestyling/internal/model"
	"homestyling/internal/service"
)

// PortfolioHandler handles results-view HTTP requests
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
}

// NewPortfolioHandler creates a new portfolio handler
func NewPortfolioHandler(portfolioService *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
	}
}

// PreviewRequest carries an inline recommendation list handed over from the
// wizard's terminal step.
type PreviewRequest struct {
	Recommendations []model.Recommendation `json:"recommendations"`
	PortfolioID     string                 `json:"portfolio_id,omitempty"`
	PurchaseType    string                 `json:"purchase_type,omitempty"`
}

// Preview handles POST /api/v1/results/preview
func (h *PortfolioHandler) Preview(c *gin.Context) {
	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request: " + err.Error()})
		return
	}

	view := h.portfolioService.BuildFromRecommendations(req.Recommendations, req.PurchaseType, req.PortfolioID)
	c.JSON(http.StatusOK, gin.H{"success": true, "view": view})
}

// SessionResult handles GET /api/v1/results/session/:id, resolving a stored
// onboarding session's recommendation result.
func (h *PortfolioHandler) SessionResult(c *gin.Context) {
	view, err := h.portfolioService.ResolveSessionResult(c.Request.Context(), c.Param("id"), c.Query("purchase_type"))
	if err != nil {
		c.JSON(backendStatus(err), gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "view": view})
}

// Get handles GET /api/v1/portfolio/:id. Fetch failures degrade to the sample
// set with an alert, never an empty page.
func (h *PortfolioHandler) Get(c *gin.Context) {
	portfolioID := c.Param("id")
	if portfolioID == "" {
		portfolioID = c.Query("portfolio_id")
	}

	var view *model.ResultView
	if portfolioID == "" {
		view = h.portfolioService.SampleView(c.Query("purchase_type"))
	} else {
		view = h.portfolioService.ResolvePortfolio(c.Request.Context(), portfolioID, c.Query("purchase_type"))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "view": view})
}

// Share handles POST /api/v1/portfolio/:id/share
func (h *PortfolioHandler) Share(c *gin.Context) {
	resp, err := h.portfolioService.Share(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(backendStatus(err), gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ConsultationRequest books a bestshop consultation.
type ConsultationRequest struct {
	PortfolioID string `json:"portfolio_id"`
}

// Consultation handles POST /api/v1/consultation
func (h *PortfolioHandler) Consultation(c *gin.Context) {
	var req ConsultationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request: " + err.Error()})
		return
	}

	resp, err := h.portfolioService.BookConsultation(c.Request.Context(), req.PortfolioID)
	if err != nil {
		c.JSON(backendStatus(err), gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ProductImage handles GET /api/v1/products/image
func (h *PortfolioHandler) ProductImage(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "name query parameter is required"})
		return
	}

	imageURL, err := h.portfolioService.ProductImage(c.Request.Context(), name)
	if err != nil {
		c.JSON(backendStatus(err), gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "image_url": imageURL})
}

// backendStatus maps upstream failures: connectivity problems surface as a
// bad gateway, server-reported errors pass through as-is.
func backendStatus(err error) int {
	if errors.Is(err, service.ErrBackendUnreachable) {
		return http.StatusBadGateway
	}
	var backendErr *service.BackendError
	if errors.As(err, &backendErr) && backendErr.Status >= http.StatusBadRequest {
		return backendErr.Status
	}
	return http.StatusInternalServerError
}
