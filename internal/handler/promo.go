package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"homestyling/internal/model"
	"homestyling/internal/service"
)

// PromoHandler handles landing-page HTTP requests: the promotional carousel
// and the quick recommendation form.
type PromoHandler struct {
	carousel *service.Carousel
	backend  *service.BackendClient
}

// NewPromoHandler creates a new promo handler
func NewPromoHandler(carousel *service.Carousel, backend *service.BackendClient) *PromoHandler {
	return &PromoHandler{
		carousel: carousel,
		backend:  backend,
	}
}

// State handles GET /api/v1/promotions
func (h *PromoHandler) State(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "carousel": h.carousel.State()})
}

// Next handles POST /api/v1/promotions/next
func (h *PromoHandler) Next(c *gin.Context) {
	h.carousel.Next()
	c.JSON(http.StatusOK, gin.H{"success": true, "carousel": h.carousel.State()})
}

// Prev handles POST /api/v1/promotions/prev
func (h *PromoHandler) Prev(c *gin.Context) {
	h.carousel.Prev()
	c.JSON(http.StatusOK, gin.H{"success": true, "carousel": h.carousel.State()})
}

// GoToRequest selects a slide by dot click.
type GoToRequest struct {
	Index int `json:"index"`
}

// GoTo handles POST /api/v1/promotions/goto
func (h *PromoHandler) GoTo(c *gin.Context) {
	var req GoToRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request: " + err.Error()})
		return
	}
	h.carousel.GoTo(req.Index)
	c.JSON(http.StatusOK, gin.H{"success": true, "carousel": h.carousel.State()})
}

// Pause handles POST /api/v1/promotions/pause (hover enter)
func (h *PromoHandler) Pause(c *gin.Context) {
	h.carousel.Pause()
	c.JSON(http.StatusOK, gin.H{"success": true, "carousel": h.carousel.State()})
}

// Resume handles POST /api/v1/promotions/resume (hover leave)
func (h *PromoHandler) Resume(c *gin.Context) {
	h.carousel.Resume()
	c.JSON(http.StatusOK, gin.H{"success": true, "carousel": h.carousel.State()})
}

// QuickRecommend handles POST /api/v1/recommend, the landing form's one-shot
// recommendation. Missing fields get the form's fixed fallbacks before the
// payload is proxied upstream.
func (h *PromoHandler) QuickRecommend(c *gin.Context) {
	var req model.QuickRecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request: " + err.Error()})
		return
	}

	if req.MainSpace == "" {
		req.MainSpace = model.SpaceLiving
	}
	if req.SpaceSize == "" {
		req.SpaceSize = "medium"
	}
	if len(req.TargetCategories) == 0 {
		req.TargetCategories = []string{"TV"}
	}

	resp, err := h.backend.QuickRecommend(c.Request.Context(), &req)
	if err != nil {
		c.JSON(backendStatus(err), gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}
