package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"homestyling/internal/model"
	"homestyling/internal/service"
)

// WizardHandler handles onboarding wizard HTTP requests
type WizardHandler struct {
	wizardService *service.WizardService
}

// NewWizardHandler creates a new wizard handler
func NewWizardHandler(wizardService *service.WizardService) *WizardHandler {
	return &WizardHandler{
		wizardService: wizardService,
	}
}

// CreateSession handles POST /api/v1/wizard/sessions
func (h *WizardHandler) CreateSession(c *gin.Context) {
	state := h.wizardService.CreateSession()
	c.JSON(http.StatusCreated, gin.H{"success": true, "state": state})
}

// GetSession handles GET /api/v1/wizard/sessions/:id
func (h *WizardHandler) GetSession(c *gin.Context) {
	state, err := h.wizardService.GetState(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "state": state})
}

// ApplyAnswer handles POST /api/v1/wizard/sessions/:id/answers
func (h *WizardHandler) ApplyAnswer(c *gin.Context) {
	var ev model.AnswerEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request: " + err.Error()})
		return
	}

	state, err := h.wizardService.ApplyAnswer(c.Param("id"), &ev)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrSessionNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "state": state})
}

// Next handles POST /api/v1/wizard/sessions/:id/next. At the terminal step it
// performs the submission and returns its result.
func (h *WizardHandler) Next(c *gin.Context) {
	state, result, err := h.wizardService.Next(c.Request.Context(), c.Param("id"))
	h.respondStep(c, state, result, err)
}

// Back handles POST /api/v1/wizard/sessions/:id/back
func (h *WizardHandler) Back(c *gin.Context) {
	state, err := h.wizardService.Back(c.Param("id"))
	h.respondStep(c, state, nil, err)
}

// Skip handles POST /api/v1/wizard/sessions/:id/skip
func (h *WizardHandler) Skip(c *gin.Context) {
	state, err := h.wizardService.Skip(c.Param("id"))
	h.respondStep(c, state, nil, err)
}

// Restart handles POST /api/v1/wizard/sessions/:id/restart
func (h *WizardHandler) Restart(c *gin.Context) {
	state, err := h.wizardService.Restart(c.Param("id"))
	h.respondStep(c, state, nil, err)
}

// Submit handles POST /api/v1/wizard/sessions/:id/submit
func (h *WizardHandler) Submit(c *gin.Context) {
	state, result, err := h.wizardService.Submit(c.Request.Context(), c.Param("id"))
	h.respondStep(c, state, result, err)
}

// respondStep maps wizard operation outcomes onto HTTP statuses. The state is
// returned alongside errors so the client keeps its entered data.
func (h *WizardHandler) respondStep(c *gin.Context, state *model.WizardState, result *model.SubmitResult, err error) {
	if err != nil {
		status := http.StatusBadRequest
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			status = http.StatusNotFound
		case errors.Is(err, service.ErrSubmitInFlight):
			status = http.StatusConflict
		case errors.Is(err, service.ErrBackendUnreachable):
			status = http.StatusBadGateway
		case errors.Is(err, service.ErrStepInvalid), errors.Is(err, service.ErrMissingRequired):
			status = http.StatusUnprocessableEntity
		}
		body := gin.H{"success": false, "error": err.Error()}
		if state != nil {
			body["state"] = state
		}
		c.JSON(status, body)
		return
	}

	body := gin.H{"success": true, "state": state}
	if result != nil {
		body["result"] = result
	}
	c.JSON(http.StatusOK, body)
}
