package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"homestyling/internal/service"
)

// ChatHandler handles chat widget HTTP requests
type ChatHandler struct {
	chatService *service.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

// SendRequest is one widget message.
type SendRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Message   string `json:"message" binding:"required"`
}

// Send handles POST /api/v1/chat
func (h *ChatHandler) Send(c *gin.Context) {
	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request: " + err.Error()})
		return
	}

	messages, err := h.chatService.Send(c.Request.Context(), req.SessionID, req.Message)
	if err != nil {
		status := http.StatusBadRequest
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			status = http.StatusNotFound
		case errors.Is(err, service.ErrChatInFlight):
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "messages": messages})
}

// Transcript handles GET /api/v1/chat/:id/transcript
func (h *ChatHandler) Transcript(c *gin.Context) {
	transcript, err := h.chatService.Transcript(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "transcript": transcript})
}
