package service

import (
	"context"
	"errors"
	"html"
	"strings"

	"go.uber.org/zap"

	"homestyling/internal/model"
)

// Fixed widget messages. The apology covers success=false payloads, the
// network message covers transport failures.
const (
	chatApologyMessage = "죄송해요, 일시적인 오류가 발생했어요. 다시 시도해주세요."
	chatNetworkMessage = "네트워크 오류가 발생했어요. 잠시 후 다시 시도해주세요."
)

// ErrChatInFlight rejects a send while the session's previous send is still
// on the wire, mirroring the widget's disabled input controls.
var ErrChatInFlight = errors.New("a message is already being sent")

// ChatService relays widget messages to the backend AI endpoint, keeping a
// capped per-session transcript as conversation context.
type ChatService struct {
	store   *SessionStore
	backend *BackendClient
	logger  *zap.Logger
}

// NewChatService creates a new chat service.
func NewChatService(store *SessionStore, backend *BackendClient, logger *zap.Logger) *ChatService {
	return &ChatService{
		store:   store,
		backend: backend,
		logger:  logger,
	}
}

// Send posts one user message with the trailing transcript as context and
// returns the rendered user and assistant messages. Backend failures become
// fixed widget strings rather than errors; only a missing session or an
// in-flight send fail outright.
func (s *ChatService) Send(ctx context.Context, sessionID, message string) ([]model.ChatMessage, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, errors.New("message is empty")
	}

	sess := s.store.Get(sessionID)
	if sess == nil {
		return nil, ErrSessionNotFound
	}

	sess.mu.Lock()
	if sess.chatInFlight {
		sess.mu.Unlock()
		return nil, ErrChatInFlight
	}
	sess.chatInFlight = true
	history := make([]model.ChatTurn, len(sess.transcript))
	copy(history, sess.transcript)
	sess.mu.Unlock()

	resp, err := s.backend.Chat(ctx, &model.ChatRequest{
		Message: message,
		Context: model.ChatContext{History: history},
	})

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.chatInFlight = false

	userMsg := renderChatMessage(model.RoleUser, message)

	switch {
	case err != nil:
		s.logger.Warn("chat request failed", zap.String("session_id", sessionID), zap.Error(err))
		return []model.ChatMessage{userMsg, renderChatMessage(model.RoleAssistant, chatNetworkMessage)}, nil
	case !resp.Success:
		return []model.ChatMessage{userMsg, renderChatMessage(model.RoleAssistant, chatApologyMessage)}, nil
	}

	// Only a successful exchange enters the transcript.
	sess.transcript = append(sess.transcript,
		model.ChatTurn{Role: model.RoleUser, Content: message},
		model.ChatTurn{Role: model.RoleAssistant, Content: resp.Response},
	)
	if len(sess.transcript) > model.TranscriptCap {
		sess.transcript = sess.transcript[len(sess.transcript)-model.TranscriptCap:]
	}

	return []model.ChatMessage{userMsg, renderChatMessage(model.RoleAssistant, resp.Response)}, nil
}

// Transcript returns a copy of the session's current transcript.
func (s *ChatService) Transcript(sessionID string) ([]model.ChatTurn, error) {
	sess := s.store.Get(sessionID)
	if sess == nil {
		return nil, ErrSessionNotFound
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	out := make([]model.ChatTurn, len(sess.transcript))
	copy(out, sess.transcript)
	return out, nil
}

// renderChatMessage escapes the content for direct markup insertion, turning
// newlines into <br>.
func renderChatMessage(role, content string) model.ChatMessage {
	escaped := html.EscapeString(content)
	return model.ChatMessage{
		Role:    role,
		Content: content,
		HTML:    strings.ReplaceAll(escaped, "\n", "<br>"),
	}
}
