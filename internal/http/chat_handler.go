package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"spur-chat/internal/service"
)

// ChatHandler mantiene dependencias para los endpoints de chat.
type ChatHandler struct {
	logger *zap.Logger
	chat   *service.ChatService
}

// NewChatHandler crea una instancia de ChatHandler con dependencias necesarias.
func NewChatHandler(logger *zap.Logger, chat *service.ChatService) *ChatHandler {
	return &ChatHandler{
		logger: logger,
		chat:   chat,
	}
}

// messageResponse es la forma que espera el widget: camelCase y sin el
// conversation_id interno.
type messageResponse struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// SendMessage maneja POST /api/chat/message.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req struct {
		Message   string  `json:"message"`
		SessionID *string `json:"sessionId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid send message request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": []gin.H{
			{"field": "message", "message": "invalid request body"},
		}})
		return
	}

	sessionID := ""
	if req.SessionID != nil {
		sessionID = *req.SessionID
	}

	reply, returnedSession, err := h.chat.ProcessMessage(c.Request.Context(), req.Message, sessionID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidContent) {
			c.JSON(http.StatusBadRequest, gin.H{"error": []gin.H{
				{"field": "message", "message": service.ErrInvalidContent.Error()},
			}})
			return
		}
		h.logger.Error("process message failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reply":     reply,
		"sessionId": returnedSession,
	})
}

// GetHistory maneja GET /api/chat/:sessionId.
func (h *ChatHandler) GetHistory(c *gin.Context) {
	sessionID := c.Param("sessionId")

	messages, err := h.chat.GetHistory(c.Request.Context(), sessionID)
	if err != nil {
		h.logger.Error("get history failed", zap.Error(err), zap.String("session_id", sessionID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	out := make([]messageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, messageResponse{
			ID:        m.ID,
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"messages": out})
}

// Health maneja GET /health.
func (h *ChatHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
