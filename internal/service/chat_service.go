package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"spur-chat/internal/domain"
	"spur-chat/internal/llm"
	"spur-chat/internal/repository"
)

// MaxMessageLength es el largo máximo aceptado para un mensaje entrante.
const MaxMessageLength = 1000

var (
	ErrChatServiceNotConfigured = errors.New("chat service not configured")
	ErrInvalidContent           = errors.New("message must be between 1 and 1000 characters")
)

// ChatService orquesta el flujo de un mensaje: resolver o crear conversación,
// guardar el mensaje del usuario, pedir la respuesta al generador y guardarla.
type ChatService struct {
	conversations repository.ConversationRepository
	messages      repository.MessageRepository
	generator     llm.Generator
	historyLimit  int
	locks         *sessionLocks
	logger        *zap.Logger
}

func NewChatService(
	conversations repository.ConversationRepository,
	messages repository.MessageRepository,
	generator llm.Generator,
	historyLimit int,
	logger *zap.Logger,
) *ChatService {
	if historyLimit <= 0 {
		historyLimit = 10
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{
		conversations: conversations,
		messages:      messages,
		generator:     generator,
		historyLimit:  historyLimit,
		locks:         newSessionLocks(),
		logger:        logger,
	}
}

// ProcessMessage valida el contenido, resuelve o crea la conversación, agrega
// el mensaje del usuario, genera la respuesta con el historial acotado y la
// persiste. Devuelve la respuesta y el session id de la conversación.
func (s *ChatService) ProcessMessage(ctx context.Context, content, sessionID string) (string, string, error) {
	if s == nil || s.conversations == nil || s.messages == nil || s.generator == nil {
		return "", "", ErrChatServiceNotConfigured
	}

	content = strings.TrimSpace(content)
	if content == "" || utf8.RuneCountInString(content) > MaxMessageLength {
		return "", "", ErrInvalidContent
	}

	conversationID, err := s.resolveConversation(ctx, strings.TrimSpace(sessionID))
	if err != nil {
		return "", "", err
	}

	unlock := s.locks.Lock(conversationID)
	defer unlock()

	now := time.Now().UTC()
	userMsg := domain.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Role:           domain.RoleUser,
		Content:        content,
		CreatedAt:      now,
	}
	if err := s.messages.Create(ctx, userMsg); err != nil {
		return "", "", fmt.Errorf("save user message: %w", err)
	}

	history, err := s.messages.ListRecentByConversationID(ctx, conversationID, s.historyLimit)
	if err != nil {
		return "", "", fmt.Errorf("load history: %w", err)
	}

	reply := s.generator.Generate(ctx, history)

	assistantMsg := domain.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Role:           domain.RoleAssistant,
		Content:        reply,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.messages.Create(ctx, assistantMsg); err != nil {
		return "", "", fmt.Errorf("save assistant message: %w", err)
	}

	return reply, conversationID, nil
}

// resolveConversation reusa la conversación del session id si existe; si no
// resuelve (o no viene), crea una nueva.
func (s *ChatService) resolveConversation(ctx context.Context, sessionID string) (string, error) {
	// Un id que no parsea como uuid se trata como sesión desconocida en vez
	// de dejar que el query falle contra la columna UUID.
	if sessionID != "" && uuid.Validate(sessionID) == nil {
		conversation, err := s.conversations.GetByID(ctx, sessionID)
		if err == nil {
			return conversation.ID, nil
		}
		if !errors.Is(err, repository.ErrConversationNotFound) {
			return "", fmt.Errorf("resolve conversation: %w", err)
		}
		s.logger.Info("unknown session id, starting new conversation", zap.String("session_id", sessionID))
	}

	conversation := domain.Conversation{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.conversations.Create(ctx, conversation); err != nil {
		return "", fmt.Errorf("create conversation: %w", err)
	}
	return conversation.ID, nil
}

// GetHistory devuelve los mensajes de la conversación en orden cronológico.
// Un session id desconocido devuelve lista vacía, no error.
func (s *ChatService) GetHistory(ctx context.Context, sessionID string) ([]domain.Message, error) {
	if s == nil || s.messages == nil {
		return nil, ErrChatServiceNotConfigured
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" || uuid.Validate(sessionID) != nil {
		return []domain.Message{}, nil
	}
	messages, err := s.messages.ListByConversationID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	return messages, nil
}
