package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"spur-chat/internal/domain"
)

// Generator define la interfaz para generar la respuesta del agente.
// Nunca devuelve error: toda falla se absorbe y se convierte en texto
// mostrable al usuario, porque el caller lo renderiza directo como mensaje.
type Generator interface {
	Generate(ctx context.Context, history []domain.Message) string
}

// Textos de fallback por categoría de falla del proveedor.
const (
	FallbackRateLimited   = "I'm receiving too many messages right now. Please allow me a moment to catch up!"
	FallbackBadAPIKey     = "My configuration seems to be invalid (API Key Error). Please contact support."
	FallbackMaintenance   = "I'm currently undergoing maintenance. Please try again in a few minutes."
	FallbackConnection    = "I'm having trouble connecting to my brain. Please try again later."
	FallbackEmptyResponse = "I'm having trouble thinking right now."
)

// maxHistoryMessages acota el contexto enviado al proveedor. El service ya
// limita la lectura, pero el cliente mantiene su propio tope para sostener
// el contrato con cualquier caller.
const maxHistoryMessages = 10

// Client implementa Generator contra una API OpenAI-compatible.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	client      *http.Client
	logger      *zap.Logger
}

// NewClient construye un cliente apuntando a la API de chat completions.
func NewClient(baseURL, apiKey, model string, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = "https://api.groq.com/openai/v1"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		model:       model,
		maxTokens:   300,
		temperature: 0.7,
		client:      &http.Client{Timeout: 60 * time.Second},
		logger:      logger,
	}
}

func (c *Client) Generate(ctx context.Context, history []domain.Message) string {
	if len(history) > maxHistoryMessages {
		history = history[len(history)-maxHistoryMessages:]
	}

	messages := make([]chatMessage, 0, len(history)+1)
	messages = append(messages, chatMessage{Role: "system", Content: systemPrompt})
	for _, m := range history {
		messages = append(messages, chatMessage{Role: m.Role, Content: m.Content})
	}

	reqBody := chatRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		c.logger.Error("llm marshal request", zap.Error(err))
		return FallbackConnection
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		c.logger.Error("llm create request", zap.Error(err))
		return FallbackConnection
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("llm do request", zap.Error(err))
		return FallbackConnection
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("llm read response", zap.Error(err))
		return FallbackConnection
	}

	if resp.StatusCode >= 400 {
		c.logger.Error("llm error status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", respBody),
		)
		return fallbackForStatus(resp.StatusCode)
	}

	var cr chatResponse
	if err := json.Unmarshal(respBody, &cr); err != nil {
		c.logger.Error("llm unmarshal response", zap.Error(err))
		return FallbackConnection
	}

	if cr.Error != nil {
		c.logger.Error("llm api error", zap.String("message", cr.Error.Message))
		return FallbackConnection
	}

	if len(cr.Choices) == 0 || cr.Choices[0].Message.Content == "" {
		return FallbackEmptyResponse
	}

	return cr.Choices[0].Message.Content
}

func fallbackForStatus(status int) string {
	switch status {
	case http.StatusTooManyRequests:
		return FallbackRateLimited
	case http.StatusUnauthorized:
		return FallbackBadAPIKey
	case http.StatusInternalServerError, http.StatusServiceUnavailable:
		return FallbackMaintenance
	default:
		return FallbackConnection
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}
