package llm

import (
	"context"

	"spur-chat/internal/domain"
)

// MockGenerator permite tests sin llamar a un proveedor real.
type MockGenerator struct {
	Response    string
	LastHistory []domain.Message
}

func (m *MockGenerator) Generate(_ context.Context, history []domain.Message) string {
	m.LastHistory = history
	return m.Response
}
