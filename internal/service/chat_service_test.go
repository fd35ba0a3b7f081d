package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"spur-chat/internal/domain"
	"spur-chat/internal/llm"
	"spur-chat/internal/repository"
)

type mockConversationRepo struct {
	conversations map[string]domain.Conversation
	createErr     error
	created       int
}

func newMockConversationRepo() *mockConversationRepo {
	return &mockConversationRepo{conversations: make(map[string]domain.Conversation)}
}

func (m *mockConversationRepo) Create(_ context.Context, conversation domain.Conversation) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.conversations[conversation.ID] = conversation
	m.created++
	return nil
}

func (m *mockConversationRepo) GetByID(_ context.Context, id string) (domain.Conversation, error) {
	conversation, ok := m.conversations[id]
	if !ok {
		return domain.Conversation{}, repository.ErrConversationNotFound
	}
	return conversation, nil
}

type mockMessageRepo struct {
	messages  []domain.Message
	createErr error
	lastLimit int
}

func (m *mockMessageRepo) Create(_ context.Context, message domain.Message) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.messages = append(m.messages, message)
	return nil
}

func (m *mockMessageRepo) ListByConversationID(_ context.Context, conversationID string) ([]domain.Message, error) {
	var out []domain.Message
	for _, msg := range m.messages {
		if msg.ConversationID == conversationID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *mockMessageRepo) ListRecentByConversationID(ctx context.Context, conversationID string, limit int) ([]domain.Message, error) {
	m.lastLimit = limit
	all, err := m.ListByConversationID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if len(all) > limit {
		all = all[len(all)-limit:]
	}
	return all, nil
}

var (
	_ repository.ConversationRepository = (*mockConversationRepo)(nil)
	_ repository.MessageRepository      = (*mockMessageRepo)(nil)
)

func newTestService(convs *mockConversationRepo, msgs *mockMessageRepo, gen llm.Generator) *ChatService {
	return NewChatService(convs, msgs, gen, 10, nil)
}

func TestProcessMessage_NewSession(t *testing.T) {
	convs := newMockConversationRepo()
	msgs := &mockMessageRepo{}
	gen := &llm.MockGenerator{Response: "Hello from SpurStore!"}
	svc := newTestService(convs, msgs, gen)

	reply, sessionID, err := svc.ProcessMessage(context.Background(), "Hi", "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if reply != "Hello from SpurStore!" {
		t.Fatalf("expected generator reply, got %q", reply)
	}
	if sessionID == "" {
		t.Fatalf("expected a session id")
	}
	if convs.created != 1 {
		t.Fatalf("expected exactly one conversation, got %d", convs.created)
	}
	if len(msgs.messages) != 2 {
		t.Fatalf("expected 2 stored messages, got %d", len(msgs.messages))
	}
	if msgs.messages[0].Role != domain.RoleUser || msgs.messages[0].Content != "Hi" {
		t.Fatalf("expected first message user 'Hi', got %+v", msgs.messages[0])
	}
	if msgs.messages[1].Role != domain.RoleAssistant || msgs.messages[1].Content != reply {
		t.Fatalf("expected second message assistant reply, got %+v", msgs.messages[1])
	}
}

func TestProcessMessage_ReusesSession(t *testing.T) {
	convs := newMockConversationRepo()
	msgs := &mockMessageRepo{}
	gen := &llm.MockGenerator{Response: "ok"}
	svc := newTestService(convs, msgs, gen)

	_, sessionID, err := svc.ProcessMessage(context.Background(), "first", "")
	if err != nil {
		t.Fatalf("first send: %v", err)
	}

	_, secondID, err := svc.ProcessMessage(context.Background(), "second", sessionID)
	if err != nil {
		t.Fatalf("second send: %v", err)
	}
	if secondID != sessionID {
		t.Fatalf("expected same session id, got %q and %q", sessionID, secondID)
	}
	if convs.created != 1 {
		t.Fatalf("expected one conversation, got %d", convs.created)
	}
	if len(msgs.messages) != 4 {
		t.Fatalf("expected 4 stored messages, got %d", len(msgs.messages))
	}
	for i := 1; i < len(msgs.messages); i++ {
		if msgs.messages[i].CreatedAt.Before(msgs.messages[i-1].CreatedAt) {
			t.Fatalf("messages out of creation order at %d", i)
		}
	}
}

func TestProcessMessage_UnknownSessionStartsFresh(t *testing.T) {
	convs := newMockConversationRepo()
	msgs := &mockMessageRepo{}
	svc := newTestService(convs, msgs, &llm.MockGenerator{Response: "ok"})

	// Un uuid válido que no existe y un id que ni siquiera parsea.
	for _, stale := range []string{"0b7aa6ba-2b0e-4a6c-9aaf-111111111111", "not-a-uuid"} {
		_, sessionID, err := svc.ProcessMessage(context.Background(), "hola", stale)
		if err != nil {
			t.Fatalf("stale %q: %v", stale, err)
		}
		if sessionID == stale {
			t.Fatalf("expected a new session id for %q", stale)
		}
	}
	if convs.created != 2 {
		t.Fatalf("expected 2 new conversations, got %d", convs.created)
	}
}

func TestProcessMessage_Validation(t *testing.T) {
	convs := newMockConversationRepo()
	msgs := &mockMessageRepo{}
	svc := newTestService(convs, msgs, &llm.MockGenerator{Response: "ok"})

	cases := []string{
		"",
		"   ",
		strings.Repeat("a", MaxMessageLength+1),
	}
	for i, content := range cases {
		_, _, err := svc.ProcessMessage(context.Background(), content, "")
		if !errors.Is(err, ErrInvalidContent) {
			t.Fatalf("case %d: expected ErrInvalidContent, got %v", i, err)
		}
	}
	if convs.created != 0 || len(msgs.messages) != 0 {
		t.Fatalf("expected no writes before validation, got %d conversations %d messages", convs.created, len(msgs.messages))
	}
}

func TestProcessMessage_ContentAtLimit(t *testing.T) {
	convs := newMockConversationRepo()
	msgs := &mockMessageRepo{}
	svc := newTestService(convs, msgs, &llm.MockGenerator{Response: "ok"})

	content := strings.Repeat("á", MaxMessageLength) // runas, no bytes
	if _, _, err := svc.ProcessMessage(context.Background(), content, ""); err != nil {
		t.Fatalf("expected content at limit accepted, got %v", err)
	}
}

func TestProcessMessage_HistoryBound(t *testing.T) {
	convs := newMockConversationRepo()
	msgs := &mockMessageRepo{}
	gen := &llm.MockGenerator{Response: "ok"}
	svc := NewChatService(convs, msgs, gen, 3, nil)

	var sessionID string
	for i := 0; i < 4; i++ {
		var err error
		_, sessionID, err = svc.ProcessMessage(context.Background(), "msg", sessionID)
		if err != nil {
			t.Fatalf("send %d: %v", i, err)
		}
	}
	if msgs.lastLimit != 3 {
		t.Fatalf("expected history limit 3, got %d", msgs.lastLimit)
	}
	if len(gen.LastHistory) != 3 {
		t.Fatalf("expected generator to see 3 messages, got %d", len(gen.LastHistory))
	}
	// El último del historial debe ser el mensaje recién agregado del usuario.
	last := gen.LastHistory[len(gen.LastHistory)-1]
	if last.Role != domain.RoleUser {
		t.Fatalf("expected last history entry to be the user message, got role %q", last.Role)
	}
}

func TestProcessMessage_PersistenceErrorPropagates(t *testing.T) {
	convs := newMockConversationRepo()
	msgs := &mockMessageRepo{createErr: errors.New("db down")}
	svc := newTestService(convs, msgs, &llm.MockGenerator{Response: "ok"})

	_, _, err := svc.ProcessMessage(context.Background(), "hola", "")
	if err == nil || errors.Is(err, ErrInvalidContent) {
		t.Fatalf("expected persistence error, got %v", err)
	}
}

func TestGetHistory(t *testing.T) {
	convs := newMockConversationRepo()
	msgs := &mockMessageRepo{}
	gen := &llm.MockGenerator{Response: "respuesta"}
	svc := newTestService(convs, msgs, gen)

	_, sessionID, err := svc.ProcessMessage(context.Background(), "Hi", "")
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	history, err := svc.GetHistory(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(history))
	}
	for i := 1; i < len(history); i++ {
		if history[i].CreatedAt.Before(history[i-1].CreatedAt) {
			t.Fatalf("history out of order at %d", i)
		}
	}
}

func TestGetHistory_UnknownSession(t *testing.T) {
	svc := newTestService(newMockConversationRepo(), &mockMessageRepo{}, &llm.MockGenerator{})

	for _, id := range []string{"0b7aa6ba-2b0e-4a6c-9aaf-111111111111", "not-a-uuid", "  "} {
		history, err := svc.GetHistory(context.Background(), id)
		if err != nil {
			t.Fatalf("id %q: expected no error, got %v", id, err)
		}
		if history == nil || len(history) != 0 {
			t.Fatalf("id %q: expected empty list, got %+v", id, history)
		}
	}
}

func TestChatService_NotConfigured(t *testing.T) {
	var svc *ChatService
	if _, _, err := svc.ProcessMessage(context.Background(), "hola", ""); !errors.Is(err, ErrChatServiceNotConfigured) {
		t.Fatalf("expected ErrChatServiceNotConfigured, got %v", err)
	}

	svc = NewChatService(nil, nil, nil, 0, nil)
	if _, err := svc.GetHistory(context.Background(), "s1"); !errors.Is(err, ErrChatServiceNotConfigured) {
		t.Fatalf("expected ErrChatServiceNotConfigured, got %v", err)
	}
}

func TestProcessMessage_SetsTimestamps(t *testing.T) {
	convs := newMockConversationRepo()
	msgs := &mockMessageRepo{}
	svc := newTestService(convs, msgs, &llm.MockGenerator{Response: "ok"})

	before := time.Now().UTC().Add(-time.Second)
	_, _, err := svc.ProcessMessage(context.Background(), "hola", "")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	after := time.Now().UTC().Add(time.Second)
	for i, msg := range msgs.messages {
		if msg.CreatedAt.Before(before) || msg.CreatedAt.After(after) {
			t.Fatalf("message %d timestamp out of range: %v", i, msg.CreatedAt)
		}
		if msg.ID == "" {
			t.Fatalf("message %d missing id", i)
		}
	}
}
