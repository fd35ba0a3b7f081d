package main

import (
	"context"
	"log"
	"time"

	"spur-chat/internal/config"
	"spur-chat/internal/db"
	"spur-chat/internal/domain"
	"spur-chat/internal/repository"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Siembra una conversación de demo para desarrollo local.
func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		logger.Fatal("db migrate", zap.Error(err))
	}

	conversationRepo := repository.NewPgConversationRepository(pool)
	messageRepo := repository.NewPgMessageRepository(pool)

	now := time.Now().UTC()
	conversation := domain.Conversation{
		ID:        uuid.NewString(),
		CreatedAt: now,
	}
	if err := conversationRepo.Create(ctx, conversation); err != nil {
		logger.Fatal("seed conversation", zap.Error(err))
	}

	seedMessages := []domain.Message{
		{
			ID:             uuid.NewString(),
			ConversationID: conversation.ID,
			Role:           domain.RoleUser,
			Content:        "Hello, I have a question about shipping.",
			CreatedAt:      now,
		},
		{
			ID:             uuid.NewString(),
			ConversationID: conversation.ID,
			Role:           domain.RoleAssistant,
			Content:        "Hi there! I'd be happy to help. We ship worldwide. Standard shipping is $5, and it's free for orders over $50.",
			CreatedAt:      now.Add(time.Second),
		},
	}
	for _, msg := range seedMessages {
		if err := messageRepo.Create(ctx, msg); err != nil {
			logger.Fatal("seed message", zap.Error(err))
		}
	}

	logger.Info("seeded demo conversation", zap.String("session_id", conversation.ID))
}
