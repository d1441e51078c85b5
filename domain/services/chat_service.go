package services

import (
	"context"
	"fmt"
	"strings"

	"lottohouse/domain/entities"
	"lottohouse/domain/interfaces"
)

const maxChatMessageLength = 2000

type chatService struct {
	chatRepo interfaces.ChatMessageRepository
	userRepo interfaces.UserRepository
}

// NewChatService creates a new chat service
func NewChatService(chatRepo interfaces.ChatMessageRepository, userRepo interfaces.UserRepository) interfaces.ChatService {
	return &chatService{chatRepo: chatRepo, userRepo: userRepo}
}

func (s *chatService) PostMessage(ctx context.Context, userID *int64, content string, isAdmin bool) (*entities.ChatMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, entities.NewValidationError("content", "message cannot be empty")
	}
	if len(content) > maxChatMessageLength {
		return nil, entities.NewValidationError("content", fmt.Sprintf("message exceeds %d characters", maxChatMessageLength))
	}

	if userID != nil {
		user, err := s.userRepo.GetByID(ctx, *userID)
		if err != nil {
			return nil, fmt.Errorf("failed to get user: %w", err)
		}
		if user == nil {
			return nil, entities.ErrUserNotFound
		}
	}

	msg := &entities.ChatMessage{
		UserID:  userID,
		Content: content,
		IsAdmin: isAdmin,
	}
	if err := s.chatRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to store chat message: %w", err)
	}
	return msg, nil
}

func (s *chatService) ListMessages(ctx context.Context, limit int) ([]*entities.ChatMessage, error) {
	msgs, err := s.chatRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	return msgs, nil
}
