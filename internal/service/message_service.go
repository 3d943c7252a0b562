package service

import (
	"context"
	"strings"
	"time"

	"gameratez/internal/models"
	"gameratez/internal/repository"
)

// MessageService handles direct messages. Messages are immutable and there is
// no delivery push; clients poll the thread and conversation endpoints.
type MessageService struct {
	messages repository.MessageRepository
	users    repository.UserRepository
	now      func() time.Time
}

func NewMessageService(messages repository.MessageRepository, users repository.UserRepository, now func() time.Time) *MessageService {
	if now == nil {
		now = time.Now
	}
	return &MessageService{messages: messages, users: users, now: now}
}

func (s *MessageService) Send(ctx context.Context, sender, receiver, body string) (*models.Message, error) {
	if strings.TrimSpace(body) == "" {
		return nil, models.NewValidationError("Message body is required")
	}
	if strings.EqualFold(sender, receiver) {
		return nil, models.NewValidationError("Cannot message yourself")
	}
	senderUser, err := s.users.GetByUsername(ctx, sender)
	if err != nil {
		return nil, err
	}
	if senderUser == nil {
		return nil, models.NewNotFoundError("User", sender)
	}
	receiverUser, err := s.users.GetByUsername(ctx, receiver)
	if err != nil {
		return nil, err
	}
	if receiverUser == nil {
		return nil, models.NewNotFoundError("User", receiver)
	}
	msg := &models.Message{
		SenderUsername:   senderUser.Username,
		ReceiverUsername: receiverUser.Username,
		Body:             body,
		CreatedAt:        s.now(),
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// Thread returns both directions of a two-user conversation, newest-first.
func (s *MessageService) Thread(ctx context.Context, username, with string) ([]*models.Message, error) {
	if username == "" || with == "" {
		return nil, models.NewValidationError("username and with are required")
	}
	return s.messages.Thread(ctx, username, with)
}

// Conversations summarizes the user's threads, most recently active first.
func (s *MessageService) Conversations(ctx context.Context, username string) ([]models.Conversation, error) {
	if username == "" {
		return nil, models.NewValidationError("username is required")
	}
	return s.messages.Conversations(ctx, username)
}
