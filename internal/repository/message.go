package repository

import (
	"context"

	"gameratez/internal/models"

	"gorm.io/gorm"
)

// MessageRepository defines the interface for direct message operations.
type MessageRepository interface {
	Create(ctx context.Context, msg *models.Message) error
	Thread(ctx context.Context, username, with string) ([]*models.Message, error)
	Conversations(ctx context.Context, username string) ([]models.Conversation, error)
}

// messageRepository implements MessageRepository over GORM/Postgres.
type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new message repository.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, msg *models.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// Thread returns the messages exchanged between two users, newest first.
func (r *messageRepository) Thread(ctx context.Context, username, with string) ([]*models.Message, error) {
	var messages []*models.Message
	err := r.db.WithContext(ctx).
		Where(
			"(LOWER(sender_username) = LOWER(?) AND LOWER(receiver_username) = LOWER(?)) OR (LOWER(sender_username) = LOWER(?) AND LOWER(receiver_username) = LOWER(?))",
			username, with, with, username,
		).
		Order("created_at DESC").
		Find(&messages).Error
	return messages, err
}

// Conversations lists the user's distinct message partners with the latest
// message of each thread, most recently active first.
func (r *messageRepository) Conversations(ctx context.Context, username string) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := r.db.WithContext(ctx).Raw(
		`SELECT * FROM (
			SELECT DISTINCT ON (partner) partner, body AS last_message, created_at AS last_at
			FROM (
				SELECT CASE WHEN LOWER(sender_username) = LOWER(@me) THEN receiver_username ELSE sender_username END AS partner,
				       body, created_at
				FROM messages
				WHERE LOWER(sender_username) = LOWER(@me) OR LOWER(receiver_username) = LOWER(@me)
			) t
			ORDER BY partner, created_at DESC
		) c
		ORDER BY last_at DESC`,
		map[string]interface{}{"me": username}).
		Scan(&conversations).Error
	return conversations, err
}
