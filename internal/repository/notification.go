package repository

import (
	"context"

	"gameratez/internal/models"

	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByRecipient(ctx context.Context, username string) ([]*models.Notification, error)
	UnreadCount(ctx context.Context, username string) (int, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, username string) (int, error)
}

// notificationRepository implements NotificationRepository over GORM/Postgres.
type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository.
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, username string) ([]*models.Notification, error) {
	var notifications []*models.Notification
	err := r.db.WithContext(ctx).
		Where("LOWER(recipient_username) = LOWER(?)", username).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepository) UnreadCount(ctx context.Context, username string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("LOWER(recipient_username) = LOWER(?) AND read = ?", username, false).
		Count(&count).Error
	return int(count), err
}

func (r *notificationRepository) MarkRead(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", id).
		Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllRead flips every unread notification owned by the user and reports
// how many changed.
func (r *notificationRepository) MarkAllRead(ctx context.Context, username string) (int, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("LOWER(recipient_username) = LOWER(?) AND read = ?", username, false).
		Update("read", true)
	return int(res.RowsAffected), res.Error
}
