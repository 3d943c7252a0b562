package service

import (
	"context"
	"errors"

	"gameratez/internal/models"
	"gameratez/internal/repository"
)

// NotificationService reads and acknowledges notifications. Creation happens
// inside the engagement and follow services.
type NotificationService struct {
	notifications repository.NotificationRepository
}

func NewNotificationService(notifications repository.NotificationRepository) *NotificationService {
	return &NotificationService{notifications: notifications}
}

// List returns the user's notifications newest-first, read or not.
func (s *NotificationService) List(ctx context.Context, username string) ([]*models.Notification, error) {
	if username == "" {
		return nil, models.NewValidationError("username is required")
	}
	return s.notifications.ListByRecipient(ctx, username)
}

func (s *NotificationService) UnreadCount(ctx context.Context, username string) (int, error) {
	if username == "" {
		return 0, models.NewValidationError("username is required")
	}
	return s.notifications.UnreadCount(ctx, username)
}

func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	err := s.notifications.MarkRead(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return models.NewNotFoundError("Notification", id)
	}
	return err
}

// MarkAllRead flips every unread notification for the user and returns how
// many changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, username string) (int, error) {
	if username == "" {
		return 0, models.NewValidationError("username is required")
	}
	return s.notifications.MarkAllRead(ctx, username)
}
