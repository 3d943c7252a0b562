package filestore

import (
	"context"
	"sort"
	"strings"
	"time"

	"gameratez/internal/models"
	"gameratez/internal/repository"

	"github.com/google/uuid"
)

// notificationStore implements repository.NotificationRepository.
type notificationStore struct {
	s *Store
}

// Notifications returns the notification view of the store.
func (s *Store) Notifications() repository.NotificationRepository {
	return &notificationStore{s: s}
}

func (n *notificationStore) Create(_ context.Context, notification *models.Notification) error {
	n.s.mu.Lock()
	defer n.s.mu.Unlock()

	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now().UTC()
	}
	cp := *notification
	n.s.notifications = append(n.s.notifications, &cp)
	n.s.persist("notifications", n.s.notifications)
	return nil
}

func (n *notificationStore) ListByRecipient(_ context.Context, username string) ([]*models.Notification, error) {
	n.s.mu.RLock()
	defer n.s.mu.RUnlock()

	out := make([]*models.Notification, 0)
	for _, notification := range n.s.notifications {
		if strings.EqualFold(notification.RecipientUsername, username) {
			cp := *notification
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (n *notificationStore) UnreadCount(_ context.Context, username string) (int, error) {
	n.s.mu.RLock()
	defer n.s.mu.RUnlock()

	count := 0
	for _, notification := range n.s.notifications {
		if !notification.Read && strings.EqualFold(notification.RecipientUsername, username) {
			count++
		}
	}
	return count, nil
}

func (n *notificationStore) MarkRead(_ context.Context, id string) error {
	n.s.mu.Lock()
	defer n.s.mu.Unlock()

	for _, notification := range n.s.notifications {
		if notification.ID == id {
			if !notification.Read {
				notification.Read = true
				n.s.persist("notifications", n.s.notifications)
			}
			return nil
		}
	}
	return repository.ErrNotFound
}

func (n *notificationStore) MarkAllRead(_ context.Context, username string) (int, error) {
	n.s.mu.Lock()
	defer n.s.mu.Unlock()

	changed := 0
	for _, notification := range n.s.notifications {
		if !notification.Read && strings.EqualFold(notification.RecipientUsername, username) {
			notification.Read = true
			changed++
		}
	}
	if changed > 0 {
		n.s.persist("notifications", n.s.notifications)
	}
	return changed, nil
}
