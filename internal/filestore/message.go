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

// messageStore implements repository.MessageRepository.
type messageStore struct {
	s *Store
}

// Messages returns the direct-message view of the store.
func (s *Store) Messages() repository.MessageRepository {
	return &messageStore{s: s}
}

func (m *messageStore) Create(_ context.Context, msg *models.Message) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	cp := *msg
	m.s.messages = append(m.s.messages, &cp)
	m.s.persist("messages", m.s.messages)
	return nil
}

func (m *messageStore) Thread(_ context.Context, username, with string) ([]*models.Message, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	thread := make([]*models.Message, 0)
	for _, msg := range m.s.messages {
		between := (strings.EqualFold(msg.SenderUsername, username) && strings.EqualFold(msg.ReceiverUsername, with)) ||
			(strings.EqualFold(msg.SenderUsername, with) && strings.EqualFold(msg.ReceiverUsername, username))
		if between {
			cp := *msg
			thread = append(thread, &cp)
		}
	}
	sort.SliceStable(thread, func(i, j int) bool {
		return thread[i].CreatedAt.After(thread[j].CreatedAt)
	})
	return thread, nil
}

func (m *messageStore) Conversations(_ context.Context, username string) ([]models.Conversation, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	latest := make(map[string]*models.Message)
	partnerCasing := make(map[string]string)
	for _, msg := range m.s.messages {
		var partner string
		switch {
		case strings.EqualFold(msg.SenderUsername, username):
			partner = msg.ReceiverUsername
		case strings.EqualFold(msg.ReceiverUsername, username):
			partner = msg.SenderUsername
		default:
			continue
		}
		key := strings.ToLower(partner)
		if _, seen := partnerCasing[key]; !seen {
			partnerCasing[key] = partner
		}
		if prev, ok := latest[key]; !ok || msg.CreatedAt.After(prev.CreatedAt) {
			latest[key] = msg
		}
	}

	conversations := make([]models.Conversation, 0, len(latest))
	for key, msg := range latest {
		conversations = append(conversations, models.Conversation{
			Partner:     partnerCasing[key],
			LastMessage: msg.Body,
			LastAt:      msg.CreatedAt,
		})
	}
	sort.SliceStable(conversations, func(i, j int) bool {
		return conversations[i].LastAt.After(conversations[j].LastAt)
	})
	return conversations, nil
}
