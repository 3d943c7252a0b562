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

// userStore implements repository.UserRepository.
type userStore struct {
	s *Store
}

// Users returns the user view of the store.
func (s *Store) Users() repository.UserRepository {
	return &userStore{s: s}
}

func (u *userStore) Create(_ context.Context, user *models.User) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	for _, existing := range u.s.users {
		if strings.EqualFold(existing.Email, user.Email) || strings.EqualFold(existing.Username, user.Username) {
			return repository.ErrConflict
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	cp := *user
	u.s.users = append(u.s.users, &cp)
	u.s.persistUsers()
	return nil
}

func (u *userStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()

	for _, user := range u.s.users {
		if strings.EqualFold(user.Email, email) {
			cp := *user
			return &cp, nil
		}
	}
	return nil, nil
}

func (u *userStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()

	for _, user := range u.s.users {
		if strings.EqualFold(user.Username, username) {
			cp := *user
			return &cp, nil
		}
	}
	return nil, nil
}

func (u *userStore) Search(_ context.Context, query string, limit int) ([]*models.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()

	q := strings.ToLower(query)
	matches := make([]*models.User, 0)
	for _, user := range u.s.users {
		if strings.Contains(strings.ToLower(user.Username), q) ||
			strings.Contains(strings.ToLower(user.DisplayName), q) {
			cp := *user
			matches = append(matches, &cp)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}
