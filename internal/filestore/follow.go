package filestore

import (
	"context"
	"sort"
	"strings"
	"time"

	"gameratez/internal/models"
	"gameratez/internal/repository"
)

// followStore implements repository.FollowRepository.
type followStore struct {
	s *Store
}

// Follows returns the follow-edge view of the store.
func (s *Store) Follows() repository.FollowRepository {
	return &followStore{s: s}
}

func (f *followStore) Create(_ context.Context, follower, followee string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	for _, edge := range f.s.follows {
		if strings.EqualFold(edge.FollowerUsername, follower) && strings.EqualFold(edge.FolloweeUsername, followee) {
			return repository.ErrConflict
		}
	}
	f.s.follows = append(f.s.follows, &models.Follow{
		FollowerUsername: follower,
		FolloweeUsername: followee,
		CreatedAt:        time.Now().UTC(),
	})
	f.s.persist("follows", f.s.follows)
	return nil
}

func (f *followStore) Delete(_ context.Context, follower, followee string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	for i, edge := range f.s.follows {
		if strings.EqualFold(edge.FollowerUsername, follower) && strings.EqualFold(edge.FolloweeUsername, followee) {
			f.s.follows = append(f.s.follows[:i], f.s.follows[i+1:]...)
			f.s.persist("follows", f.s.follows)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *followStore) Exists(_ context.Context, follower, followee string) (bool, error) {
	f.s.mu.RLock()
	defer f.s.mu.RUnlock()

	for _, edge := range f.s.follows {
		if strings.EqualFold(edge.FollowerUsername, follower) && strings.EqualFold(edge.FolloweeUsername, followee) {
			return true, nil
		}
	}
	return false, nil
}

func (f *followStore) Followees(_ context.Context, follower string) ([]string, error) {
	f.s.mu.RLock()
	defer f.s.mu.RUnlock()

	edges := make([]*models.Follow, 0)
	for _, edge := range f.s.follows {
		if strings.EqualFold(edge.FollowerUsername, follower) {
			edges = append(edges, edge)
		}
	}
	sort.SliceStable(edges, func(i, j int) bool {
		return edges[i].CreatedAt.After(edges[j].CreatedAt)
	})
	followees := make([]string, len(edges))
	for i, edge := range edges {
		followees[i] = edge.FolloweeUsername
	}
	return followees, nil
}
