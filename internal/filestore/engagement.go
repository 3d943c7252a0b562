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

// engagementStore implements repository.EngagementRepository.
type engagementStore struct {
	s *Store
}

// Engagement returns the engagement view of the store.
func (s *Store) Engagement() repository.EngagementRepository {
	return &engagementStore{s: s}
}

func (e *engagementStore) Like(_ context.Context, rateID, username string) error {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()

	for _, l := range e.s.likes {
		if l.RateID == rateID && strings.EqualFold(l.Username, username) {
			return repository.ErrConflict
		}
	}
	e.s.likes = append(e.s.likes, &models.Like{
		RateID:    rateID,
		Username:  username,
		CreatedAt: time.Now().UTC(),
	})
	e.s.persist("likes", e.s.likes)
	return nil
}

func (e *engagementStore) Unlike(_ context.Context, rateID, username string) error {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()

	for i, l := range e.s.likes {
		if l.RateID == rateID && strings.EqualFold(l.Username, username) {
			e.s.likes = append(e.s.likes[:i], e.s.likes[i+1:]...)
			e.s.persist("likes", e.s.likes)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (e *engagementStore) LikeCount(_ context.Context, rateID string) (int, error) {
	e.s.mu.RLock()
	defer e.s.mu.RUnlock()

	count := 0
	for _, l := range e.s.likes {
		if l.RateID == rateID {
			count++
		}
	}
	return count, nil
}

func (e *engagementStore) Bookmark(_ context.Context, rateID, username string) error {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()

	for _, b := range e.s.bookmarks {
		if b.RateID == rateID && strings.EqualFold(b.Username, username) {
			return repository.ErrConflict
		}
	}
	e.s.bookmarks = append(e.s.bookmarks, &models.Bookmark{
		RateID:    rateID,
		Username:  username,
		CreatedAt: time.Now().UTC(),
	})
	e.s.persist("bookmarks", e.s.bookmarks)
	return nil
}

func (e *engagementStore) Unbookmark(_ context.Context, rateID, username string) error {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()

	for i, b := range e.s.bookmarks {
		if b.RateID == rateID && strings.EqualFold(b.Username, username) {
			e.s.bookmarks = append(e.s.bookmarks[:i], e.s.bookmarks[i+1:]...)
			e.s.persist("bookmarks", e.s.bookmarks)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (e *engagementStore) BookmarkCount(_ context.Context, rateID string) (int, error) {
	e.s.mu.RLock()
	defer e.s.mu.RUnlock()

	count := 0
	for _, b := range e.s.bookmarks {
		if b.RateID == rateID {
			count++
		}
	}
	return count, nil
}

func (e *engagementStore) CreateComment(_ context.Context, comment *models.Comment) error {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()

	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}
	cp := *comment
	e.s.comments = append(e.s.comments, &cp)
	e.s.persist("comments", e.s.comments)
	return nil
}

func (e *engagementStore) ListComments(_ context.Context, rateID string) ([]*models.Comment, error) {
	e.s.mu.RLock()
	defer e.s.mu.RUnlock()

	comments := make([]*models.Comment, 0)
	for _, c := range e.s.comments {
		if c.RateID == rateID {
			cp := *c
			comments = append(comments, &cp)
		}
	}
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments, nil
}

func (e *engagementStore) CommentCount(_ context.Context, rateID string) (int, error) {
	e.s.mu.RLock()
	defer e.s.mu.RUnlock()

	count := 0
	for _, c := range e.s.comments {
		if c.RateID == rateID {
			count++
		}
	}
	return count, nil
}

func (e *engagementStore) CreateReport(_ context.Context, report *models.Report) error {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()

	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}
	cp := *report
	e.s.reports = append(e.s.reports, &cp)
	e.s.persist("reports", e.s.reports)
	return nil
}

func (e *engagementStore) VotePoll(_ context.Context, vote *models.PollVote) error {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()

	for _, v := range e.s.pollVotes {
		if v.RateID == vote.RateID && strings.EqualFold(v.Username, vote.Username) {
			return repository.ErrConflict
		}
	}
	if vote.CreatedAt.IsZero() {
		vote.CreatedAt = time.Now().UTC()
	}
	cp := *vote
	e.s.pollVotes = append(e.s.pollVotes, &cp)
	e.s.persist("poll_votes", e.s.pollVotes)
	return nil
}
