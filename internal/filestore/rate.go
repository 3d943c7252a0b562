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

// rateStore implements repository.RateRepository.
type rateStore struct {
	s *Store
}

// Rates returns the rate view of the store.
func (s *Store) Rates() repository.RateRepository {
	return &rateStore{s: s}
}

func (r *rateStore) Create(_ context.Context, rate *models.Rate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if rate.ID == "" {
		rate.ID = uuid.NewString()
	}
	if rate.CreatedAt.IsZero() {
		rate.CreatedAt = time.Now().UTC()
	}
	cp := *rate
	cp.Poll = rate.Poll.Clone()
	r.s.rates = append(r.s.rates, &cp)
	r.s.persist("rates", r.s.rates)
	return nil
}

func (r *rateStore) GetByID(_ context.Context, id, viewer string, now time.Time) (*models.Rate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, rate := range r.s.rates {
		if rate.ID == id {
			if !rate.Visible(now) {
				// Hidden scheduled rates look exactly like missing ones.
				return nil, repository.ErrNotFound
			}
			return r.s.enrichLocked([]*models.Rate{rate}, viewer)[0], nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *rateStore) List(_ context.Context, viewer string, platform models.Platform, now time.Time) ([]*models.Rate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.listLocked(viewer, platform, now, nil), nil
}

func (r *rateStore) ListByAuthors(_ context.Context, authors []string, viewer string, platform models.Platform, now time.Time) ([]*models.Rate, error) {
	if len(authors) == 0 {
		return []*models.Rate{}, nil
	}
	authorSet := make(map[string]struct{}, len(authors))
	for _, a := range authors {
		authorSet[strings.ToLower(a)] = struct{}{}
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.listLocked(viewer, platform, now, func(rate *models.Rate) bool {
		_, ok := authorSet[strings.ToLower(rate.RaterHandle)]
		return ok
	}), nil
}

func (r *rateStore) ListBookmarked(_ context.Context, username, viewer string, platform models.Platform, now time.Time) ([]*models.Rate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	bookmarked := make(map[string]struct{})
	for _, b := range r.s.bookmarks {
		if strings.EqualFold(b.Username, username) {
			bookmarked[b.RateID] = struct{}{}
		}
	}
	return r.listLocked(viewer, platform, now, func(rate *models.Rate) bool {
		_, ok := bookmarked[rate.ID]
		return ok
	}), nil
}

// listLocked applies visibility and platform filters plus an optional
// predicate, newest first, enriched. Read lock must be held.
func (r *rateStore) listLocked(viewer string, platform models.Platform, now time.Time, keep func(*models.Rate) bool) []*models.Rate {
	selected := make([]*models.Rate, 0)
	for _, rate := range r.s.rates {
		if !rate.Visible(now) {
			continue
		}
		if platform != "" && rate.Platform != platform {
			continue
		}
		if keep != nil && !keep(rate) {
			continue
		}
		selected = append(selected, rate)
	}
	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].CreatedAt.After(selected[j].CreatedAt)
	})
	return r.s.enrichLocked(selected, viewer)
}

func (r *rateStore) Search(_ context.Context, query string, limit int, viewer string) ([]*models.Rate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	q := strings.ToLower(query)
	matches := make([]*models.Rate, 0)
	for _, rate := range r.s.rates {
		if strings.Contains(strings.ToLower(rate.GameName), q) ||
			strings.Contains(strings.ToLower(rate.Body), q) ||
			strings.Contains(strings.ToLower(rate.RaterHandle), q) {
			matches = append(matches, rate)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return r.s.enrichLocked(matches, viewer), nil
}

func (r *rateStore) Trending(_ context.Context, limit int) ([]models.TrendingGame, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	// First-seen casing means the casing of the earliest rate for the game.
	ordered := make([]*models.Rate, len(r.s.rates))
	copy(ordered, r.s.rates)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	counts := make(map[string]int)
	display := make(map[string]string)
	for _, rate := range ordered {
		key := strings.ToLower(rate.GameName)
		if _, seen := display[key]; !seen {
			display[key] = rate.GameName
		}
		counts[key]++
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > limit {
		keys = keys[:limit]
	}

	trending := make([]models.TrendingGame, len(keys))
	for i, k := range keys {
		trending[i] = models.TrendingGame{Rank: i + 1, GameName: display[k], Count: counts[k]}
	}
	return trending, nil
}

func (r *rateStore) UpdatePoll(_ context.Context, rateID string, poll *models.Poll) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, rate := range r.s.rates {
		if rate.ID == rateID {
			// Snapshot the incoming poll so the stored record never shares
			// option structs with a caller's copy.
			rate.Poll = poll.Clone()
			r.s.persist("rates", r.s.rates)
			return nil
		}
	}
	return repository.ErrNotFound
}

// Delete removes the rate and everything hanging off it.
func (r *rateStore) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	idx := -1
	for i, rate := range r.s.rates {
		if rate.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return repository.ErrNotFound
	}
	r.s.rates = append(r.s.rates[:idx], r.s.rates[idx+1:]...)

	r.s.likes = filterLikes(r.s.likes, id)
	r.s.bookmarks = filterBookmarks(r.s.bookmarks, id)
	r.s.comments = filterComments(r.s.comments, id)
	r.s.notifications = filterNotifications(r.s.notifications, id)
	r.s.reports = filterReports(r.s.reports, id)
	r.s.pollVotes = filterPollVotes(r.s.pollVotes, id)

	r.s.persist("rates", r.s.rates)
	r.s.persist("likes", r.s.likes)
	r.s.persist("bookmarks", r.s.bookmarks)
	r.s.persist("comments", r.s.comments)
	r.s.persist("notifications", r.s.notifications)
	r.s.persist("reports", r.s.reports)
	r.s.persist("poll_votes", r.s.pollVotes)
	return nil
}

func filterLikes(in []*models.Like, rateID string) []*models.Like {
	out := in[:0]
	for _, l := range in {
		if l.RateID != rateID {
			out = append(out, l)
		}
	}
	return out
}

func filterBookmarks(in []*models.Bookmark, rateID string) []*models.Bookmark {
	out := in[:0]
	for _, b := range in {
		if b.RateID != rateID {
			out = append(out, b)
		}
	}
	return out
}

func filterComments(in []*models.Comment, rateID string) []*models.Comment {
	out := in[:0]
	for _, c := range in {
		if c.RateID != rateID {
			out = append(out, c)
		}
	}
	return out
}

func filterNotifications(in []*models.Notification, rateID string) []*models.Notification {
	out := in[:0]
	for _, n := range in {
		if n.RateID != rateID {
			out = append(out, n)
		}
	}
	return out
}

func filterReports(in []*models.Report, rateID string) []*models.Report {
	out := in[:0]
	for _, rp := range in {
		if rp.RateID != rateID {
			out = append(out, rp)
		}
	}
	return out
}

func filterPollVotes(in []*models.PollVote, rateID string) []*models.PollVote {
	out := in[:0]
	for _, v := range in {
		if v.RateID != rateID {
			out = append(out, v)
		}
	}
	return out
}
