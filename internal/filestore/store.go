// Package filestore implements the repository interfaces over in-process
// collections mirrored to JSON files on disk. All collections are loaded at
// startup; every mutation rewrites the affected collection file before the
// call returns. A write failure is logged and swallowed: the in-memory state
// stays authoritative for the life of the process.
package filestore

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gameratez/internal/models"
)

// Store owns every collection of the flat-file backend. One lock guards all
// of them, which makes check-then-insert sequences atomic.
type Store struct {
	mu  sync.RWMutex
	dir string
	log *slog.Logger

	users         []*models.User
	rates         []*models.Rate
	likes         []*models.Like
	bookmarks     []*models.Bookmark
	comments      []*models.Comment
	follows       []*models.Follow
	notifications []*models.Notification
	messages      []*models.Message
	reports       []*models.Report
	pollVotes     []*models.PollVote
}

// persistedUser carries the password hash, which the API-facing User struct
// deliberately omits from JSON.
type persistedUser struct {
	models.User
	PasswordHash string `json:"passwordHash,omitempty"`
}

// Open loads all collections from dir, creating it if needed.
func Open(dir string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	s := &Store{dir: dir, log: logger}

	var persisted []persistedUser
	if err := s.load("users", &persisted); err != nil {
		return nil, err
	}
	for i := range persisted {
		u := persisted[i].User
		u.PasswordHash = persisted[i].PasswordHash
		s.users = append(s.users, &u)
	}

	for name, dst := range map[string]interface{}{
		"rates":         &s.rates,
		"likes":         &s.likes,
		"bookmarks":     &s.bookmarks,
		"comments":      &s.comments,
		"follows":       &s.follows,
		"notifications": &s.notifications,
		"messages":      &s.messages,
		"reports":       &s.reports,
		"poll_votes":    &s.pollVotes,
	} {
		if err := s.load(name, dst); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) load(name string, dst interface{}) error {
	path := filepath.Join(s.dir, name+".json")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// persist rewrites one collection file wholesale. Must be called with the
// write lock held so the snapshot is consistent and writes stay ordered.
// Errors are logged, not returned: in-memory state is authoritative.
func (s *Store) persist(name string, v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		s.log.Error("filestore marshal failed", slog.String("collection", name), slog.String("error", err.Error()))
		return
	}
	path := filepath.Join(s.dir, name+".json")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		s.log.Error("filestore write failed", slog.String("collection", name), slog.String("error", err.Error()))
		return
	}
	if err := os.Rename(tmp, path); err != nil {
		s.log.Error("filestore rename failed", slog.String("collection", name), slog.String("error", err.Error()))
	}
}

func (s *Store) persistUsers() {
	persisted := make([]persistedUser, len(s.users))
	for i, u := range s.users {
		persisted[i] = persistedUser{User: *u, PasswordHash: u.PasswordHash}
	}
	s.persist("users", persisted)
}

// enrichLocked copies the given rates and fills in engagement counts and
// viewer flags. Read lock (at least) must be held.
func (s *Store) enrichLocked(rates []*models.Rate, viewer string) []*models.Rate {
	likeCounts := make(map[string]int)
	likedByViewer := make(map[string]bool)
	for _, l := range s.likes {
		likeCounts[l.RateID]++
		if viewer != "" && strings.EqualFold(l.Username, viewer) {
			likedByViewer[l.RateID] = true
		}
	}
	bookmarkCounts := make(map[string]int)
	bookmarkedByViewer := make(map[string]bool)
	for _, b := range s.bookmarks {
		bookmarkCounts[b.RateID]++
		if viewer != "" && strings.EqualFold(b.Username, viewer) {
			bookmarkedByViewer[b.RateID] = true
		}
	}
	commentCounts := make(map[string]int)
	for _, c := range s.comments {
		commentCounts[c.RateID]++
	}

	out := make([]*models.Rate, len(rates))
	for i, r := range rates {
		cp := *r
		cp.Poll = r.Poll.Clone()
		cp.LikeCount = likeCounts[r.ID]
		cp.CommentCount = commentCounts[r.ID]
		cp.BookmarkCount = bookmarkCounts[r.ID]
		cp.Liked = likedByViewer[r.ID]
		cp.Bookmarked = bookmarkedByViewer[r.ID]
		out[i] = &cp
	}
	return out
}
