package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gameratez/internal/models"

	"gorm.io/gorm"
)

// RateRepository defines the interface for rate data operations. Every read
// returns rates already enriched with engagement counts and viewer flags, and
// hides rates whose creation timestamp lies after the given instant.
type RateRepository interface {
	Create(ctx context.Context, rate *models.Rate) error
	GetByID(ctx context.Context, id, viewer string, now time.Time) (*models.Rate, error)
	List(ctx context.Context, viewer string, platform models.Platform, now time.Time) ([]*models.Rate, error)
	ListByAuthors(ctx context.Context, authors []string, viewer string, platform models.Platform, now time.Time) ([]*models.Rate, error)
	ListBookmarked(ctx context.Context, username, viewer string, platform models.Platform, now time.Time) ([]*models.Rate, error)
	Search(ctx context.Context, query string, limit int, viewer string) ([]*models.Rate, error)
	Trending(ctx context.Context, limit int) ([]models.TrendingGame, error)
	UpdatePoll(ctx context.Context, rateID string, poll *models.Poll) error
	Delete(ctx context.Context, id string) error
}

// rateRepository implements RateRepository over GORM/Postgres.
type rateRepository struct {
	db *gorm.DB
}

// NewRateRepository creates a new rate repository.
func NewRateRepository(db *gorm.DB) RateRepository {
	return &rateRepository{db: db}
}

func (r *rateRepository) Create(ctx context.Context, rate *models.Rate) error {
	return r.db.WithContext(ctx).Create(rate).Error
}

func (r *rateRepository) GetByID(ctx context.Context, id, viewer string, now time.Time) (*models.Rate, error) {
	var rate models.Rate
	err := r.applyRateDetails(r.db.WithContext(ctx), viewer).
		Where("rates.id = ? AND rates.created_at <= ?", id, now).
		First(&rate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// A future-scheduled rate is indistinguishable from a missing one.
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *rateRepository) List(ctx context.Context, viewer string, platform models.Platform, now time.Time) ([]*models.Rate, error) {
	var rates []*models.Rate
	err := r.applyFeedFilters(r.applyRateDetails(r.db.WithContext(ctx), viewer), platform, now).
		Order("rates.created_at DESC").
		Find(&rates).Error
	return rates, err
}

// ListByAuthors returns the rates whose author handle matches any of the given
// usernames, case-insensitively. An empty author set yields an empty list.
func (r *rateRepository) ListByAuthors(ctx context.Context, authors []string, viewer string, platform models.Platform, now time.Time) ([]*models.Rate, error) {
	if len(authors) == 0 {
		return []*models.Rate{}, nil
	}
	lowered := make([]string, len(authors))
	for i, a := range authors {
		lowered[i] = strings.ToLower(a)
	}
	var rates []*models.Rate
	err := r.applyFeedFilters(r.applyRateDetails(r.db.WithContext(ctx), viewer), platform, now).
		Where("LOWER(rates.rater_handle) IN ?", lowered).
		Order("rates.created_at DESC").
		Find(&rates).Error
	return rates, err
}

func (r *rateRepository) ListBookmarked(ctx context.Context, username, viewer string, platform models.Platform, now time.Time) ([]*models.Rate, error) {
	var rates []*models.Rate
	err := r.applyFeedFilters(r.applyRateDetails(r.db.WithContext(ctx), viewer), platform, now).
		Where("EXISTS(SELECT 1 FROM bookmarks WHERE bookmarks.rate_id = rates.id AND LOWER(bookmarks.username) = LOWER(?))", username).
		Order("rates.created_at DESC").
		Find(&rates).Error
	return rates, err
}

// Search matches game name, body, or author handle by substring. Visibility
// and platform filters intentionally do not apply here.
func (r *rateRepository) Search(ctx context.Context, query string, limit int, viewer string) ([]*models.Rate, error) {
	var rates []*models.Rate
	like := "%" + query + "%"
	err := r.applyRateDetails(r.db.WithContext(ctx), viewer).
		Where("game_name ILIKE ? OR body ILIKE ? OR rater_handle ILIKE ?", like, like, like).
		Order("rates.created_at DESC").
		Limit(limit).
		Find(&rates).Error
	return rates, err
}

// Trending counts rates per game, case-insensitive, using the casing of the
// earliest rate for display. Scheduled rates count too.
func (r *rateRepository) Trending(ctx context.Context, limit int) ([]models.TrendingGame, error) {
	type row struct {
		GameName string
		Count    int
	}
	var rows []row
	err := r.db.WithContext(ctx).Raw(
		`SELECT (ARRAY_AGG(game_name ORDER BY created_at ASC))[1] AS game_name, COUNT(*) AS count
		 FROM rates
		 GROUP BY LOWER(game_name)
		 ORDER BY count DESC, LOWER(game_name) ASC
		 LIMIT ?`, limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	trending := make([]models.TrendingGame, len(rows))
	for i, row := range rows {
		trending[i] = models.TrendingGame{Rank: i + 1, GameName: row.GameName, Count: row.Count}
	}
	return trending, nil
}

func (r *rateRepository) UpdatePoll(ctx context.Context, rateID string, poll *models.Poll) error {
	res := r.db.WithContext(ctx).
		Model(&models.Rate{}).
		Where("id = ?", rateID).
		Update("poll", poll)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a rate and cascades its likes, bookmarks, comments,
// notifications, reports, and poll votes in one transaction.
func (r *rateRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Rate{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		for _, m := range []interface{}{
			&models.Like{}, &models.Bookmark{}, &models.Comment{},
			&models.Notification{}, &models.Report{}, &models.PollVote{},
		} {
			if err := tx.Where("rate_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// applyRateDetails adds subqueries to fetch engagement counts and viewer
// flags in a single query.
func (r *rateRepository) applyRateDetails(db *gorm.DB, viewer string) *gorm.DB {
	selectQuery := "rates.*, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.rate_id = rates.id) AS like_count, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.rate_id = rates.id) AS comment_count, " +
		"(SELECT COUNT(*) FROM bookmarks WHERE bookmarks.rate_id = rates.id) AS bookmark_count"

	if viewer != "" {
		return db.Select(selectQuery+
			", EXISTS(SELECT 1 FROM likes WHERE likes.rate_id = rates.id AND LOWER(likes.username) = LOWER(?)) AS liked"+
			", EXISTS(SELECT 1 FROM bookmarks WHERE bookmarks.rate_id = rates.id AND LOWER(bookmarks.username) = LOWER(?)) AS bookmarked",
			viewer, viewer)
	}

	return db.Select(selectQuery + ", FALSE AS liked, FALSE AS bookmarked")
}

// applyFeedFilters appends the visibility cutoff and optional platform filter
// shared by every feed view except search and trending.
func (r *rateRepository) applyFeedFilters(db *gorm.DB, platform models.Platform, now time.Time) *gorm.DB {
	db = db.Where("rates.created_at <= ?", now)
	if platform != "" {
		db = db.Where("rates.platform = ?", platform)
	}
	return db
}
