package repository

import (
	"context"
	"errors"

	"gameratez/internal/models"

	"gorm.io/gorm"
)

// EngagementRepository defines the interface for likes, bookmarks, comments,
// reports, and poll votes.
type EngagementRepository interface {
	Like(ctx context.Context, rateID, username string) error
	Unlike(ctx context.Context, rateID, username string) error
	LikeCount(ctx context.Context, rateID string) (int, error)
	Bookmark(ctx context.Context, rateID, username string) error
	Unbookmark(ctx context.Context, rateID, username string) error
	BookmarkCount(ctx context.Context, rateID string) (int, error)
	CreateComment(ctx context.Context, comment *models.Comment) error
	ListComments(ctx context.Context, rateID string) ([]*models.Comment, error)
	CommentCount(ctx context.Context, rateID string) (int, error)
	CreateReport(ctx context.Context, report *models.Report) error
	VotePoll(ctx context.Context, vote *models.PollVote) error
}

// engagementRepository implements EngagementRepository over GORM/Postgres.
type engagementRepository struct {
	db *gorm.DB
}

// NewEngagementRepository creates a new engagement repository.
func NewEngagementRepository(db *gorm.DB) EngagementRepository {
	return &engagementRepository{db: db}
}

// Like inserts with ON CONFLICT DO NOTHING so concurrent duplicates cannot
// error; zero affected rows means the pair already existed.
func (r *engagementRepository) Like(ctx context.Context, rateID, username string) error {
	res := r.db.WithContext(ctx).Exec(
		`INSERT INTO likes (rate_id, username, created_at)
		 VALUES (?, ?, NOW())
		 ON CONFLICT (rate_id, username) DO NOTHING`,
		rateID, username,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

func (r *engagementRepository) Unlike(ctx context.Context, rateID, username string) error {
	res := r.db.WithContext(ctx).
		Where("rate_id = ? AND username = ?", rateID, username).
		Delete(&models.Like{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *engagementRepository) LikeCount(ctx context.Context, rateID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("rate_id = ?", rateID).
		Count(&count).Error
	return int(count), err
}

func (r *engagementRepository) Bookmark(ctx context.Context, rateID, username string) error {
	res := r.db.WithContext(ctx).Exec(
		`INSERT INTO bookmarks (rate_id, username, created_at)
		 VALUES (?, ?, NOW())
		 ON CONFLICT (rate_id, username) DO NOTHING`,
		rateID, username,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

func (r *engagementRepository) Unbookmark(ctx context.Context, rateID, username string) error {
	res := r.db.WithContext(ctx).
		Where("rate_id = ? AND username = ?", rateID, username).
		Delete(&models.Bookmark{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *engagementRepository) BookmarkCount(ctx context.Context, rateID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Bookmark{}).
		Where("rate_id = ?", rateID).
		Count(&count).Error
	return int(count), err
}

func (r *engagementRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// ListComments returns a rate's comments oldest-first.
func (r *engagementRepository) ListComments(ctx context.Context, rateID string) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Where("rate_id = ?", rateID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

func (r *engagementRepository) CommentCount(ctx context.Context, rateID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("rate_id = ?", rateID).
		Count(&count).Error
	return int(count), err
}

func (r *engagementRepository) CreateReport(ctx context.Context, report *models.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *engagementRepository) VotePoll(ctx context.Context, vote *models.PollVote) error {
	err := r.db.WithContext(ctx).Create(vote).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrConflict
	}
	return err
}
