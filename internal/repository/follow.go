package repository

import (
	"context"

	"gameratez/internal/models"

	"gorm.io/gorm"
)

// FollowRepository defines the interface for follow edge operations.
type FollowRepository interface {
	Create(ctx context.Context, follower, followee string) error
	Delete(ctx context.Context, follower, followee string) error
	Exists(ctx context.Context, follower, followee string) (bool, error)
	Followees(ctx context.Context, follower string) ([]string, error)
}

// followRepository implements FollowRepository over GORM/Postgres.
type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new follow repository.
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Create(ctx context.Context, follower, followee string) error {
	res := r.db.WithContext(ctx).Exec(
		`INSERT INTO follows (follower_username, followee_username, created_at)
		 VALUES (?, ?, NOW())
		 ON CONFLICT (follower_username, followee_username) DO NOTHING`,
		follower, followee,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

func (r *followRepository) Delete(ctx context.Context, follower, followee string) error {
	res := r.db.WithContext(ctx).
		Where("LOWER(follower_username) = LOWER(?) AND LOWER(followee_username) = LOWER(?)", follower, followee).
		Delete(&models.Follow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *followRepository) Exists(ctx context.Context, follower, followee string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("LOWER(follower_username) = LOWER(?) AND LOWER(followee_username) = LOWER(?)", follower, followee).
		Count(&count).Error
	return count > 0, err
}

// Followees returns the usernames the given user follows, newest edge first.
func (r *followRepository) Followees(ctx context.Context, follower string) ([]string, error) {
	var followees []string
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("LOWER(follower_username) = LOWER(?)", follower).
		Order("created_at DESC").
		Pluck("followee_username", &followees).Error
	return followees, err
}
