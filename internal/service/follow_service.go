package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gameratez/internal/models"
	"gameratez/internal/observability"
	"gameratez/internal/repository"
)

// FollowService maintains the follow graph and its notification fan-out.
type FollowService struct {
	follows       repository.FollowRepository
	users         repository.UserRepository
	notifications repository.NotificationRepository
	now           func() time.Time
}

func NewFollowService(
	follows repository.FollowRepository,
	users repository.UserRepository,
	notifications repository.NotificationRepository,
	now func() time.Time,
) *FollowService {
	if now == nil {
		now = time.Now
	}
	return &FollowService{
		follows:       follows,
		users:         users,
		notifications: notifications,
		now:           now,
	}
}

// resolvePair canonicalizes both usernames, requiring both accounts to exist.
func (s *FollowService) resolvePair(ctx context.Context, follower, followee string) (*models.User, *models.User, error) {
	followerUser, err := s.users.GetByUsername(ctx, follower)
	if err != nil {
		return nil, nil, err
	}
	if followerUser == nil {
		return nil, nil, models.NewNotFoundError("User", follower)
	}
	followeeUser, err := s.users.GetByUsername(ctx, followee)
	if err != nil {
		return nil, nil, err
	}
	if followeeUser == nil {
		return nil, nil, models.NewNotFoundError("User", followee)
	}
	return followerUser, followeeUser, nil
}

func (s *FollowService) Follow(ctx context.Context, follower, followee string) error {
	if strings.EqualFold(follower, followee) {
		return models.NewValidationError("Cannot follow yourself")
	}
	followerUser, followeeUser, err := s.resolvePair(ctx, follower, followee)
	if err != nil {
		return err
	}
	if err := s.follows.Create(ctx, followerUser.Username, followeeUser.Username); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return models.NewConflictError("Already following")
		}
		return err
	}
	if err := s.notifications.Create(ctx, &models.Notification{
		Type:              models.NotificationTypeFollow,
		RecipientUsername: followeeUser.Username,
		ActorUsername:     followerUser.Username,
		ActorDisplayName:  followerUser.DisplayName,
		CreatedAt:         s.now(),
	}); err == nil {
		observability.NotificationsCreated.WithLabelValues(string(models.NotificationTypeFollow)).Inc()
	}
	return nil
}

func (s *FollowService) Unfollow(ctx context.Context, follower, followee string) error {
	err := s.follows.Delete(ctx, follower, followee)
	if errors.Is(err, repository.ErrNotFound) {
		return models.NewNotFoundError("Follow", followee)
	}
	return err
}

// IsFollowing reports the edge's existence without requiring either account.
func (s *FollowService) IsFollowing(ctx context.Context, follower, followee string) (bool, error) {
	return s.follows.Exists(ctx, follower, followee)
}

// Following lists the public profiles the given user follows, newest edge
// first. Followees whose account vanished are skipped.
func (s *FollowService) Following(ctx context.Context, username string) ([]models.Profile, error) {
	followees, err := s.follows.Followees(ctx, username)
	if err != nil {
		return nil, err
	}
	profiles := make([]models.Profile, 0, len(followees))
	for _, handle := range followees {
		user, err := s.users.GetByUsername(ctx, handle)
		if err != nil {
			return nil, err
		}
		if user == nil {
			continue
		}
		profiles = append(profiles, user.PublicProfile())
	}
	return profiles, nil
}
