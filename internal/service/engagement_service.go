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

// EngagementService handles likes, bookmarks, comments, reports, and the
// notification fan-out those actions trigger. Notification writes are
// best-effort relative to the primary action: the like lands even when the
// notification insert fails.
type EngagementService struct {
	rates         repository.RateRepository
	engagement    repository.EngagementRepository
	users         repository.UserRepository
	notifications repository.NotificationRepository
	now           func() time.Time
}

func NewEngagementService(
	rates repository.RateRepository,
	engagement repository.EngagementRepository,
	users repository.UserRepository,
	notifications repository.NotificationRepository,
	now func() time.Time,
) *EngagementService {
	if now == nil {
		now = time.Now
	}
	return &EngagementService{
		rates:         rates,
		engagement:    engagement,
		users:         users,
		notifications: notifications,
		now:           now,
	}
}

// resolveActor canonicalizes the acting username and fetches the target rate,
// mapping a missing or still-scheduled rate to 404.
func (s *EngagementService) resolveActor(ctx context.Context, rateID, username string) (*models.User, *models.Rate, error) {
	actor, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	if actor == nil {
		return nil, nil, models.NewValidationError("Unknown username")
	}
	rate, err := s.rates.GetByID(ctx, rateID, actor.Username, s.now())
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, models.NewNotFoundError("Rate", rateID)
	}
	if err != nil {
		return nil, nil, err
	}
	return actor, rate, nil
}

func (s *EngagementService) Like(ctx context.Context, rateID, username string) (int, error) {
	actor, rate, err := s.resolveActor(ctx, rateID, username)
	if err != nil {
		return 0, err
	}
	if err := s.engagement.Like(ctx, rateID, actor.Username); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return 0, models.NewConflictError("Already liked")
		}
		return 0, err
	}
	if !strings.EqualFold(actor.Username, rate.RaterHandle) {
		if err := s.notifications.Create(ctx, &models.Notification{
			Type:              models.NotificationTypeLike,
			RecipientUsername: rate.RaterHandle,
			ActorUsername:     actor.Username,
			RateID:            rate.ID,
			GameName:          rate.GameName,
			CreatedAt:         s.now(),
		}); err == nil {
			observability.NotificationsCreated.WithLabelValues(string(models.NotificationTypeLike)).Inc()
		}
	}
	return s.engagement.LikeCount(ctx, rateID)
}

func (s *EngagementService) Unlike(ctx context.Context, rateID, username string) (int, error) {
	actor, _, err := s.resolveActor(ctx, rateID, username)
	if err != nil {
		return 0, err
	}
	if err := s.engagement.Unlike(ctx, rateID, actor.Username); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, models.NewNotFoundError("Like", rateID)
		}
		return 0, err
	}
	return s.engagement.LikeCount(ctx, rateID)
}

func (s *EngagementService) Bookmark(ctx context.Context, rateID, username string) (int, error) {
	actor, _, err := s.resolveActor(ctx, rateID, username)
	if err != nil {
		return 0, err
	}
	if err := s.engagement.Bookmark(ctx, rateID, actor.Username); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return 0, models.NewConflictError("Already bookmarked")
		}
		return 0, err
	}
	return s.engagement.BookmarkCount(ctx, rateID)
}

func (s *EngagementService) Unbookmark(ctx context.Context, rateID, username string) (int, error) {
	actor, _, err := s.resolveActor(ctx, rateID, username)
	if err != nil {
		return 0, err
	}
	if err := s.engagement.Unbookmark(ctx, rateID, actor.Username); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, models.NewNotFoundError("Bookmark", rateID)
		}
		return 0, err
	}
	return s.engagement.BookmarkCount(ctx, rateID)
}

func (s *EngagementService) Comment(ctx context.Context, rateID, username, body string) (*models.Comment, int, error) {
	if strings.TrimSpace(body) == "" {
		return nil, 0, models.NewValidationError("Comment body is required")
	}
	actor, rate, err := s.resolveActor(ctx, rateID, username)
	if err != nil {
		return nil, 0, err
	}
	comment := &models.Comment{
		RateID:      rateID,
		Username:    actor.Username,
		DisplayName: actor.DisplayName,
		Body:        body,
		CreatedAt:   s.now(),
	}
	if err := s.engagement.CreateComment(ctx, comment); err != nil {
		return nil, 0, err
	}
	if !strings.EqualFold(actor.Username, rate.RaterHandle) {
		if err := s.notifications.Create(ctx, &models.Notification{
			Type:              models.NotificationTypeComment,
			RecipientUsername: rate.RaterHandle,
			ActorUsername:     actor.Username,
			ActorDisplayName:  actor.DisplayName,
			RateID:            rate.ID,
			GameName:          rate.GameName,
			Body:              snippet(body),
			CreatedAt:         s.now(),
		}); err == nil {
			observability.NotificationsCreated.WithLabelValues(string(models.NotificationTypeComment)).Inc()
		}
	}
	count, err := s.engagement.CommentCount(ctx, rateID)
	if err != nil {
		return nil, 0, err
	}
	return comment, count, nil
}

// ListComments returns a rate's comments oldest-first.
func (s *EngagementService) ListComments(ctx context.Context, rateID, viewer string) ([]*models.Comment, error) {
	if _, err := s.rates.GetByID(ctx, rateID, viewer, s.now()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, models.NewNotFoundError("Rate", rateID)
		}
		return nil, err
	}
	return s.engagement.ListComments(ctx, rateID)
}

func (s *EngagementService) Report(ctx context.Context, rateID, username, reason string) error {
	actor, _, err := s.resolveActor(ctx, rateID, username)
	if err != nil {
		return err
	}
	report := &models.Report{
		RateID:           rateID,
		ReporterUsername: actor.Username,
		Reason:           truncate(reason, models.ReportReasonLimit),
		CreatedAt:        s.now(),
	}
	return s.engagement.CreateReport(ctx, report)
}

// snippet shortens a comment body for its notification, keeping whole runes.
func snippet(body string) string {
	r := []rune(body)
	if len(r) <= models.NotificationSnippetLimit {
		return body
	}
	return string(r[:models.NotificationSnippetLimit]) + "…"
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
