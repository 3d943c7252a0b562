// Package service contains the application's business logic: rate creation
// and feed assembly, engagement fan-out, follow graph rules, and the
// two-phase signup flow. Services translate repository sentinel errors into
// the API error taxonomy so handlers only map AppError codes to statuses.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gameratez/internal/games"
	"gameratez/internal/models"
	"gameratez/internal/repository"
)

// SearchRateLimit caps the rates half of a search response.
const SearchRateLimit = 50

// SearchUserLimit caps the users half of a search response.
const SearchUserLimit = 20

// TrendingLimit is how many games the trending view returns.
const TrendingLimit = 5

type RateService struct {
	rates      repository.RateRepository
	users      repository.UserRepository
	follows    repository.FollowRepository
	engagement repository.EngagementRepository
	catalog    *games.Catalog
	now        func() time.Time
}

func NewRateService(
	rates repository.RateRepository,
	users repository.UserRepository,
	follows repository.FollowRepository,
	engagement repository.EngagementRepository,
	catalog *games.Catalog,
	now func() time.Time,
) *RateService {
	if now == nil {
		now = time.Now
	}
	return &RateService{
		rates:      rates,
		users:      users,
		follows:    follows,
		engagement: engagement,
		catalog:    catalog,
		now:        now,
	}
}

// CreateRatePollInput is the poll payload when creating a rate with a poll.
type CreateRatePollInput struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type CreateRateInput struct {
	GameName    string
	Rating      int
	Body        string
	RaterName   string
	RaterHandle string
	Images      []string
	Poll        *CreateRatePollInput
	ScheduledAt *time.Time
	Platform    string
}

// ListRatesInput selects one of the feed views. At most one of Tab,
// RaterHandle, and BookmarkedBy should be set; Username identifies the
// viewer for the liked/bookmarked flags and the following tab.
type ListRatesInput struct {
	Tab          string
	Username     string
	RaterHandle  string
	BookmarkedBy string
	Platform     string
}

// SearchResult is the two-sided payload of the search endpoint.
type SearchResult struct {
	Users []models.Profile `json:"users"`
	Rates []*models.Rate   `json:"rates"`
}

func (s *RateService) CreateRate(ctx context.Context, in CreateRateInput) (*models.Rate, error) {
	gameName, ok := s.catalog.Resolve(in.GameName)
	if !ok {
		return nil, models.NewValidationError("Unknown game")
	}
	if in.Rating < 1 || in.Rating > 10 {
		return nil, models.NewValidationError("Rating must be between 1 and 10")
	}
	if strings.TrimSpace(in.Body) == "" {
		return nil, models.NewValidationError("Body is required")
	}
	if len(in.Images) > models.MaxRateImages {
		return nil, models.NewValidationError("A rate can carry at most 4 images")
	}

	author, err := s.users.GetByUsername(ctx, in.RaterHandle)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, models.NewValidationError("Unknown rater handle")
	}

	var poll *models.Poll
	if in.Poll != nil {
		poll, err = buildPoll(in.Poll)
		if err != nil {
			return nil, err
		}
	}

	platform := models.Platform(in.Platform)
	if in.Platform != "" && !models.ValidPlatform(platform) {
		return nil, models.NewValidationError("Invalid platform")
	}

	createdAt := s.now()
	if in.ScheduledAt != nil {
		createdAt = *in.ScheduledAt
	}

	rate := &models.Rate{
		RaterName:   author.DisplayName,
		RaterHandle: author.Username,
		GameName:    gameName,
		Rating:      in.Rating,
		Body:        in.Body,
		Platform:    platform,
		Images:      in.Images,
		Poll:        poll,
		CreatedAt:   createdAt,
	}
	if err := s.rates.Create(ctx, rate); err != nil {
		return nil, err
	}
	// Counts are zero on a fresh rate; no re-read needed. A scheduled rate
	// would be invisible to GetByID anyway.
	return rate, nil
}

func buildPoll(in *CreateRatePollInput) (*models.Poll, error) {
	if strings.TrimSpace(in.Question) == "" {
		return nil, models.NewValidationError("Poll question is required")
	}
	var opts []models.PollOption
	for _, o := range in.Options {
		if t := strings.TrimSpace(o); t != "" {
			opts = append(opts, models.PollOption{Text: t})
		}
	}
	if len(opts) < 2 {
		return nil, models.NewValidationError("Poll must have at least two options")
	}
	if len(opts) > 4 {
		return nil, models.NewValidationError("Poll cannot have more than four options")
	}
	return &models.Poll{Question: in.Question, Options: opts}, nil
}

func (s *RateService) ListRates(ctx context.Context, in ListRatesInput) ([]*models.Rate, error) {
	platform := models.Platform(in.Platform)
	if in.Platform != "" && !models.ValidPlatform(platform) {
		return nil, models.NewValidationError("Invalid platform")
	}
	if in.Platform == "" {
		platform = ""
	}
	now := s.now()

	switch {
	case in.BookmarkedBy != "":
		return s.rates.ListBookmarked(ctx, in.BookmarkedBy, in.Username, platform, now)
	case in.RaterHandle != "":
		return s.rates.ListByAuthors(ctx, []string{in.RaterHandle}, in.Username, platform, now)
	case in.Tab == "following":
		if in.Username == "" {
			return nil, models.NewValidationError("username is required for the following tab")
		}
		followees, err := s.follows.Followees(ctx, in.Username)
		if err != nil {
			return nil, err
		}
		return s.rates.ListByAuthors(ctx, followees, in.Username, platform, now)
	default:
		return s.rates.List(ctx, in.Username, platform, now)
	}
}

func (s *RateService) GetRate(ctx context.Context, id, viewer string) (*models.Rate, error) {
	rate, err := s.rates.GetByID(ctx, id, viewer, s.now())
	if errors.Is(err, repository.ErrNotFound) {
		return nil, models.NewNotFoundError("Rate", id)
	}
	if err != nil {
		return nil, err
	}
	return rate, nil
}

// Search runs the combined user+rate lookup. Hidden (scheduled) rates are
// searchable; only the feed views filter on visibility.
func (s *RateService) Search(ctx context.Context, query, viewer string) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	users, err := s.users.Search(ctx, query, SearchUserLimit)
	if err != nil {
		return nil, err
	}
	rates, err := s.rates.Search(ctx, query, SearchRateLimit, viewer)
	if err != nil {
		return nil, err
	}
	profiles := make([]models.Profile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, u.PublicProfile())
	}
	return &SearchResult{Users: profiles, Rates: rates}, nil
}

func (s *RateService) Trending(ctx context.Context) ([]models.TrendingGame, error) {
	return s.rates.Trending(ctx, TrendingLimit)
}

// DeleteRate removes a rate and everything hanging off it. Authorization
// (the admin token) is checked at the HTTP layer.
func (s *RateService) DeleteRate(ctx context.Context, id string) error {
	err := s.rates.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return models.NewNotFoundError("Rate", id)
	}
	return err
}

// VotePoll records one user's vote on a rate's poll and bumps the chosen
// option's counter. A second vote by the same user is a conflict.
func (s *RateService) VotePoll(ctx context.Context, rateID, username string, optionIndex int) (*models.Rate, error) {
	voter, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if voter == nil {
		return nil, models.NewValidationError("Unknown username")
	}
	now := s.now()
	rate, err := s.rates.GetByID(ctx, rateID, voter.Username, now)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, models.NewNotFoundError("Rate", rateID)
	}
	if err != nil {
		return nil, err
	}
	if rate.Poll == nil {
		return nil, models.NewValidationError("Rate has no poll")
	}
	if optionIndex < 0 || optionIndex >= len(rate.Poll.Options) {
		return nil, models.NewValidationError("Invalid poll option")
	}

	vote := &models.PollVote{RateID: rateID, Username: voter.Username, OptionIndex: optionIndex}
	if err := s.engagement.VotePoll(ctx, vote); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, models.NewConflictError("Already voted on this poll")
		}
		return nil, err
	}

	rate.Poll.Options[optionIndex].Votes++
	if err := s.rates.UpdatePoll(ctx, rateID, rate.Poll); err != nil {
		return nil, err
	}
	return rate, nil
}
