// Package seed populates a backend with demo data for local development.
package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"gameratez/internal/games"
	"gameratez/internal/models"
	"gameratez/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
)

// Repos bundles the repositories the seeder writes through, so the same
// seeder populates either backend.
type Repos struct {
	Users      repository.UserRepository
	Rates      repository.RateRepository
	Engagement repository.EngagementRepository
	Follows    repository.FollowRepository
}

// Seeder generates demo users, rates, and engagement.
type Seeder struct {
	repos   Repos
	catalog *games.Catalog
	rng     *rand.Rand
}

// NewSeeder returns a seeder writing through the given repositories.
func NewSeeder(repos Repos, catalog *games.Catalog) *Seeder {
	if catalog == nil {
		catalog = games.Default()
	}
	return &Seeder{
		repos:   repos,
		catalog: catalog,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

var platforms = []models.Platform{
	models.PlatformPS, models.PlatformXbox, models.PlatformPC, models.PlatformNone,
}

var genres = []string{
	"rpg", "fps", "platformer", "roguelike", "strategy", "racing",
	"simulation", "fighting", "survival", "puzzle",
}

// SeedUsers creates n demo users. Every user gets the password "password123".
func (s *Seeder) SeedUsers(ctx context.Context, n int) ([]*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		username := fmt.Sprintf("%s%d", strings.ToLower(gofakeit.Username()), i)
		if len(username) > 20 {
			username = username[:20]
		}
		user := &models.User{
			Email:          fmt.Sprintf("%d.%s", i, gofakeit.Email()),
			Username:       username,
			DisplayName:    gofakeit.Name(),
			Bio:            gofakeit.Sentence(8),
			FavoriteGenres: s.pickGenres(),
			FeedPreference: models.FeedPreferenceAll,
			Platform:       platforms[s.rng.Intn(len(platforms))],
			PasswordHash:   string(hash),
		}
		if err := s.repos.Users.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("seeding user %q: %w", user.Username, err)
		}
		users = append(users, user)
	}
	log.Printf("Seeded %d users", len(users))
	return users, nil
}

// SeedRates creates n rates authored by random seeded users, spread over the
// past month.
func (s *Seeder) SeedRates(ctx context.Context, users []*models.User, n int) ([]*models.Rate, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("no users to author rates")
	}
	names := s.catalog.Names()

	rates := make([]*models.Rate, 0, n)
	for i := 0; i < n; i++ {
		author := users[s.rng.Intn(len(users))]
		rate := &models.Rate{
			RaterName:   author.DisplayName,
			RaterHandle: author.Username,
			GameName:    names[s.rng.Intn(len(names))],
			Rating:      1 + s.rng.Intn(10),
			Body:        gofakeit.Paragraph(1, 3, 12, " "),
			Platform:    platforms[s.rng.Intn(len(platforms))],
			CreatedAt:   time.Now().Add(-time.Duration(s.rng.Intn(30*24)) * time.Hour),
		}
		if s.rng.Intn(5) == 0 {
			rate.Poll = &models.Poll{
				Question: gofakeit.Question(),
				Options: []models.PollOption{
					{Text: gofakeit.Word()},
					{Text: gofakeit.Word()},
				},
			}
		}
		if err := s.repos.Rates.Create(ctx, rate); err != nil {
			return nil, fmt.Errorf("seeding rate: %w", err)
		}
		rates = append(rates, rate)
	}
	log.Printf("Seeded %d rates", len(rates))
	return rates, nil
}

// SeedEngagement sprinkles likes, comments, and follows across the seeded
// users and rates. Conflicts from duplicate picks are skipped.
func (s *Seeder) SeedEngagement(ctx context.Context, users []*models.User, rates []*models.Rate) error {
	if len(users) == 0 || len(rates) == 0 {
		return nil
	}

	likes := len(rates) * 2
	for i := 0; i < likes; i++ {
		user := users[s.rng.Intn(len(users))]
		rate := rates[s.rng.Intn(len(rates))]
		if err := s.repos.Engagement.Like(ctx, rate.ID, user.Username); err != nil &&
			err != repository.ErrConflict {
			return fmt.Errorf("seeding like: %w", err)
		}
	}

	comments := len(rates)
	for i := 0; i < comments; i++ {
		user := users[s.rng.Intn(len(users))]
		rate := rates[s.rng.Intn(len(rates))]
		comment := &models.Comment{
			RateID:      rate.ID,
			Username:    user.Username,
			DisplayName: user.DisplayName,
			Body:        gofakeit.Sentence(10),
			CreatedAt:   rate.CreatedAt.Add(time.Duration(s.rng.Intn(3600)) * time.Second),
		}
		if err := s.repos.Engagement.CreateComment(ctx, comment); err != nil {
			return fmt.Errorf("seeding comment: %w", err)
		}
	}

	follows := len(users) * 3
	for i := 0; i < follows; i++ {
		follower := users[s.rng.Intn(len(users))]
		followee := users[s.rng.Intn(len(users))]
		if follower.Username == followee.Username {
			continue
		}
		if err := s.repos.Follows.Create(ctx, follower.Username, followee.Username); err != nil &&
			err != repository.ErrConflict {
			return fmt.Errorf("seeding follow: %w", err)
		}
	}

	log.Printf("Seeded engagement: ~%d likes, %d comments, ~%d follows", likes, comments, follows)
	return nil
}

func (s *Seeder) pickGenres() []string {
	count := 1 + s.rng.Intn(3)
	picked := make([]string, 0, count)
	for _, idx := range s.rng.Perm(len(genres))[:count] {
		picked = append(picked, genres[idx])
	}
	return picked
}
