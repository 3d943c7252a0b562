// Command main runs the demo-data seeder for gameratez.
package main

import (
	"context"
	"flag"
	"log"

	"gameratez/internal/config"
	"gameratez/internal/database"
	"gameratez/internal/filestore"
	"gameratez/internal/games"
	"gameratez/internal/middleware"
	"gameratez/internal/repository"
	"gameratez/internal/seed"
)

func main() {
	// Parse command line flags
	numUsers := flag.Int("users", 50, "Number of users to create")
	numRates := flag.Int("rates", 200, "Number of rates to create")
	flag.Parse()

	log.Println("Demo-data seeder")
	log.Printf("Target: %d users, %d rates\n", *numUsers, *numRates)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var repos seed.Repos
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		db, err := database.Connect(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		repos = seed.Repos{
			Users:      repository.NewUserRepository(db),
			Rates:      repository.NewRateRepository(db),
			Engagement: repository.NewEngagementRepository(db),
			Follows:    repository.NewFollowRepository(db),
		}
	case config.BackendFile:
		store, err := filestore.Open(cfg.DataDir, middleware.Logger)
		if err != nil {
			log.Fatalf("Failed to open file store: %v", err)
		}
		repos = seed.Repos{
			Users:      store.Users(),
			Rates:      store.Rates(),
			Engagement: store.Engagement(),
			Follows:    store.Follows(),
		}
	}

	catalog := games.Default()
	if cfg.GamesFile != "" {
		catalog, err = games.Load(cfg.GamesFile)
		if err != nil {
			log.Fatalf("Failed to load game catalog: %v", err)
		}
	}

	ctx := context.Background()
	s := seed.NewSeeder(repos, catalog)

	users, err := s.SeedUsers(ctx, *numUsers)
	if err != nil {
		log.Fatalf("User seeding failed: %v", err)
	}
	rates, err := s.SeedRates(ctx, users, *numRates)
	if err != nil {
		log.Fatalf("Rate seeding failed: %v", err)
	}
	if err := s.SeedEngagement(ctx, users, rates); err != nil {
		log.Fatalf("Engagement seeding failed: %v", err)
	}

	log.Println("All done! All demo users have the password: password123")
}
