// Command main runs the database seeder for Socialite.
package main

import (
	"flag"
	"log"

	"socialite/internal/cache"
	"socialite/internal/config"
	"socialite/internal/database"
	"socialite/internal/seed"
)

func main() {
	// Parse command line flags
	numUsers := flag.Int("users", 50, "Number of users to create")
	followsPerUser := flag.Int("follows", 3, "Number of users each user follows")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	dryRun := flag.Bool("dry-run", false, "Print generated users without writing to the database")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d users, %d follows each, clean=%v\n", *numUsers, *followsPerUser, *shouldClean)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database and cache
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	cache.InitRedis(cfg.RedisURL)

	if err := seed.Seed(db, seed.Options{
		NumUsers:       *numUsers,
		FollowsPerUser: *followsPerUser,
		ShouldClean:    *shouldClean,
		DryRun:         *dryRun,
	}); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}
}
