package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand"

	"socialite/internal/models"
	"socialite/internal/repository"
	"socialite/internal/service"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers       int
	FollowsPerUser int
	ShouldClean    bool
	DryRun         bool
}

// Seed populates the database with test users and a follow mesh between them.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users...", opts.NumUsers)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	users, err := createUsers(db, opts)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d test users created", len(users))

	if !opts.DryRun {
		follows, err := createFollowMesh(db, users, opts.FollowsPerUser)
		if err != nil {
			return fmt.Errorf("failed to create follow mesh: %w", err)
		}
		log.Printf("✓ %d follow relationships created", follows)
	}

	log.Println("🎉 Database seeding completed!")
	return nil
}

func clearData(db *gorm.DB) error {
	return db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.User{}).Error
}

func createUsers(db *gorm.DB, opts Options) ([]*models.User, error) {
	factory := NewFactory(db, opts)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		users = append(users, factory.BuildUser())
	}
	if err := factory.CreateUsersBatch(users); err != nil {
		return nil, err
	}
	return users, nil
}

// createFollowMesh wires each user to a few random others through the
// relationship service so the denormalized lists and counts stay consistent.
func createFollowMesh(db *gorm.DB, users []*models.User, followsPerUser int) (int, error) {
	if followsPerUser <= 0 {
		followsPerUser = 3
	}
	if followsPerUser >= len(users) {
		followsPerUser = len(users) - 1
	}

	relationships := service.NewRelationshipService(repository.NewUserRepository(db))
	ctx := context.Background()

	created := 0
	for _, follower := range users {
		for _, idx := range rand.Perm(len(users))[:followsPerUser] {
			target := users[idx]
			if target.ID == follower.ID {
				continue
			}
			err := relationships.FollowUser(ctx, follower.ID, target.ID)
			if err != nil {
				if models.IsCode(err, models.CodeAlreadyFollowing) {
					continue
				}
				return created, err
			}
			created++
		}
	}
	return created, nil
}
