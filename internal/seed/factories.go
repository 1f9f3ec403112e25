// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"time"

	"socialite/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db, opts: opts}
}

// BuildUser constructs a sample user without persisting it. Optional
// override functions may modify the generated user.
func (f *Factory) BuildUser(overrides ...func(*models.User)) *models.User {
	now := time.Now().UTC()
	user := &models.User{
		Name:      gofakeit.Name(),
		Username:  gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:     gofakeit.Email(),
		Password:  "password123",
		Bio:       gofakeit.Sentence(10),
		AvatarURL: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		CreatedAt: now,
		UpdatedAt: now,
		Followers: models.IDList{},
		Following: models.IDList{},
	}

	for _, override := range overrides {
		override(user)
	}
	return user
}

// CreateUsersBatch persists the users in a single DB call.
func (f *Factory) CreateUsersBatch(users []*models.User) error {
	if f.opts.DryRun {
		for _, u := range users {
			log.Printf("[dry-run] CreateUser: %s (%s)", u.Username, u.Email)
		}
		return nil
	}
	if err := f.db.Create(&users).Error; err != nil {
		return fmt.Errorf("failed to create %d users: %w", len(users), err)
	}
	return nil
}
