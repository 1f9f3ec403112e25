package seed

import (
	"testing"

	"socialite/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

func TestSeedCreatesConsistentMesh(t *testing.T) {
	db := setupSeedTestDB(t)

	require.NoError(t, Seed(db, Options{NumUsers: 6, FollowsPerUser: 2}))

	var users []models.User
	require.NoError(t, db.Find(&users).Error)
	require.Len(t, users, 6)

	byID := make(map[string]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	for _, u := range users {
		assert.Equal(t, len(u.Followers), u.FollowersCount, "followers count mirrors list for %s", u.Username)
		assert.Equal(t, len(u.Following), u.FollowingCount, "following count mirrors list for %s", u.Username)
		assert.NotEmpty(t, u.Password)

		// Every edge must be recorded on both sides.
		for _, targetID := range u.Following {
			target, ok := byID[targetID]
			require.True(t, ok, "followed user must exist")
			assert.True(t, target.Followers.Contains(u.ID), "edge %s -> %s must be symmetric", u.Username, target.Username)
		}
	}
}

func TestSeedCleanRemovesExistingUsers(t *testing.T) {
	db := setupSeedTestDB(t)

	require.NoError(t, db.Create(&models.User{
		ID:       "stale",
		Username: "stale",
		Email:    "stale@example.com",
		Password: "pw",
	}).Error)

	require.NoError(t, Seed(db, Options{NumUsers: 2, FollowsPerUser: 1, ShouldClean: true}))

	var stale models.User
	err := db.Where("id = ?", "stale").First(&stale).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestFactoryDryRunSkipsWrites(t *testing.T) {
	db := setupSeedTestDB(t)
	factory := NewFactory(db, Options{DryRun: true})

	users := []*models.User{factory.BuildUser(), factory.BuildUser()}
	require.NoError(t, factory.CreateUsersBatch(users))
	assert.NotEmpty(t, users[0].Username)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestFactoryBatchCreatesUsers(t *testing.T) {
	db := setupSeedTestDB(t)
	factory := NewFactory(db, Options{})

	users := []*models.User{factory.BuildUser(), factory.BuildUser(), factory.BuildUser()}
	require.NoError(t, factory.CreateUsersBatch(users))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 3, count)

	for _, u := range users {
		assert.NotEmpty(t, u.ID, "batch create must assign ids")
	}
}
