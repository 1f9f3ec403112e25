package repository

import (
	"context"
	"testing"

	"socialite/internal/cache"
	"socialite/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupUserRepoTest(t *testing.T) UserRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return NewUserRepository(db)
}

func newUser(username string) *models.User {
	return &models.User{
		Name:      username,
		Username:  username,
		Email:     username + "@example.com",
		Password:  "pw",
		Followers: models.IDList{},
		Following: models.IDList{},
	}
}

func TestCreateAssignsOpaqueID(t *testing.T) {
	repo := setupUserRepoTest(t)
	ctx := context.Background()

	alice := newUser("alice")
	require.NoError(t, repo.Create(ctx, alice))
	assert.Len(t, alice.ID, 36)

	bob := newUser("bob")
	require.NoError(t, repo.Create(ctx, bob))
	assert.NotEqual(t, alice.ID, bob.ID)
}

func TestCreateConflicts(t *testing.T) {
	repo := setupUserRepoTest(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newUser("alice")))

	sameUsername := newUser("alice")
	sameUsername.Email = "other@example.com"
	err := repo.Create(ctx, sameUsername)
	require.True(t, models.IsCode(err, models.CodeConflict))
	assert.Equal(t, "Username already exists", err.Error())

	sameEmail := newUser("bob")
	sameEmail.Email = "alice@example.com"
	err = repo.Create(ctx, sameEmail)
	require.True(t, models.IsCode(err, models.CodeConflict))
	assert.Equal(t, "Email already exists", err.Error())
}

func TestGetByIDRoundTripsIDLists(t *testing.T) {
	repo := setupUserRepoTest(t)
	ctx := context.Background()

	alice := newUser("alice")
	alice.Followers = models.IDList{"f1", "f2"}
	alice.Following = models.IDList{"g1"}
	alice.FollowersCount = 2
	alice.FollowingCount = 1
	require.NoError(t, repo.Create(ctx, alice))

	got, err := repo.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, models.IDList{"f1", "f2"}, got.Followers)
	assert.Equal(t, models.IDList{"g1"}, got.Following)
	assert.Equal(t, 2, got.FollowersCount)
	assert.Equal(t, 1, got.FollowingCount)
}

// setupUserRepoTestWithCache backs the repository with a live miniredis so
// reads go through the cache-aside path.
func setupUserRepoTestWithCache(t *testing.T) UserRepository {
	t.Helper()
	repo := setupUserRepoTest(t)
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })
	return repo
}

func TestPasswordSurvivesCachedReadSaveCycle(t *testing.T) {
	repo := setupUserRepoTestWithCache(t)
	ctx := context.Background()

	alice := newUser("alice")
	require.NoError(t, repo.Create(ctx, alice))

	// First read primes the cache, second is served from it.
	_, err := repo.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	cached, err := repo.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "pw", cached.Password, "cache hit must carry the password")

	// A full-record save of the cached read must not wipe credentials.
	cached.Bio = "updated bio"
	require.NoError(t, repo.Save(ctx, cached))

	got, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "pw", got.Password, "stored password must survive a cached read/save cycle")
	assert.Equal(t, "updated bio", got.Bio)
}

func TestSaveInvalidatesCachedUser(t *testing.T) {
	repo := setupUserRepoTestWithCache(t)
	ctx := context.Background()

	alice := newUser("alice")
	require.NoError(t, repo.Create(ctx, alice))

	warm, err := repo.GetByID(ctx, alice.ID)
	require.NoError(t, err)

	warm.Bio = "fresh"
	require.NoError(t, repo.Save(ctx, warm))

	got, err := repo.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "fresh", got.Bio, "save must invalidate the cached record")
}

func TestGetByIDNotFound(t *testing.T) {
	repo := setupUserRepoTest(t)

	_, err := repo.GetByID(context.Background(), "ghost")
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestGetByUsername(t *testing.T) {
	repo := setupUserRepoTest(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newUser("alice")))

	got, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	_, err = repo.GetByUsername(ctx, "ghost")
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestSaveUpdatesRecord(t *testing.T) {
	repo := setupUserRepoTest(t)
	ctx := context.Background()

	alice := newUser("alice")
	require.NoError(t, repo.Create(ctx, alice))

	alice.Bio = "updated bio"
	alice.Following = models.IDList{"u2"}
	alice.FollowingCount = 1
	require.NoError(t, repo.Save(ctx, alice))

	got, err := repo.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "updated bio", got.Bio)
	assert.Equal(t, models.IDList{"u2"}, got.Following)
	assert.Equal(t, 1, got.FollowingCount)
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	repo := setupUserRepoTest(t)
	ctx := context.Background()

	alice := newUser("alice")
	alice.Bio = "Resident Gopher"
	bob := newUser("bob")
	bob.Name = "Bob the GOPHER"
	carol := newUser("carol")

	require.NoError(t, repo.Create(ctx, alice))
	require.NoError(t, repo.Create(ctx, bob))
	require.NoError(t, repo.Create(ctx, carol))

	results, err := repo.Search(ctx, "gOpHeR")
	require.NoError(t, err)
	require.Len(t, results, 2)

	usernames := []string{results[0].Username, results[1].Username}
	assert.ElementsMatch(t, []string{"alice", "bob"}, usernames)
}

func TestListLimitOffset(t *testing.T) {
	repo := setupUserRepoTest(t)
	ctx := context.Background()

	for _, name := range []string{"alice", "bob", "carol"} {
		require.NoError(t, repo.Create(ctx, newUser(name)))
	}

	all, err := repo.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	page, err := repo.List(ctx, 2, 0)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	rest, err := repo.List(ctx, 2, 2)
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}
