package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedProfile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestAsideMissFetchesAndStores(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	fetches := 0
	var got cachedProfile
	err := Aside(ctx, UserKey("u1"), &got, UserTTL, func() error {
		fetches++
		got = cachedProfile{ID: "u1", Name: "Alice"}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, fetches)
	assert.Equal(t, "Alice", got.Name)

	// The fetched value must now be in Redis with the TTL applied.
	assert.True(t, mr.Exists(UserKey("u1")))
	assert.Equal(t, UserTTL, mr.TTL(UserKey("u1")))

	// A second read is served from the cache.
	var again cachedProfile
	err = Aside(ctx, UserKey("u1"), &again, UserTTL, func() error {
		fetches++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, fetches, "hit must not fetch")
	assert.Equal(t, "Alice", again.Name)
}

func TestAsideFetchErrorPropagates(t *testing.T) {
	setupMiniredis(t)

	var got cachedProfile
	err := Aside(context.Background(), UserKey("u1"), &got, UserTTL, func() error {
		return errors.New("store down")
	})
	require.Error(t, err)
}

func TestAsideTreatsCacheErrorsAsMisses(t *testing.T) {
	mr := setupMiniredis(t)
	mr.Close()

	fetches := 0
	var got cachedProfile
	err := Aside(context.Background(), UserKey("u1"), &got, UserTTL, func() error {
		fetches++
		got = cachedProfile{ID: "u1"}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, fetches, "unreachable cache falls through to the store")
}

func TestAsideWithoutClientIsPassThrough(t *testing.T) {
	SetClient(nil)

	fetches := 0
	var got cachedProfile
	err := Aside(context.Background(), UserKey("u1"), &got, UserTTL, func() error {
		fetches++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, fetches)
}

func TestInvalidateUser(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, UserKey("u1"), cachedProfile{ID: "u1"}, time.Minute))
	require.True(t, mr.Exists(UserKey("u1")))

	InvalidateUser(ctx, "u1")
	assert.False(t, mr.Exists(UserKey("u1")))
}
