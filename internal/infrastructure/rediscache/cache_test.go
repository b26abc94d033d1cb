package rediscache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/notemaster-api/internal/domain/entity"
	"github.com/oksasatya/notemaster-api/internal/infrastructure/memory"
	"github.com/oksasatya/notemaster-api/internal/infrastructure/rediscache"
	"github.com/oksasatya/notemaster-api/pkg/helpers"
)

func setup(t *testing.T) (*miniredis.Miniredis, *redis.Client, *memory.Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	seed, err := memory.DemoSeed("secret")
	require.NoError(t, err)
	return mr, rdb, memory.New(seed, 0)
}

func TestVerticalRepository_ReadThrough(t *testing.T) {
	t.Run("Should populate the cache on first read", func(t *testing.T) {
		mr, rdb, store := setup(t)
		repo := rediscache.NewVerticalRepository(store.VerticalRepository(), rdb, time.Minute, helpers.NopLogger())

		list, err := repo.List(context.Background())
		require.NoError(t, err)
		assert.Len(t, list, 3)
		assert.True(t, mr.Exists(rediscache.VerticalsKey))
		assert.Equal(t, time.Minute, mr.TTL(rediscache.VerticalsKey))
	})

	t.Run("Should serve from cache until a write invalidates it", func(t *testing.T) {
		_, rdb, store := setup(t)
		ctx := context.Background()
		repo := rediscache.NewVerticalRepository(store.VerticalRepository(), rdb, time.Minute, helpers.NopLogger())

		_, err := repo.List(ctx)
		require.NoError(t, err)

		// bypass the decorator: the cached list stays stale
		_, err = store.CreateVertical(ctx, &entity.Vertical{ID: "v4", Name: "Go", Status: entity.StatusActive})
		require.NoError(t, err)
		list, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 3)

		require.NoError(t, repo.Create(ctx, &entity.Vertical{ID: "v5", Name: "Rust", Status: entity.StatusActive}))
		list, err = repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 5)
	})

	t.Run("Should keep the cache when the write fails", func(t *testing.T) {
		mr, rdb, store := setup(t)
		ctx := context.Background()
		repo := rediscache.NewVerticalRepository(store.VerticalRepository(), rdb, time.Minute, helpers.NopLogger())

		_, err := repo.List(ctx)
		require.NoError(t, err)
		err = repo.Delete(ctx, "missing")
		assert.Error(t, err)
		assert.True(t, mr.Exists(rediscache.VerticalsKey))
	})
}

func TestSubtitleRepository_ReadThrough(t *testing.T) {
	t.Run("Should cache per vertical and drop all entries on write", func(t *testing.T) {
		mr, rdb, store := setup(t)
		ctx := context.Background()
		repo := rediscache.NewSubtitleRepository(store.SubtitleRepository(), rdb, time.Minute, helpers.NopLogger())

		v1, err := repo.List(ctx, "v1")
		require.NoError(t, err)
		assert.Len(t, v1, 2)
		all, err := repo.List(ctx, "")
		require.NoError(t, err)
		assert.Len(t, all, 4)
		assert.Equal(t, []string{"*", "v1"}, hashFields(t, mr))

		require.NoError(t, repo.Update(ctx, &entity.Subtitle{ID: "s3", VerticalID: "v1", Name: "Django", Status: entity.StatusActive}))
		assert.False(t, mr.Exists(rediscache.SubtitlesKey))

		v1, err = repo.List(ctx, "v1")
		require.NoError(t, err)
		assert.Len(t, v1, 3)
	})

	t.Run("Should fall back to the store when redis is down", func(t *testing.T) {
		mr, rdb, store := setup(t)
		repo := rediscache.NewSubtitleRepository(store.SubtitleRepository(), rdb, time.Minute, helpers.NopLogger())
		mr.Close()

		list, err := repo.List(context.Background(), "v2")
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})
}

func hashFields(t *testing.T, mr *miniredis.Miniredis) []string {
	t.Helper()
	keys, err := mr.HKeys(rediscache.SubtitlesKey)
	require.NoError(t, err)
	return keys
}
