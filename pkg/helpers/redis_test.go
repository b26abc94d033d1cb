package helpers

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisJSON(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := NewRedisClient(mr.Addr(), "", 0)
	defer func() { _ = rdb.Close() }()
	ctx := context.Background()

	type item struct {
		Name string `json:"name"`
	}

	var got item
	ok, err := RedisGetJSON(ctx, rdb, "k", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, RedisSetJSON(ctx, rdb, "k", item{Name: "go"}, time.Minute))
	ok, err = RedisGetJSON(ctx, rdb, "k", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "go", got.Name)

	mr.FastForward(2 * time.Minute)
	ok, err = RedisGetJSON(ctx, rdb, "k", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, RedisSetJSON(ctx, rdb, "k", item{Name: "x"}, 0))
	require.NoError(t, RedisDel(ctx, rdb, "k"))
	assert.False(t, mr.Exists("k"))
}

func TestRedisHashJSON(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := NewRedisClient(mr.Addr(), "", 0)
	defer func() { _ = rdb.Close() }()
	ctx := context.Background()

	var got []string
	ok, err := RedisHGetJSON(ctx, rdb, "h", "a", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, RedisHSetJSON(ctx, rdb, "h", "a", []string{"x", "y"}, time.Minute))
	ok, err = RedisHGetJSON(ctx, rdb, "h", "a", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"x", "y"}, got)
	assert.Equal(t, time.Minute, mr.TTL("h"))

	require.NoError(t, mr.Set("s", "plain"))
	_, err = RedisHGetJSON(ctx, rdb, "s", "a", &got)
	assert.Error(t, err)
}
