package local

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *LocalCache {
	t.Helper()
	c, err := NewCache(Config{GCInterval: time.Hour})
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestKVSetGet(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", 0))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	_, err = c.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestKVExpiry(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound, "expired entries are gone even before GC runs")

	ok, err := c.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKVDel(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", "1", 0))
	require.NoError(t, c.Set(ctx, "b", "2", 0))
	require.NoError(t, c.Del(ctx, "a", "b"))

	ok, _ := c.Exists(ctx, "a")
	assert.False(t, ok)
}

func TestKVExpire(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", 0))
	require.NoError(t, c.Expire(ctx, "k", 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, c.Expire(ctx, "nope", time.Second), ErrNotFound)
}

func TestZSetOrdering(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.ZAdd(ctx, "lb", 10, "low"))
	require.NoError(t, c.ZAdd(ctx, "lb", 30, "high"))
	require.NoError(t, c.ZAdd(ctx, "lb", 20, "mid"))

	members, err := c.ZRevRange(ctx, "lb", 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"high", "mid", "low"}, members)

	top, err := c.ZRevRange(ctx, "lb", 0, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"high", "mid"}, top)
}

func TestZSetUpdateScore(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.ZAdd(ctx, "lb", 10, "alice"))
	require.NoError(t, c.ZAdd(ctx, "lb", 50, "alice"))

	score, err := c.ZScore(ctx, "lb", "alice")
	require.NoError(t, err)
	assert.Equal(t, 50.0, score)

	members, _ := c.ZRevRange(ctx, "lb", 0, -1)
	assert.Len(t, members, 1, "re-adding a member must not duplicate it")
}

func TestZScoreMissing(t *testing.T) {
	c := newTestCache(t)
	_, err := c.ZScore(context.Background(), "lb", "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestZRevRangeOutOfBounds(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	require.NoError(t, c.ZAdd(ctx, "lb", 1, "only"))

	members, err := c.ZRevRange(ctx, "lb", 5, 9)
	require.NoError(t, err)
	assert.Empty(t, members)
}
