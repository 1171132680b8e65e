package slothold

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHolder(t *testing.T, ttl time.Duration) (*RedisHolder, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisHolder(client, ttl), mr
}

func TestRedisHolder_AcquireAndRelease(t *testing.T) {
	holder, mr := newTestHolder(t, 30*time.Second)
	ctx := context.Background()
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	hold, err := holder.Acquire(ctx, 7, date)
	require.NoError(t, err)
	assert.Equal(t, "slothold:7:2026-03-10", hold.Key)
	assert.True(t, mr.Exists(hold.Key))

	_, err = holder.Acquire(ctx, 7, date)
	assert.ErrorIs(t, err, ErrHeld)

	// другой исполнитель не блокируется
	_, err = holder.Acquire(ctx, 8, date)
	require.NoError(t, err)

	require.NoError(t, holder.Release(ctx, hold))
	assert.False(t, mr.Exists(hold.Key))

	_, err = holder.Acquire(ctx, 7, date)
	assert.NoError(t, err)
}

func TestRedisHolder_ReleaseIgnoresForeignToken(t *testing.T) {
	holder, mr := newTestHolder(t, 30*time.Second)
	ctx := context.Background()
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	hold, err := holder.Acquire(ctx, 7, date)
	require.NoError(t, err)

	require.NoError(t, holder.Release(ctx, &Hold{Key: hold.Key, Token: "someone-else"}))
	assert.True(t, mr.Exists(hold.Key))
}

func TestRedisHolder_HoldExpires(t *testing.T) {
	holder, mr := newTestHolder(t, 5*time.Second)
	ctx := context.Background()
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	_, err := holder.Acquire(ctx, 7, date)
	require.NoError(t, err)

	mr.FastForward(6 * time.Second)

	_, err = holder.Acquire(ctx, 7, date)
	assert.NoError(t, err)
}

func TestRedisHolder_RedisUnavailable(t *testing.T) {
	holder, mr := newTestHolder(t, 5*time.Second)
	mr.Close()

	_, err := holder.Acquire(context.Background(), 7, time.Now())
	assert.ErrorIs(t, err, ErrRedis)
}

func TestNopHolder(t *testing.T) {
	var h NopHolder
	hold, err := h.Acquire(context.Background(), 1, time.Now())
	require.NoError(t, err)
	assert.NoError(t, h.Release(context.Background(), hold))
}
