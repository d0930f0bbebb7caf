package eventlog

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worldengine/core/pkg/action"
)

func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client)
}

func TestRedisAppendAssignsIncrementingSequence(t *testing.T) {
	s := newTestRedisStore(t)
	ctx := context.Background()

	seq1, err := s.Append(ctx, "sess-1", action.WorldEvent{EventType: "a"})
	require.NoError(t, err)
	seq2, err := s.Append(ctx, "sess-1", action.WorldEvent{EventType: "b"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), seq1)
	assert.Equal(t, int64(2), seq2)
}

func TestRedisGetRecentRoundTripsJSON(t *testing.T) {
	s := newTestRedisStore(t)
	ctx := context.Background()
	_, err := s.Append(ctx, "sess-1", action.WorldEvent{EventType: "tick_start", Content: "hi", Meta: map[string]interface{}{"k": "v"}})
	require.NoError(t, err)

	events, err := s.GetRecent(ctx, "sess-1", 1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "tick_start", events[0].EventType)
	assert.Equal(t, "hi", events[0].Content)
	assert.Equal(t, "v", events[0].Meta["k"])
	assert.Equal(t, int64(1), events[0].Sequence)
}

func TestRedisGetByTypeFilters(t *testing.T) {
	s := newTestRedisStore(t)
	ctx := context.Background()
	_, _ = s.Append(ctx, "sess-1", action.WorldEvent{EventType: "tick_start"})
	_, _ = s.Append(ctx, "sess-1", action.WorldEvent{EventType: "goal_proved"})
	_, _ = s.Append(ctx, "sess-1", action.WorldEvent{EventType: "tick_start"})

	events, err := s.GetByType(ctx, "sess-1", "tick_start")
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestRedisPruneDropsOldestAndDeletesKeyWhenEmpty(t *testing.T) {
	s := newTestRedisStore(t)
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		_, err := s.Append(ctx, "sess-1", action.WorldEvent{EventType: "e"})
		require.NoError(t, err)
	}

	dropped, err := s.Prune(ctx, "sess-1", 1)
	require.NoError(t, err)
	assert.Equal(t, 3, dropped)

	events, err := s.GetBySession(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, int64(4), events[0].Sequence)

	dropped, err = s.Prune(ctx, "sess-1", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, dropped)

	count, err := s.Count(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestRedisCountAndClear(t *testing.T) {
	s := newTestRedisStore(t)
	ctx := context.Background()
	_, _ = s.Append(ctx, "sess-1", action.WorldEvent{EventType: "e"})
	_, _ = s.Append(ctx, "sess-1", action.WorldEvent{EventType: "e"})

	count, err := s.Count(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, s.Clear(ctx, "sess-1"))

	count, err = s.Count(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
