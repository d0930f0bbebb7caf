package eventlog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/worldengine/core/pkg/action"
)

const sessionTTL = 24 * time.Hour

// RedisStore is a Redis-backed EventLogStore backend: one list key
// (`we:events:{sessionId}:list`) holding JSON-encoded events and one
// integer counter key (`we:events:{sessionId}:seq`) per session, both
// with a 24h TTL. Sequence assignment uses INCR, which Redis
// guarantees atomic even under concurrent callers.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an already-configured *redis.Client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func listKey(sessionID string) string { return fmt.Sprintf("we:events:%s:list", sessionID) }
func seqKey(sessionID string) string  { return fmt.Sprintf("we:events:%s:seq", sessionID) }

// Append implements Store.
func (r *RedisStore) Append(ctx context.Context, sessionID string, event action.WorldEvent) (int64, error) {
	seq, err := r.client.Incr(ctx, seqKey(sessionID)).Result()
	if err != nil {
		return 0, fmt.Errorf("eventlog: incr sequence: %w", err)
	}
	event.Sequence = seq

	data, err := json.Marshal(event)
	if err != nil {
		return 0, fmt.Errorf("eventlog: marshal event: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, listKey(sessionID), data)
	pipe.Expire(ctx, listKey(sessionID), sessionTTL)
	pipe.Expire(ctx, seqKey(sessionID), sessionTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("eventlog: append event: %w", err)
	}
	return seq, nil
}

func (r *RedisStore) all(ctx context.Context, sessionID string) ([]action.WorldEvent, error) {
	raw, err := r.client.LRange(ctx, listKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("eventlog: lrange: %w", err)
	}
	out := make([]action.WorldEvent, 0, len(raw))
	for _, s := range raw {
		var e action.WorldEvent
		if err := json.Unmarshal([]byte(s), &e); err != nil {
			return nil, fmt.Errorf("eventlog: unmarshal event: %w", err)
		}
		out = append(out, e)
	}
	return out, nil
}

// GetRecent implements Store.
func (r *RedisStore) GetRecent(ctx context.Context, sessionID string, limit int) ([]action.WorldEvent, error) {
	events, err := r.all(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	n := len(events)
	if limit <= 0 || limit > n {
		limit = n
	}
	return events[n-limit:], nil
}

// GetBySession implements Store.
func (r *RedisStore) GetBySession(ctx context.Context, sessionID string) ([]action.WorldEvent, error) {
	return r.all(ctx, sessionID)
}

// GetByType implements Store.
func (r *RedisStore) GetByType(ctx context.Context, sessionID, eventType string) ([]action.WorldEvent, error) {
	events, err := r.all(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	var out []action.WorldEvent
	for _, e := range events {
		if e.EventType == eventType {
			out = append(out, e)
		}
	}
	return out, nil
}

// GetAfterSequence implements Store.
func (r *RedisStore) GetAfterSequence(ctx context.Context, sessionID string, seq int64, limit int) ([]action.WorldEvent, error) {
	events, err := r.all(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	var out []action.WorldEvent
	for _, e := range events {
		if e.Sequence > seq {
			out = append(out, e)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

// GetAgentVisible implements Store.
func (r *RedisStore) GetAgentVisible(ctx context.Context, sessionID, agentID string, limit int) ([]action.WorldEvent, error) {
	events, err := r.all(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	var out []action.WorldEvent
	for _, e := range events {
		if isAgentVisible(e, agentID) {
			out = append(out, e)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

// Prune implements Store.
func (r *RedisStore) Prune(ctx context.Context, sessionID string, keepCount int) (int, error) {
	events, err := r.all(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	n := len(events)
	if keepCount < 0 || keepCount >= n {
		return 0, nil
	}
	dropped := n - keepCount
	kept := events[dropped:]

	encoded := make([]interface{}, len(kept))
	for i, e := range kept {
		data, err := json.Marshal(e)
		if err != nil {
			return 0, fmt.Errorf("eventlog: marshal event: %w", err)
		}
		encoded[i] = data
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, listKey(sessionID))
	if len(encoded) > 0 {
		pipe.RPush(ctx, listKey(sessionID), encoded...)
		pipe.Expire(ctx, listKey(sessionID), sessionTTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("eventlog: prune: %w", err)
	}
	return dropped, nil
}

// Count implements Store.
func (r *RedisStore) Count(ctx context.Context, sessionID string) (int, error) {
	n, err := r.client.LLen(ctx, listKey(sessionID)).Result()
	if err != nil {
		return 0, fmt.Errorf("eventlog: llen: %w", err)
	}
	return int(n), nil
}

// Clear implements Store.
func (r *RedisStore) Clear(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, listKey(sessionID), seqKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("eventlog: clear: %w", err)
	}
	return nil
}
