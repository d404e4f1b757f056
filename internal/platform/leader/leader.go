// Package leader provides the cluster-leadership capability used to gate
// background tasks. Only one replica at a time should perform remote
// mutations; everything behind the capability interface is an implementation
// detail.
package leader

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Elector reports whether this replica currently holds leadership.
type Elector interface {
	IsLeader(ctx context.Context) bool
}

// RedisElector implements leadership as a Redis lease: the first replica to
// set the key owns it, and the owner refreshes the TTL on every check. Losing
// contact with Redis means losing leadership, which fails safe for tasks that
// must not run twice.
type RedisElector struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	id     string
	log    *slog.Logger
}

func NewRedisElector(client *redis.Client, key string, ttl time.Duration, log *slog.Logger) *RedisElector {
	return &RedisElector{
		client: client,
		key:    key,
		ttl:    ttl,
		id:     uuid.NewString(),
		log:    log,
	}
}

func (e *RedisElector) IsLeader(ctx context.Context) bool {
	acquired, err := e.client.SetNX(ctx, e.key, e.id, e.ttl).Result()
	if err != nil {
		e.log.WarnContext(ctx, "leader lease check failed", "error", err)
		return false
	}
	if acquired {
		return true
	}

	holder, err := e.client.Get(ctx, e.key).Result()
	if err != nil {
		return false
	}
	if holder != e.id {
		return false
	}
	if err := e.client.Expire(ctx, e.key, e.ttl).Err(); err != nil {
		e.log.WarnContext(ctx, "leader lease refresh failed", "error", err)
		return false
	}
	return true
}

// Static is a fixed-answer elector for single-replica deployments and tests.
type Static bool

func (s Static) IsLeader(context.Context) bool { return bool(s) }
