package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionCache stores session snapshot blobs in Redis. It satisfies
// assessment.PersistenceStore.
type SessionCache interface {
	Save(ctx context.Context, key, blob string) error
	Load(ctx context.Context, key string) (string, bool, error)
	Remove(ctx context.Context, key string) error
}

type sessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionCache creates a Redis snapshot store. Keys expire after ttl, so
// abandoned sessions do not outlive the restore window by much.
func NewSessionCache(client *redis.Client, ttl time.Duration) SessionCache {
	return &sessionCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *sessionCache) Save(ctx context.Context, key, blob string) error {
	return c.client.Set(ctx, key, blob, c.ttl).Err()
}

func (c *sessionCache) Load(ctx context.Context, key string) (string, bool, error) {
	data, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return data, true, nil
}

func (c *sessionCache) Remove(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}
