package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"neuroassess/internal/model"
)

// QuestionStatsCache keeps per-question response counters in Redis hashes
type QuestionStatsCache interface {
	Record(ctx context.Context, r model.Response) error
	Get(ctx context.Context, questionID string) (*model.QuestionStats, error)
}

type questionStatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewQuestionStatsCache creates a new question stats cache
func NewQuestionStatsCache(client *redis.Client) QuestionStatsCache {
	return &questionStatsCache{
		client: client,
		ttl:    30 * 24 * time.Hour,
	}
}

func (c *questionStatsCache) key(questionID string) string {
	return fmt.Sprintf("assessment:q:%s:stats", questionID)
}

// Record counts one response. Replaced answers are counted again.
func (c *questionStatsCache) Record(ctx context.Context, r model.Response) error {
	key := c.key(r.QuestionID)
	pipe := c.client.TxPipeline()
	switch {
	case r.TimedOut:
		pipe.HIncrBy(ctx, key, "timedOut", 1)
	case r.Skipped:
		pipe.HIncrBy(ctx, key, "skipped", 1)
	default:
		pipe.HIncrBy(ctx, key, "answered", 1)
		pipe.HIncrBy(ctx, key, "totalResponseMs", r.ResponseTimeMS)
	}
	pipe.Expire(ctx, key, c.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (c *questionStatsCache) Get(ctx context.Context, questionID string) (*model.QuestionStats, error) {
	fields, err := c.client.HGetAll(ctx, c.key(questionID)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, nil
	}
	stats := &model.QuestionStats{QuestionID: questionID}
	for name, dst := range map[string]*int64{
		"answered":        &stats.Answered,
		"skipped":         &stats.Skipped,
		"timedOut":        &stats.TimedOut,
		"totalResponseMs": &stats.TotalResponseMS,
	} {
		if v, ok := fields[name]; ok {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("question stats %s: %w", name, err)
			}
			*dst = n
		}
	}
	return stats, nil
}
