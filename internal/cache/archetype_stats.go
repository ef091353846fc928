package cache

import (
	"context"

	"github.com/redis/go-redis/v9"

	"neuroassess/internal/model"
)

const archetypeKey = "assessment:archetypes"

// ArchetypeStats counts completed reports per archetype in a Redis ZSET
type ArchetypeStats interface {
	Increment(ctx context.Context, archetype string) error
	Distribution(ctx context.Context) ([]model.ArchetypeCount, error)
}

type archetypeStats struct {
	client *redis.Client
}

// NewArchetypeStats creates a new archetype counter
func NewArchetypeStats(client *redis.Client) ArchetypeStats {
	return &archetypeStats{
		client: client,
	}
}

func (c *archetypeStats) Increment(ctx context.Context, archetype string) error {
	return c.client.ZIncrBy(ctx, archetypeKey, 1, archetype).Err()
}

// Distribution returns all archetypes, most common first
func (c *archetypeStats) Distribution(ctx context.Context) ([]model.ArchetypeCount, error) {
	results, err := c.client.ZRevRangeWithScores(ctx, archetypeKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	var total float64
	for _, z := range results {
		total += z.Score
	}

	out := make([]model.ArchetypeCount, len(results))
	for i, z := range results {
		out[i] = model.ArchetypeCount{
			Name:  z.Member.(string),
			Count: int64(z.Score),
		}
		if total > 0 {
			out[i].Share = z.Score / total
		}
	}
	return out, nil
}
