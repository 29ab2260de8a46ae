package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/flavorcraft/backend/internal/types"
)

const resultCacheTTL = 24 * time.Hour

// ResultCache keeps provider search and generation results in Redis,
// keyed by their provider-scoped id. Saving an external or generated
// recipe looks the result up here to materialize it into a real row.
type ResultCache struct {
	client *redis.Client
}

func NewResultCache(client *redis.Client) *ResultCache {
	return &ResultCache{client: client}
}

func resultKey(id string) string {
	return fmt.Sprintf("recipe:result:%s", id)
}

// Put stores every result for later retrieval by id.
func (c *ResultCache) Put(ctx context.Context, results ...types.RecipeResult) error {
	for _, result := range results {
		if result.ID == "" {
			continue
		}
		data, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		if err := c.client.Set(ctx, resultKey(result.ID), data, resultCacheTTL).Err(); err != nil {
			return fmt.Errorf("failed to cache result: %w", err)
		}
	}
	return nil
}

// Get returns the cached result for id, or (nil, nil) when the entry has
// expired or never existed.
func (c *ResultCache) Get(ctx context.Context, id string) (*types.RecipeResult, error) {
	data, err := c.client.Get(ctx, resultKey(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached result: %w", err)
	}
	var result types.RecipeResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached result: %w", err)
	}
	return &result, nil
}
