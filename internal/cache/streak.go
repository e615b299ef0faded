// Package cache holds short-TTL read caches backed by redis.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/mcha311/rehab-backend/internal/models"
)

// StreakCache caches the simple streak response keyed by user. A nil
// *StreakCache is a valid no-op cache, used when redis is not configured.
type StreakCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStreakCache creates a streak cache with the given TTL. A zero or
// negative TTL falls back to five minutes.
func NewStreakCache(client *redis.Client, ttl time.Duration) *StreakCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &StreakCache{client: client, ttl: ttl}
}

func streakKey(userID uuid.UUID) string {
	return "streak:" + userID.String()
}

// Get returns the cached response, or nil on a miss.
func (c *StreakCache) Get(ctx context.Context, userID uuid.UUID) (*models.StreakResponse, error) {
	if c == nil {
		return nil, nil
	}
	data, err := c.client.Get(ctx, streakKey(userID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read streak cache: %w", err)
	}
	var resp models.StreakResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode cached streak: %w", err)
	}
	return &resp, nil
}

func (c *StreakCache) Set(ctx context.Context, userID uuid.UUID, resp *models.StreakResponse) error {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to encode streak for cache: %w", err)
	}
	if err := c.client.Set(ctx, streakKey(userID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write streak cache: %w", err)
	}
	return nil
}

func (c *StreakCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	if c == nil {
		return nil
	}
	if err := c.client.Del(ctx, streakKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate streak cache: %w", err)
	}
	return nil
}
