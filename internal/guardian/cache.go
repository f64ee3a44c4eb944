package guardian

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "guardian:"

// Cache is a short-lived read-through cache over the guardianship predicate.
// Only confirmed relationships are cached; a miss or a redis error always
// falls through to the backing store, so the cache can never widen access.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a Cache with the given entry TTL.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func cacheKey(parentID, studentID string) string {
	return cacheKeyPrefix + parentID + ":" + studentID
}

// Confirmed reports whether the relationship is cached as confirmed.
func (c *Cache) Confirmed(ctx context.Context, parentID, studentID string) (bool, error) {
	value, err := c.client.Get(ctx, cacheKey(parentID, studentID)).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	return value == "1", nil
}

// Confirm stores a confirmed relationship for the cache TTL.
func (c *Cache) Confirm(ctx context.Context, parentID, studentID string) error {
	return c.client.Set(ctx, cacheKey(parentID, studentID), "1", c.ttl).Err()
}

// Invalidate drops one cached relationship.
func (c *Cache) Invalidate(ctx context.Context, parentID, studentID string) error {
	return c.client.Del(ctx, cacheKey(parentID, studentID)).Err()
}

// Sweep drops every cached relationship. Used by the periodic worker sweep.
func (c *Cache) Sweep(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, cacheKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
