/*
Package feedstore implements the durable feed service.

This file defines the Redis recent-posts cache: a sorted set scored by creation
time holding the JSON-encoded newest posts. Cache faults never fail a request;
callers fall back to Postgres.
*/
package feedstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"aurafeed/internal/app/feed"
	"aurafeed/internal/pkg/logx"
)

const (
	// recentCacheKey is the sorted set holding the newest posts.
	recentCacheKey = "feed:recent"

	// recentCacheMax caps the number of cached posts.
	recentCacheMax = 100

	// recentCacheTTL refreshes on every write; an idle deployment ages the set out.
	recentCacheTTL = 24 * time.Hour
)

// RecentCache keeps the newest posts in a Redis sorted set for fast initial loads.
type RecentCache struct {
	client *redis.Client

	logger zerolog.Logger
}

// NewRecentCache constructs a RecentCache over the given Redis client.
func NewRecentCache(client *redis.Client) *RecentCache {
	return &RecentCache{
		client: client,
		logger: logx.Logger().With().Str("component", "RecentCache").Logger(),
	}
}

// Get returns up to limit cached posts, newest first. The second return value is
// false when the cache has no usable data and the caller should hit Postgres.
func (c *RecentCache) Get(ctx context.Context, limit int) ([]feed.Post, bool) {
	members, err := c.client.ZRevRange(ctx, recentCacheKey, 0, int64(limit)-1).Result()
	if err != nil {
		c.logger.Warn().Err(err).Msg("Recent cache read failed. Falling back to database.")
		return nil, false
	}

	if len(members) == 0 {
		return nil, false
	}

	posts := make([]feed.Post, 0, len(members))
	for _, member := range members {
		var p feed.Post
		if err := json.Unmarshal([]byte(member), &p); err != nil {
			c.logger.Warn().Err(err).Msg("Corrupt cache entry. Falling back to database.")
			return nil, false
		}
		posts = append(posts, p)
	}

	return posts, true
}

// Fill replaces the cached window with the given posts.
func (c *RecentCache) Fill(ctx context.Context, posts []feed.Post) {
	pipe := c.client.Pipeline()
	pipe.Del(ctx, recentCacheKey)

	for _, p := range posts {
		encoded, err := json.Marshal(p)
		if err != nil {
			c.logger.Warn().Err(err).Str("post_id", p.ID).Msg("Failed to encode post for cache.")
			return
		}

		pipe.ZAdd(ctx, recentCacheKey, redis.Z{
			Score:  float64(p.CreatedAt.UnixNano()),
			Member: string(encoded),
		})
	}

	pipe.Expire(ctx, recentCacheKey, recentCacheTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("Recent cache fill failed.")
	}
}

// Add inserts a newly stored post and trims the set to its cap.
func (c *RecentCache) Add(ctx context.Context, post feed.Post) {
	encoded, err := json.Marshal(post)
	if err != nil {
		c.logger.Warn().Err(err).Str("post_id", post.ID).Msg("Failed to encode post for cache.")
		return
	}

	pipe := c.client.Pipeline()

	pipe.ZAdd(ctx, recentCacheKey, redis.Z{
		Score:  float64(post.CreatedAt.UnixNano()),
		Member: string(encoded),
	})

	// Keep only the newest recentCacheMax entries.
	pipe.ZRemRangeByRank(ctx, recentCacheKey, 0, int64(-recentCacheMax-1))
	pipe.Expire(ctx, recentCacheKey, recentCacheTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Warn().Err(err).Str("post_id", post.ID).Msg("Recent cache write failed.")
	}
}
