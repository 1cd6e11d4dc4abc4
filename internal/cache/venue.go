package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"livemusicnotes/internal/model"
)

const (
	// VenueListPrefix is the key prefix for cached venue list pages
	VenueListPrefix = "venues:list:"

	// DefaultVenueListTTL bounds how stale a cached page may be
	DefaultVenueListTTL = time.Minute

	scanBatch = 100
)

// VenueCache caches rendered venue list pages.
type VenueCache interface {
	// Get returns the cached page for (search, page). found is false on a miss.
	Get(ctx context.Context, search string, page int) (p *model.Page[model.Venue], found bool, err error)
	Set(ctx context.Context, search string, page int, p *model.Page[model.Venue]) error
	// Invalidate drops every cached venue page.
	Invalidate(ctx context.Context) error
}

// RedisVenueCache implements VenueCache with one JSON string per page.
type RedisVenueCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewVenueCache creates a Redis-backed VenueCache.
func NewVenueCache(client *redis.Client, ttl time.Duration) VenueCache {
	if ttl <= 0 {
		ttl = DefaultVenueListTTL
	}
	return &RedisVenueCache{client: client, ttl: ttl}
}

// venueListKey normalizes the search term so "First" and " first " share a key.
func venueListKey(search string, page int) string {
	term := strings.ToLower(strings.TrimSpace(search))
	return fmt.Sprintf("%s%s:%d", VenueListPrefix, term, page)
}

func (c *RedisVenueCache) Get(ctx context.Context, search string, page int) (*model.Page[model.Venue], bool, error) {
	data, err := c.client.Get(ctx, venueListKey(search, page)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get venue page: %w", err)
	}

	var p model.Page[model.Venue]
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, false, fmt.Errorf("decode venue page: %w", err)
	}
	return &p, true, nil
}

func (c *RedisVenueCache) Set(ctx context.Context, search string, page int, p *model.Page[model.Venue]) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode venue page: %w", err)
	}
	if err := c.client.Set(ctx, venueListKey(search, page), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("set venue page: %w", err)
	}
	return nil
}

// Invalidate walks the prefix with SCAN (never KEYS) and deletes in batches.
func (c *RedisVenueCache) Invalidate(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, VenueListPrefix+"*", scanBatch).Result()
		if err != nil {
			return fmt.Errorf("scan venue pages: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("delete venue pages: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// NoopVenueCache is used when Redis is not configured.
type NoopVenueCache struct{}

func (NoopVenueCache) Get(context.Context, string, int) (*model.Page[model.Venue], bool, error) {
	return nil, false, nil
}

func (NoopVenueCache) Set(context.Context, string, int, *model.Page[model.Venue]) error {
	return nil
}

func (NoopVenueCache) Invalidate(context.Context) error {
	return nil
}
