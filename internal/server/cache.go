package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/chriscorrea/kindred/internal/recommend"
	"github.com/redis/go-redis/v9"
)

// Cache stores recommendation results by request key.
type Cache interface {
	// Get returns the cached results for key; ok is false on a miss.
	Get(ctx context.Context, key string) (results []recommend.Result, ok bool, err error)
	Set(ctx context.Context, key string, results []recommend.Result) error
	Ping(ctx context.Context) error
}

// RedisCache is a Cache backed by Redis string keys with a fixed TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to the Redis server at url (redis://host:port/db).
func NewRedisCache(url string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &RedisCache{client: redis.NewClient(opts), ttl: ttl}, nil
}

// Get recommendations from cache
func (c *RedisCache) Get(ctx context.Context, key string) ([]recommend.Result, bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}

	var results []recommend.Result
	if err := json.Unmarshal(val, &results); err != nil {
		return nil, false, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return results, true, nil
}

// Store recommendations in cache
func (c *RedisCache) Set(ctx context.Context, key string, results []recommend.Result) error {
	val, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("marshal recommendations: %w", err)
	}
	if err := c.client.Set(ctx, key, val, c.ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Ping connectivity
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// cacheKey identifies a request. Requests that must produce identical results
// share a key: the query is lower-cased with whitespace collapsed, and liked
// ids are sorted and deduplicated.
func cacheKey(fingerprint string, p recommendationParams) string {
	liked := slices.Clone(p.Liked)
	slices.Sort(liked)
	liked = slices.Compact(liked)

	var b strings.Builder
	b.WriteString(strings.ToLower(strings.Join(strings.Fields(p.Query), " ")))
	b.WriteByte(0)
	for _, id := range liked {
		b.WriteString(strconv.FormatInt(id, 10))
		b.WriteByte(',')
	}
	b.WriteByte(0)
	b.WriteString(strconv.Itoa(p.K))

	sum := sha256.Sum256([]byte(b.String()))
	return "kindred:rec:" + fingerprint + ":" + hex.EncodeToString(sum[:16])
}
