// Package cache coordinates the shared result cache: snapshot storage
// keyed by query fingerprint plus the claim protocol that keeps
// concurrent identical searches down to a single dispatch.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mynztrip/faresearch/internal/models"
)

// Coordinator is the cache contract the lifecycle manager depends on.
// Every operation is best-effort: an unavailable cache degrades to
// misses and uncontested claims, never to search failure.
type Coordinator interface {
	// Lookup returns the cached snapshot for a fingerprint, if any.
	Lookup(ctx context.Context, fingerprint string) (*models.SearchRecord, bool)
	// Claim attempts to take the exclusive dispatch slot for a
	// fingerprint. It returns the holding search id and whether the
	// caller acquired the claim; on contention the returned id is the
	// in-flight search the caller should attach to.
	Claim(ctx context.Context, fingerprint, searchID string, ttl time.Duration) (string, bool)
	// Store caches a completed snapshot with the given TTL.
	Store(ctx context.Context, fingerprint string, record *models.SearchRecord, ttl time.Duration) error
	// Release drops the claim once dispatch finished.
	Release(ctx context.Context, fingerprint string)
	Close() error
}

type RedisCache struct {
	client *redis.Client
	logger *zap.Logger
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func NewRedisCache(cfg RedisConfig, logger *zap.Logger) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Host + ":" + cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisCache{client: client, logger: logger}, nil
}

func resultKey(fingerprint string) string {
	return "search-result:" + fingerprint
}

func claimKey(fingerprint string) string {
	return "search-claim:" + fingerprint
}

func (c *RedisCache) Lookup(ctx context.Context, fingerprint string) (*models.SearchRecord, bool) {
	data, err := c.client.Get(ctx, resultKey(fingerprint)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("cache lookup failed; treating as miss", zap.Error(err))
		}
		return nil, false
	}

	var record models.SearchRecord
	if err := json.Unmarshal(data, &record); err != nil {
		c.logger.Warn("invalid cached payload; treating as miss",
			zap.String("fingerprint", fingerprint), zap.Error(err))
		return nil, false
	}
	return &record, true
}

// Claim uses SETNX so exactly one orchestration instance dispatches per
// fingerprint even when several run against the same redis.
func (c *RedisCache) Claim(ctx context.Context, fingerprint, searchID string, ttl time.Duration) (string, bool) {
	ok, err := c.client.SetNX(ctx, claimKey(fingerprint), searchID, ttl).Result()
	if err != nil {
		c.logger.Warn("cache claim failed; proceeding uncoalesced", zap.Error(err))
		return searchID, true
	}
	if ok {
		return searchID, true
	}

	holder, err := c.client.Get(ctx, claimKey(fingerprint)).Result()
	if err != nil || holder == "" {
		// Claim expired between SETNX and GET; retry once.
		ok, err = c.client.SetNX(ctx, claimKey(fingerprint), searchID, ttl).Result()
		if err == nil && ok {
			return searchID, true
		}
		return searchID, true
	}
	return holder, false
}

func (c *RedisCache) Store(ctx context.Context, fingerprint string, record *models.SearchRecord, ttl time.Duration) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, resultKey(fingerprint), data, ttl).Err()
}

func (c *RedisCache) Release(ctx context.Context, fingerprint string) {
	if err := c.client.Del(ctx, claimKey(fingerprint)).Err(); err != nil {
		c.logger.Warn("cache release failed; claim will lapse on TTL", zap.Error(err))
	}
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// NoopCache disables caching and coalescing entirely.
type NoopCache struct{}

func NewNoopCache() *NoopCache {
	return &NoopCache{}
}

func (c *NoopCache) Lookup(ctx context.Context, fingerprint string) (*models.SearchRecord, bool) {
	return nil, false
}

func (c *NoopCache) Claim(ctx context.Context, fingerprint, searchID string, ttl time.Duration) (string, bool) {
	return searchID, true
}

func (c *NoopCache) Store(ctx context.Context, fingerprint string, record *models.SearchRecord, ttl time.Duration) error {
	return nil
}

func (c *NoopCache) Release(ctx context.Context, fingerprint string) {}

func (c *NoopCache) Close() error {
	return nil
}
