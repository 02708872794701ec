package redis

// Package redis provides Redis-backed adapters for the library UI.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/target/libris-ui/internal/domain/auth"
	"github.com/target/libris-ui/internal/ports"
)

const defaultProfilePrefix = "libris:profile:"

// ProfileCache is a Redis-based profile cache shared across UI replicas.
// Keys are already token hashes; the raw token never reaches Redis.
type ProfileCache struct {
	client redis.UniversalClient
	prefix string
}

var _ ports.ProfileCache = (*ProfileCache)(nil)

// NewProfileCache creates a Redis profile cache.
func NewProfileCache(client redis.UniversalClient) *ProfileCache {
	return &ProfileCache{
		client: client,
		prefix: defaultProfilePrefix,
	}
}

// NewProfileCacheWithPrefix creates a Redis profile cache with a custom key prefix.
func NewProfileCacheWithPrefix(client redis.UniversalClient, prefix string) *ProfileCache {
	return &ProfileCache{
		client: client,
		prefix: prefix,
	}
}

func (c *ProfileCache) Get(ctx context.Context, key string) (domainauth.UserProfile, bool, error) {
	if key == "" {
		return domainauth.UserProfile{}, false, nil
	}

	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.UserProfile{}, false, nil
		}
		return domainauth.UserProfile{}, false, fmt.Errorf("redis get: %w", err)
	}

	var p domainauth.UserProfile
	if unmarshalErr := json.Unmarshal(data, &p); unmarshalErr != nil {
		// A corrupt entry is dropped and reported as a miss.
		if delErr := c.client.Del(ctx, c.prefix+key).Err(); delErr != nil {
			return domainauth.UserProfile{}, false, fmt.Errorf("drop corrupt profile: %w", delErr)
		}
		return domainauth.UserProfile{}, false, nil
	}
	return p, true, nil
}

func (c *ProfileCache) Set(ctx context.Context, key string, profile domainauth.UserProfile, ttl time.Duration) error {
	if key == "" {
		return errors.New("profile cache key cannot be empty")
	}
	if ttl <= 0 {
		return errors.New("profile cache ttl must be positive")
	}

	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	return c.client.Set(ctx, c.prefix+key, data, ttl).Err()
}

func (c *ProfileCache) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	return c.client.Del(ctx, c.prefix+key).Err()
}
