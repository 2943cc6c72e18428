// Package cache provides an optional Redis read-through cache for
// session lookups. When no Redis address is configured the service runs
// without it; every method on a nil *SessionCache is a safe no-op.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fudosan-ai/qualibot/internal/domain"
)

const defaultPrefix = "qualibot:session:"

// SessionCache caches sessions by ID with a TTL.
type SessionCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// Config holds Redis connection configuration.
type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// NewSessionCache connects to Redis and verifies the connection.
func NewSessionCache(cfg Config) (*SessionCache, error) {
	if cfg.Addr == "" {
		return nil, errors.New("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &SessionCache{client: client, prefix: defaultPrefix, ttl: cfg.TTL}, nil
}

// NewSessionCacheFromClient wraps an existing client. Useful for testing
// with miniredis.
func NewSessionCacheFromClient(client *redis.Client, ttl time.Duration) *SessionCache {
	return &SessionCache{client: client, prefix: defaultPrefix, ttl: ttl}
}

func (c *SessionCache) key(sessionID string) string {
	return c.prefix + sessionID
}

// Get returns the cached session or (nil, nil) on a miss. A nil cache
// always misses.
func (c *SessionCache) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	if c == nil {
		return nil, nil
	}
	data, err := c.client.Get(ctx, c.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, domain.ErrCache(fmt.Errorf("get session: %w", err))
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		// A corrupt entry behaves like a miss; the store is authoritative.
		return nil, nil
	}
	return &session, nil
}

// Set stores a session under its TTL.
func (c *SessionCache) Set(ctx context.Context, session *domain.Session) error {
	if c == nil || session == nil {
		return nil
	}
	data, err := json.Marshal(session)
	if err != nil {
		return domain.ErrCache(fmt.Errorf("marshal session: %w", err))
	}
	if err := c.client.Set(ctx, c.key(session.SessionID), data, c.ttl).Err(); err != nil {
		return domain.ErrCache(fmt.Errorf("set session: %w", err))
	}
	return nil
}

// Invalidate drops a session from the cache. Called on every mutation so
// stale state never outlives a write.
func (c *SessionCache) Invalidate(ctx context.Context, sessionID string) error {
	if c == nil {
		return nil
	}
	if err := c.client.Del(ctx, c.key(sessionID)).Err(); err != nil {
		return domain.ErrCache(fmt.Errorf("invalidate session: %w", err))
	}
	return nil
}

// Close releases the connection pool.
func (c *SessionCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
