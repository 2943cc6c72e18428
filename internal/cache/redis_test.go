package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/fudosan-ai/qualibot/internal/domain"
)

func newTestCache(t *testing.T) (*SessionCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewSessionCacheFromClient(client, time.Minute), mr
}

func TestSessionCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)
	defer c.Close()

	session := &domain.Session{
		SessionID: "sess_abc123",
		Status:    domain.SessionStatusActive,
		Language:  "ja",
		TurnCount: 3,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := c.Set(ctx, session); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := c.Get(ctx, "sess_abc123")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil || got.Language != "ja" || got.TurnCount != 3 {
		t.Fatalf("unexpected session: %+v", got)
	}
}

func TestSessionCacheMiss(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)
	defer c.Close()

	got, err := c.Get(ctx, "nope")
	if err != nil || got != nil {
		t.Fatalf("miss should be (nil, nil), got %+v, %v", got, err)
	}
}

func TestSessionCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)
	defer c.Close()

	session := &domain.Session{SessionID: "s1", Status: domain.SessionStatusActive}
	if err := c.Set(ctx, session); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := c.Invalidate(ctx, "s1"); err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}
	got, err := c.Get(ctx, "s1")
	if err != nil || got != nil {
		t.Fatalf("invalidated session still cached: %+v, %v", got, err)
	}
}

func TestSessionCacheTTLExpiry(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)
	defer c.Close()

	session := &domain.Session{SessionID: "s1", Status: domain.SessionStatusActive}
	if err := c.Set(ctx, session); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	got, err := c.Get(ctx, "s1")
	if err != nil || got != nil {
		t.Fatalf("expired entry still cached: %+v, %v", got, err)
	}
}

func TestNilCacheIsNoOp(t *testing.T) {
	ctx := context.Background()
	var c *SessionCache

	got, err := c.Get(ctx, "s1")
	if err != nil || got != nil {
		t.Fatalf("nil cache Get = %+v, %v", got, err)
	}
	if err := c.Set(ctx, &domain.Session{SessionID: "s1"}); err != nil {
		t.Fatalf("nil cache Set: %v", err)
	}
	if err := c.Invalidate(ctx, "s1"); err != nil {
		t.Fatalf("nil cache Invalidate: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("nil cache Close: %v", err)
	}
}
