// internal/pkg/session/rate_limiter_test.go
package session

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestCheckLoginAttemptLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	limiter := NewRateLimiter(client)

	ctx := context.Background()

	for i := 0; i < 5; i++ {
		allowed, _, err := limiter.CheckLoginAttempt(ctx, "10.0.0.1", "user@khidma.sa")
		if err != nil {
			t.Fatalf("attempt %d: %v", i+1, err)
		}
		if !allowed {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}

	allowed, remaining, err := limiter.CheckLoginAttempt(ctx, "10.0.0.1", "user@khidma.sa")
	if err != nil {
		t.Fatalf("sixth attempt: %v", err)
	}
	if allowed {
		t.Fatal("sixth attempt should be blocked")
	}
	if remaining != 0 {
		t.Fatalf("remaining = %d, want 0", remaining)
	}
}

func TestCheckLoginAttemptIsolatedPerKey(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	limiter := NewRateLimiter(client)

	ctx := context.Background()

	for i := 0; i < 6; i++ {
		limiter.CheckLoginAttempt(ctx, "10.0.0.1", "user@khidma.sa")
	}

	// Different IP, same email: fresh counter
	allowed, _, err := limiter.CheckLoginAttempt(ctx, "10.0.0.2", "user@khidma.sa")
	if err != nil {
		t.Fatalf("CheckLoginAttempt: %v", err)
	}
	if !allowed {
		t.Fatal("a different client should not inherit the block")
	}
}

func TestResetLoginAttempts(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	limiter := NewRateLimiter(client)

	ctx := context.Background()

	for i := 0; i < 6; i++ {
		limiter.CheckLoginAttempt(ctx, "10.0.0.1", "user@khidma.sa")
	}

	if err := limiter.ResetLoginAttempts(ctx, "10.0.0.1", "user@khidma.sa"); err != nil {
		t.Fatalf("ResetLoginAttempts: %v", err)
	}

	allowed, _, err := limiter.CheckLoginAttempt(ctx, "10.0.0.1", "user@khidma.sa")
	if err != nil {
		t.Fatalf("CheckLoginAttempt: %v", err)
	}
	if !allowed {
		t.Fatal("reset should clear the block")
	}
}
