package ratelimit

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

// setupTestRedis creates an in-memory Redis server for testing
func setupTestRedis(t *testing.T) (*redis.Client, func()) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
		DB:   0,
	})

	cleanup := func() {
		redisClient.Close()
		mr.Close()
	}

	return redisClient, cleanup
}

func TestTokenBucket_Allow(t *testing.T) {
	redisClient, cleanup := setupTestRedis(t)
	defer cleanup()

	// Upload budget: 10 tokens, refilled 10 per minute.
	bucket := NewTokenBucket(redisClient, 10, 10)

	ctx := context.Background()
	actorID := "uploader_1"
	action := "uploads"

	for i := 0; i < 10; i++ {
		allowed, err := bucket.Allow(ctx, actorID, action)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !allowed {
			t.Fatalf("Expected request %d to be allowed", i+1)
		}
	}

	// The 11th upload in the window is denied.
	allowed, err := bucket.Allow(ctx, actorID, action)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if allowed {
		t.Fatal("Expected request to be denied after limit reached")
	}

	remaining, err := bucket.GetRemaining(ctx, actorID, action)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("Expected 0 remaining tokens, got %d", remaining)
	}
}

func TestTokenBucket_BudgetsAreIndependentPerActor(t *testing.T) {
	redisClient, cleanup := setupTestRedis(t)
	defer cleanup()

	bucket := NewTokenBucket(redisClient, 3, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		bucket.Allow(ctx, "actor_a", "tags")
	}

	// actor_a is exhausted; actor_b still has a full budget.
	allowed, err := bucket.Allow(ctx, "actor_a", "tags")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if allowed {
		t.Fatal("Expected actor_a to be denied")
	}

	allowed, err = bucket.Allow(ctx, "actor_b", "tags")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !allowed {
		t.Fatal("Expected actor_b to be allowed")
	}
}

func TestTokenBucket_GetRemaining(t *testing.T) {
	redisClient, cleanup := setupTestRedis(t)
	defer cleanup()

	bucket := NewTokenBucket(redisClient, 30, 30)

	ctx := context.Background()
	actorID := "tagger_1"
	action := "tags"

	remaining, err := bucket.GetRemaining(ctx, actorID, action)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if remaining != 30 {
		t.Fatalf("Expected 30 remaining tokens, got %d", remaining)
	}

	for i := 0; i < 5; i++ {
		bucket.Allow(ctx, actorID, action)
	}

	remaining, err = bucket.GetRemaining(ctx, actorID, action)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if remaining != 25 {
		t.Fatalf("Expected 25 remaining tokens, got %d", remaining)
	}
}

func TestTokenBucket_Reset(t *testing.T) {
	redisClient, cleanup := setupTestRedis(t)
	defer cleanup()

	bucket := NewTokenBucket(redisClient, 5, 5)

	ctx := context.Background()
	actorID := "uploader_2"
	action := "uploads"

	for i := 0; i < 5; i++ {
		bucket.Allow(ctx, actorID, action)
	}

	if err := bucket.Reset(ctx, actorID, action); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	remaining, err := bucket.GetRemaining(ctx, actorID, action)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if remaining != 5 {
		t.Fatalf("Expected 5 remaining tokens after reset, got %d", remaining)
	}
}
