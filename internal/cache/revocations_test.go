package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/erazemk/zbirka/internal/auth"
)

var _ auth.Revoker = (*Revocations)(nil)

func getRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	return client
}

func TestRevokeAndCheck(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	r := NewRevocations(client)
	client.Del(ctx, "revoked:test-jti")

	revoked, err := r.IsRevoked(ctx, "test-jti")
	if err != nil {
		t.Fatalf("IsRevoked: %v", err)
	}
	if revoked {
		t.Fatal("expected fresh jti to be valid")
	}

	if err := r.Revoke(ctx, "test-jti", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	revoked, _ = r.IsRevoked(ctx, "test-jti")
	if !revoked {
		t.Error("expected jti to be revoked")
	}

	ttl := client.TTL(ctx, "revoked:test-jti").Val()
	if ttl <= 0 || ttl > time.Hour {
		t.Errorf("ttl = %v, want within an hour", ttl)
	}
}

func TestRevokeExpiredIsNoop(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	r := NewRevocations(client)
	client.Del(ctx, "revoked:old-jti")

	if err := r.Revoke(ctx, "old-jti", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if revoked, _ := r.IsRevoked(ctx, "old-jti"); revoked {
		t.Error("expected an already expired token not to be stored")
	}
}
