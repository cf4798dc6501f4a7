package database_test

import (
	"context"
	"io"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/breadlab/breadquiz/internal/config"
	"github.com/breadlab/breadquiz/internal/database"
	"github.com/rs/zerolog"
)

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.Config{RedisURL: "redis://" + mr.Addr() + "/0"}

	rdb, err := database.NewRedisClient(context.Background(), cfg, zerolog.New(io.Discard))
	if err != nil {
		t.Fatalf("NewRedisClient failed: %v", err)
	}
	defer rdb.Close()

	if err := rdb.Set(context.Background(), "k", "v", 0).Err(); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
}

func TestNewRedisClientBadURL(t *testing.T) {
	cfg := &config.Config{RedisURL: "not-a-url"}

	if _, err := database.NewRedisClient(context.Background(), cfg, zerolog.New(io.Discard)); err == nil {
		t.Fatal("NewRedisClient should reject a malformed URL")
	}
}

func TestNewRedisClientUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := &config.Config{RedisURL: "redis://" + addr + "/0"}
	if _, err := database.NewRedisClient(context.Background(), cfg, zerolog.New(io.Discard)); err == nil {
		t.Fatal("NewRedisClient should fail when Redis is down")
	}
}
