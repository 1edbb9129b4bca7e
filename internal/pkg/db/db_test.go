package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"amartaka-bot/internal/config"
)

func TestOrDefault(t *testing.T) {
	assert.Equal(t, time.Minute, orDefault(0, time.Minute))
	assert.Equal(t, time.Second, orDefault(time.Second, time.Minute))
}

func TestNewPoolRejectsUnreachableDatabase(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := NewPool(ctx, &config.DatabaseConfig{
		Host:           "127.0.0.1",
		Port:           1,
		User:           "nobody",
		Name:           "nothing",
		ConnectTimeout: time.Second,
	})
	assert.Error(t, err)
}

func TestNewRedisRejectsUnreachableServer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := NewRedis(ctx, &config.RedisConfig{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}
