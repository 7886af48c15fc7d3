package redisclient

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var Client *redis.Client

func Init(addr, password string, db int) {
	Client = redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  6 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
}

func Ping(ctx context.Context) error {
	if err := Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func Close() error {
	if Client == nil {
		return nil
	}
	return Client.Close()
}
