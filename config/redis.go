package config

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/JerryLinyx/pilotts/global"
	"github.com/go-redis/redis/v8"
)

// NewRedisClient connects and pings the session store.
func NewRedisClient(ctx context.Context, conf RedisSection) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", conf.Addr, err)
	}
	return client, nil
}

func initRedis() {
	client, err := NewRedisClient(context.Background(), AppConfig.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	global.RedisDB = client
}
