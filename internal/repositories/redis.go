package repositories

import (
	"context"
	"log"

	"github.com/galactus-p2p/galactus/internal/config"
	"github.com/redis/go-redis/v9"
)

var Rdb *redis.Client

func ConnectRedis() {
	cfg := config.Envs.Redis

	Rdb = redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if _, err := Rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	log.Println("Successfully connected to Redis")
}
