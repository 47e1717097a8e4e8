package database

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"campus-connect-server/config"
)

var RedisClient *redis.Client

// InitializeRedis connects to redis with short timeouts. The server keeps
// running without redis; callers must tolerate a nil client.
func InitializeRedis() {
	RedisClient = redis.NewClient(&redis.Options{
		Addr:         config.AppConfig.Redis.Addr,
		Password:     config.AppConfig.Redis.Password,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := RedisClient.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️ Redis not reachable at %s: %v", config.AppConfig.Redis.Addr, err)
		return
	}
	log.Println("✅ Successfully connected to redis")
}

// RedisHealthy verifies redis connectivity.
func RedisHealthy(ctx context.Context) bool {
	if RedisClient == nil {
		return false
	}
	return RedisClient.Ping(ctx).Err() == nil
}
