package core

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

var S Store

// InitStore initializes the store with a Redis connection.
func InitStore(db *Database) {
	S = Store{
		RedisConn: initRedis(db),
	}
}

func initRedis(db *Database) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     db.RedisHost,
		Password: db.RedisPassword,
		DB:       db.RedisDb,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	// test connection
	if err := rdb.Ping(ctx).Err(); err != nil {
		panic(fmt.Sprintf("Could not connect to Redis: %v", err))
	}
	return rdb
}
