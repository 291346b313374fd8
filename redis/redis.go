package redis

import (
	"context"
	"news-cms/internal/config"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var Ctx = context.Background()
var RedisClient *redis.Client

func InitRedis() {
	RedisClient = redis.NewClient(&redis.Options{
		Addr: config.AppConfig.RedisAddress,
	})
	_, err := RedisClient.Ping(Ctx).Result()
	if err != nil {
		log.Warn().Err(err).Msg("Redis not available. Running without Redis.")
		RedisClient = nil
		return
	}

	log.Info().Str("addr", config.AppConfig.RedisAddress).Msg("Redis connected successfully.")
}

func CloseRedis() {
	if RedisClient == nil {
		return
	}
	if err := RedisClient.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close redis")
	}
}
