package app

import (
	"dashboard-cache/internal/common/logging"
	"dashboard-cache/internal/redis"
)

func (app *App) initializeRedis() error {
	if app.Config.RedisAddress == "" {
		app.Logger.Info("Redis: Not configured (running L1-only)")
		return nil
	}

	redisConfig := &redis.Config{
		Address:  app.Config.RedisAddress,
		Password: app.Config.RedisPassword,
		DB:       app.Config.RedisDB,
		PoolSize: app.Config.RedisPoolSize,
	}

	redisClient, err := redis.NewClient(redisConfig)
	if err != nil {
		return err
	}

	app.RedisClient = redisClient
	app.Logger.Info("Redis: Connected", logging.Field{Key: "address", Value: app.Config.RedisAddress})
	return nil
}
