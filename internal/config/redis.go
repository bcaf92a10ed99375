package config

import "os"

type RedisConfig struct {
	DB       int
	Url      string
	Password string
}

func NewRedisConfig() *RedisConfig {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	return &RedisConfig{
		DB:       0,
		Url:      addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	}
}
