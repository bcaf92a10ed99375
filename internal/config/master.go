package config

import "os"

type AppConfig struct {
	DebugMode      bool
	PostgresConfig *PostgresConfig
	RedisConfig    *RedisConfig
	QueueConfig    *QueueConfig
	JudgeConfig    *JudgeConfig
	SandboxConfig  *SandboxConfig
	AuthConfig     *AuthConfig
}

func NewSystemConfig() *AppConfig {
	return &AppConfig{
		DebugMode:      os.Getenv("DEBUG_MODE") == "true",
		PostgresConfig: NewPostgresConfig(),
		RedisConfig:    NewRedisConfig(),
		QueueConfig:    NewQueueConfig(),
		JudgeConfig:    NewJudgeConfig(),
		SandboxConfig:  NewSandboxConfig(),
		AuthConfig:     NewAuthConfig(),
	}
}
