package config

import "time"

// JudgeConfig carries judging defaults applied when a problem declares none
type JudgeConfig struct {
	// DefaultTimeLimitMs is the per-test-case CPU time limit
	DefaultTimeLimitMs int64
	// DefaultMemoryLimitKB is the per-test-case peak memory ceiling
	DefaultMemoryLimitKB int64
	// PenaltyPerWrongAttempt is added to a user's penalty time for each
	// non-accepted attempt before the first accept on a problem
	PenaltyPerWrongAttempt time.Duration
}

func NewJudgeConfig() *JudgeConfig {
	return &JudgeConfig{
		DefaultTimeLimitMs:     int64(intEnv("JUDGE_TIME_LIMIT_MS", 2000)),
		DefaultMemoryLimitKB:   int64(intEnv("JUDGE_MEMORY_LIMIT_KB", 256*1024)),
		PenaltyPerWrongAttempt: time.Duration(intEnv("JUDGE_PENALTY_MINUTES", 20)) * time.Minute,
	}
}
