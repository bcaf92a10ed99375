package config

import (
	"os"
	"strconv"
)

// QueueConfig controls admission and dispatch of the submission queue
type QueueConfig struct {
	// ContestCapacity bounds queued submissions per contest; admission
	// beyond it is rejected as throttled, never blocked or dropped.
	ContestCapacity int
	// WorkerCount is the fixed size of the judging worker pool
	WorkerCount int
	// UserInFlightLimit caps concurrently judged submissions per user
	UserInFlightLimit int
	// RetryLimit bounds automatic retries after an internal failure
	RetryLimit int
	// MaxSourceBytes caps the size of submitted source code
	MaxSourceBytes int
}

func NewQueueConfig() *QueueConfig {
	return &QueueConfig{
		ContestCapacity:   intEnv("QUEUE_CONTEST_CAPACITY", 100),
		WorkerCount:       intEnv("QUEUE_WORKER_COUNT", 4),
		UserInFlightLimit: intEnv("QUEUE_USER_INFLIGHT_LIMIT", 1),
		RetryLimit:        intEnv("QUEUE_RETRY_LIMIT", 1),
		MaxSourceBytes:    intEnv("QUEUE_MAX_SOURCE_BYTES", 10*1024),
	}
}

func intEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
