// package boardcache contains the Redis implementation of the leaderboard
// snapshot cache
package boardcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"gitlab.com/codetrack/judged/internal/core/ports/primary"
	"gitlab.com/codetrack/judged/internal/core/ports/secondary"
	"gitlab.com/codetrack/judged/internal/domain"
)

const (
	boardKeyPrefix  = "leaderboard:"
	boardExpiration = 5 * time.Minute
)

var _ secondary.LeaderboardCache = (*BoardCache)(nil)

// BoardCache implements the LeaderboardCache interface with Redis
type BoardCache struct {
	redisClient *redis.Client
	logger      primary.Logger
}

// NewBoardCache creates a new Redis leaderboard cache
func NewBoardCache(redisClient *redis.Client, logger primary.Logger) *BoardCache {
	return &BoardCache{
		redisClient: redisClient,
		logger:      logger,
	}
}

// SetBoard stores a ranked snapshot with expiration; nil entries invalidate
func (c *BoardCache) SetBoard(ctx context.Context, contestID string, entries []*domain.LeaderboardEntry) error {
	key := fmt.Sprintf("%s%s", boardKeyPrefix, contestID)

	if entries == nil {
		if err := c.redisClient.Del(ctx, key).Err(); err != nil {
			c.logger.Error("Failed to invalidate board", "error", err)
			return fmt.Errorf("failed to invalidate board: %w", err)
		}
		return nil
	}

	boardJSON, err := json.Marshal(entries)
	if err != nil {
		c.logger.Error("Failed to marshal board", "error", err)
		return fmt.Errorf("failed to marshal board: %w", err)
	}

	if err := c.redisClient.Set(ctx, key, boardJSON, boardExpiration).Err(); err != nil {
		c.logger.Error("Failed to cache board", "error", err)
		return fmt.Errorf("failed to cache board: %w", err)
	}

	return nil
}

// GetBoard retrieves a ranked snapshot; nil without error on a cache miss
func (c *BoardCache) GetBoard(ctx context.Context, contestID string) ([]*domain.LeaderboardEntry, error) {
	key := fmt.Sprintf("%s%s", boardKeyPrefix, contestID)

	boardJSON, err := c.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		c.logger.Error("Failed to read cached board", "error", err)
		return nil, fmt.Errorf("failed to read cached board: %w", err)
	}

	var entries []*domain.LeaderboardEntry
	if err := json.Unmarshal(boardJSON, &entries); err != nil {
		c.logger.Error("Failed to unmarshal cached board", "error", err)
		return nil, fmt.Errorf("failed to unmarshal cached board: %w", err)
	}

	return entries, nil
}
