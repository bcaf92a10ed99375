package secondary

import (
	"context"

	"gitlab.com/codetrack/judged/internal/domain"
)

// LeaderboardRepository is the durable store for leaderboard entries,
// reachable by (contest, user) key and by contest range scan for rebuilds.
type LeaderboardRepository interface {
	// UpsertEntry inserts or updates one (contest, user) entry
	UpsertEntry(ctx context.Context, entry *domain.LeaderboardEntry) error

	// GetEntries retrieves all entries of a contest, unordered
	GetEntries(ctx context.Context, contestID string) ([]*domain.LeaderboardEntry, error)

	// UpsertProblemResult inserts or updates one (contest, user, problem)
	// progress row
	UpsertProblemResult(ctx context.Context, result *domain.ProblemResult) error

	// GetProblemResults retrieves all per-problem progress rows of a contest
	GetProblemResults(ctx context.Context, contestID string) ([]*domain.ProblemResult, error)
}

// LeaderboardCache holds ranked snapshots for cheap leaderboard reads
type LeaderboardCache interface {
	// SetBoard stores the ranked entries of a contest
	SetBoard(ctx context.Context, contestID string, entries []*domain.LeaderboardEntry) error

	// GetBoard retrieves the ranked entries of a contest; nil on miss
	GetBoard(ctx context.Context, contestID string) ([]*domain.LeaderboardEntry, error)
}
