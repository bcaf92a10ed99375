package leaderboard

import (
	"context"
	"time"

	"gitlab.com/codetrack/judged/internal/domain"
)

// VerdictEvent is one terminal judging outcome fed to the aggregator
type VerdictEvent struct {
	ContestID string
	ProblemID string
	UserID    string
	Verdict   domain.Verdict
	Score     int
	JudgedAt  time.Time
}

// IAggregator owns the leaderboard state. It is the only component that
// mutates leaderboard entries; judging workers hand verdicts through Apply.
type IAggregator interface {
	// Apply folds one terminal verdict into the ranking. O(1) per event;
	// concurrent updates to the same (contest, user) key are serialized.
	Apply(ctx context.Context, event VerdictEvent) error

	// Board returns the ranked entries of a contest: higher score first,
	// lower penalty next, earlier last accept last.
	Board(ctx context.Context, contestID string) ([]*domain.LeaderboardEntry, error)
}
