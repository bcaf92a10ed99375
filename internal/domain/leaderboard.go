package domain

import "time"

// LeaderboardEntry is the ranking row for one (contest, user) pair. Mutated
// only by the leaderboard aggregator; score per problem is monotonic (best
// accepted attempt counts, not sum).
type LeaderboardEntry struct {
	ContestID      string     `db:"contest_id" json:"contest_id"`
	UserID         string     `db:"user_id" json:"user_id"`
	Score          int        `db:"score" json:"score"`
	PenaltyMs      int64      `db:"penalty_ms" json:"penalty_ms"`
	LastAcceptedAt *time.Time `db:"last_accepted_at" json:"last_accepted_at,omitempty"`
}

// Before reports whether e ranks ahead of other: higher score first, then
// lower penalty, then earlier last accepted submission.
func (e *LeaderboardEntry) Before(other *LeaderboardEntry) bool {
	if e.Score != other.Score {
		return e.Score > other.Score
	}
	if e.PenaltyMs != other.PenaltyMs {
		return e.PenaltyMs < other.PenaltyMs
	}
	switch {
	case e.LastAcceptedAt == nil:
		return true
	case other.LastAcceptedAt == nil:
		return false
	default:
		return e.LastAcceptedAt.Before(*other.LastAcceptedAt)
	}
}

// ProblemResult is one user's durable progress on one problem: the best
// accepted score and the wrong attempts made before the first accept. It
// backs leaderboard rehydration after a restart, so an already-solved
// problem is never counted twice.
type ProblemResult struct {
	ContestID     string `db:"contest_id"`
	UserID        string `db:"user_id"`
	ProblemID     string `db:"problem_id"`
	BestScore     int    `db:"best_score"`
	Solved        bool   `db:"solved"`
	WrongAttempts int    `db:"wrong_attempts"`
}

type LeaderboardTable struct {
	ContestID      string
	UserID         string
	Score          string
	PenaltyMs      string
	LastAcceptedAt string
}

func GetLeaderboardTable() LeaderboardTable {
	return LeaderboardTable{
		ContestID:      "contest_id",
		UserID:         "user_id",
		Score:          "score",
		PenaltyMs:      "penalty_ms",
		LastAcceptedAt: "last_accepted_at",
	}
}

func (LeaderboardTable) TableName() string {
	return "leaderboard_entries"
}

type ProblemResultTable struct {
	ContestID     string
	UserID        string
	ProblemID     string
	BestScore     string
	Solved        string
	WrongAttempts string
}

func GetProblemResultTable() ProblemResultTable {
	return ProblemResultTable{
		ContestID:     "contest_id",
		UserID:        "user_id",
		ProblemID:     "problem_id",
		BestScore:     "best_score",
		Solved:        "solved",
		WrongAttempts: "wrong_attempts",
	}
}

func (ProblemResultTable) TableName() string {
	return "problem_results"
}
