// package leaderboardrepo contains the PostgreSQL implementation of the
// durable leaderboard store
package leaderboardrepo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"gitlab.com/codetrack/judged/internal/core/ports/primary"
	"gitlab.com/codetrack/judged/internal/core/ports/secondary"
	"gitlab.com/codetrack/judged/internal/domain"
)

var _ secondary.LeaderboardRepository = (*LeaderboardRepository)(nil)

// LeaderboardRepository implements the LeaderboardRepository interface with PostgreSQL
type LeaderboardRepository struct {
	db     *sqlx.DB
	logger primary.Logger
}

// NewLeaderboardRepository creates a new PostgreSQL leaderboard repository
func NewLeaderboardRepository(db *sqlx.DB, logger primary.Logger) *LeaderboardRepository {
	return &LeaderboardRepository{
		db:     db,
		logger: logger,
	}
}

// UpsertEntry inserts or updates one (contest, user) leaderboard entry
func (r *LeaderboardRepository) UpsertEntry(ctx context.Context, entry *domain.LeaderboardEntry) error {
	query := `
		INSERT INTO leaderboard_entries (
			contest_id, user_id, score, penalty_ms, last_accepted_at
		) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (contest_id, user_id) DO UPDATE SET
			score = EXCLUDED.score,
			penalty_ms = EXCLUDED.penalty_ms,
			last_accepted_at = EXCLUDED.last_accepted_at
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		entry.ContestID,
		entry.UserID,
		entry.Score,
		entry.PenaltyMs,
		entry.LastAcceptedAt,
	)
	if err != nil {
		r.logger.Error("Failed to upsert leaderboard entry", "error", err)
		return fmt.Errorf("failed to upsert leaderboard entry: %w", err)
	}

	return nil
}

// GetEntries retrieves every entry of a contest by range scan
func (r *LeaderboardRepository) GetEntries(ctx context.Context, contestID string) ([]*domain.LeaderboardEntry, error) {
	query := `
		SELECT contest_id, user_id, score, penalty_ms, last_accepted_at
		FROM leaderboard_entries
		WHERE contest_id = $1
	`

	rows, err := r.db.QueryContext(ctx, query, contestID)
	if err != nil {
		r.logger.Error("Failed to get leaderboard entries", "error", err)
		return nil, fmt.Errorf("failed to get leaderboard entries: %w", err)
	}
	defer rows.Close()

	entries := make([]*domain.LeaderboardEntry, 0)
	for rows.Next() {
		var entry domain.LeaderboardEntry
		var lastAcceptedAt sql.NullTime
		err := rows.Scan(
			&entry.ContestID,
			&entry.UserID,
			&entry.Score,
			&entry.PenaltyMs,
			&lastAcceptedAt,
		)
		if err != nil {
			r.logger.Error("Failed to scan leaderboard row", "error", err)
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		if lastAcceptedAt.Valid {
			entry.LastAcceptedAt = &lastAcceptedAt.Time
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating leaderboard rows", "error", err)
		return nil, fmt.Errorf("error iterating leaderboard rows: %w", err)
	}

	return entries, nil
}

// UpsertProblemResult inserts or updates one (contest, user, problem) progress row
func (r *LeaderboardRepository) UpsertProblemResult(ctx context.Context, result *domain.ProblemResult) error {
	query := `
		INSERT INTO problem_results (
			contest_id, user_id, problem_id, best_score, solved, wrong_attempts
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (contest_id, user_id, problem_id) DO UPDATE SET
			best_score = EXCLUDED.best_score,
			solved = EXCLUDED.solved,
			wrong_attempts = EXCLUDED.wrong_attempts
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		result.ContestID,
		result.UserID,
		result.ProblemID,
		result.BestScore,
		result.Solved,
		result.WrongAttempts,
	)
	if err != nil {
		r.logger.Error("Failed to upsert problem result", "error", err)
		return fmt.Errorf("failed to upsert problem result: %w", err)
	}

	return nil
}

// GetProblemResults retrieves every per-problem progress row of a contest
func (r *LeaderboardRepository) GetProblemResults(ctx context.Context, contestID string) ([]*domain.ProblemResult, error) {
	query := `
		SELECT contest_id, user_id, problem_id, best_score, solved, wrong_attempts
		FROM problem_results
		WHERE contest_id = $1
	`

	rows, err := r.db.QueryContext(ctx, query, contestID)
	if err != nil {
		r.logger.Error("Failed to get problem results", "error", err)
		return nil, fmt.Errorf("failed to get problem results: %w", err)
	}
	defer rows.Close()

	results := make([]*domain.ProblemResult, 0)
	for rows.Next() {
		var result domain.ProblemResult
		err := rows.Scan(
			&result.ContestID,
			&result.UserID,
			&result.ProblemID,
			&result.BestScore,
			&result.Solved,
			&result.WrongAttempts,
		)
		if err != nil {
			r.logger.Error("Failed to scan problem result row", "error", err)
			return nil, fmt.Errorf("failed to scan problem result row: %w", err)
		}
		results = append(results, &result)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating problem result rows", "error", err)
		return nil, fmt.Errorf("error iterating problem result rows: %w", err)
	}

	return results, nil
}
