// package testcaserepo contains the PostgreSQL implementation of the problem
// and test case repository
package testcaserepo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"gitlab.com/codetrack/judged/internal/core/ports/primary"
	"gitlab.com/codetrack/judged/internal/core/ports/secondary"
	"gitlab.com/codetrack/judged/internal/domain"
)

var _ secondary.TestCaseRepository = (*TestCaseRepository)(nil)

// TestCaseRepository implements the TestCaseRepository interface with PostgreSQL
type TestCaseRepository struct {
	db     *sqlx.DB
	logger primary.Logger
}

// NewTestCaseRepository creates a new PostgreSQL test case repository
func NewTestCaseRepository(db *sqlx.DB, logger primary.Logger) *TestCaseRepository {
	return &TestCaseRepository{
		db:     db,
		logger: logger,
	}
}

// GetProblem retrieves a problem definition by ID
func (r *TestCaseRepository) GetProblem(ctx context.Context, problemID string) (*domain.Problem, error) {
	query := `
		SELECT id, contest_id, time_limit_ms, memory_limit_kb, strict_compare, mode
		FROM problems
		WHERE id = $1
	`

	var problem domain.Problem
	err := r.db.QueryRowContext(ctx, query, problemID).Scan(
		&problem.ID,
		&problem.ContestID,
		&problem.TimeLimitMs,
		&problem.MemoryLimitKB,
		&problem.StrictCompare,
		&problem.Mode,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("Failed to get problem", "error", err)
		return nil, fmt.Errorf("failed to get problem: %w", err)
	}

	return &problem, nil
}

// SaveProblem saves a problem definition to PostgreSQL
func (r *TestCaseRepository) SaveProblem(ctx context.Context, problem *domain.Problem) error {
	query := `
		INSERT INTO problems (
			id, contest_id, time_limit_ms, memory_limit_kb, strict_compare, mode
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			contest_id = EXCLUDED.contest_id,
			time_limit_ms = EXCLUDED.time_limit_ms,
			memory_limit_kb = EXCLUDED.memory_limit_kb,
			strict_compare = EXCLUDED.strict_compare,
			mode = EXCLUDED.mode
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		problem.ID,
		problem.ContestID,
		problem.TimeLimitMs,
		problem.MemoryLimitKB,
		problem.StrictCompare,
		problem.Mode,
	)
	if err != nil {
		r.logger.Error("Failed to save problem", "error", err)
		return fmt.Errorf("failed to save problem: %w", err)
	}

	return nil
}

// GetTestCases retrieves a problem's test cases ordered by ordinal
func (r *TestCaseRepository) GetTestCases(ctx context.Context, problemID string) ([]*domain.TestCase, error) {
	query := `
		SELECT id, problem_id, ordinal, input, expected_output, is_sample, weight
		FROM test_cases
		WHERE problem_id = $1
		ORDER BY ordinal ASC
	`

	rows, err := r.db.QueryContext(ctx, query, problemID)
	if err != nil {
		r.logger.Error("Failed to get test cases", "error", err)
		return nil, fmt.Errorf("failed to get test cases: %w", err)
	}
	defer rows.Close()

	cases := make([]*domain.TestCase, 0)
	for rows.Next() {
		var tc domain.TestCase
		err := rows.Scan(
			&tc.ID,
			&tc.ProblemID,
			&tc.Ordinal,
			&tc.Input,
			&tc.ExpectedOutput,
			&tc.IsSample,
			&tc.Weight,
		)
		if err != nil {
			r.logger.Error("Failed to scan test case row", "error", err)
			return nil, fmt.Errorf("failed to scan test case row: %w", err)
		}
		cases = append(cases, &tc)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating test case rows", "error", err)
		return nil, fmt.Errorf("error iterating test case rows: %w", err)
	}

	return cases, nil
}

// ReplaceTestCases replaces a problem's test cases inside one transaction
func (r *TestCaseRepository) ReplaceTestCases(ctx context.Context, problemID string, cases []*domain.TestCase) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to begin transaction", "error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Will be ignored if the transaction is committed

	if _, err := tx.ExecContext(ctx, `DELETE FROM test_cases WHERE problem_id = $1`, problemID); err != nil {
		r.logger.Error("Failed to delete old test cases", "error", err)
		return fmt.Errorf("failed to delete old test cases: %w", err)
	}

	insert := `
		INSERT INTO test_cases (
			id, problem_id, ordinal, input, expected_output, is_sample, weight
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, tc := range cases {
		_, err := tx.ExecContext(
			ctx,
			insert,
			tc.ID,
			problemID,
			tc.Ordinal,
			tc.Input,
			tc.ExpectedOutput,
			tc.IsSample,
			tc.Weight,
		)
		if err != nil {
			r.logger.Error("Failed to insert test case", "error", err)
			return fmt.Errorf("failed to insert test case: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Failed to commit transaction", "error", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
