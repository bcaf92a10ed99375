// package resultrepo contains the PostgreSQL implementation of the execution
// result repository
package resultrepo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gitlab.com/codetrack/judged/internal/core/ports/primary"
	"gitlab.com/codetrack/judged/internal/core/ports/secondary"
	"gitlab.com/codetrack/judged/internal/domain"
)

var _ secondary.ResultRepository = (*ResultRepository)(nil)

// ResultRepository implements the ResultRepository interface with PostgreSQL
type ResultRepository struct {
	db     *sqlx.DB
	logger primary.Logger
}

// NewResultRepository creates a new PostgreSQL result repository
func NewResultRepository(db *sqlx.DB, logger primary.Logger) *ResultRepository {
	return &ResultRepository{
		db:     db,
		logger: logger,
	}
}

// SaveResults persists the execution results of one judged submission.
// Results are insert-only; a re-judge after a retry overwrites by key.
func (r *ResultRepository) SaveResults(ctx context.Context, results []domain.ExecutionResult) error {
	if len(results) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to begin transaction", "error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Will be ignored if the transaction is committed

	query := `
		INSERT INTO execution_results (
			submission_id, test_case_id, ordinal, verdict, actual_output,
			time_ms, memory_kb, exit_code
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (submission_id, test_case_id) DO UPDATE SET
			verdict = EXCLUDED.verdict,
			actual_output = EXCLUDED.actual_output,
			time_ms = EXCLUDED.time_ms,
			memory_kb = EXCLUDED.memory_kb,
			exit_code = EXCLUDED.exit_code
	`
	for _, result := range results {
		_, err := tx.ExecContext(
			ctx,
			query,
			result.SubmissionID,
			result.TestCaseID,
			result.Ordinal,
			result.Verdict,
			result.ActualOutput,
			result.TimeMs,
			result.MemoryKB,
			result.ExitCode,
		)
		if err != nil {
			r.logger.Error("Failed to save execution result", "error", err)
			return fmt.Errorf("failed to save execution result: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Failed to commit transaction", "error", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetResults retrieves a submission's execution results in test case order
func (r *ResultRepository) GetResults(ctx context.Context, submissionID uuid.UUID) ([]domain.ExecutionResult, error) {
	query := `
		SELECT submission_id, test_case_id, ordinal, verdict, actual_output,
			   time_ms, memory_kb, exit_code
		FROM execution_results
		WHERE submission_id = $1
		ORDER BY ordinal ASC
	`

	rows, err := r.db.QueryContext(ctx, query, submissionID)
	if err != nil {
		r.logger.Error("Failed to get execution results", "error", err)
		return nil, fmt.Errorf("failed to get execution results: %w", err)
	}
	defer rows.Close()

	results := make([]domain.ExecutionResult, 0)
	for rows.Next() {
		var result domain.ExecutionResult
		err := rows.Scan(
			&result.SubmissionID,
			&result.TestCaseID,
			&result.Ordinal,
			&result.Verdict,
			&result.ActualOutput,
			&result.TimeMs,
			&result.MemoryKB,
			&result.ExitCode,
		)
		if err != nil {
			r.logger.Error("Failed to scan execution result row", "error", err)
			return nil, fmt.Errorf("failed to scan execution result row: %w", err)
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating execution result rows", "error", err)
		return nil, fmt.Errorf("error iterating execution result rows: %w", err)
	}

	return results, nil
}
