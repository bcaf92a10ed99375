// package submissionrepo contains the PostgreSQL implementation of the
// submission repository
package submissionrepo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gitlab.com/codetrack/judged/internal/core/ports/primary"
	"gitlab.com/codetrack/judged/internal/core/ports/secondary"
	"gitlab.com/codetrack/judged/internal/domain"
)

var _ secondary.SubmissionRepository = (*SubmissionRepository)(nil)

// SubmissionRepository implements the SubmissionRepository interface with PostgreSQL
type SubmissionRepository struct {
	db     *sqlx.DB
	logger primary.Logger
}

// NewSubmissionRepository creates a new PostgreSQL submission repository
func NewSubmissionRepository(db *sqlx.DB, logger primary.Logger) *SubmissionRepository {
	return &SubmissionRepository{
		db:     db,
		logger: logger,
	}
}

// SaveSubmission saves a submission to PostgreSQL
func (r *SubmissionRepository) SaveSubmission(ctx context.Context, sub *domain.Submission) error {
	query := `
		INSERT INTO submissions (
			id, contest_id, problem_id, user_id, language, source_code,
			status, verdict, score, retry_count, submitted_at, judged_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			verdict = EXCLUDED.verdict,
			score = EXCLUDED.score,
			retry_count = EXCLUDED.retry_count,
			judged_at = EXCLUDED.judged_at
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		sub.ID,
		sub.ContestID,
		sub.ProblemID,
		sub.UserID,
		sub.Language,
		sub.SourceCode,
		sub.Status,
		sub.Verdict,
		sub.Score,
		sub.RetryCount,
		sub.SubmittedAt,
		sub.JudgedAt,
	)
	if err != nil {
		r.logger.Error("Failed to save submission", "error", err)
		return fmt.Errorf("failed to save submission: %w", err)
	}

	return nil
}

// GetSubmission retrieves a submission from PostgreSQL by ID
func (r *SubmissionRepository) GetSubmission(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	query := `
		SELECT id, contest_id, problem_id, user_id, language, source_code,
			   status, verdict, score, retry_count, submitted_at, judged_at
		FROM submissions
		WHERE id = $1
	`

	var sub domain.Submission
	var verdict sql.NullString
	var judgedAt sql.NullTime

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&sub.ID,
		&sub.ContestID,
		&sub.ProblemID,
		&sub.UserID,
		&sub.Language,
		&sub.SourceCode,
		&sub.Status,
		&verdict,
		&sub.Score,
		&sub.RetryCount,
		&sub.SubmittedAt,
		&judgedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("Failed to get submission", "error", err)
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	if verdict.Valid {
		v := domain.Verdict(verdict.String)
		sub.Verdict = &v
	}
	if judgedAt.Valid {
		sub.JudgedAt = &judgedAt.Time
	}

	return &sub, nil
}

// UpdateStatus updates a submission's status in PostgreSQL. Terminal states
// are left untouched; the lifecycle permits no transition out of them.
func (r *SubmissionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.SubmissionStatus) error {
	query := `
		UPDATE submissions
		SET status = $1
		WHERE id = $2 AND status NOT IN ('JUDGED', 'FAILED', 'CANCELED')
	`

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		r.logger.Error("Failed to update submission status", "error", err)
		return fmt.Errorf("failed to update submission status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.logger.Error("Error checking rows affected", "error", err)
		return fmt.Errorf("error checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("submission not found or already terminal: %s", id)
	}

	return nil
}

// FinishSubmission records the terminal verdict, score and judged-at time
func (r *SubmissionRepository) FinishSubmission(ctx context.Context, sub *domain.Submission) error {
	query := `
		UPDATE submissions
		SET status = $1, verdict = $2, score = $3, retry_count = $4, judged_at = $5
		WHERE id = $6 AND status NOT IN ('JUDGED', 'FAILED', 'CANCELED')
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		sub.Status,
		sub.Verdict,
		sub.Score,
		sub.RetryCount,
		sub.JudgedAt,
		sub.ID,
	)
	if err != nil {
		r.logger.Error("Failed to finish submission", "error", err)
		return fmt.Errorf("failed to finish submission: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.logger.Error("Error checking rows affected", "error", err)
		return fmt.Errorf("error checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("submission not found or already terminal: %s", sub.ID)
	}

	return nil
}
