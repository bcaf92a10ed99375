package secondary

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/codetrack/judged/internal/domain"
)

// SubmissionRepository stores submissions and their status transitions
type SubmissionRepository interface {
	// SaveSubmission inserts or updates a submission
	SaveSubmission(ctx context.Context, sub *domain.Submission) error

	// GetSubmission retrieves a submission by ID; nil if not found
	GetSubmission(ctx context.Context, id uuid.UUID) (*domain.Submission, error)

	// UpdateStatus moves a submission to a new lifecycle state
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.SubmissionStatus) error

	// FinishSubmission records the terminal verdict, score and judged-at time
	FinishSubmission(ctx context.Context, sub *domain.Submission) error
}
