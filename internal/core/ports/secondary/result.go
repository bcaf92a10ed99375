package secondary

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/codetrack/judged/internal/domain"
)

// ResultRepository stores per-test-case execution results
type ResultRepository interface {
	// SaveResults persists the execution results of one judged submission
	SaveResults(ctx context.Context, results []domain.ExecutionResult) error

	// GetResults retrieves a submission's execution results in test case order
	GetResults(ctx context.Context, submissionID uuid.UUID) ([]domain.ExecutionResult, error)
}
