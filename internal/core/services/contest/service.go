package contest

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/codetrack/judged/internal/domain"
)

// SubmissionDetail joins a submission with its per-test-case results.
// Hidden reports whether a result belongs to a non-sample test case, whose
// input and expected output must never be revealed.
type SubmissionDetail struct {
	Submission *domain.Submission
	Results    []domain.ExecutionResult
	Hidden     map[uuid.UUID]bool
}

// IContestService covers the contest-admin and read-side operations
type IContestService interface {
	// UpsertProblem stores a problem definition and its test cases
	UpsertProblem(ctx context.Context, problem *domain.Problem, cases []*domain.TestCase) error

	// GetProblem retrieves a problem; ErrProblemNotFound if missing
	GetProblem(ctx context.Context, problemID string) (*domain.Problem, error)

	// GetSubmissionDetail retrieves a submission with its results;
	// ErrSubmissionNotFound if missing
	GetSubmissionDetail(ctx context.Context, submissionID uuid.UUID) (*SubmissionDetail, error)
}
