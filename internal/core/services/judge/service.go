package judge

import (
	"context"

	"gitlab.com/codetrack/judged/internal/domain"
)

// IJudgeService grades one submission against a problem's test cases
type IJudgeService interface {
	// Judge compiles the submission if its language requires it, executes
	// every test case the problem's mode asks for and aggregates a verdict.
	// An error return means judging infrastructure failed before any test
	// case could run; judging outcomes, including per-case internal
	// failures, come back inside the report.
	Judge(ctx context.Context, sub *domain.Submission, problem *domain.Problem, cases []*domain.TestCase) (*domain.JudgeReport, error)
}
