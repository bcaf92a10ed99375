package secondary

import (
	"context"

	"gitlab.com/codetrack/judged/internal/domain"
)

// TestCaseRepository stores problems and their ordered test cases
type TestCaseRepository interface {
	// GetProblem retrieves a problem definition; nil if not found
	GetProblem(ctx context.Context, problemID string) (*domain.Problem, error)

	// SaveProblem inserts or updates a problem definition
	SaveProblem(ctx context.Context, problem *domain.Problem) error

	// GetTestCases retrieves a problem's test cases ordered by ordinal
	GetTestCases(ctx context.Context, problemID string) ([]*domain.TestCase, error)

	// ReplaceTestCases replaces a problem's test cases atomically
	ReplaceTestCases(ctx context.Context, problemID string, cases []*domain.TestCase) error
}
