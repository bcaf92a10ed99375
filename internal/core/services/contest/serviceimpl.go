package contest

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"gitlab.com/codetrack/judged/internal/config"
	"gitlab.com/codetrack/judged/internal/core/ports/primary"
	"gitlab.com/codetrack/judged/internal/core/ports/secondary"
	"gitlab.com/codetrack/judged/internal/domain"
)

var _ IContestService = (*ContestService)(nil)

// ContestService implements the IContestService interface
type ContestService struct {
	tcRepo     secondary.TestCaseRepository
	subRepo    secondary.SubmissionRepository
	resultRepo secondary.ResultRepository
	logger     primary.Logger
	judgeCfg   *config.JudgeConfig
}

// NewContestService creates a new contest service
func NewContestService(
	tcRepo secondary.TestCaseRepository,
	subRepo secondary.SubmissionRepository,
	resultRepo secondary.ResultRepository,
	logger primary.Logger,
	judgeCfg *config.JudgeConfig,
) *ContestService {
	return &ContestService{
		tcRepo:     tcRepo,
		subRepo:    subRepo,
		resultRepo: resultRepo,
		logger:     logger,
		judgeCfg:   judgeCfg,
	}
}

// UpsertProblem stores a problem and replaces its test cases
func (s *ContestService) UpsertProblem(ctx context.Context, problem *domain.Problem, cases []*domain.TestCase) error {
	problem.Normalize(s.judgeCfg.DefaultTimeLimitMs, s.judgeCfg.DefaultMemoryLimitKB)

	if err := s.tcRepo.SaveProblem(ctx, problem); err != nil {
		s.logger.Error("Failed to save problem", "problemId", problem.ID, "error", err)
		return fmt.Errorf("failed to save problem: %w", err)
	}
	if err := s.tcRepo.ReplaceTestCases(ctx, problem.ID, cases); err != nil {
		s.logger.Error("Failed to save test cases", "problemId", problem.ID, "error", err)
		return fmt.Errorf("failed to save test cases: %w", err)
	}

	s.logger.Info("Problem stored", "problemId", problem.ID, "testCases", len(cases))
	return nil
}

// GetProblem retrieves a problem definition
func (s *ContestService) GetProblem(ctx context.Context, problemID string) (*domain.Problem, error) {
	problem, err := s.tcRepo.GetProblem(ctx, problemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get problem: %w", err)
	}
	if problem == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrProblemNotFound, problemID)
	}
	return problem, nil
}

// GetSubmissionDetail retrieves a submission with its execution results and
// the hidden flag of each result's test case.
func (s *ContestService) GetSubmissionDetail(ctx context.Context, submissionID uuid.UUID) (*SubmissionDetail, error) {
	sub, err := s.subRepo.GetSubmission(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	if sub == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrSubmissionNotFound, submissionID)
	}

	results, err := s.resultRepo.GetResults(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get execution results: %w", err)
	}

	hidden := make(map[uuid.UUID]bool, len(results))
	cases, err := s.tcRepo.GetTestCases(ctx, sub.ProblemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get test cases: %w", err)
	}
	sample := make(map[uuid.UUID]bool, len(cases))
	for _, tc := range cases {
		sample[tc.ID] = tc.IsSample
	}
	for _, result := range results {
		hidden[result.TestCaseID] = !sample[result.TestCaseID]
	}

	return &SubmissionDetail{
		Submission: sub,
		Results:    results,
		Hidden:     hidden,
	}, nil
}
