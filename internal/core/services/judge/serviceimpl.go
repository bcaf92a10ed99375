package judge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gitlab.com/codetrack/judged/internal/config"
	"gitlab.com/codetrack/judged/internal/core/ports/primary"
	"gitlab.com/codetrack/judged/internal/core/ports/secondary"
	"gitlab.com/codetrack/judged/internal/domain"
	"gitlab.com/codetrack/judged/internal/language"
)

var _ IJudgeService = (*JudgeService)(nil)

// JudgeService implements the IJudgeService interface
type JudgeService struct {
	runner     secondary.Runner
	workspaces secondary.WorkspaceProvider
	logger     primary.Logger
	sandboxCfg *config.SandboxConfig
}

// NewJudgeService creates a new judge service
func NewJudgeService(
	runner secondary.Runner,
	workspaces secondary.WorkspaceProvider,
	logger primary.Logger,
	sandboxCfg *config.SandboxConfig,
) *JudgeService {
	return &JudgeService{
		runner:     runner,
		workspaces: workspaces,
		logger:     logger,
		sandboxCfg: sandboxCfg,
	}
}

// Judge grades a submission. Test cases execute strictly sequentially in
// ordinal order; re-judging the same submission against unchanged test cases
// reproduces the same verdict category.
func (s *JudgeService) Judge(ctx context.Context, sub *domain.Submission, problem *domain.Problem, cases []*domain.TestCase) (*domain.JudgeReport, error) {
	spec, err := language.For(sub.Language)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve language spec: %w", err)
	}

	dir, cleanup, err := s.workspaces.Acquire()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire workspace: %w", err)
	}
	defer cleanup()

	sourcePath := filepath.Join(dir, spec.SourceFile)
	if err := os.WriteFile(sourcePath, []byte(sub.SourceCode), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write source file: %w", err)
	}

	timeLimitMs := problem.TimeLimitMs
	if timeLimitMs <= 0 {
		timeLimitMs = spec.DefaultTimeLimitMs
	}
	memoryLimitKB := problem.MemoryLimitKB
	if memoryLimitKB <= 0 {
		memoryLimitKB = spec.DefaultMemoryLimitKB
	}

	report := &domain.JudgeReport{
		SubmissionID: sub.ID,
		Verdict:      domain.VerdictAccepted,
	}

	// A failed compile aborts the whole submission; there is nothing to run
	if spec.Compiled() {
		compileRes, err := s.compile(ctx, spec, dir)
		if err != nil {
			return nil, err
		}
		if compileRes != nil {
			report.Verdict = domain.VerdictCompileError
			report.CompileOutput = compileRes.Stderr
			report.CompletedAt = time.Now()
			s.logger.Info("Compilation failed",
				"submissionId", sub.ID,
				"language", sub.Language)
			return report, nil
		}
	}

	sort.SliceStable(cases, func(i, j int) bool {
		return cases[i].Ordinal < cases[j].Ordinal
	})

	for _, tc := range cases {
		result := s.runTestCase(ctx, spec, dir, sub, tc, timeLimitMs, memoryLimitKB, problem.StrictCompare)
		report.Results = append(report.Results, result)

		report.TimeMs += result.TimeMs
		if result.MemoryKB > report.MemoryKB {
			report.MemoryKB = result.MemoryKB
		}

		if result.Passed() {
			weight := tc.Weight
			if weight <= 0 {
				weight = 1
			}
			report.Score += weight
			continue
		}

		report.Verdict = domain.Worse(report.Verdict, result.Verdict)
		if problem.Mode != domain.ModeJudgeAll {
			break
		}
	}

	report.CompletedAt = time.Now()
	return report, nil
}

// compile runs the compiler inside the sandbox under the language's own
// limits. A nil result means success; a non-nil one carries the compiler
// diagnostics. Compile timeouts classify as compile errors, not TLE.
func (s *JudgeService) compile(ctx context.Context, spec language.Spec, dir string) (*secondary.RunResult, error) {
	res, err := s.runner.Run(ctx, secondary.Command{
		Args:           spec.CompileCommand(),
		Dir:            dir,
		TimeLimitMs:    spec.CompileTimeLimitMs,
		WallLimitMs:    spec.CompileTimeLimitMs * 2,
		MemoryLimitKB:  spec.CompileMemoryLimitKB,
		MaxOutputBytes: s.sandboxCfg.MaxOutputBytes,
	})
	if err != nil {
		return nil, fmt.Errorf("compiler failed to start: %w", err)
	}
	if res.ExitCode != 0 || res.TimedOut || res.OOM {
		if res.TimedOut && res.Stderr == "" {
			res.Stderr = "compilation timed out"
		}
		return res, nil
	}
	return nil, nil
}

// runTestCase executes one test case and classifies the outcome with the
// fixed precedence: internal failure, then time limit, then memory limit,
// then runtime error, then the output comparison.
func (s *JudgeService) runTestCase(
	ctx context.Context,
	spec language.Spec,
	dir string,
	sub *domain.Submission,
	tc *domain.TestCase,
	timeLimitMs, memoryLimitKB int64,
	strict bool,
) domain.ExecutionResult {
	result := domain.ExecutionResult{
		SubmissionID: sub.ID,
		TestCaseID:   tc.ID,
		Ordinal:      tc.Ordinal,
	}

	res, err := s.runner.Run(ctx, secondary.Command{
		Args:                spec.RunCommand(memoryLimitKB),
		Dir:                 dir,
		Stdin:               tc.Input,
		TimeLimitMs:         timeLimitMs,
		MemoryLimitKB:       memoryLimitKB,
		MaxOutputBytes:      s.sandboxCfg.MaxOutputBytes,
		NoAddressSpaceLimit: spec.NoAddressSpaceLimit,
	})
	if err != nil {
		s.logger.Error("Sandbox failed on test case",
			"submissionId", sub.ID,
			"testCaseId", tc.ID,
			"error", err)
		result.Verdict = domain.VerdictInternalError
		return result
	}

	result.ActualOutput = res.Stdout
	result.TimeMs = res.TimeMs
	result.MemoryKB = res.MemoryKB
	result.ExitCode = res.ExitCode

	switch {
	case res.TimedOut:
		result.Verdict = domain.VerdictTimeLimitExceeded
	case res.OOM:
		result.Verdict = domain.VerdictMemoryLimitExceeded
	case res.ExitCode != 0:
		result.Verdict = domain.VerdictRuntimeError
	case Compare(res.Stdout, tc.ExpectedOutput, strict):
		result.Verdict = domain.VerdictAccepted
	default:
		result.Verdict = domain.VerdictWrongAnswer
	}

	return result
}
