package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"gitlab.com/codetrack/judged/internal/config"
	"gitlab.com/codetrack/judged/internal/core/ports/primary"
	"gitlab.com/codetrack/judged/internal/core/ports/secondary"
	"gitlab.com/codetrack/judged/internal/core/services/judge"
	"gitlab.com/codetrack/judged/internal/core/services/leaderboard"
	"gitlab.com/codetrack/judged/internal/domain"
)

var _ ISubmissionQueue = (*SubmissionQueue)(nil)

// SubmissionQueue implements the ISubmissionQueue interface with a bounded
// per-contest admission policy and a fixed-size worker pool. Dispatch is
// first-submitted-first-dispatched within a contest; a per-user in-flight cap
// keeps one user from monopolizing workers.
type SubmissionQueue struct {
	cfg        *config.QueueConfig
	judgeSvc   judge.IJudgeService
	subRepo    secondary.SubmissionRepository
	tcRepo     secondary.TestCaseRepository
	resultRepo secondary.ResultRepository
	aggregator leaderboard.IAggregator
	logger     primary.Logger

	mu           sync.Mutex
	pending      []*domain.Submission
	contestCount map[string]int
	userInFlight map[string]int
	closed       bool

	// notify wakes idle workers after an enqueue or a finished dispatch
	notify chan struct{}

	cancel context.CancelFunc
	group  *errgroup.Group
}

// NewSubmissionQueue creates a new submission queue
func NewSubmissionQueue(
	cfg *config.QueueConfig,
	judgeSvc judge.IJudgeService,
	subRepo secondary.SubmissionRepository,
	tcRepo secondary.TestCaseRepository,
	resultRepo secondary.ResultRepository,
	aggregator leaderboard.IAggregator,
	logger primary.Logger,
) *SubmissionQueue {
	return &SubmissionQueue{
		cfg:          cfg,
		judgeSvc:     judgeSvc,
		subRepo:      subRepo,
		tcRepo:       tcRepo,
		resultRepo:   resultRepo,
		aggregator:   aggregator,
		logger:       logger,
		contestCount: make(map[string]int),
		userInFlight: make(map[string]int),
		notify:       make(chan struct{}, 1),
	}
}

// Submit admits a submission into its contest's queue
func (q *SubmissionQueue) Submit(ctx context.Context, sub *domain.Submission) error {
	if err := sub.Validate(q.cfg.MaxSourceBytes); err != nil {
		return err
	}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return domain.ErrQueueClosed
	}
	if q.contestCount[sub.ContestID] >= q.cfg.ContestCapacity {
		q.mu.Unlock()
		return fmt.Errorf("%w: contest %s", domain.ErrThrottled, sub.ContestID)
	}
	// Reserve the slot before the insert so a concurrent burst cannot
	// overshoot the capacity while we wait on the database
	q.contestCount[sub.ContestID]++
	q.mu.Unlock()

	sub.Status = domain.SubmissionQueued
	if err := q.subRepo.SaveSubmission(ctx, sub); err != nil {
		q.mu.Lock()
		q.contestCount[sub.ContestID]--
		q.mu.Unlock()
		q.logger.Error("Failed to persist submission", "submissionId", sub.ID, "error", err)
		return fmt.Errorf("failed to persist submission: %w", err)
	}

	q.mu.Lock()
	q.pending = append(q.pending, sub)
	q.mu.Unlock()
	q.wake()

	q.logger.Info("Submission queued",
		"submissionId", sub.ID,
		"contestId", sub.ContestID,
		"userId", sub.UserID,
		"language", sub.Language)
	return nil
}

// Start launches the fixed-size worker pool
func (q *SubmissionQueue) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	q.cancel = cancel
	group, groupCtx := errgroup.WithContext(runCtx)
	q.group = group

	for i := 0; i < q.cfg.WorkerCount; i++ {
		workerID := i
		group.Go(func() error {
			q.runWorker(groupCtx, workerID)
			return nil
		})
	}
	q.logger.Info("Worker pool started", "workers", q.cfg.WorkerCount)
}

// Stop closes admission and waits for running submissions to finish
func (q *SubmissionQueue) Stop(ctx context.Context) error {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	if q.cancel != nil {
		q.cancel()
	}
	done := make(chan error, 1)
	go func() {
		if q.group != nil {
			done <- q.group.Wait()
			return
		}
		done <- nil
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("queue shutdown timed out: %w", ctx.Err())
	}
}

// CancelContest removes every queued submission of a contest. In-flight
// submissions keep running; killing them mid-test-case would leave
// inconsistent partial results.
func (q *SubmissionQueue) CancelContest(ctx context.Context, contestID string) (int, error) {
	q.mu.Lock()
	kept := q.pending[:0]
	var canceled []*domain.Submission
	for _, sub := range q.pending {
		if sub.ContestID == contestID {
			canceled = append(canceled, sub)
			q.contestCount[contestID]--
			continue
		}
		kept = append(kept, sub)
	}
	q.pending = kept
	q.mu.Unlock()

	for _, sub := range canceled {
		sub.Status = domain.SubmissionCanceled
		if err := q.subRepo.UpdateStatus(ctx, sub.ID, domain.SubmissionCanceled); err != nil {
			q.logger.Error("Failed to mark submission canceled", "submissionId", sub.ID, "error", err)
		}
	}

	q.logger.Info("Contest canceled", "contestId", contestID, "canceled", len(canceled))
	return len(canceled), nil
}

func (q *SubmissionQueue) wake() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// runWorker pulls eligible submissions until the context is canceled
func (q *SubmissionQueue) runWorker(ctx context.Context, workerID int) {
	for {
		sub := q.next(ctx)
		if sub == nil {
			q.logger.Debug("Worker exiting", "workerId", workerID)
			return
		}
		q.process(ctx, sub)

		q.mu.Lock()
		q.userInFlight[sub.UserID]--
		if q.userInFlight[sub.UserID] <= 0 {
			delete(q.userInFlight, sub.UserID)
		}
		q.mu.Unlock()
		q.wake()
	}
}

// next blocks until an eligible submission is available. Eligible means the
// earliest queued submission whose user is under the in-flight cap; the scan
// preserves submission order, so dispatch stays FIFO within a contest.
func (q *SubmissionQueue) next(ctx context.Context) *domain.Submission {
	for {
		q.mu.Lock()
		for i, sub := range q.pending {
			if q.userInFlight[sub.UserID] >= q.cfg.UserInFlightLimit {
				continue
			}
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			q.contestCount[sub.ContestID]--
			q.userInFlight[sub.UserID]++
			q.mu.Unlock()
			return sub
		}
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil
		case <-q.notify:
		}
	}
}

// process drives one submission from Running to a terminal state. Whatever
// happens, the submission never stays stuck in Running.
func (q *SubmissionQueue) process(ctx context.Context, sub *domain.Submission) {
	sub.Status = domain.SubmissionRunning
	if err := q.subRepo.UpdateStatus(ctx, sub.ID, domain.SubmissionRunning); err != nil {
		q.logger.Error("Failed to mark submission running", "submissionId", sub.ID, "error", err)
	}

	report, err := q.judge(ctx, sub)
	if err != nil || report.Verdict == domain.VerdictInternalError {
		if err != nil {
			q.logger.Error("Judging failed", "submissionId", sub.ID, "error", err)
		}
		q.handleInternalFailure(ctx, sub, report)
		return
	}

	q.finish(ctx, sub, report)
}

func (q *SubmissionQueue) judge(ctx context.Context, sub *domain.Submission) (*domain.JudgeReport, error) {
	problem, err := q.tcRepo.GetProblem(ctx, sub.ProblemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load problem: %w", err)
	}
	if problem == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrProblemNotFound, sub.ProblemID)
	}
	cases, err := q.tcRepo.GetTestCases(ctx, sub.ProblemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load test cases: %w", err)
	}
	return q.judgeSvc.Judge(ctx, sub, problem, cases)
}

// handleInternalFailure retries a bounded number of times, then reports the
// submission as failed, distinct from a judging verdict.
func (q *SubmissionQueue) handleInternalFailure(ctx context.Context, sub *domain.Submission, report *domain.JudgeReport) {
	if sub.RetryCount < q.cfg.RetryLimit {
		sub.RetryCount++
		sub.Status = domain.SubmissionQueued
		if err := q.subRepo.SaveSubmission(ctx, sub); err != nil {
			q.logger.Error("Failed to requeue submission", "submissionId", sub.ID, "error", err)
		}
		q.mu.Lock()
		q.contestCount[sub.ContestID]++
		q.pending = append(q.pending, sub)
		q.mu.Unlock()
		q.wake()
		q.logger.Warn("Submission requeued after internal failure",
			"submissionId", sub.ID,
			"retryCount", sub.RetryCount)
		return
	}

	verdict := domain.VerdictInternalError
	now := time.Now()
	sub.Status = domain.SubmissionFailed
	sub.Verdict = &verdict
	sub.JudgedAt = &now
	if report != nil && len(report.Results) > 0 {
		if err := q.resultRepo.SaveResults(ctx, report.Results); err != nil {
			q.logger.Error("Failed to persist execution results", "submissionId", sub.ID, "error", err)
		}
	}
	if err := q.subRepo.FinishSubmission(ctx, sub); err != nil {
		q.logger.Error("Failed to finish submission", "submissionId", sub.ID, "error", err)
	}
	// Flagged for operator attention: retries exhausted
	q.logger.Error("Submission failed after retries",
		"submissionId", sub.ID,
		"retryCount", sub.RetryCount)
}

// finish persists every execution result before the terminal status so a
// terminal submission is never observed with executions still pending.
func (q *SubmissionQueue) finish(ctx context.Context, sub *domain.Submission, report *domain.JudgeReport) {
	if len(report.Results) > 0 {
		if err := q.resultRepo.SaveResults(ctx, report.Results); err != nil {
			q.logger.Error("Failed to persist execution results", "submissionId", sub.ID, "error", err)
		}
	}

	verdict := report.Verdict
	sub.Status = domain.SubmissionJudged
	sub.Verdict = &verdict
	sub.Score = report.Score
	sub.JudgedAt = &report.CompletedAt
	if err := q.subRepo.FinishSubmission(ctx, sub); err != nil {
		q.logger.Error("Failed to finish submission", "submissionId", sub.ID, "error", err)
	}

	if err := q.aggregator.Apply(ctx, leaderboard.VerdictEvent{
		ContestID: sub.ContestID,
		ProblemID: sub.ProblemID,
		UserID:    sub.UserID,
		Verdict:   report.Verdict,
		Score:     report.Score,
		JudgedAt:  report.CompletedAt,
	}); err != nil {
		q.logger.Error("Failed to apply verdict to leaderboard", "submissionId", sub.ID, "error", err)
	}

	q.logger.Info("Submission judged",
		"submissionId", sub.ID,
		"verdict", report.Verdict,
		"score", report.Score,
		"timeMs", report.TimeMs,
		"memoryKB", report.MemoryKB)
}
