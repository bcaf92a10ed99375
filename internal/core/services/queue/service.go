package queue

import (
	"context"

	"gitlab.com/codetrack/judged/internal/domain"
)

// ISubmissionQueue admits submissions, dispatches them to the judging worker
// pool and drives their lifecycle to a terminal state.
type ISubmissionQueue interface {
	// Submit admits a submission. Returns ErrThrottled when the contest's
	// queue is full (no record is created), ErrUnsupportedLanguage or
	// ErrInvalidSubmission for bad input, ErrQueueClosed after shutdown.
	Submit(ctx context.Context, sub *domain.Submission) error

	// Start launches the worker pool; workers run until ctx is canceled
	Start(ctx context.Context)

	// Stop closes admission and waits for in-flight judging to finish
	Stop(ctx context.Context) error

	// CancelContest cancels every queued submission of a contest and lets
	// running ones finish. Returns the number of canceled submissions.
	CancelContest(ctx context.Context, contestID string) (int, error)
}
