package queue

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"gitlab.com/codetrack/judged/internal/config"
	"gitlab.com/codetrack/judged/internal/core/services/leaderboard"
	"gitlab.com/codetrack/judged/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Debug(msg string, args ...interface{}) {}
func (nopLogger) Info(msg string, args ...interface{})  {}
func (nopLogger) Warn(msg string, args ...interface{})  {}
func (nopLogger) Error(msg string, args ...interface{}) {}

// fakeJudge returns a scripted report per submission and records the order
// submissions were judged in
type fakeJudge struct {
	mu      sync.Mutex
	verdict domain.Verdict
	score   int
	judged  []uuid.UUID
}

func (j *fakeJudge) Judge(_ context.Context, sub *domain.Submission, _ *domain.Problem, _ []*domain.TestCase) (*domain.JudgeReport, error) {
	j.mu.Lock()
	j.judged = append(j.judged, sub.ID)
	j.mu.Unlock()
	return &domain.JudgeReport{
		SubmissionID: sub.ID,
		Verdict:      j.verdict,
		Score:        j.score,
		Results: []domain.ExecutionResult{
			{SubmissionID: sub.ID, Ordinal: 1, Verdict: j.verdict},
		},
		CompletedAt: time.Now(),
	}, nil
}

func (j *fakeJudge) judgedOrder() []uuid.UUID {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]uuid.UUID(nil), j.judged...)
}

type fakeSubRepo struct {
	mu       sync.Mutex
	saved    int
	saveErr  error
	statuses map[uuid.UUID]domain.SubmissionStatus
	finished chan *domain.Submission
	events   *eventLog
}

func newFakeSubRepo(events *eventLog) *fakeSubRepo {
	return &fakeSubRepo{
		statuses: make(map[uuid.UUID]domain.SubmissionStatus),
		finished: make(chan *domain.Submission, 16),
		events:   events,
	}
}

func (r *fakeSubRepo) SaveSubmission(_ context.Context, sub *domain.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saved++
	r.statuses[sub.ID] = sub.Status
	return nil
}

func (r *fakeSubRepo) GetSubmission(_ context.Context, _ uuid.UUID) (*domain.Submission, error) {
	return nil, nil
}

func (r *fakeSubRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.SubmissionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses[id] = status
	return nil
}

func (r *fakeSubRepo) FinishSubmission(_ context.Context, sub *domain.Submission) error {
	r.mu.Lock()
	r.statuses[sub.ID] = sub.Status
	r.mu.Unlock()
	if r.events != nil {
		r.events.add("finish")
	}
	r.finished <- sub
	return nil
}

func (r *fakeSubRepo) status(id uuid.UUID) domain.SubmissionStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.statuses[id]
}

func (r *fakeSubRepo) savedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saved
}

type fakeTCRepo struct {
	problem *domain.Problem
	cases   []*domain.TestCase
}

func (r *fakeTCRepo) GetProblem(_ context.Context, _ string) (*domain.Problem, error) {
	return r.problem, nil
}

func (r *fakeTCRepo) SaveProblem(_ context.Context, _ *domain.Problem) error { return nil }

func (r *fakeTCRepo) GetTestCases(_ context.Context, _ string) ([]*domain.TestCase, error) {
	return r.cases, nil
}

func (r *fakeTCRepo) ReplaceTestCases(_ context.Context, _ string, _ []*domain.TestCase) error {
	return nil
}

type fakeResultRepo struct {
	mu     sync.Mutex
	saved  [][]domain.ExecutionResult
	events *eventLog
}

func (r *fakeResultRepo) SaveResults(_ context.Context, results []domain.ExecutionResult) error {
	r.mu.Lock()
	r.saved = append(r.saved, results)
	r.mu.Unlock()
	if r.events != nil {
		r.events.add("results")
	}
	return nil
}

func (r *fakeResultRepo) GetResults(_ context.Context, _ uuid.UUID) ([]domain.ExecutionResult, error) {
	return nil, nil
}

type fakeAggregator struct {
	mu     sync.Mutex
	events []leaderboard.VerdictEvent
}

func (a *fakeAggregator) Apply(_ context.Context, event leaderboard.VerdictEvent) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, event)
	return nil
}

func (a *fakeAggregator) Board(_ context.Context, _ string) ([]*domain.LeaderboardEntry, error) {
	return nil, nil
}

func (a *fakeAggregator) applied() []leaderboard.VerdictEvent {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]leaderboard.VerdictEvent(nil), a.events...)
}

// eventLog records the order of repository side effects across fakes
type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) add(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, name)
}

func (l *eventLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

type queueFixture struct {
	queue      *SubmissionQueue
	judge      *fakeJudge
	subRepo    *fakeSubRepo
	resultRepo *fakeResultRepo
	aggregator *fakeAggregator
	events     *eventLog
}

func newQueueFixture(cfg *config.QueueConfig, verdict domain.Verdict) *queueFixture {
	events := &eventLog{}
	j := &fakeJudge{verdict: verdict, score: 1}
	subRepo := newFakeSubRepo(events)
	resultRepo := &fakeResultRepo{events: events}
	agg := &fakeAggregator{}
	tcRepo := &fakeTCRepo{
		problem: &domain.Problem{ID: "problem-1", ContestID: "contest-1", TimeLimitMs: 2000, MemoryLimitKB: 256 * 1024, Mode: domain.ModeFailFast},
		cases:   []*domain.TestCase{{ID: uuid.New(), ProblemID: "problem-1", Ordinal: 1, ExpectedOutput: "7", Weight: 1}},
	}
	return &queueFixture{
		queue:      NewSubmissionQueue(cfg, j, subRepo, tcRepo, resultRepo, agg, nopLogger{}),
		judge:      j,
		subRepo:    subRepo,
		resultRepo: resultRepo,
		aggregator: agg,
		events:     events,
	}
}

func waitFinished(t *testing.T, repo *fakeSubRepo) *domain.Submission {
	t.Helper()
	select {
	case sub := <-repo.finished:
		return sub
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a submission to reach a terminal state")
		return nil
	}
}

func stopQueue(t *testing.T, q *SubmissionQueue) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := q.Stop(ctx); err != nil {
		t.Fatalf("Stop returned error: %v", err)
	}
}

func submission(contest, user string) *domain.Submission {
	return domain.NewSubmission(contest, "problem-1", user, domain.LanguagePython, "print(7)")
}

func TestSubmitThrottledBeyondCapacity(t *testing.T) {
	cfg := &config.QueueConfig{ContestCapacity: 2, WorkerCount: 1, UserInFlightLimit: 1, RetryLimit: 1}
	f := newQueueFixture(cfg, domain.VerdictAccepted)
	ctx := context.Background()

	if err := f.queue.Submit(ctx, submission("contest-1", "u1")); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	if err := f.queue.Submit(ctx, submission("contest-1", "u2")); err != nil {
		t.Fatalf("second submit failed: %v", err)
	}

	err := f.queue.Submit(ctx, submission("contest-1", "u3"))
	if !errors.Is(err, domain.ErrThrottled) {
		t.Fatalf("third submit error = %v, want ErrThrottled", err)
	}
	if got := f.subRepo.savedCount(); got != 2 {
		t.Errorf("saved submissions = %d, want 2 (no record for the throttled one)", got)
	}

	// Other contests are unaffected by a full queue
	if err := f.queue.Submit(ctx, submission("contest-2", "u3")); err != nil {
		t.Errorf("submit to another contest failed: %v", err)
	}
}

func TestSubmitRejectsInvalidInput(t *testing.T) {
	cfg := &config.QueueConfig{ContestCapacity: 10, WorkerCount: 1, UserInFlightLimit: 1, RetryLimit: 1}
	f := newQueueFixture(cfg, domain.VerdictAccepted)
	ctx := context.Background()

	bad := submission("contest-1", "u1")
	bad.SourceCode = ""
	if err := f.queue.Submit(ctx, bad); !errors.Is(err, domain.ErrInvalidSubmission) {
		t.Errorf("empty source error = %v, want ErrInvalidSubmission", err)
	}

	unknown := submission("contest-1", "u1")
	unknown.Language = "cobol"
	if err := f.queue.Submit(ctx, unknown); !errors.Is(err, domain.ErrUnsupportedLanguage) {
		t.Errorf("unknown language error = %v, want ErrUnsupportedLanguage", err)
	}
	if got := f.subRepo.savedCount(); got != 0 {
		t.Errorf("saved submissions = %d, want 0", got)
	}
}

func TestSubmitRejectsOversizedSource(t *testing.T) {
	cfg := &config.QueueConfig{ContestCapacity: 10, WorkerCount: 1, UserInFlightLimit: 1, RetryLimit: 1, MaxSourceBytes: 64}
	f := newQueueFixture(cfg, domain.VerdictAccepted)
	ctx := context.Background()

	big := submission("contest-1", "u1")
	big.SourceCode = strings.Repeat("x", 65)
	if err := f.queue.Submit(ctx, big); !errors.Is(err, domain.ErrSourceTooLarge) {
		t.Errorf("oversized source error = %v, want ErrSourceTooLarge", err)
	}
	if got := f.subRepo.savedCount(); got != 0 {
		t.Errorf("saved submissions = %d, want 0 (no record for the rejected one)", got)
	}

	if err := f.queue.Submit(ctx, submission("contest-1", "u1")); err != nil {
		t.Errorf("small source rejected: %v", err)
	}
}

func TestQueueJudgesSubmissionToTerminalState(t *testing.T) {
	cfg := &config.QueueConfig{ContestCapacity: 10, WorkerCount: 1, UserInFlightLimit: 1, RetryLimit: 1}
	f := newQueueFixture(cfg, domain.VerdictAccepted)
	ctx := context.Background()

	f.queue.Start(ctx)
	defer stopQueue(t, f.queue)

	sub := submission("contest-1", "u1")
	if err := f.queue.Submit(ctx, sub); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	done := waitFinished(t, f.subRepo)
	if done.Status != domain.SubmissionJudged {
		t.Errorf("status = %s, want %s", done.Status, domain.SubmissionJudged)
	}
	if done.Verdict == nil || *done.Verdict != domain.VerdictAccepted {
		t.Errorf("verdict = %v, want %s", done.Verdict, domain.VerdictAccepted)
	}

	// Execution results must land before the terminal status
	events := f.events.snapshot()
	if len(events) != 2 || events[0] != "results" || events[1] != "finish" {
		t.Errorf("side effect order = %v, want [results finish]", events)
	}

	applied := f.aggregator.applied()
	if len(applied) != 1 || applied[0].Verdict != domain.VerdictAccepted || applied[0].UserID != "u1" {
		t.Errorf("aggregator events = %+v, want one accepted event for u1", applied)
	}
}

func TestQueueDispatchIsFIFOWithinContest(t *testing.T) {
	cfg := &config.QueueConfig{ContestCapacity: 10, WorkerCount: 1, UserInFlightLimit: 1, RetryLimit: 1}
	f := newQueueFixture(cfg, domain.VerdictAccepted)
	ctx := context.Background()

	subs := []*domain.Submission{
		submission("contest-1", "u1"),
		submission("contest-1", "u2"),
		submission("contest-1", "u3"),
	}
	for _, sub := range subs {
		if err := f.queue.Submit(ctx, sub); err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}

	f.queue.Start(ctx)
	defer stopQueue(t, f.queue)

	for range subs {
		waitFinished(t, f.subRepo)
	}

	order := f.judge.judgedOrder()
	if len(order) != 3 {
		t.Fatalf("judged %d submissions, want 3", len(order))
	}
	for i, sub := range subs {
		if order[i] != sub.ID {
			t.Fatalf("judged order %v does not match submission order", order)
		}
	}
}

func TestQueueRetriesInternalFailureThenFails(t *testing.T) {
	cfg := &config.QueueConfig{ContestCapacity: 10, WorkerCount: 1, UserInFlightLimit: 1, RetryLimit: 1}
	f := newQueueFixture(cfg, domain.VerdictInternalError)
	ctx := context.Background()

	f.queue.Start(ctx)
	defer stopQueue(t, f.queue)

	sub := submission("contest-1", "u1")
	if err := f.queue.Submit(ctx, sub); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	done := waitFinished(t, f.subRepo)
	if done.Status != domain.SubmissionFailed {
		t.Errorf("status = %s, want %s", done.Status, domain.SubmissionFailed)
	}
	if done.Verdict == nil || *done.Verdict != domain.VerdictInternalError {
		t.Errorf("verdict = %v, want %s", done.Verdict, domain.VerdictInternalError)
	}
	if done.RetryCount != 1 {
		t.Errorf("retry count = %d, want 1", done.RetryCount)
	}
	if got := len(f.judge.judgedOrder()); got != 2 {
		t.Errorf("judge invocations = %d, want 2 (original + one retry)", got)
	}
	if got := f.aggregator.applied(); len(got) != 0 {
		t.Errorf("failed submissions must not reach the leaderboard, got %+v", got)
	}
}

func TestCancelContestRemovesQueuedOnly(t *testing.T) {
	cfg := &config.QueueConfig{ContestCapacity: 2, WorkerCount: 1, UserInFlightLimit: 1, RetryLimit: 1}
	f := newQueueFixture(cfg, domain.VerdictAccepted)
	ctx := context.Background()

	a1 := submission("contest-a", "u1")
	a2 := submission("contest-a", "u2")
	b1 := submission("contest-b", "u3")
	for _, sub := range []*domain.Submission{a1, a2, b1} {
		if err := f.queue.Submit(ctx, sub); err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}

	canceled, err := f.queue.CancelContest(ctx, "contest-a")
	if err != nil {
		t.Fatalf("CancelContest failed: %v", err)
	}
	if canceled != 2 {
		t.Errorf("canceled = %d, want 2", canceled)
	}
	if got := f.subRepo.status(a1.ID); got != domain.SubmissionCanceled {
		t.Errorf("a1 status = %s, want %s", got, domain.SubmissionCanceled)
	}
	if got := f.subRepo.status(b1.ID); got != domain.SubmissionQueued {
		t.Errorf("b1 status = %s, want %s", got, domain.SubmissionQueued)
	}

	// Cancellation frees the contest's admission slots
	if err := f.queue.Submit(ctx, submission("contest-a", "u4")); err != nil {
		t.Errorf("submit after cancel failed: %v", err)
	}
}

func TestSubmitAfterStopRejected(t *testing.T) {
	cfg := &config.QueueConfig{ContestCapacity: 10, WorkerCount: 1, UserInFlightLimit: 1, RetryLimit: 1}
	f := newQueueFixture(cfg, domain.VerdictAccepted)
	ctx := context.Background()

	f.queue.Start(ctx)
	stopQueue(t, f.queue)

	if err := f.queue.Submit(ctx, submission("contest-1", "u1")); !errors.Is(err, domain.ErrQueueClosed) {
		t.Errorf("submit after stop error = %v, want ErrQueueClosed", err)
	}
}
