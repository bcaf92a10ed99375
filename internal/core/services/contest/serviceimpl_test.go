package contest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"gitlab.com/codetrack/judged/internal/config"
	"gitlab.com/codetrack/judged/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Debug(msg string, args ...interface{}) {}
func (nopLogger) Info(msg string, args ...interface{})  {}
func (nopLogger) Warn(msg string, args ...interface{})  {}
func (nopLogger) Error(msg string, args ...interface{}) {}

type fakeTCRepo struct {
	problems map[string]*domain.Problem
	cases    map[string][]*domain.TestCase
}

func newFakeTCRepo() *fakeTCRepo {
	return &fakeTCRepo{
		problems: make(map[string]*domain.Problem),
		cases:    make(map[string][]*domain.TestCase),
	}
}

func (r *fakeTCRepo) GetProblem(_ context.Context, id string) (*domain.Problem, error) {
	return r.problems[id], nil
}

func (r *fakeTCRepo) SaveProblem(_ context.Context, p *domain.Problem) error {
	r.problems[p.ID] = p
	return nil
}

func (r *fakeTCRepo) GetTestCases(_ context.Context, id string) ([]*domain.TestCase, error) {
	return r.cases[id], nil
}

func (r *fakeTCRepo) ReplaceTestCases(_ context.Context, id string, cases []*domain.TestCase) error {
	r.cases[id] = cases
	return nil
}

type fakeSubRepo struct {
	subs map[uuid.UUID]*domain.Submission
}

func (r *fakeSubRepo) SaveSubmission(_ context.Context, sub *domain.Submission) error {
	r.subs[sub.ID] = sub
	return nil
}

func (r *fakeSubRepo) GetSubmission(_ context.Context, id uuid.UUID) (*domain.Submission, error) {
	return r.subs[id], nil
}

func (r *fakeSubRepo) UpdateStatus(_ context.Context, _ uuid.UUID, _ domain.SubmissionStatus) error {
	return nil
}

func (r *fakeSubRepo) FinishSubmission(_ context.Context, _ *domain.Submission) error { return nil }

type fakeResultRepo struct {
	results map[uuid.UUID][]domain.ExecutionResult
}

func (r *fakeResultRepo) SaveResults(_ context.Context, results []domain.ExecutionResult) error {
	if len(results) > 0 {
		r.results[results[0].SubmissionID] = results
	}
	return nil
}

func (r *fakeResultRepo) GetResults(_ context.Context, id uuid.UUID) ([]domain.ExecutionResult, error) {
	return r.results[id], nil
}

func newTestService() (*ContestService, *fakeTCRepo, *fakeSubRepo, *fakeResultRepo) {
	tcRepo := newFakeTCRepo()
	subRepo := &fakeSubRepo{subs: make(map[uuid.UUID]*domain.Submission)}
	resultRepo := &fakeResultRepo{results: make(map[uuid.UUID][]domain.ExecutionResult)}
	cfg := &config.JudgeConfig{
		DefaultTimeLimitMs:     2000,
		DefaultMemoryLimitKB:   256 * 1024,
		PenaltyPerWrongAttempt: 20 * time.Minute,
	}
	return NewContestService(tcRepo, subRepo, resultRepo, nopLogger{}, cfg), tcRepo, subRepo, resultRepo
}

func TestUpsertProblemAppliesDefaults(t *testing.T) {
	svc, tcRepo, _, _ := newTestService()
	ctx := context.Background()

	problem := &domain.Problem{ID: "p1", ContestID: "c1"}
	cases := []*domain.TestCase{
		{ID: uuid.New(), ProblemID: "p1", Ordinal: 1, Input: "1", ExpectedOutput: "1", Weight: 1},
	}
	if err := svc.UpsertProblem(ctx, problem, cases); err != nil {
		t.Fatalf("UpsertProblem failed: %v", err)
	}

	stored := tcRepo.problems["p1"]
	if stored == nil {
		t.Fatal("problem not stored")
	}
	if stored.TimeLimitMs != 2000 || stored.MemoryLimitKB != 256*1024 {
		t.Errorf("defaults not applied: %+v", stored)
	}
	if stored.Mode != domain.ModeFailFast {
		t.Errorf("mode = %s, want default %s", stored.Mode, domain.ModeFailFast)
	}
	if len(tcRepo.cases["p1"]) != 1 {
		t.Errorf("test cases not stored")
	}
}

func TestGetProblemNotFound(t *testing.T) {
	svc, _, _, _ := newTestService()
	if _, err := svc.GetProblem(context.Background(), "missing"); !errors.Is(err, domain.ErrProblemNotFound) {
		t.Errorf("error = %v, want ErrProblemNotFound", err)
	}
}

func TestGetSubmissionDetailMarksHiddenCases(t *testing.T) {
	svc, tcRepo, subRepo, resultRepo := newTestService()
	ctx := context.Background()

	sampleCase := &domain.TestCase{ID: uuid.New(), ProblemID: "p1", Ordinal: 1, IsSample: true}
	hiddenCase := &domain.TestCase{ID: uuid.New(), ProblemID: "p1", Ordinal: 2, IsSample: false}
	tcRepo.cases["p1"] = []*domain.TestCase{sampleCase, hiddenCase}

	sub := domain.NewSubmission("c1", "p1", "u1", domain.LanguagePython, "print(7)")
	subRepo.subs[sub.ID] = sub
	resultRepo.results[sub.ID] = []domain.ExecutionResult{
		{SubmissionID: sub.ID, TestCaseID: sampleCase.ID, Ordinal: 1, Verdict: domain.VerdictAccepted, ActualOutput: "7"},
		{SubmissionID: sub.ID, TestCaseID: hiddenCase.ID, Ordinal: 2, Verdict: domain.VerdictWrongAnswer, ActualOutput: "8"},
	}

	detail, err := svc.GetSubmissionDetail(ctx, sub.ID)
	if err != nil {
		t.Fatalf("GetSubmissionDetail failed: %v", err)
	}
	if detail.Hidden[sampleCase.ID] {
		t.Error("sample case marked hidden")
	}
	if !detail.Hidden[hiddenCase.ID] {
		t.Error("non-sample case not marked hidden")
	}
	if len(detail.Results) != 2 {
		t.Errorf("results = %d, want 2", len(detail.Results))
	}
}

func TestGetSubmissionDetailNotFound(t *testing.T) {
	svc, _, _, _ := newTestService()
	if _, err := svc.GetSubmissionDetail(context.Background(), uuid.New()); !errors.Is(err, domain.ErrSubmissionNotFound) {
		t.Errorf("error = %v, want ErrSubmissionNotFound", err)
	}
}
