package leaderboard

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"gitlab.com/codetrack/judged/internal/config"
	"gitlab.com/codetrack/judged/internal/core/ports/primary"
	"gitlab.com/codetrack/judged/internal/core/ports/secondary"
	"gitlab.com/codetrack/judged/internal/domain"
)

var _ IAggregator = (*Aggregator)(nil)

// problemState tracks one user's progress on one problem. The best accepted
// score counts; wrong attempts before the first accept accrue penalty.
type problemState struct {
	bestScore   int
	solved      bool
	wrongBefore int
}

type userState struct {
	entry    domain.LeaderboardEntry
	problems map[string]*problemState
}

// Aggregator implements the IAggregator interface with an in-memory ranking
// per contest, a durable Postgres store and a Redis snapshot cache.
type Aggregator struct {
	repo   secondary.LeaderboardRepository
	cache  secondary.LeaderboardCache
	logger primary.Logger
	cfg    *config.JudgeConfig

	mu       sync.Mutex
	contests map[string]map[string]*userState
	hydrated map[string]bool
}

// NewAggregator creates a new leaderboard aggregator
func NewAggregator(
	repo secondary.LeaderboardRepository,
	cache secondary.LeaderboardCache,
	logger primary.Logger,
	cfg *config.JudgeConfig,
) *Aggregator {
	return &Aggregator{
		repo:     repo,
		cache:    cache,
		logger:   logger,
		cfg:      cfg,
		contests: make(map[string]map[string]*userState),
		hydrated: make(map[string]bool),
	}
}

// Apply folds one terminal verdict into the user's entry. Score per problem
// is monotonic: only an improvement over the best accepted attempt changes
// anything.
func (a *Aggregator) Apply(ctx context.Context, event VerdictEvent) error {
	if err := a.ensureHydrated(ctx, event.ContestID); err != nil {
		return err
	}

	a.mu.Lock()
	state := a.userState(event.ContestID, event.UserID)
	problem, ok := state.problems[event.ProblemID]
	if !ok {
		problem = &problemState{}
		state.problems[event.ProblemID] = problem
	}

	changed := false
	attempted := false
	switch {
	case event.Verdict != domain.VerdictAccepted:
		// Wrong attempts only cost penalty once the problem is solved
		if !problem.solved {
			problem.wrongBefore++
			attempted = true
		}
	case event.Score > problem.bestScore:
		state.entry.Score += event.Score - problem.bestScore
		problem.bestScore = event.Score
		if !problem.solved {
			problem.solved = true
			state.entry.PenaltyMs += int64(problem.wrongBefore) * a.cfg.PenaltyPerWrongAttempt.Milliseconds()
		}
		judgedAt := event.JudgedAt
		state.entry.LastAcceptedAt = &judgedAt
		changed = true
	}
	entry := state.entry
	progress := domain.ProblemResult{
		ContestID:     event.ContestID,
		UserID:        event.UserID,
		ProblemID:     event.ProblemID,
		BestScore:     problem.bestScore,
		Solved:        problem.solved,
		WrongAttempts: problem.wrongBefore,
	}
	a.mu.Unlock()

	if !changed && !attempted {
		return nil
	}

	if err := a.repo.UpsertProblemResult(ctx, &progress); err != nil {
		a.logger.Error("Failed to persist problem result",
			"contestId", event.ContestID,
			"userId", event.UserID,
			"problemId", event.ProblemID,
			"error", err)
		return fmt.Errorf("failed to persist problem result: %w", err)
	}

	if !changed {
		return nil
	}

	if err := a.repo.UpsertEntry(ctx, &entry); err != nil {
		a.logger.Error("Failed to persist leaderboard entry",
			"contestId", event.ContestID,
			"userId", event.UserID,
			"error", err)
		return fmt.Errorf("failed to persist leaderboard entry: %w", err)
	}

	// Drop the cached board; the next read rebuilds and re-caches it
	if err := a.cache.SetBoard(ctx, event.ContestID, nil); err != nil {
		a.logger.Warn("Failed to invalidate leaderboard cache", "contestId", event.ContestID, "error", err)
	}
	return nil
}

// Board returns the ranked leaderboard of a contest, serving from the cache
// when a snapshot is present.
func (a *Aggregator) Board(ctx context.Context, contestID string) ([]*domain.LeaderboardEntry, error) {
	if cached, err := a.cache.GetBoard(ctx, contestID); err != nil {
		a.logger.Warn("Leaderboard cache read failed", "contestId", contestID, "error", err)
	} else if cached != nil {
		return cached, nil
	}

	entries, err := a.snapshot(ctx, contestID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Before(entries[j])
	})

	if err := a.cache.SetBoard(ctx, contestID, entries); err != nil {
		a.logger.Warn("Failed to cache leaderboard", "contestId", contestID, "error", err)
	}
	return entries, nil
}

// snapshot copies the contest's entries, hydrating from the durable store
// when the in-memory state is cold (fresh process).
func (a *Aggregator) snapshot(ctx context.Context, contestID string) ([]*domain.LeaderboardEntry, error) {
	if err := a.ensureHydrated(ctx, contestID); err != nil {
		return nil, err
	}

	a.mu.Lock()
	users := a.contests[contestID]
	entries := make([]*domain.LeaderboardEntry, 0, len(users))
	for _, state := range users {
		// Wrong attempts alone put nothing on the board
		if state.entry.Score == 0 && state.entry.PenaltyMs == 0 && state.entry.LastAcceptedAt == nil {
			continue
		}
		entry := state.entry
		entries = append(entries, &entry)
	}
	a.mu.Unlock()
	return entries, nil
}

// ensureHydrated loads a contest's durable state into memory once per
// process. Both the entries and the per-problem progress rows are needed:
// without the latter a restart would forget which problems are already
// solved and re-count them on the next accept.
func (a *Aggregator) ensureHydrated(ctx context.Context, contestID string) error {
	a.mu.Lock()
	if a.hydrated[contestID] {
		a.mu.Unlock()
		return nil
	}
	a.mu.Unlock()

	stored, err := a.repo.GetEntries(ctx, contestID)
	if err != nil {
		return fmt.Errorf("failed to load leaderboard entries: %w", err)
	}
	results, err := a.repo.GetProblemResults(ctx, contestID)
	if err != nil {
		return fmt.Errorf("failed to load problem results: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	// A concurrent caller may have hydrated while the store was read
	if a.hydrated[contestID] {
		return nil
	}
	for _, entry := range stored {
		state := a.userState(contestID, entry.UserID)
		if state.entry.Score == 0 && state.entry.PenaltyMs == 0 {
			state.entry = *entry
		}
	}
	for _, result := range results {
		state := a.userState(contestID, result.UserID)
		if _, ok := state.problems[result.ProblemID]; ok {
			continue
		}
		state.problems[result.ProblemID] = &problemState{
			bestScore:   result.BestScore,
			solved:      result.Solved,
			wrongBefore: result.WrongAttempts,
		}
	}
	a.hydrated[contestID] = true
	return nil
}

// userState returns the state for a (contest, user) key, creating it if
// missing. Callers must hold the mutex.
func (a *Aggregator) userState(contestID, userID string) *userState {
	users, ok := a.contests[contestID]
	if !ok {
		users = make(map[string]*userState)
		a.contests[contestID] = users
	}
	state, ok := users[userID]
	if !ok {
		state = &userState{
			entry: domain.LeaderboardEntry{
				ContestID: contestID,
				UserID:    userID,
			},
			problems: make(map[string]*problemState),
		}
		users[userID] = state
	}
	return state
}
