package domain

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestSubmissionValidate(t *testing.T) {
	valid := NewSubmission("c1", "p1", "u1", LanguagePython, "print(7)")
	if err := valid.Validate(0); err != nil {
		t.Errorf("valid submission rejected: %v", err)
	}
	if valid.Status != SubmissionQueued {
		t.Errorf("new submission status = %s, want %s", valid.Status, SubmissionQueued)
	}

	missing := NewSubmission("c1", "p1", "", LanguagePython, "print(7)")
	if err := missing.Validate(0); !errors.Is(err, ErrInvalidSubmission) {
		t.Errorf("missing user error = %v, want ErrInvalidSubmission", err)
	}

	unknown := NewSubmission("c1", "p1", "u1", "brainfuck", "+++")
	if err := unknown.Validate(0); !errors.Is(err, ErrUnsupportedLanguage) {
		t.Errorf("unknown language error = %v, want ErrUnsupportedLanguage", err)
	}
}

func TestSubmissionValidateSourceSizeCap(t *testing.T) {
	big := NewSubmission("c1", "p1", "u1", LanguagePython, strings.Repeat("a", 1025))
	if err := big.Validate(1024); !errors.Is(err, ErrSourceTooLarge) {
		t.Errorf("oversized source error = %v, want ErrSourceTooLarge", err)
	}

	exact := NewSubmission("c1", "p1", "u1", LanguagePython, strings.Repeat("a", 1024))
	if err := exact.Validate(1024); err != nil {
		t.Errorf("source at the cap rejected: %v", err)
	}

	// Zero disables the cap
	if err := big.Validate(0); err != nil {
		t.Errorf("uncapped source rejected: %v", err)
	}
}

func TestLeaderboardEntryBefore(t *testing.T) {
	now := time.Now()
	later := now.Add(time.Hour)

	higher := &LeaderboardEntry{UserID: "a", Score: 5, PenaltyMs: 100}
	lower := &LeaderboardEntry{UserID: "b", Score: 4, PenaltyMs: 0}
	if !higher.Before(lower) {
		t.Error("higher score must rank first regardless of penalty")
	}

	cheap := &LeaderboardEntry{UserID: "a", Score: 5, PenaltyMs: 100}
	costly := &LeaderboardEntry{UserID: "b", Score: 5, PenaltyMs: 200}
	if !cheap.Before(costly) {
		t.Error("lower penalty must break score ties")
	}

	early := &LeaderboardEntry{UserID: "a", Score: 5, PenaltyMs: 100, LastAcceptedAt: &now}
	late := &LeaderboardEntry{UserID: "b", Score: 5, PenaltyMs: 100, LastAcceptedAt: &later}
	if !early.Before(late) {
		t.Error("earlier last accept must break full ties")
	}
}

func TestProblemNormalize(t *testing.T) {
	p := &Problem{ID: "p1", ContestID: "c1"}
	p.Normalize(2000, 262144)
	if p.TimeLimitMs != 2000 || p.MemoryLimitKB != 262144 {
		t.Errorf("defaults not applied: %+v", p)
	}
	if p.Mode != ModeFailFast {
		t.Errorf("mode = %s, want default %s", p.Mode, ModeFailFast)
	}

	q := &Problem{ID: "p2", ContestID: "c1", TimeLimitMs: 500, MemoryLimitKB: 1024, Mode: ModeJudgeAll}
	q.Normalize(2000, 262144)
	if q.TimeLimitMs != 500 || q.MemoryLimitKB != 1024 || q.Mode != ModeJudgeAll {
		t.Errorf("explicit values overwritten: %+v", q)
	}
}
