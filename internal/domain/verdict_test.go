package domain

import "testing"

func TestWorsePicksTheMoreSevereVerdict(t *testing.T) {
	cases := []struct {
		a, b, want Verdict
	}{
		{VerdictAccepted, VerdictWrongAnswer, VerdictWrongAnswer},
		{VerdictWrongAnswer, VerdictAccepted, VerdictWrongAnswer},
		{VerdictWrongAnswer, VerdictRuntimeError, VerdictRuntimeError},
		{VerdictRuntimeError, VerdictMemoryLimitExceeded, VerdictMemoryLimitExceeded},
		{VerdictMemoryLimitExceeded, VerdictTimeLimitExceeded, VerdictTimeLimitExceeded},
		{VerdictTimeLimitExceeded, VerdictInternalError, VerdictInternalError},
		{VerdictInternalError, VerdictCompileError, VerdictCompileError},
		{VerdictAccepted, VerdictAccepted, VerdictAccepted},
	}
	for _, tc := range cases {
		if got := Worse(tc.a, tc.b); got != tc.want {
			t.Errorf("Worse(%s, %s) = %s, want %s", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestWorseIsOrderIndependent(t *testing.T) {
	verdicts := []Verdict{
		VerdictAccepted, VerdictWrongAnswer, VerdictRuntimeError,
		VerdictMemoryLimitExceeded, VerdictTimeLimitExceeded,
		VerdictInternalError, VerdictCompileError,
	}
	for _, a := range verdicts {
		for _, b := range verdicts {
			if Worse(a, b) != Worse(b, a) {
				t.Errorf("Worse(%s, %s) != Worse(%s, %s)", a, b, b, a)
			}
		}
	}
}

func TestStatusIsTerminal(t *testing.T) {
	terminal := []SubmissionStatus{SubmissionJudged, SubmissionFailed, SubmissionCanceled}
	for _, s := range terminal {
		if !s.IsTerminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []SubmissionStatus{SubmissionQueued, SubmissionRunning} {
		if s.IsTerminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}
