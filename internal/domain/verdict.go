package domain

// Verdict is the final classification of a submission (or of one test case)
type Verdict string

const (
	VerdictAccepted            Verdict = "ACCEPTED"
	VerdictWrongAnswer         Verdict = "WRONG_ANSWER"
	VerdictTimeLimitExceeded   Verdict = "TIME_LIMIT_EXCEEDED"
	VerdictMemoryLimitExceeded Verdict = "MEMORY_LIMIT_EXCEEDED"
	VerdictRuntimeError        Verdict = "RUNTIME_ERROR"
	VerdictCompileError        Verdict = "COMPILE_ERROR"
	VerdictInternalError       Verdict = "INTERNAL_ERROR"
)

// severity orders verdicts for worst-category aggregation. CompileError
// outranks everything; it is decided before any test case runs.
var severity = map[Verdict]int{
	VerdictAccepted:            0,
	VerdictWrongAnswer:         1,
	VerdictRuntimeError:        2,
	VerdictMemoryLimitExceeded: 3,
	VerdictTimeLimitExceeded:   4,
	VerdictInternalError:       5,
	VerdictCompileError:        6,
}

// Worse returns the more severe of two verdicts
func Worse(a, b Verdict) Verdict {
	if severity[b] > severity[a] {
		return b
	}
	return a
}

// IsTerminal reports whether the verdict ends a submission's lifecycle.
// Every verdict is terminal; the method exists for symmetry with status checks.
func (v Verdict) IsTerminal() bool {
	_, ok := severity[v]
	return ok
}
