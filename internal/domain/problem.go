package domain

// JudgeMode selects how a submission's test cases are traversed
type JudgeMode string

const (
	// ModeFailFast stops judging at the first non-accepted test case
	ModeFailFast JudgeMode = "FAIL_FAST"
	// ModeJudgeAll runs every test case and scores partial credit
	ModeJudgeAll JudgeMode = "JUDGE_ALL"
)

// Problem holds the judging parameters declared per problem. Resource limits
// are enforced per test case, not per submission in aggregate.
type Problem struct {
	ID            string    `db:"id"`
	ContestID     string    `db:"contest_id"`
	TimeLimitMs   int64     `db:"time_limit_ms"`
	MemoryLimitKB int64     `db:"memory_limit_kb"`
	StrictCompare bool      `db:"strict_compare"`
	Mode          JudgeMode `db:"mode"`
}

// Normalize fills unset fields with defaults: whitespace-insensitive
// comparison and fail-fast traversal.
func (p *Problem) Normalize(defaultTimeLimitMs, defaultMemoryLimitKB int64) {
	if p.TimeLimitMs <= 0 {
		p.TimeLimitMs = defaultTimeLimitMs
	}
	if p.MemoryLimitKB <= 0 {
		p.MemoryLimitKB = defaultMemoryLimitKB
	}
	if p.Mode != ModeJudgeAll {
		p.Mode = ModeFailFast
	}
}

type ProblemTable struct {
	ID            string
	ContestID     string
	TimeLimitMs   string
	MemoryLimitKB string
	StrictCompare string
	Mode          string
}

func GetProblemTable() ProblemTable {
	return ProblemTable{
		ID:            "id",
		ContestID:     "contest_id",
		TimeLimitMs:   "time_limit_ms",
		MemoryLimitKB: "memory_limit_kb",
		StrictCompare: "strict_compare",
		Mode:          "mode",
	}
}

func (ProblemTable) TableName() string {
	return "problems"
}
