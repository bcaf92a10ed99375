package domain

import (
	"time"

	"github.com/google/uuid"
)

// ExecutionResult represents the outcome of one test case execution.
// Created once per (submission, test case); never mutated after creation.
type ExecutionResult struct {
	SubmissionID uuid.UUID `db:"submission_id"`
	TestCaseID   uuid.UUID `db:"test_case_id"`
	Ordinal      int       `db:"ordinal"`
	Verdict      Verdict   `db:"verdict"`
	ActualOutput string    `db:"actual_output"`
	TimeMs       int64     `db:"time_ms"`
	MemoryKB     int64     `db:"memory_kb"`
	ExitCode     int       `db:"exit_code"`
}

// Passed reports whether the test case was accepted
func (r *ExecutionResult) Passed() bool {
	return r.Verdict == VerdictAccepted
}

// JudgeReport aggregates a submission's execution results into a verdict.
// Computed deterministically; timing and memory figures are informational
// and never affect the verdict category.
type JudgeReport struct {
	SubmissionID  uuid.UUID
	Verdict       Verdict
	Score         int
	CompileOutput string
	Results       []ExecutionResult
	TimeMs        int64
	MemoryKB      int64
	CompletedAt   time.Time
}

type ExecutionResultTable struct {
	SubmissionID string
	TestCaseID   string
	Ordinal      string
	Verdict      string
	ActualOutput string
	TimeMs       string
	MemoryKB     string
	ExitCode     string
}

func GetExecutionResultTable() ExecutionResultTable {
	return ExecutionResultTable{
		SubmissionID: "submission_id",
		TestCaseID:   "test_case_id",
		Ordinal:      "ordinal",
		Verdict:      "verdict",
		ActualOutput: "actual_output",
		TimeMs:       "time_ms",
		MemoryKB:     "memory_kb",
		ExitCode:     "exit_code",
	}
}

func (ExecutionResultTable) TableName() string {
	return "execution_results"
}
