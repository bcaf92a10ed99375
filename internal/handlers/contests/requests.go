package contests

// TestCaseSpec is one test case in a problem definition
type TestCaseSpec struct {
	Ordinal        int    `json:"ordinal"`
	Input          string `json:"input"`
	ExpectedOutput string `json:"expectedOutput"`
	IsSample       bool   `json:"isSample"`
	Weight         int    `json:"weight"`
}

// UpsertProblemRequest represents a request to create or replace a problem
type UpsertProblemRequest struct {
	ContestID     string         `json:"contestId"`
	TimeLimitMs   int64          `json:"timeLimitMs"`
	MemoryLimitKB int64          `json:"memoryLimitKb"`
	StrictCompare bool           `json:"strictCompare"`
	Mode          string         `json:"mode"`
	TestCases     []TestCaseSpec `json:"testCases"`
}

// StopContestResponse reports how many queued submissions were canceled
type StopContestResponse struct {
	ContestID string `json:"contestId"`
	Canceled  int    `json:"canceled"`
}
