package submissions

import (
	"time"

	"github.com/google/uuid"

	"gitlab.com/codetrack/judged/internal/domain"
)

// CreateSubmissionRequest represents a request to submit code for judging
type CreateSubmissionRequest struct {
	ProblemID  string `json:"problemId"`
	UserID     string `json:"userId"`
	Language   string `json:"language"`
	SourceCode string `json:"sourceCode"`
}

// CreateSubmissionResponse represents a response to a submission request
type CreateSubmissionResponse struct {
	SubmissionID uuid.UUID               `json:"submissionId"`
	Status       domain.SubmissionStatus `json:"status"`
}

// TestCaseResultView is the outward shape of one test case outcome. Hidden
// test cases expose only the verdict and resource figures, never the program
// output.
type TestCaseResultView struct {
	Ordinal  int            `json:"ordinal"`
	Verdict  domain.Verdict `json:"verdict"`
	Passed   bool           `json:"passed"`
	TimeMs   int64          `json:"timeMs"`
	MemoryKB int64          `json:"memoryKb"`
	Output   string         `json:"output,omitempty"`
}

// SubmissionView represents a submission with its per-test-case results
type SubmissionView struct {
	SubmissionID uuid.UUID               `json:"submissionId"`
	ContestID    string                  `json:"contestId"`
	ProblemID    string                  `json:"problemId"`
	UserID       string                  `json:"userId"`
	Language     domain.Language         `json:"language"`
	Status       domain.SubmissionStatus `json:"status"`
	Verdict      *domain.Verdict         `json:"verdict,omitempty"`
	Score        int                     `json:"score"`
	SubmittedAt  time.Time               `json:"submittedAt"`
	JudgedAt     *time.Time              `json:"judgedAt,omitempty"`
	Results      []TestCaseResultView    `json:"results"`
}
