package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SubmissionStatus represents the lifecycle state of a submission
type SubmissionStatus string

const (
	SubmissionQueued   SubmissionStatus = "QUEUED"
	SubmissionRunning  SubmissionStatus = "RUNNING"
	SubmissionJudged   SubmissionStatus = "JUDGED"
	SubmissionFailed   SubmissionStatus = "FAILED"
	SubmissionCanceled SubmissionStatus = "CANCELED"
)

// IsTerminal reports whether the status permits no further transitions
func (s SubmissionStatus) IsTerminal() bool {
	return s == SubmissionJudged || s == SubmissionFailed || s == SubmissionCanceled
}

// Submission represents a code submission to be judged. It is immutable once
// created except for status transitions driven by the queue.
type Submission struct {
	ID          uuid.UUID        `db:"id"`
	ContestID   string           `db:"contest_id"`
	ProblemID   string           `db:"problem_id"`
	UserID      string           `db:"user_id"`
	Language    Language         `db:"language"`
	SourceCode  string           `db:"source_code"`
	Status      SubmissionStatus `db:"status"`
	Verdict     *Verdict         `db:"verdict"`
	Score       int              `db:"score"`
	RetryCount  int              `db:"retry_count"`
	SubmittedAt time.Time        `db:"submitted_at"`
	JudgedAt    *time.Time       `db:"judged_at"`
}

// NewSubmission creates a new queued submission
func NewSubmission(contestID, problemID, userID string, language Language, sourceCode string) *Submission {
	return &Submission{
		ID:          uuid.New(),
		ContestID:   contestID,
		ProblemID:   problemID,
		UserID:      userID,
		Language:    language,
		SourceCode:  sourceCode,
		Status:      SubmissionQueued,
		SubmittedAt: time.Now(),
	}
}

// Validate checks the fields a submission must carry before admission.
// maxSourceBytes caps the source size; zero means no cap.
func (s *Submission) Validate(maxSourceBytes int) error {
	if s.ContestID == "" || s.ProblemID == "" || s.UserID == "" || s.SourceCode == "" {
		return ErrInvalidSubmission
	}
	if maxSourceBytes > 0 && len(s.SourceCode) > maxSourceBytes {
		return fmt.Errorf("%w: %d bytes over the %d byte limit", ErrSourceTooLarge, len(s.SourceCode), maxSourceBytes)
	}
	if _, err := ParseLanguage(string(s.Language)); err != nil {
		return err
	}
	return nil
}

type SubmissionTable struct {
	ID          string
	ContestID   string
	ProblemID   string
	UserID      string
	Language    string
	SourceCode  string
	Status      string
	Verdict     string
	Score       string
	RetryCount  string
	SubmittedAt string
	JudgedAt    string
}

func GetSubmissionTable() SubmissionTable {
	return SubmissionTable{
		ID:          "id",
		ContestID:   "contest_id",
		ProblemID:   "problem_id",
		UserID:      "user_id",
		Language:    "language",
		SourceCode:  "source_code",
		Status:      "status",
		Verdict:     "verdict",
		Score:       "score",
		RetryCount:  "retry_count",
		SubmittedAt: "submitted_at",
		JudgedAt:    "judged_at",
	}
}

func (SubmissionTable) TableName() string {
	return "submissions"
}
