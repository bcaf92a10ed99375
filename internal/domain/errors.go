package domain

import "errors"

var (
	// ErrUnsupportedLanguage is returned for language identifiers outside the closed set
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// ErrInvalidSubmission is returned when a submission request is missing required fields
	ErrInvalidSubmission = errors.New("invalid submission")

	// ErrSourceTooLarge is returned when the source code exceeds the admission cap
	ErrSourceTooLarge = errors.New("source code too large")

	// ErrThrottled is returned when a contest's admission queue is full.
	// The caller may retry later; no submission record is created.
	ErrThrottled = errors.New("submission queue full")

	// ErrSubmissionNotFound is returned when a submission ID resolves to nothing
	ErrSubmissionNotFound = errors.New("submission not found")

	// ErrProblemNotFound is returned when a problem has no stored definition
	ErrProblemNotFound = errors.New("problem not found")

	// ErrQueueClosed is returned when submitting after the queue has been stopped
	ErrQueueClosed = errors.New("submission queue closed")
)
