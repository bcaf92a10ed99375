package domain

import "github.com/google/uuid"

// TestCase represents one test case of a problem. Test cases are immutable
// and authored by the contest admin; Ordinal defines judging order.
type TestCase struct {
	ID             uuid.UUID `db:"id"`
	ProblemID      string    `db:"problem_id"`
	Ordinal        int       `db:"ordinal"`
	Input          string    `db:"input"`
	ExpectedOutput string    `db:"expected_output"`
	IsSample       bool      `db:"is_sample"`
	Weight         int       `db:"weight"`
}

type TestCaseTable struct {
	ID             string
	ProblemID      string
	Ordinal        string
	Input          string
	ExpectedOutput string
	IsSample       string
	Weight         string
}

func GetTestCaseTable() TestCaseTable {
	return TestCaseTable{
		ID:             "id",
		ProblemID:      "problem_id",
		Ordinal:        "ordinal",
		Input:          "input",
		ExpectedOutput: "expected_output",
		IsSample:       "is_sample",
		Weight:         "weight",
	}
}

func (TestCaseTable) TableName() string {
	return "test_cases"
}
