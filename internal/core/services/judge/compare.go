package judge

import (
	"math"
	"strconv"
	"strings"
)

// floatTolerance is the absolute difference allowed between numeric tokens
// in whitespace-insensitive comparison
const floatTolerance = 1e-6

// Compare checks a program's output against the expected output. Line
// endings and trailing whitespace are normalized first; strict mode then
// requires byte equality, while the default mode compares line by line,
// token by token, tolerating small floating point differences.
func Compare(actual, expected string, strict bool) bool {
	actualLines := normalize(actual)
	expectedLines := normalize(expected)

	if strict {
		return strings.Join(actualLines, "\n") == strings.Join(expectedLines, "\n")
	}

	if len(actualLines) != len(expectedLines) {
		return false
	}
	for i := range actualLines {
		if !compareLine(actualLines[i], expectedLines[i]) {
			return false
		}
	}
	return true
}

// normalize converts CRLF to LF, trims trailing whitespace per line and
// drops trailing blank lines.
func normalize(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " \t\r")
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func compareLine(actual, expected string) bool {
	if actual == expected {
		return true
	}

	actualTokens := strings.Fields(actual)
	expectedTokens := strings.Fields(expected)
	if len(actualTokens) != len(expectedTokens) {
		return false
	}
	for i := range actualTokens {
		if actualTokens[i] == expectedTokens[i] {
			continue
		}
		a, errA := strconv.ParseFloat(actualTokens[i], 64)
		e, errE := strconv.ParseFloat(expectedTokens[i], 64)
		if errA != nil || errE != nil {
			return false
		}
		if math.Abs(a-e) > floatTolerance {
			return false
		}
	}
	return true
}
