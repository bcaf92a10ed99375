package domain

import "fmt"

// Language identifies a supported submission language
type Language string

const (
	LanguagePython Language = "python"
	LanguageJava   Language = "java"
	LanguageCpp    Language = "cpp"
	LanguageC      Language = "c"
)

// SupportedLanguages lists every language accepted at the submission boundary
func SupportedLanguages() []Language {
	return []Language{LanguagePython, LanguageJava, LanguageCpp, LanguageC}
}

// ParseLanguage validates a language identifier coming from the boundary.
// Unknown identifiers are rejected before a submission ever enters the queue.
func ParseLanguage(s string) (Language, error) {
	switch Language(s) {
	case LanguagePython, LanguageJava, LanguageCpp, LanguageC:
		return Language(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, s)
	}
}
