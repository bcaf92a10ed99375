// Package language maps the closed set of supported languages to fixed
// compile/run command templates. It is pure configuration: no mutable state,
// no I/O, only command specifications consumed by the sandbox runner.
package language

import (
	"fmt"

	"gitlab.com/codetrack/judged/internal/domain"
)

// Spec describes how one language is compiled and executed inside a scratch
// directory. Commands use paths relative to that directory.
type Spec struct {
	Language   domain.Language
	SourceFile string
	// BinaryFile is the compile artifact; empty for interpreted languages
	BinaryFile string

	// Compile limits are generous and language-specific; a compiler is
	// trusted code, unlike the program it compiles.
	CompileTimeLimitMs   int64
	CompileMemoryLimitKB int64

	// Fallback run limits used when a problem declares none
	DefaultTimeLimitMs   int64
	DefaultMemoryLimitKB int64

	// NoAddressSpaceLimit tells the runner to skip RLIMIT_AS and rely on
	// peak RSS measurement instead. The JVM reserves large mappings up
	// front and dies immediately under an address-space cap.
	NoAddressSpaceLimit bool

	compile func() []string
	run     func(memoryLimitKB int64) []string
}

// Compiled reports whether the language needs a compile step
func (s Spec) Compiled() bool {
	return s.compile != nil
}

// CompileCommand returns the compile argv, or nil for interpreted languages
func (s Spec) CompileCommand() []string {
	if s.compile == nil {
		return nil
	}
	return s.compile()
}

// RunCommand returns the run argv for the given memory ceiling
func (s Spec) RunCommand(memoryLimitKB int64) []string {
	return s.run(memoryLimitKB)
}

var registry = map[domain.Language]Spec{
	domain.LanguagePython: {
		Language:             domain.LanguagePython,
		SourceFile:           "main.py",
		DefaultTimeLimitMs:   5000,
		DefaultMemoryLimitKB: 128 * 1024,
		run: func(int64) []string {
			return []string{"python3", "main.py"}
		},
	},
	domain.LanguageJava: {
		Language:             domain.LanguageJava,
		SourceFile:           "Main.java",
		BinaryFile:           "Main.class",
		CompileTimeLimitMs:   10000,
		CompileMemoryLimitKB: 512 * 1024,
		DefaultTimeLimitMs:   10000,
		DefaultMemoryLimitKB: 256 * 1024,
		NoAddressSpaceLimit:  true,
		compile: func() []string {
			return []string{"javac", "Main.java"}
		},
		run: func(memoryLimitKB int64) []string {
			return []string{"java", "-XX:+UseSerialGC", fmt.Sprintf("-Xmx%dk", memoryLimitKB), "-cp", ".", "Main"}
		},
	},
	domain.LanguageCpp: {
		Language:             domain.LanguageCpp,
		SourceFile:           "main.cpp",
		BinaryFile:           "solution",
		CompileTimeLimitMs:   10000,
		CompileMemoryLimitKB: 512 * 1024,
		DefaultTimeLimitMs:   10000,
		DefaultMemoryLimitKB: 256 * 1024,
		compile: func() []string {
			return []string{"g++", "-O2", "-std=c++17", "-o", "solution", "main.cpp"}
		},
		run: func(int64) []string {
			return []string{"./solution"}
		},
	},
	domain.LanguageC: {
		Language:             domain.LanguageC,
		SourceFile:           "main.c",
		BinaryFile:           "solution",
		CompileTimeLimitMs:   10000,
		CompileMemoryLimitKB: 512 * 1024,
		DefaultTimeLimitMs:   10000,
		DefaultMemoryLimitKB: 256 * 1024,
		compile: func() []string {
			return []string{"gcc", "-O2", "-std=c11", "-o", "solution", "main.c"}
		},
		run: func(int64) []string {
			return []string{"./solution"}
		},
	},
}

// For resolves the spec for a language; unknown tags are rejected here and
// never reach the sandbox.
func For(lang domain.Language) (Spec, error) {
	spec, ok := registry[lang]
	if !ok {
		return Spec{}, fmt.Errorf("%w: %q", domain.ErrUnsupportedLanguage, lang)
	}
	return spec, nil
}
