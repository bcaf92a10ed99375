package sandbox

import (
	"context"
	"os/exec"
	"strings"
	"testing"

	"gitlab.com/codetrack/judged/internal/core/ports/secondary"
)

// These tests run real subprocesses and need a python3 on the host.
func requirePython3(t *testing.T) string {
	t.Helper()
	path, err := exec.LookPath("python3")
	if err != nil {
		t.Skip("python3 not installed")
	}
	return path
}

func TestRunEchoesStdin(t *testing.T) {
	python := requirePython3(t)
	runner := NewProcessRunner(nopLogger{})

	result, err := runner.Run(context.Background(), secondary.Command{
		Args:           []string{python, "-c", "import sys; sys.stdout.write(sys.stdin.read())"},
		Dir:            t.TempDir(),
		Stdin:          "hello\n",
		TimeLimitMs:    2000,
		MemoryLimitKB:  256 * 1024,
		MaxOutputBytes: 64 * 1024,
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.TimedOut || result.OOM {
		t.Fatalf("clean run flagged: timedOut=%v oom=%v", result.TimedOut, result.OOM)
	}
	if result.ExitCode != 0 {
		t.Errorf("exit code = %d, want 0 (stderr: %s)", result.ExitCode, result.Stderr)
	}
	if result.Stdout != "hello\n" {
		t.Errorf("stdout = %q, want %q", result.Stdout, "hello\n")
	}
}

func TestRunClassifiesBusyLoopAsTimeout(t *testing.T) {
	python := requirePython3(t)
	runner := NewProcessRunner(nopLogger{})

	result, err := runner.Run(context.Background(), secondary.Command{
		Args:           []string{python, "-c", "while True: pass"},
		Dir:            t.TempDir(),
		TimeLimitMs:    500,
		MemoryLimitKB:  256 * 1024,
		MaxOutputBytes: 64 * 1024,
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !result.TimedOut {
		t.Errorf("busy loop not flagged as timed out: %+v", result)
	}
	if result.OOM {
		t.Errorf("busy loop flagged as OOM: %+v", result)
	}
}

func TestRunClassifiesLargeAllocationAsOOM(t *testing.T) {
	python := requirePython3(t)
	runner := NewProcessRunner(nopLogger{})

	// The address-space limit is skipped so the allocation succeeds and the
	// peak RSS itself crosses the limit, the same way a JVM run is measured.
	result, err := runner.Run(context.Background(), secondary.Command{
		Args:                []string{python, "-c", "b = bytearray(50 * 1024 * 1024)\nfor i in range(0, len(b), 4096): b[i] = 1"},
		Dir:                 t.TempDir(),
		TimeLimitMs:         5000,
		MemoryLimitKB:       20 * 1024,
		MaxOutputBytes:      64 * 1024,
		NoAddressSpaceLimit: true,
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !result.OOM {
		t.Errorf("50 MB resident set not flagged as OOM: %+v", result)
	}
}

func TestRunRefusesOversizedFileOutput(t *testing.T) {
	python := requirePython3(t)
	runner := NewProcessRunner(nopLogger{})

	script := "open('big.txt', 'w').write('x' * (1 << 20))"
	result, err := runner.Run(context.Background(), secondary.Command{
		Args:           []string{python, "-c", script},
		Dir:            t.TempDir(),
		TimeLimitMs:    5000,
		MemoryLimitKB:  256 * 1024,
		MaxOutputBytes: 4 * 1024,
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	// The fsize rlimit delivers SIGXFSZ once the write crosses the cap
	if result.ExitCode == 0 && !strings.Contains(result.Stderr, "Error") {
		t.Errorf("oversized file write succeeded: %+v", result)
	}
}
