// Package sandbox executes untrusted programs in isolated subprocesses with
// CPU, wall-clock, memory and output limits. Isolation is process-group
// based: a scrubbed environment, an exclusively owned scratch directory,
// rlimits applied to the started process and a watchdog that kills the whole
// group on wall-clock timeout.
package sandbox

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"gitlab.com/codetrack/judged/internal/core/ports/primary"
	"gitlab.com/codetrack/judged/internal/core/ports/secondary"
)

// wallSlackMs is the minimum gap between CPU and wall-clock limits,
// absorbing scheduling jitter so a busy host does not turn a passing run
// into a timeout.
const wallSlackMs = 1000

// ProcessRunner implements the Runner interface with host subprocesses
type ProcessRunner struct {
	logger primary.Logger
}

var _ secondary.Runner = (*ProcessRunner)(nil)

// NewProcessRunner creates a new process-based sandbox runner
func NewProcessRunner(logger primary.Logger) *ProcessRunner {
	return &ProcessRunner{
		logger: logger,
	}
}

// Run executes one command under the configured limits. A returned error
// means the sandbox itself failed, not the program it ran.
func (r *ProcessRunner) Run(ctx context.Context, cmd secondary.Command) (*secondary.RunResult, error) {
	if len(cmd.Args) == 0 {
		return nil, fmt.Errorf("sandbox: empty command")
	}

	wallMs := cmd.WallLimitMs
	if wallMs <= cmd.TimeLimitMs {
		wallMs = cmd.TimeLimitMs + wallSlackMs
	}

	proc := exec.Command(cmd.Args[0], cmd.Args[1:]...)
	proc.Dir = cmd.Dir
	// No ambient credentials or host environment reach the program
	proc.Env = []string{
		"PATH=/usr/local/bin:/usr/bin:/bin",
		"HOME=" + cmd.Dir,
	}
	proc.Stdin = strings.NewReader(cmd.Stdin)

	stdout := newCappedBuffer(cmd.MaxOutputBytes)
	stderr := newCappedBuffer(cmd.MaxOutputBytes)
	proc.Stdout = stdout
	proc.Stderr = stderr

	// Own process group so the kill reaches every descendant
	proc.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := proc.Start(); err != nil {
		return nil, fmt.Errorf("sandbox failed to start command %q: %w", cmd.Args[0], err)
	}
	pid := proc.Process.Pid

	// The child runs without rlimits between Start and Prlimit. The window
	// is a few scheduler ticks at most, and the wall-clock watchdog below
	// bounds anything that manages to misbehave inside it.
	if err := r.applyLimits(pid, cmd); err != nil {
		killGroup(pid)
		_ = proc.Wait()
		return nil, fmt.Errorf("sandbox failed to apply limits: %w", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- proc.Wait()
	}()

	timedOut := false
	wallTimer := time.NewTimer(time.Duration(wallMs) * time.Millisecond)
	defer wallTimer.Stop()

	select {
	case <-ctx.Done():
		killGroup(pid)
		<-done
		return nil, fmt.Errorf("sandbox run canceled: %w", ctx.Err())
	case <-wallTimer.C:
		timedOut = true
		killGroup(pid)
		<-done
	case <-done:
	}

	state := proc.ProcessState
	if state == nil {
		return nil, fmt.Errorf("sandbox lost process state for pid %d", pid)
	}

	result := &secondary.RunResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: state.ExitCode(),
		TimedOut: timedOut,
	}

	if usage, ok := state.SysUsage().(*syscall.Rusage); ok {
		result.TimeMs = timevalMs(usage.Utime) + timevalMs(usage.Stime)
		// Maxrss is the peak resident set of the process tree in KB
		result.MemoryKB = usage.Maxrss
	}

	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		if ws.Signal() == syscall.SIGXCPU {
			result.TimedOut = true
		}
	}
	if cmd.TimeLimitMs > 0 && result.TimeMs >= cmd.TimeLimitMs {
		result.TimedOut = true
	}
	if cmd.MemoryLimitKB > 0 && result.MemoryKB >= cmd.MemoryLimitKB {
		result.OOM = true
	}

	return result, nil
}

// applyLimits attaches rlimits to a started process. CPU time gets one extra
// hard second so SIGXCPU lands before SIGKILL; the wall-clock watchdog is the
// backstop either way.
func (r *ProcessRunner) applyLimits(pid int, cmd secondary.Command) error {
	if cmd.TimeLimitMs > 0 {
		cpuSec := uint64((cmd.TimeLimitMs + 999) / 1000)
		if err := unix.Prlimit(pid, unix.RLIMIT_CPU, &unix.Rlimit{Cur: cpuSec, Max: cpuSec + 1}, nil); err != nil {
			return fmt.Errorf("rlimit cpu: %w", err)
		}
	}
	if cmd.MemoryLimitKB > 0 && !cmd.NoAddressSpaceLimit {
		bytes := uint64(cmd.MemoryLimitKB) * 1024
		if err := unix.Prlimit(pid, unix.RLIMIT_AS, &unix.Rlimit{Cur: bytes, Max: bytes}, nil); err != nil {
			return fmt.Errorf("rlimit as: %w", err)
		}
	}
	if cmd.MaxOutputBytes > 0 {
		out := uint64(cmd.MaxOutputBytes)
		if err := unix.Prlimit(pid, unix.RLIMIT_FSIZE, &unix.Rlimit{Cur: out, Max: out}, nil); err != nil {
			return fmt.Errorf("rlimit fsize: %w", err)
		}
	}
	// No core dumps in scratch dirs
	if err := unix.Prlimit(pid, unix.RLIMIT_CORE, &unix.Rlimit{Cur: 0, Max: 0}, nil); err != nil {
		return fmt.Errorf("rlimit core: %w", err)
	}
	return nil
}

func killGroup(pid int) {
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}

func timevalMs(tv syscall.Timeval) int64 {
	return int64(tv.Sec)*1000 + int64(tv.Usec)/1000
}
