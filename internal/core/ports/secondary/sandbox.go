package secondary

import "context"

// Command describes one program invocation inside the sandbox. WallLimitMs
// must be strictly greater than TimeLimitMs to absorb scheduling jitter.
type Command struct {
	Args           []string
	Dir            string
	Stdin          string
	TimeLimitMs    int64
	WallLimitMs    int64
	MemoryLimitKB  int64
	MaxOutputBytes int64
	// NoAddressSpaceLimit skips the address-space rlimit while still
	// measuring peak RSS. Needed for JVM runs, which reserve large mappings.
	NoAddressSpaceLimit bool
}

// RunResult is what the sandbox observed for one invocation
type RunResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	TimeMs   int64
	MemoryKB int64
	TimedOut bool
	OOM      bool
}

// Runner executes one untrusted program in an isolated environment.
// A returned error means the sandbox itself failed to start or observe the
// process (maps to InternalError), distinct from the program's own failure.
type Runner interface {
	Run(ctx context.Context, cmd Command) (*RunResult, error)
}

// WorkspaceProvider hands out exclusively owned scratch directories.
// Directories are never shared between concurrent invocations and are
// destroyed after use, so no state leaks across runs.
type WorkspaceProvider interface {
	Acquire() (dir string, cleanup func(), err error)
}
