package config

import "os"

// SandboxConfig controls where scratch workspaces live and how much output
// a sandboxed program may produce.
type SandboxConfig struct {
	ScratchRoot    string
	MaxOutputBytes int64
}

func NewSandboxConfig() *SandboxConfig {
	root := os.Getenv("SANDBOX_SCRATCH_ROOT")
	if root == "" {
		root = os.TempDir()
	}
	return &SandboxConfig{
		ScratchRoot:    root,
		MaxOutputBytes: int64(intEnv("SANDBOX_MAX_OUTPUT_BYTES", 1<<20)),
	}
}
