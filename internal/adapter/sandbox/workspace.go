package sandbox

import (
	"fmt"
	"os"

	"gitlab.com/codetrack/judged/internal/core/ports/primary"
	"gitlab.com/codetrack/judged/internal/core/ports/secondary"
)

// WorkspaceManager hands out disposable scratch directories under a root.
// Each invocation owns its directory exclusively and the cleanup destroys it,
// so no state survives between runs.
type WorkspaceManager struct {
	root   string
	logger primary.Logger
}

var _ secondary.WorkspaceProvider = (*WorkspaceManager)(nil)

// NewWorkspaceManager creates a workspace manager rooted at the given path
func NewWorkspaceManager(root string, logger primary.Logger) (*WorkspaceManager, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create scratch root: %w", err)
	}
	return &WorkspaceManager{
		root:   root,
		logger: logger,
	}, nil
}

// Acquire creates a fresh scratch directory and returns its cleanup
func (m *WorkspaceManager) Acquire() (string, func(), error) {
	dir, err := os.MkdirTemp(m.root, "box-*")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create scratch dir: %w", err)
	}
	cleanup := func() {
		if err := os.RemoveAll(dir); err != nil {
			m.logger.Warn("Failed to remove scratch dir", "dir", dir, "error", err)
		}
	}
	return dir, cleanup, nil
}
