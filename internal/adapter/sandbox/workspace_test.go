package sandbox

import (
	"os"
	"path/filepath"
	"testing"
)

type nopLogger struct{}

func (nopLogger) Debug(msg string, args ...interface{}) {}
func (nopLogger) Info(msg string, args ...interface{})  {}
func (nopLogger) Warn(msg string, args ...interface{})  {}
func (nopLogger) Error(msg string, args ...interface{}) {}

func TestWorkspaceAcquireAndCleanup(t *testing.T) {
	root := t.TempDir()
	mgr, err := NewWorkspaceManager(root, nopLogger{})
	if err != nil {
		t.Fatalf("NewWorkspaceManager failed: %v", err)
	}

	dir, cleanup, err := mgr.Acquire()
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if filepath.Dir(dir) != root {
		t.Errorf("workspace %s not under root %s", dir, root)
	}
	if err := os.WriteFile(filepath.Join(dir, "main.py"), []byte("print(7)"), 0o644); err != nil {
		t.Fatalf("workspace not writable: %v", err)
	}

	cleanup()
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("workspace still exists after cleanup: %v", err)
	}
}

func TestWorkspacesAreDisjoint(t *testing.T) {
	mgr, err := NewWorkspaceManager(t.TempDir(), nopLogger{})
	if err != nil {
		t.Fatalf("NewWorkspaceManager failed: %v", err)
	}

	a, cleanupA, err := mgr.Acquire()
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer cleanupA()
	b, cleanupB, err := mgr.Acquire()
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer cleanupB()

	if a == b {
		t.Errorf("two acquisitions returned the same directory %s", a)
	}
}
