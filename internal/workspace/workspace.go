package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/gitsalvage/internal/logfields"
)

// Manager handles the output tree a salvage run writes into. The tree is
// the deliverable, so there is no cleanup: Ensure is idempotent and a
// second run reuses whatever already exists.
type Manager struct {
	root string
}

// NewManager creates a manager for the given output directory.
func NewManager(outputDir string) *Manager {
	return &Manager{root: outputDir}
}

// Ensure creates the output root and its metadata directory. Safe to call
// against an existing tree from a previous run.
func (m *Manager) Ensure() error {
	if m.root == "" {
		return fmt.Errorf("output directory not set")
	}
	if err := os.MkdirAll(m.root, 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	gitDir := m.GitDir()
	if err := os.MkdirAll(gitDir, 0o750); err != nil {
		return fmt.Errorf("failed to create metadata directory: %w", err)
	}
	slog.Debug("Output tree ready", logfields.Dir(m.root))
	return nil
}

// Root returns the output directory path.
func (m *Manager) Root() string {
	return m.root
}

// GitDir returns the path of the metadata directory below the root.
func (m *Manager) GitDir() string {
	return filepath.Join(m.root, ".git")
}
