package config

import (
	"os"
	"path/filepath"

	"github.com/vanderheijden86/checktree/pkg/loader"
)

// DetectProjectRoot walks up from the current directory looking for a
// .checktree/ directory.
func DetectProjectRoot() (string, bool) {
	dir, err := os.Getwd()
	if err != nil {
		return "", false
	}
	return FindProjectRoot(dir)
}

// FindProjectRoot walks up from dir looking for a .checktree/ directory. The
// walk stops at the filesystem root or the user's home directory.
func FindProjectRoot(dir string) (string, bool) {
	home, _ := os.UserHomeDir()

	for {
		stateDir := filepath.Join(dir, loader.StateDirName)
		if info, err := os.Stat(stateDir); err == nil && info.IsDir() {
			return dir, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		if home != "" && dir == home {
			break
		}
		dir = parent
	}
	return "", false
}

// ProjectStateDir returns the state directory to use for a document. An
// existing .checktree/ above the document wins; otherwise one is placed next
// to the document.
func ProjectStateDir(documentPath string) string {
	dir := filepath.Dir(documentPath)
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	if root, ok := FindProjectRoot(dir); ok {
		return filepath.Join(root, loader.StateDirName)
	}
	return filepath.Join(dir, loader.StateDirName)
}
