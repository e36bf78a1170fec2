// Package state persists selection lists between sessions.
//
// The file lives at .checktree/tree-state.json:
//
//	{
//	  "version": 1,
//	  "checked": ["a", "b"],
//	  "expanded": ["root-a"],
//	  "loading": []
//	}
//
// A missing or corrupt file means the document's own lists are used. Writes
// are best effort: failures are logged and never interrupt the user.
package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/checktree/pkg/debug"
	"github.com/vanderheijden86/checktree/pkg/loader"
	"github.com/vanderheijden86/checktree/pkg/model"
)

// Version is the current schema version.
const Version = 1

// FileName is the state file inside the state directory.
const FileName = "tree-state.json"

// ErrVersion is returned when a state file has an unknown schema version.
var ErrVersion = errors.New("unsupported tree state version")

// TreeState is the on-disk form.
type TreeState struct {
	Version  int      `json:"version"`
	Checked  []string `json:"checked"`
	Expanded []string `json:"expanded"`
	Loading  []string `json:"loading"`
}

// FromLists builds a state for lists.
func FromLists(lists model.Lists) *TreeState {
	return &TreeState{
		Version:  Version,
		Checked:  nonNil(lists.Checked),
		Expanded: nonNil(lists.Expanded),
		Loading:  nonNil(lists.Loading),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Lists returns the persisted lists.
func (s *TreeState) Lists() model.Lists {
	return model.Lists{Checked: s.Checked, Expanded: s.Expanded, Loading: s.Loading}
}

// Read loads a state file.
func Read(path string) (*TreeState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var st TreeState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	if st.Version != Version {
		return nil, fmt.Errorf("%s: version %d: %w", path, st.Version, ErrVersion)
	}
	return &st, nil
}

// Write stores a state file, creating its directory.
func Write(path string, st *TreeState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding tree state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing tree state: %w", err)
	}
	return nil
}

// Store persists lists for one project state directory.
type Store struct {
	dir string
}

// NewStore returns a store writing into dir (usually a .checktree directory).
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the state file path.
func (s *Store) Path() string {
	return filepath.Join(s.dir, FileName)
}

// Load returns the persisted lists. ok is false when there is nothing usable.
func (s *Store) Load() (lists model.Lists, ok bool) {
	st, err := Read(s.Path())
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			debug.Warn("invalid tree state file, using document lists: %v", err)
		}
		return model.Lists{}, false
	}
	return st.Lists(), true
}

// Save writes lists. The first save also adds the state directory to the
// project's .gitignore.
func (s *Store) Save(lists model.Lists) {
	_, statErr := os.Stat(s.dir)
	if err := Write(s.Path(), FromLists(lists)); err != nil {
		debug.Warn("failed to save tree state to %s: %v", s.Path(), err)
		return
	}
	if os.IsNotExist(statErr) {
		if err := loader.EnsureStateDirInGitignore(filepath.Dir(s.dir)); err != nil {
			debug.Warn("failed to update .gitignore: %v", err)
		}
	}
}
