// Package config handles loading and saving checktree configuration.
//
// The user config follows the XDG Base Directory specification and lives at
// ~/.config/checktree/config.yaml. Per-project state lives in a .checktree/
// directory found by walking up from the working directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/checktree/pkg/checktree"
	"github.com/vanderheijden86/checktree/pkg/window"
)

// TreeConfig holds the tree options that make sense to persist.
type TreeConfig struct {
	Checkable        bool   `yaml:"checkable"`
	NoCascade        bool   `yaml:"no_cascade"`
	ChildHeight      int    `yaml:"child_height,omitempty"`
	ExpandDisabled   bool   `yaml:"expand_disabled,omitempty"`
	OptimisticToggle bool   `yaml:"optimistic_toggle"`
	ShowNodeIcon     bool   `yaml:"show_node_icon"`
	ShowCheckbox     bool   `yaml:"show_checkbox"`
	Validate         bool   `yaml:"validate"`
	Name             string `yaml:"name,omitempty"`
	NameAsArray      bool   `yaml:"name_as_array,omitempty"`
}

// UIConfig holds terminal UI preferences.
type UIConfig struct {
	Theme    string        `yaml:"theme,omitempty"` // auto, dark, light
	Watch    bool          `yaml:"watch"`           // reload documents on change
	Debounce time.Duration `yaml:"debounce,omitempty"`
}

// StateConfig controls persistence of selection lists between sessions.
type StateConfig struct {
	Persist bool `yaml:"persist"`
}

// Config is the top-level configuration.
type Config struct {
	Tree  TreeConfig  `yaml:"tree"`
	UI    UIConfig    `yaml:"ui,omitempty"`
	State StateConfig `yaml:"state"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Tree: TreeConfig{
			Checkable:        true,
			ChildHeight:      window.DefaultChildHeight,
			OptimisticToggle: true,
			ShowNodeIcon:     true,
			ShowCheckbox:     true,
			Validate:         true,
		},
		UI: UIConfig{
			Theme:    "auto",
			Watch:    true,
			Debounce: 200 * time.Millisecond,
		},
		State: StateConfig{Persist: true},
	}
}

// Options converts the tree section into checktree options. Callbacks are
// left for the caller to set.
func (c Config) Options() checktree.Options {
	return checktree.Options{
		Checkable:        c.Tree.Checkable,
		ChildHeight:      c.Tree.ChildHeight,
		ExpandDisabled:   c.Tree.ExpandDisabled,
		Name:             c.Tree.Name,
		NameAsArray:      c.Tree.NameAsArray,
		NoCascade:        c.Tree.NoCascade,
		OptimisticToggle: c.Tree.OptimisticToggle,
		ShowNodeIcon:     c.Tree.ShowNodeIcon,
		ShowCheckbox:     c.Tree.ShowCheckbox,
		Validate:         c.Tree.Validate,
	}
}

// ConfigDir returns the XDG config directory for checktree.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "checktree")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "checktree")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path. Keys missing from the file
// keep their defaults. Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(expandHome(path))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Tree.ChildHeight <= 0 {
		cfg.Tree.ChildHeight = window.DefaultChildHeight
	}
	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	path = expandHome(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
