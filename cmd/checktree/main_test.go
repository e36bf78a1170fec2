package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/spf13/viper"

	"github.com/vanderheijden86/checktree/pkg/checktree"
	"github.com/vanderheijden86/checktree/pkg/model"
)

const pantryYAML = `nodes:
  - value: fruits
    label: Fruits
    children:
      - value: apple
        label: Apple
      - value: pear
        label: Pear
  - value: veg
    label: Vegetables
  - value: locked
    label: Locked
    disabled: true
`

// setup isolates the user config and writes the pantry fixture.
func setup(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "pantry.yaml")
	if err := os.WriteFile(path, []byte(pantryYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(viper.New())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestValidateCommand(t *testing.T) {
	path := setup(t)
	out, err := run(t, "validate", path)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if strings.TrimSpace(out) != "ok: 5 nodes" {
		t.Errorf("output = %q", out)
	}

	dup := filepath.Join(t.TempDir(), "dup.json")
	os.WriteFile(dup, []byte(`[{"value":"a"},{"value":"b","children":[{"value":"a"}]}]`), 0o644)
	_, err = run(t, "validate", dup)
	if !model.IsInvalidTree(err, model.InvalidDuplicateValue) {
		t.Errorf("expected duplicate value error, got %v", err)
	}
}

func TestFlattenCommand(t *testing.T) {
	path := setup(t)
	out, err := run(t, "flatten", "--persist=false", path)
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5:\n%s", len(lines), out)
	}

	var first, second flatRecord
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatal(err)
	}
	if first.Value != "fruits" || first.Parent != model.RootParent || first.IsLeaf {
		t.Errorf("first record = %+v", first)
	}
	if second.Parent != "fruits" || second.Depth != 1 || !second.IsLeaf {
		t.Errorf("second record = %+v", second)
	}
}

func TestRenderCommand(t *testing.T) {
	path := setup(t)
	out, err := run(t, "render", "--persist=false", "--child-height", "1", "--height", "3", "--expand-all", path)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(out, "# visible=5 top=0 bottom=0\n") {
		t.Errorf("header wrong:\n%s", out)
	}
	for _, want := range []string{"▾ [ ] Fruits", "[ ] Apple", "Locked (disabled)"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q:\n%s", want, out)
		}
	}
}

func TestRenderCommandScrolled(t *testing.T) {
	path := setup(t)
	out, err := run(t, "render", "--persist=false", "--child-height", "1", "--height", "2",
		"--scroll", "2", "--expand-all", path)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(out, "# visible=5 top=1 bottom=0\n") {
		t.Errorf("header wrong:\n%s", out)
	}
}

func TestRenderCommandJSON(t *testing.T) {
	path := setup(t)
	out, err := run(t, "render", "--persist=false", "--json", path)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	var pass checktree.Pass
	if err := json.Unmarshal([]byte(out), &pass); err != nil {
		t.Fatalf("decoding pass: %v\n%s", err, out)
	}
	if pass.TotalVisible != 3 || len(pass.Rows) != 3 {
		t.Errorf("pass = %+v", pass)
	}
	if pass.Rows[0].Value != "fruits" || pass.Rows[0].IsLeaf {
		t.Errorf("first row = %+v", pass.Rows[0])
	}
}

func TestCheckCommandPersists(t *testing.T) {
	path := setup(t)
	out, err := run(t, "check", path, "fruits")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if got := strings.Fields(out); strings.Join(got, ",") != "fruits,apple,pear" {
		t.Errorf("checked = %v", got)
	}

	// The next run starts from the saved lists.
	out, err = run(t, "check", path, "veg")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if got := strings.Fields(out); strings.Join(got, ",") != "fruits,apple,pear,veg" {
		t.Errorf("checked = %v", got)
	}

	out, err = run(t, "check", "--uncheck", path, "apple")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	// Unchecking a leaf leaves the parent's own flag alone.
	if got := strings.Fields(out); strings.Join(got, ",") != "fruits,pear,veg" {
		t.Errorf("checked = %v", got)
	}

	if _, err := os.Stat(filepath.Join(filepath.Dir(path), ".checktree", "tree-state.json")); err != nil {
		t.Errorf("state file missing: %v", err)
	}
}

func TestCheckCommandNotCheckableFromEnv(t *testing.T) {
	path := setup(t)
	t.Setenv("CHECKTREE_TREE_CHECKABLE", "false")

	out, err := run(t, "check", "--persist=false", path, "apple", "veg")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if strings.TrimSpace(out) != "veg" {
		t.Errorf("only the clicked value should be reported, got %q", out)
	}
}

func TestCheckCommandUnknownValue(t *testing.T) {
	path := setup(t)
	if _, err := run(t, "check", "--persist=false", path, "nope"); err == nil {
		t.Error("expected error for unknown value")
	}
}

func TestExportMarkdown(t *testing.T) {
	path := setup(t)
	out, err := run(t, "export", "--persist=false", "--markdown", "-", path)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.HasPrefix(out, "# pantry\n") {
		t.Errorf("title missing:\n%s", out)
	}
	if !strings.Contains(out, "- [ ] Fruits") {
		t.Errorf("checklist missing:\n%s", out)
	}
}

func TestExportSQLite(t *testing.T) {
	path := setup(t)
	db := filepath.Join(t.TempDir(), "tree.sqlite3")
	if _, err := run(t, "export", "--persist=false", "--sqlite", db, path); err != nil {
		t.Fatalf("export: %v", err)
	}
	if _, err := os.Stat(db); err != nil {
		t.Errorf("database not written: %v", err)
	}

	if _, err := run(t, "export", path); err == nil {
		t.Error("export without a target should fail")
	}
}

func TestConfigShowAndInit(t *testing.T) {
	setup(t)
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(cfgPath, []byte("tree:\n  child_height: 5\n"), 0o644)

	out, err := run(t, "--config", cfgPath, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "child_height: 5") {
		t.Errorf("file value not applied:\n%s", out)
	}

	out, err = run(t, "--config", cfgPath, "--child-height", "7", "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "child_height: 7") {
		t.Errorf("flag should override file:\n%s", out)
	}

	fresh := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if _, err := run(t, "--config", fresh, "config", "init", "--defaults"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	data, err := os.ReadFile(fresh)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "checkable: true") {
		t.Errorf("written config:\n%s", data)
	}
}

func TestTUIRequiresTerminal(t *testing.T) {
	if isTerminal(os.Stdout) {
		t.Skip("stdout is a terminal")
	}
	path := setup(t)
	_, err := run(t, "tui", path)
	if err == nil || !strings.Contains(err.Error(), "needs a terminal") {
		t.Errorf("expected terminal error, got %v", err)
	}
}

func TestFormatRow(t *testing.T) {
	tests := []struct {
		row  checktree.Row
		want string
	}{
		{checktree.Row{Index: 0, Label: "Fruits", Checked: model.HalfChecked, ShowCheckbox: true}, "   0 ▸ [-] Fruits"},
		{checktree.Row{Index: 12, Depth: 1, Value: "apple", IsLeaf: true, Checked: model.Checked, ShowCheckbox: true}, "  12     [x] apple"},
		{checktree.Row{Index: 3, Label: "Open", Expanded: true}, "   3 ▾ Open"},
	}
	for _, tt := range tests {
		if got := formatRow(tt.row); got != tt.want {
			t.Errorf("formatRow() = %q, want %q", got, tt.want)
		}
	}
}
