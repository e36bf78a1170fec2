package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vanderheijden86/checktree/pkg/checktree"
	"github.com/vanderheijden86/checktree/pkg/export"
	"github.com/vanderheijden86/checktree/pkg/loader"
	"github.com/vanderheijden86/checktree/pkg/model"
	"github.com/vanderheijden86/checktree/pkg/nodestore"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check documents for empty, duplicate or cyclic values",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loader.LoadAll(cmd.Context(), args...)
			if err != nil {
				return err
			}
			if err := model.Validate(doc.Nodes); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "ok: %d nodes\n", model.Count(doc.Nodes))
			return nil
		},
	}
}

// flatRecord is the JSON line written per record by the flatten command.
type flatRecord struct {
	Value    string   `json:"value"`
	Label    string   `json:"label,omitempty"`
	Parent   string   `json:"parent"`
	Depth    int      `json:"depth"`
	Children []string `json:"children,omitempty"`
	IsLeaf   bool     `json:"isLeaf"`
	Disabled bool     `json:"disabled,omitempty"`
	Checked  bool     `json:"checked"`
	Half     bool     `json:"halfChecked"`
	Expanded bool     `json:"expanded"`
	Loading  bool     `json:"loading"`
}

func toFlatRecord(rec *nodestore.Record) flatRecord {
	return flatRecord{
		Value:    rec.Value,
		Label:    rec.Label,
		Parent:   rec.Parent,
		Depth:    rec.Depth,
		Children: rec.Children,
		IsLeaf:   rec.IsLeaf(),
		Disabled: rec.Disabled,
		Checked:  rec.Checked,
		Half:     rec.HalfChecked,
		Expanded: rec.Expanded,
		Loading:  rec.Loading,
	}
}

func newFlattenCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "flatten <file>...",
		Short: "Print the flattened node records as JSON lines",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, _, err := a.openTree(cmd.Context(), args)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(a.out)
			for _, rec := range tree.Records() {
				if err := enc.Encode(toFlatRecord(rec)); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newRenderCmd(a *app) *cobra.Command {
	var (
		height    int
		scroll    int
		asJSON    bool
		expandAll bool
	)
	cmd := &cobra.Command{
		Use:   "render <file>...",
		Short: "Print one windowed render pass",
		Long:  "render mounts the tree in a viewport of --height units, scrolls to --scroll and prints the rows a UI would materialize, with the padding around them.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, _, err := a.openTree(cmd.Context(), args)
			if err != nil {
				return err
			}
			if expandAll {
				tree.ExpandAll()
			}
			tree.Mount(height)
			tree.Scroll(scroll)
			pass := tree.Render()

			if asJSON {
				data, err := json.MarshalIndent(pass, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, string(data))
				return nil
			}
			writePass(a.out, pass)
			return nil
		},
	}
	cmd.Flags().IntVar(&height, "height", 280, "viewport height in the same unit as --child-height")
	cmd.Flags().IntVar(&scroll, "scroll", 0, "scroll offset")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the pass as JSON")
	cmd.Flags().BoolVar(&expandAll, "expand-all", false, "expand every node before rendering")
	return cmd
}

func writePass(w io.Writer, pass checktree.Pass) {
	fmt.Fprintf(w, "# visible=%d top=%d bottom=%d\n", pass.TotalVisible, pass.TopPadding, pass.BottomPadding)
	for _, row := range pass.Rows {
		fmt.Fprintln(w, formatRow(row))
	}
}

func formatRow(row checktree.Row) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%4d ", row.Index)
	sb.WriteString(strings.Repeat("  ", row.Depth))
	switch {
	case row.IsLeaf || row.ExpandDisabled:
		sb.WriteString("  ")
	case row.Expanded:
		sb.WriteString("▾ ")
	default:
		sb.WriteString("▸ ")
	}
	if row.ShowCheckbox {
		switch row.Checked {
		case model.Checked:
			sb.WriteString("[x] ")
		case model.HalfChecked:
			sb.WriteString("[-] ")
		default:
			sb.WriteString("[ ] ")
		}
	}
	label := row.Label
	if label == "" {
		label = row.Value
	}
	sb.WriteString(label)
	if row.Disabled {
		sb.WriteString(" (disabled)")
	}
	return sb.String()
}

func newCheckCmd(a *app) *cobra.Command {
	var uncheck bool
	cmd := &cobra.Command{
		Use:   "check <file> <value>...",
		Short: "Check or uncheck nodes and print what the last click reported",
		Long:  "check applies a click on each value in order and prints the list the last click reported: the full checked list, or only the clicked value when --checkable=false. The lists are saved to .checktree/ when persistence is on.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args[:1]
			tree, _, err := a.openTree(cmd.Context(), paths)
			if err != nil {
				return err
			}
			var reported []string
			opts := tree.Options()
			opts.OnCheck = func(checked []string, _ checktree.NodeInfo) { reported = checked }
			tree.SetOptions(opts)

			for _, value := range args[1:] {
				if _, ok := tree.Record(value); !ok {
					return fmt.Errorf("unknown value %q", value)
				}
				tree.OnCheck(checktree.NodeInfo{Value: value, Checked: !uncheck})
			}
			if store := a.stateStore(paths); store != nil {
				store.Save(tree.Lists())
			}
			for _, v := range reported {
				fmt.Fprintln(a.out, v)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&uncheck, "uncheck", false, "uncheck instead of check")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var (
		markdownPath string
		sqlitePath   string
		title        string
		pretty       bool
		visibleOnly  bool
	)
	cmd := &cobra.Command{
		Use:   "export <file>...",
		Short: "Export the tree as a Markdown checklist or a SQLite database",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if markdownPath == "" && sqlitePath == "" {
				return errors.New("nothing to export: pass --markdown or --sqlite")
			}
			tree, _, err := a.openTree(cmd.Context(), args)
			if err != nil {
				return err
			}

			if sqlitePath != "" {
				if err := export.NewSQLiteExporter(tree).Export(cmd.Context(), sqlitePath); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", sqlitePath)
			}
			if markdownPath == "" {
				return nil
			}

			if title == "" {
				title = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}
			md := export.GenerateMarkdown(tree, export.MarkdownOptions{
				Title:       title,
				Generated:   time.Now(),
				VisibleOnly: visibleOnly,
			})
			if markdownPath != "-" {
				return os.WriteFile(markdownPath, []byte(md), 0o644)
			}
			if pretty && isTerminal(os.Stdout) {
				width, _, err := term.GetSize(int(os.Stdout.Fd()))
				if err != nil || width <= 0 {
					width = 80
				}
				out, err := export.RenderTerminal(md, width)
				if err == nil {
					md = out
				}
			}
			_, err = io.WriteString(a.out, md)
			return err
		},
	}
	cmd.Flags().StringVar(&markdownPath, "markdown", "", "write a Markdown checklist to this path (- for stdout)")
	cmd.Flags().StringVar(&sqlitePath, "sqlite", "", "write a SQLite database to this path")
	cmd.Flags().StringVar(&title, "title", "", "document title (default is the first file name)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "style Markdown for the terminal when writing to stdout")
	cmd.Flags().BoolVar(&visibleOnly, "visible-only", false, "skip children of collapsed nodes")
	return cmd
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
