package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vanderheijden86/checktree/pkg/checktree"
	"github.com/vanderheijden86/checktree/pkg/config"
	"github.com/vanderheijden86/checktree/pkg/debug"
	"github.com/vanderheijden86/checktree/pkg/loader"
	"github.com/vanderheijden86/checktree/pkg/model"
	"github.com/vanderheijden86/checktree/pkg/state"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(viper.New())
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// app holds what every command shares: the resolved config and the viper
// instance that overlays flags and CHECKTREE_* variables on top of it.
type app struct {
	v       *viper.Viper
	cfgFile string
	verbose bool
	cfg     config.Config
	out     io.Writer
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	a := &app{v: v}

	root := &cobra.Command{
		Use:           "checktree [file...]",
		Short:         "Browse and select nodes of a checkbox tree",
		Long:          "checktree loads JSON or YAML node trees and lets you expand, check and export them.\nWith no subcommand it opens the interactive tree.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.out = cmd.OutOrStdout()
			if a.verbose {
				debug.SetVerbose(true)
			}
			return a.loadConfig()
		},
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return a.runTUI(cmd.Context(), args)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/checktree/config.yaml)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "log debug output to stderr")
	pf.Bool("checkable", true, "report the full checked list after each check; off reports only the clicked value")
	pf.Bool("no-cascade", false, "report every node's own checked flag")
	pf.Int("child-height", 0, "row height used for windowing")
	pf.Bool("validate", true, "reject trees with empty, duplicate or cyclic values")
	pf.Bool("persist", true, "load and save selection lists in .checktree/")

	for key, flag := range map[string]string{
		"tree.checkable":    "checkable",
		"tree.no_cascade":   "no-cascade",
		"tree.child_height": "child-height",
		"tree.validate":     "validate",
		"state.persist":     "persist",
	} {
		_ = v.BindPFlag(key, pf.Lookup(flag))
	}
	v.SetEnvPrefix("CHECKTREE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	root.AddCommand(
		newValidateCmd(a),
		newFlattenCmd(a),
		newRenderCmd(a),
		newCheckCmd(a),
		newExportCmd(a),
		newTUICmd(a),
		newConfigCmd(a),
	)
	return root
}

// loadConfig reads the YAML config and applies any flag or environment
// override viper knows about.
func (a *app) loadConfig() error {
	var (
		cfg config.Config
		err error
	)
	if a.cfgFile != "" {
		cfg, err = config.LoadFrom(a.cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	v := a.v
	if v.IsSet("tree.checkable") {
		cfg.Tree.Checkable = v.GetBool("tree.checkable")
	}
	if v.IsSet("tree.no_cascade") {
		cfg.Tree.NoCascade = v.GetBool("tree.no_cascade")
	}
	if v.IsSet("tree.child_height") {
		if h := v.GetInt("tree.child_height"); h > 0 {
			cfg.Tree.ChildHeight = h
		}
	}
	if v.IsSet("tree.validate") {
		cfg.Tree.Validate = v.GetBool("tree.validate")
	}
	if v.IsSet("state.persist") {
		cfg.State.Persist = v.GetBool("state.persist")
	}
	if v.IsSet("ui.theme") {
		cfg.UI.Theme = v.GetString("ui.theme")
	}

	a.cfg = cfg
	debug.WithField("checkable", cfg.Tree.Checkable).Debug("config loaded")
	return nil
}

// stateStore returns the selection store for the first document, or nil
// when persistence is off or the input is stdin.
func (a *app) stateStore(paths []string) *state.Store {
	if !a.cfg.State.Persist || len(paths) == 0 || paths[0] == "-" {
		return nil
	}
	return state.NewStore(config.ProjectStateDir(paths[0]))
}

// openTree loads the documents and builds a tree. Persisted lists replace the
// document's own lists when present.
func (a *app) openTree(ctx context.Context, paths []string) (*checktree.Tree, *loader.Document, error) {
	doc, err := loader.LoadAll(ctx, paths...)
	if err != nil {
		return nil, nil, err
	}

	lists := doc.Lists()
	if store := a.stateStore(paths); store != nil {
		if saved, ok := store.Load(); ok {
			lists = saved
		}
	}

	tree, err := checktree.New(doc.Nodes, lists, a.cfg.Options())
	if err != nil {
		if model.IsInvalidTree(err, model.InvalidDuplicateValue) {
			return nil, nil, fmt.Errorf("%w (values must be unique across all documents)", err)
		}
		return nil, nil, err
	}
	return tree, doc, nil
}
