package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vanderheijden86/checktree/pkg/debug"
	"github.com/vanderheijden86/checktree/pkg/ui"
	"github.com/vanderheijden86/checktree/pkg/watcher"
)

func newTUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui <file>...",
		Short: "Open the interactive tree",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd.Context(), args)
		},
	}
}

func (a *app) runTUI(ctx context.Context, paths []string) error {
	if !isTerminal(os.Stdout) {
		return errors.New("the interactive tree needs a terminal; try 'checktree render'")
	}

	tree, _, err := a.openTree(ctx, paths)
	if err != nil {
		return err
	}

	opts := ui.Options{
		Title: filepath.Base(paths[0]),
		Paths: paths,
		State: a.stateStore(paths),
		Theme: ui.DefaultTheme(lipgloss.DefaultRenderer(), a.cfg.UI.Theme),
	}

	if a.cfg.UI.Watch {
		w, err := watcher.New(paths,
			watcher.WithDebounceDuration(a.cfg.UI.Debounce),
			watcher.WithOnError(func(err error) { debug.Warn("watcher: %v", err) }),
		)
		if err == nil {
			err = w.Start(ctx)
		}
		if err != nil {
			debug.Warn("live reload disabled: %v", err)
		} else {
			defer w.Stop()
			opts.Watcher = w
		}
	}

	return ui.Run(ctx, ui.NewModel(tree, opts))
}
