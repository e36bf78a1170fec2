package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/checktree/pkg/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the config file",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective config as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := yaml.Marshal(a.cfg)
			if err != nil {
				return err
			}
			_, err = a.out.Write(data)
			return err
		},
	}

	path := &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(a.out, a.configPath())
		},
	}

	var defaults bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create the config file interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg
			if !defaults {
				if err := runConfigForm(&cfg); err != nil {
					return err
				}
			}
			target := a.configPath()
			if err := config.SaveTo(cfg, target); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "wrote %s\n", target)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&defaults, "defaults", false, "write the current settings without asking")

	cmd.AddCommand(show, path, initCmd)
	return cmd
}

func (a *app) configPath() string {
	if a.cfgFile != "" {
		return a.cfgFile
	}
	return config.ConfigPath()
}

// newForm creates a form, falling back to accessible prompts without a TTY.
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !isTerminal(os.Stdin) {
		form = form.WithAccessible(true)
	}
	return form
}

func runConfigForm(cfg *config.Config) error {
	height := strconv.Itoa(cfg.Tree.ChildHeight)
	form := newForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Report the full checked list on each click?").
				Description("No reports only the clicked value").
				Value(&cfg.Tree.Checkable),
			huh.NewConfirm().
				Title("Report each node's own checked flag?").
				Description("Turns off half-checked parents").
				Value(&cfg.Tree.NoCascade),
			huh.NewInput().
				Title("Row height").
				Value(&height).
				Validate(func(s string) error {
					n, err := strconv.Atoi(s)
					if err != nil || n <= 0 {
						return fmt.Errorf("must be a positive number")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Theme").
				Options(
					huh.NewOption("Detect from terminal", "auto"),
					huh.NewOption("Dark", "dark"),
					huh.NewOption("Light", "light"),
				).
				Value(&cfg.UI.Theme),
			huh.NewConfirm().
				Title("Reload when documents change?").
				Value(&cfg.UI.Watch),
			huh.NewConfirm().
				Title("Remember selections in .checktree/?").
				Value(&cfg.State.Persist),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}
	cfg.Tree.ChildHeight, _ = strconv.Atoi(height)
	return nil
}
