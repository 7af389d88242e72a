// Package cli implements the sitebook command line: the HTTP server plus
// a handful of local schedule-maintenance commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/sitebook/internal/app"
	"github.com/alexanderramin/sitebook/internal/config"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// Options are the process-level collaborators of the command tree.
type Options struct {
	Out io.Writer
	Err io.Writer
	// IsInteractive reports whether prompts can be shown.
	IsInteractive func() bool
	// Confirm asks a yes/no question.
	Confirm func(title string) (bool, error)
}

// DefaultOptions binds the command tree to the real terminal.
func DefaultOptions() Options {
	return Options{
		Out: os.Stdout,
		Err: os.Stderr,
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
		Confirm: huhConfirm,
	}
}

type runtime struct {
	opts Options
	cfg  config.Config
}

// NewRootCmd creates the top-level "sitebook" command.
func NewRootCmd(opts Options) *cobra.Command {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	if opts.IsInteractive == nil {
		opts.IsInteractive = func() bool { return false }
	}
	rt := &runtime{opts: opts}

	root := &cobra.Command{
		Use:           "sitebook",
		Short:         "Construction schedule backend and maintenance tools",
		Version:       app.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			if err := config.ApplyFlags(&cfg, cmd.Flags()); err != nil {
				return err
			}
			rt.cfg = cfg
			return nil
		},
	}
	root.SetOut(opts.Out)
	root.SetErr(opts.Err)
	config.AddFlags(root.PersistentFlags())

	root.AddCommand(
		newServeCmd(rt),
		newProjectCmd(rt),
		newTaskCmd(rt),
		newImportCmd(rt),
	)
	return root
}

// withApp opens the application for one command and closes it afterwards.
func (rt *runtime) withApp(fn func(ctx context.Context, a *app.App, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		logger := app.NewLogger(rt.opts.Err, rt.cfg.LogFormat, rt.cfg.SlogLevel())
		a, err := app.New(rt.cfg, logger)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := a.Close(context.Background()); cerr != nil && err == nil {
				err = fmt.Errorf("closing: %w", cerr)
			}
		}()
		return fn(cmd.Context(), a, cmd, args)
	}
}
