package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/sitebook/internal/app"
	"github.com/alexanderramin/sitebook/internal/cli/formatter"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newImportCmd(rt *runtime) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "import <project> <file>",
		Short: "Replace a project's schedule from a JSON, YAML or CSV file",
		Long: "Import replaces every task of the project, including custom rows.\n" +
			"A non-empty schedule needs confirmation, or --yes when not on a terminal.",
		Args: cobra.ExactArgs(2),
		RunE: rt.withApp(func(ctx context.Context, a *app.App, cmd *cobra.Command, args []string) error {
			p, err := resolveProject(ctx, a, args[0])
			if err != nil {
				return err
			}
			existing, err := a.Tasks.ListOrdered(ctx, p.ID)
			if err != nil {
				return err
			}
			if len(existing) > 0 && !yes {
				ok, err := rt.confirm(fmt.Sprintf("Replace %d existing tasks of %s?", len(existing), p.Name))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Import cancelled.")
					return nil
				}
			}

			res, err := a.Imports.ImportFile(ctx, p.ID, args[1])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatImportResult(res))
			return nil
		}),
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Replace the schedule without asking")
	return cmd
}

func (rt *runtime) confirm(title string) (bool, error) {
	if !rt.opts.IsInteractive() || rt.opts.Confirm == nil {
		return false, fmt.Errorf("refusing to replace the schedule without confirmation; pass --yes")
	}
	return rt.opts.Confirm(title)
}

func huhConfirm(title string) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Replace").
				Negative("Cancel").
				Value(&ok),
		),
	).WithShowHelp(false).Run()
	return ok, err
}
