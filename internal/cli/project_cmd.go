package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/sitebook/internal/app"
	"github.com/alexanderramin/sitebook/internal/cli/formatter"
	"github.com/alexanderramin/sitebook/internal/domain"
	"github.com/spf13/cobra"
)

func newProjectCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}
	cmd.AddCommand(
		newProjectCreateCmd(rt),
		newProjectListCmd(rt),
	)
	return cmd
}

func newProjectCreateCmd(rt *runtime) *cobra.Command {
	var name, description, address string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		RunE: rt.withApp(func(ctx context.Context, a *app.App, cmd *cobra.Command, _ []string) error {
			p := &domain.Project{Name: name, Description: description, Address: address}
			if err := a.Projects.Create(ctx, p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s %s\n", formatter.Bold(p.Name), formatter.Dim("["+p.ID+"]"))
			return nil
		}),
	}
	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().StringVar(&address, "address", "", "Site address")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newProjectListCmd(rt *runtime) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: rt.withApp(func(ctx context.Context, a *app.App, cmd *cobra.Command, _ []string) error {
			projects, err := a.Projects.List(ctx, all)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProjectList(projects))
			if len(projects) > 0 {
				fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		}),
	}
	cmd.Flags().BoolVar(&all, "all", false, "Include archived projects")
	return cmd
}
