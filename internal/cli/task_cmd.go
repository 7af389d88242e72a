package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/sitebook/internal/app"
	"github.com/alexanderramin/sitebook/internal/cli/formatter"
	"github.com/alexanderramin/sitebook/internal/domain"
	"github.com/alexanderramin/sitebook/internal/service"
	"github.com/spf13/cobra"
)

func newTaskCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Inspect and edit a project's schedule",
	}
	cmd.AddCommand(
		newTaskListCmd(rt),
		newTaskAddCmd(rt),
		newTaskMoveCmd(rt),
		newTaskRenumberCmd(rt),
	)
	return cmd
}

func newTaskListCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "list <project>",
		Short: "Show the schedule as a tree",
		Args:  cobra.ExactArgs(1),
		RunE: rt.withApp(func(ctx context.Context, a *app.App, cmd *cobra.Command, args []string) error {
			p, err := resolveProject(ctx, a, args[0])
			if err != nil {
				return err
			}
			tasks, err := a.Tasks.ListOrdered(ctx, p.ID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSchedule(p.Name, tasks))
			return nil
		}),
	}
}

// anchorFlags are the mutually exclusive placement flags of add and move.
type anchorFlags struct {
	before, after string
}

func (f *anchorFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.before, "before", "", "Place before this task (id or code)")
	cmd.Flags().StringVar(&f.after, "after", "", "Place after this task (id or code)")
	cmd.MarkFlagsMutuallyExclusive("before", "after")
}

func (f *anchorFlags) resolve(ctx context.Context, a *app.App, projectID string) (domain.Anchor, string, error) {
	ref, where := f.after, domain.AnchorAfter
	if f.before != "" {
		ref, where = f.before, domain.AnchorBefore
	}
	if ref == "" {
		return domain.AnchorEnd, "", nil
	}
	anchor, err := resolveTask(ctx, a, projectID, ref)
	if err != nil {
		return "", "", err
	}
	return where, anchor.ID, nil
}

func newTaskAddCmd(rt *runtime) *cobra.Command {
	var (
		code, name, unit, parent string
		level                    int
		volume                   float64
		custom                   bool
		anchor                   anchorFlags
	)
	cmd := &cobra.Command{
		Use:   "add <project>",
		Short: "Add a task; appended unless --before or --after is given",
		Args:  cobra.ExactArgs(1),
		RunE: rt.withApp(func(ctx context.Context, a *app.App, cmd *cobra.Command, args []string) error {
			p, err := resolveProject(ctx, a, args[0])
			if err != nil {
				return err
			}
			where, anchorID, err := anchor.resolve(ctx, a, p.ID)
			if err != nil {
				return err
			}
			t := &domain.Task{
				ProjectID:  p.ID,
				Code:       code,
				Name:       name,
				Unit:       unit,
				Level:      level,
				ParentCode: domain.StrPtr(parent),
				IsCustom:   custom,
			}
			if cmd.Flags().Changed("volume") {
				t.VolumePlan = &volume
			}
			pl, err := a.Tasks.Create(ctx, service.CreateTaskInput{Task: t, Where: where, AnchorID: anchorID})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPlacement("Added", pl.Task, pl.Renumbered))
			return nil
		}),
	}
	cmd.Flags().StringVar(&code, "code", "", "Task code (generated for --custom when empty)")
	cmd.Flags().StringVar(&name, "name", "", "Task name")
	cmd.Flags().StringVar(&unit, "unit", "", "Unit of measure; empty makes a section")
	cmd.Flags().IntVar(&level, "level", 0, "Hierarchy depth")
	cmd.Flags().StringVar(&parent, "parent", "", "Parent task code")
	cmd.Flags().Float64Var(&volume, "volume", 0, "Planned volume")
	cmd.Flags().BoolVar(&custom, "custom", false, "Mark as a user-added row")
	anchor.register(cmd)
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newTaskMoveCmd(rt *runtime) *cobra.Command {
	var (
		anchor anchorFlags
		level  int
		parent string
	)
	cmd := &cobra.Command{
		Use:   "move <project> <task>",
		Short: "Move a task; to the end unless --before or --after is given",
		Args:  cobra.ExactArgs(2),
		RunE: rt.withApp(func(ctx context.Context, a *app.App, cmd *cobra.Command, args []string) error {
			p, err := resolveProject(ctx, a, args[0])
			if err != nil {
				return err
			}
			task, err := resolveTask(ctx, a, p.ID, args[1])
			if err != nil {
				return err
			}
			where, anchorID, err := anchor.resolve(ctx, a, p.ID)
			if err != nil {
				return err
			}
			in := service.MoveTaskInput{Where: where, AnchorID: anchorID}
			if cmd.Flags().Changed("level") {
				in.Level = &level
			}
			if cmd.Flags().Changed("parent") {
				in.ParentCode = &parent
			}
			pl, err := a.Tasks.Move(ctx, p.ID, task.ID, in)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPlacement("Moved", pl.Task, pl.Renumbered))
			return nil
		}),
	}
	anchor.register(cmd)
	cmd.Flags().IntVar(&level, "level", 0, "New hierarchy depth")
	cmd.Flags().StringVar(&parent, "parent", "", "New parent code (empty clears it)")
	return cmd
}

func newTaskRenumberCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "renumber <project>",
		Short: "Rewrite sort orders to evenly spaced values",
		Args:  cobra.ExactArgs(1),
		RunE: rt.withApp(func(ctx context.Context, a *app.App, cmd *cobra.Command, args []string) error {
			p, err := resolveProject(ctx, a, args[0])
			if err != nil {
				return err
			}
			changed, err := a.Tasks.Renumber(ctx, p.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renumbered %d tasks\n", changed)
			return nil
		}),
	}
}
