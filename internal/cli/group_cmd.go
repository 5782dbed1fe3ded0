package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/okerlund/planfold/internal/cli/formatter"
	"github.com/okerlund/planfold/internal/grouping"
	"github.com/spf13/cobra"
)

func newGroupCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Fold tasks into collapsible groups",
	}

	cmd.AddCommand(
		newGroupCreateCmd(app),
		newGroupCollapseCmd(app),
		newGroupExpandCmd(app),
		newGroupDeleteCmd(app),
	)

	return cmd
}

// reportGroupPrecondition prints engine precondition failures as warnings
// instead of failing the command; they are defined no-ops.
func reportGroupPrecondition(err error) (handled bool) {
	switch {
	case errors.Is(err, grouping.ErrTooFewMembers),
		errors.Is(err, grouping.ErrNestedGroup),
		errors.Is(err, grouping.ErrResourceMember),
		errors.Is(err, grouping.ErrNotAGroup):
		fmt.Println(formatter.StyleYellow.Render("Ignored: " + err.Error()))
		return true
	}
	return false
}

func newGroupCreateCmd(app *App) *cobra.Command {
	var planRef, title string

	cmd := &cobra.Command{
		Use:   "create ID...",
		Short: "Group two or more tasks into a collapsed summary node",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			plan, err := resolvePlan(ctx, app, planRef)
			if err != nil {
				return err
			}
			ids := make([]int64, 0, len(args))
			for _, a := range args {
				id, err := parseNodeID(a)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			if title == "" {
				title = fmt.Sprintf("Group of %d", len(ids))
			}

			group, err := app.Graph.CreateGroup(ctx, plan.ID, title, ids)
			if err != nil {
				if reportGroupPrecondition(err) {
					return nil
				}
				return err
			}
			if group == nil {
				fmt.Println(formatter.Dim("Ignored: unknown node id."))
				return nil
			}
			fmt.Printf("Created group #%d %s with %d members\n", group.ID, group.Title, len(group.MemberIDs))
			return nil
		},
	}

	cmd.Flags().StringVar(&planRef, "plan", "", "Plan id or name")
	cmd.Flags().StringVar(&title, "title", "", "Group title")
	_ = cmd.MarkFlagRequired("plan")

	return cmd
}

func newGroupCollapseCmd(app *App) *cobra.Command {
	var planRef string

	cmd := &cobra.Command{
		Use:   "collapse ID",
		Short: "Collapse a group to a single summary row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGroupOp(app, planRef, args[0], app.Graph.CollapseGroup)
		},
	}

	cmd.Flags().StringVar(&planRef, "plan", "", "Plan id or name")
	_ = cmd.MarkFlagRequired("plan")

	return cmd
}

func newGroupExpandCmd(app *App) *cobra.Command {
	var planRef string

	cmd := &cobra.Command{
		Use:   "expand ID",
		Short: "Expand a collapsed group, restoring boundary edges",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGroupOp(app, planRef, args[0], app.Graph.ExpandGroup)
		},
	}

	cmd.Flags().StringVar(&planRef, "plan", "", "Plan id or name")
	_ = cmd.MarkFlagRequired("plan")

	return cmd
}

func newGroupDeleteCmd(app *App) *cobra.Command {
	var planRef string

	cmd := &cobra.Command{
		Use:   "ungroup ID",
		Short: "Dissolve a group, releasing its members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGroupOp(app, planRef, args[0], app.Graph.DeleteGroup)
		},
	}

	cmd.Flags().StringVar(&planRef, "plan", "", "Plan id or name")
	_ = cmd.MarkFlagRequired("plan")

	return cmd
}

func runGroupOp(app *App, planRef, idArg string, op func(ctx context.Context, planID string, id int64) error) error {
	ctx := context.Background()
	plan, err := resolvePlan(ctx, app, planRef)
	if err != nil {
		return err
	}
	id, err := parseNodeID(idArg)
	if err != nil {
		return err
	}
	if err := op(ctx, plan.ID, id); err != nil {
		if reportGroupPrecondition(err) {
			return nil
		}
		return err
	}
	return nil
}
