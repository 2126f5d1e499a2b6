package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newRemoveCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove resources",
	}
	cmd.AddCommand(newRemoveByIDCmd(getApp, getOutput, "student", "Remove a student with their feeds, entries and tasks",
		func(ctx context.Context, app *App, id int64) error { return app.store.DeleteStudent(ctx, id) }))
	cmd.AddCommand(newRemoveByIDCmd(getApp, getOutput, "feed", "Remove a feed; its entries are kept",
		func(ctx context.Context, app *App, id int64) error { return app.store.DeleteFeed(ctx, id) }))
	cmd.AddCommand(newRemoveByIDCmd(getApp, getOutput, "entry", "Remove a journal entry",
		func(ctx context.Context, app *App, id int64) error { return app.store.DeleteEntry(ctx, id) }))
	cmd.AddCommand(newRemoveByIDCmd(getApp, getOutput, "task", "Remove a task",
		func(ctx context.Context, app *App, id int64) error { return app.store.DeleteTask(ctx, id) }))
	return cmd
}

func newRemoveByIDCmd(
	getApp func() *App,
	getOutput func() OutputFormat,
	kind, short string,
	remove func(ctx context.Context, app *App, id int64) error,
) *cobra.Command {
	return &cobra.Command{
		Use:   kind + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(getApp)
			if err != nil {
				return err
			}
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			if err := remove(cmd.Context(), app, id); err != nil {
				return fmt.Errorf("remove %s: %w", kind, err)
			}
			if getOutput() == OutputJSON {
				return writeJSON(cmd.OutOrStdout(), RemoveResponse{Kind: kind, ID: id})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s %d\n", kind, id)
			return nil
		},
	}
}
