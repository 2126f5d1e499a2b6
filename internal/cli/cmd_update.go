package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/odysseus0/internlog/internal/model"
	"github.com/odysseus0/internlog/internal/store"
)

func newUpdateCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update resources",
	}
	cmd.AddCommand(newUpdateTaskCmd(getApp, getOutput))
	return cmd
}

func newUpdateTaskCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "task <id>",
		Short: "Change a task's status",
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
			if !cmd.Flags().Changed("status") {
				return fmt.Errorf("%w: --status is required", store.ErrInvalidInput)
			}
			task, err := app.store.UpdateTaskStatus(cmd.Context(), id, model.TaskStatus(strings.TrimSpace(status)))
			if err != nil {
				return fmt.Errorf("update task: %w", err)
			}
			if getOutput() == OutputJSON {
				return writeJSON(cmd.OutOrStdout(), task)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task %d is now %s\n", task.ID, task.Status)
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "New status: todo, in_progress, done")
	return cmd
}
