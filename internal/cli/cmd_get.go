package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/odysseus0/internlog/internal/model"
)

func newGetCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Get students, entries, tasks, feeds, findings and stats",
	}

	cmd.AddCommand(newGetStudentsCmd(getApp, getOutput))
	cmd.AddCommand(newGetEntriesCmd(getApp, getOutput))
	cmd.AddCommand(newGetEntryCmd(getApp, getOutput))
	cmd.AddCommand(newGetTasksCmd(getApp, getOutput))
	cmd.AddCommand(newGetTaskCmd(getApp, getOutput))
	cmd.AddCommand(newGetFeedsCmd(getApp, getOutput))
	cmd.AddCommand(newGetFindingsCmd(getApp, getOutput))
	cmd.AddCommand(newGetStatsCmd(getApp, getOutput))
	return cmd
}

func newGetStudentsCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	return &cobra.Command{
		Use:   "students",
		Short: "List students",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(getApp)
			if err != nil {
				return err
			}
			students, err := app.store.ListStudents(cmd.Context())
			if err != nil {
				return fmt.Errorf("list students: %w", err)
			}
			switch getOutput() {
			case OutputJSON:
				return writeJSON(cmd.OutOrStdout(), students)
			case OutputWide:
				writeStudentsTable(cmd.OutOrStdout(), students, true)
			default:
				writeStudentsTable(cmd.OutOrStdout(), students, false)
			}
			return nil
		},
	}
}

func newGetEntriesCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	var studentID, feedID int64
	var flagged bool
	var limit int
	var noFetch bool

	cmd := &cobra.Command{
		Use:   "entries",
		Short: "List journal entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(getApp)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if !noFetch {
				if err := refreshStaleFeeds(cmd, app); err != nil {
					return err
				}
			}

			entries, err := app.store.ListEntries(ctx, EntryListOptions{
				StudentID:   studentID,
				FeedID:      feedID,
				FlaggedOnly: flagged,
				Limit:       limit,
			})
			if err != nil {
				return fmt.Errorf("list entries: %w", err)
			}

			switch getOutput() {
			case OutputJSON:
				return writeJSON(cmd.OutOrStdout(), entries)
			case OutputWide:
				writeEntriesTable(cmd.OutOrStdout(), entries, true)
			default:
				writeEntriesTable(cmd.OutOrStdout(), entries, false)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&studentID, "student", 0, "Filter by student ID")
	cmd.Flags().Int64Var(&feedID, "feed", 0, "Filter by feed ID")
	cmd.Flags().BoolVar(&flagged, "flagged", false, "Only entries whose raw input matched a danger signature")
	cmd.Flags().IntVar(&limit, "limit", 50, "Result limit")
	cmd.Flags().BoolVar(&noFetch, "no-fetch", false, "Skip staleness auto-fetch")
	return cmd
}

// refreshStaleFeeds fetches every feed when the newest fetch is older than the
// configured staleness window.
func refreshStaleFeeds(cmd *cobra.Command, app *App) error {
	ctx := cmd.Context()
	hasFeeds, stale, lastFetched, err := app.store.GetFetchStaleness(ctx, app.cfg.StaleAfter)
	if err != nil {
		return fmt.Errorf("check fetch staleness: %w", err)
	}
	if !hasFeeds || !stale {
		return nil
	}

	stderr := cmd.ErrOrStderr()
	fmt.Fprintf(stderr, "Fetching feeds (last fetch: %s)...\n", humanAgo(lastFetched))
	rep, err := app.fetcher.Fetch(ctx, nil)
	if err != nil {
		return fmt.Errorf("fetch feeds: %w", err)
	}
	for _, warning := range rep.Warnings {
		fmt.Fprintf(stderr, "warning: %s\n", warning)
	}
	errCount := 0
	for _, r := range rep.Results {
		if strings.TrimSpace(r.Error) != "" {
			errCount++
		}
	}
	if errCount > 0 {
		fmt.Fprintf(stderr, "Fetch completed with %d error(s). Run `internlog fetch -o wide` for details.\n", errCount)
	}
	return nil
}

func newGetEntryCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	var asHTML bool

	cmd := &cobra.Command{
		Use:   "entry <id>",
		Short: "Show a journal entry",
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
			entry, err := app.store.GetEntry(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("get entry: %w", err)
			}
			if getOutput() == OutputJSON {
				return writeJSON(cmd.OutOrStdout(), entry)
			}
			writeEntryDetail(cmd.OutOrStdout(), entry, asHTML)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asHTML, "html", false, "Print the sanitized HTML body instead of Markdown")
	return cmd
}

func newGetTasksCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	var studentID int64
	var status string
	var limit int

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(getApp)
			if err != nil {
				return err
			}
			tasks, err := app.store.ListTasks(cmd.Context(), TaskListOptions{
				StudentID: studentID,
				Status:    model.TaskStatus(strings.TrimSpace(status)),
				Limit:     limit,
			})
			if err != nil {
				return fmt.Errorf("list tasks: %w", err)
			}
			switch getOutput() {
			case OutputJSON:
				return writeJSON(cmd.OutOrStdout(), tasks)
			case OutputWide:
				writeTasksTable(cmd.OutOrStdout(), tasks, true)
			default:
				writeTasksTable(cmd.OutOrStdout(), tasks, false)
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&studentID, "student", 0, "Filter by student ID")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status: todo, in_progress, done")
	cmd.Flags().IntVar(&limit, "limit", 100, "Result limit")
	return cmd
}

func newGetTaskCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	var asHTML bool

	cmd := &cobra.Command{
		Use:   "task <id>",
		Short: "Show a task",
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
			task, err := app.store.GetTask(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("get task: %w", err)
			}
			if getOutput() == OutputJSON {
				return writeJSON(cmd.OutOrStdout(), task)
			}
			writeTaskDetail(cmd.OutOrStdout(), task, asHTML)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asHTML, "html", false, "Print the sanitized HTML description")
	return cmd
}

func newGetFeedsCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	var studentID int64

	cmd := &cobra.Command{
		Use:   "feeds",
		Short: "List subscribed feeds",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(getApp)
			if err != nil {
				return err
			}
			feeds, err := app.store.ListFeeds(cmd.Context(), studentID)
			if err != nil {
				return fmt.Errorf("list feeds: %w", err)
			}
			switch getOutput() {
			case OutputJSON:
				return writeJSON(cmd.OutOrStdout(), feeds)
			case OutputWide:
				writeFeedsTable(cmd.OutOrStdout(), feeds, true)
			default:
				writeFeedsTable(cmd.OutOrStdout(), feeds, false)
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&studentID, "student", 0, "Filter by student ID")
	return cmd
}

func newGetFindingsCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "findings",
		Short: "List recorded danger findings, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(getApp)
			if err != nil {
				return err
			}
			findings, err := app.store.ListFindings(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list findings: %w", err)
			}
			switch getOutput() {
			case OutputJSON:
				return writeJSON(cmd.OutOrStdout(), findings)
			case OutputWide:
				writeFindingsTable(cmd.OutOrStdout(), findings, true)
			default:
				writeFindingsTable(cmd.OutOrStdout(), findings, false)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "Result limit")
	return cmd
}

func newGetStatsCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Get aggregate stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(getApp)
			if err != nil {
				return err
			}
			stats, err := app.store.GetStats(cmd.Context())
			if err != nil {
				return fmt.Errorf("get stats: %w", err)
			}
			if getOutput() == OutputJSON {
				return writeJSON(cmd.OutOrStdout(), stats)
			}
			writeStatsTable(cmd.OutOrStdout(), stats)
			return nil
		},
	}
}
