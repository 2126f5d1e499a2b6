package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFetchCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch [feed-id]",
		Short: "Fetch all feeds or one feed by ID",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(getApp)
			if err != nil {
				return err
			}
			var id *int64
			if len(args) == 1 {
				v, err := parseIDArg(args[0])
				if err != nil {
					return err
				}
				id = &v
			}

			stderr := cmd.ErrOrStderr()
			rep, err := app.fetcher.FetchWithProgress(cmd.Context(), id, func(done, total int, result FetchResult) {
				label := fallback(result.FeedTitle, result.FeedURL)
				switch {
				case result.Error != "":
					fmt.Fprintf(stderr, "[%d/%d] %s -> error: %s\n", done, total, label, result.Error)
				case result.NotModified:
					fmt.Fprintf(stderr, "[%d/%d] %s -> not modified\n", done, total, label)
				default:
					fmt.Fprintf(stderr, "[%d/%d] %s -> %d new, %d updated, %d flagged\n", done, total, label, result.NewEntries, result.Updated, result.Flagged)
				}
			})
			if err != nil {
				return fmt.Errorf("fetch feeds: %w", err)
			}
			for _, warning := range rep.Warnings {
				fmt.Fprintf(stderr, "warning: %s\n", warning)
			}
			if getOutput() == OutputJSON {
				return writeJSON(cmd.OutOrStdout(), rep)
			}
			writeFetchReportTable(cmd.OutOrStdout(), rep)
			return nil
		},
	}
}

func newSearchCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	var studentID int64
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search over journal entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(getApp)
			if err != nil {
				return err
			}
			entries, err := app.store.SearchEntries(cmd.Context(), SearchOptions{
				Query:     args[0],
				StudentID: studentID,
				Limit:     limit,
			})
			if err != nil {
				return fmt.Errorf("search entries: %w", err)
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
	cmd.Flags().IntVar(&limit, "limit", 50, "Result limit")
	return cmd
}
