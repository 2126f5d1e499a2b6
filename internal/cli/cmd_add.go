package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/odysseus0/internlog/internal/ingest"
	"github.com/odysseus0/internlog/internal/store"
)

func newAddCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add students, feeds, entries and tasks",
	}
	cmd.AddCommand(newAddStudentCmd(getApp, getOutput))
	cmd.AddCommand(newAddFeedCmd(getApp, getOutput))
	cmd.AddCommand(newAddEntryCmd(getApp, getOutput))
	cmd.AddCommand(newAddTaskCmd(getApp, getOutput))
	return cmd
}

func newAddStudentCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	var email, company string

	cmd := &cobra.Command{
		Use:   "student <name>",
		Short: "Add a student",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(getApp)
			if err != nil {
				return err
			}
			student, err := app.store.CreateStudent(cmd.Context(), args[0], email, company)
			if err != nil {
				return fmt.Errorf("create student: %w", err)
			}
			if getOutput() == OutputJSON {
				return writeJSON(cmd.OutOrStdout(), student)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added student %d: %s\n", student.ID, student.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Contact email")
	cmd.Flags().StringVar(&company, "company", "", "Host company")
	return cmd
}

func newAddFeedCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	var noFetch bool

	cmd := &cobra.Command{
		Use:   "feed <student-id> <url>",
		Short: "Subscribe to a student's blog feed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(getApp)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			studentID, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			if _, err := app.store.GetStudent(ctx, studentID); err != nil {
				return fmt.Errorf("add feed: %w", err)
			}

			discovered, err := app.fetcher.DiscoverFeedURL(ctx, args[1])
			if err != nil {
				return fmt.Errorf("discover feed url: %w", err)
			}
			if discovered != args[1] {
				fmt.Fprintf(cmd.ErrOrStderr(), "Discovered feed URL: %s\n", discovered)
			}

			feed, inserted, err := app.store.CreateFeed(ctx, studentID, discovered)
			if err != nil {
				return fmt.Errorf("create feed: %w", err)
			}

			var report *FetchReport
			if !noFetch {
				rep, err := app.fetcher.Fetch(ctx, &feed.ID)
				if err != nil {
					return fmt.Errorf("initial fetch: %w", err)
				}
				report = &rep
				if refreshed, err := app.store.GetFeedByID(ctx, feed.ID); err == nil {
					feed = refreshed
				}
			}

			if getOutput() == OutputJSON {
				return writeJSON(cmd.OutOrStdout(), AddFeedResponse{
					Feed:          feed,
					Inserted:      inserted,
					DiscoveredURL: discovered,
					FetchReport:   report,
				})
			}

			if inserted {
				fmt.Fprintf(cmd.OutOrStdout(), "Added feed %d: %s\n", feed.ID, fallback(feed.Title, feed.URL))
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Skipped existing feed (%d): %s\n", feed.ID, fallback(feed.Title, feed.URL))
			}
			if report != nil && len(report.Results) > 0 {
				result := report.Results[0]
				if result.Error != "" {
					fmt.Fprintf(cmd.ErrOrStderr(), "Initial fetch failed: %s\n", result.Error)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Fetched: %d new, %d updated, %d flagged\n", result.NewEntries, result.Updated, result.Flagged)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&noFetch, "no-fetch", false, "Skip the initial fetch")
	return cmd
}

func newAddEntryCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	var title, link, published string

	cmd := &cobra.Command{
		Use:   "entry <student-id> [file]",
		Short: "Add a journal entry from an HTML file or stdin",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(getApp)
			if err != nil {
				return err
			}
			studentID, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			publishedAt, err := parseDate("published", published)
			if err != nil {
				return err
			}
			body, err := readInput(cmd, args[1:])
			if err != nil {
				return err
			}
			if strings.TrimSpace(body) == "" && strings.TrimSpace(title) == "" {
				return fmt.Errorf("%w: entry needs a body or a --title", store.ErrInvalidInput)
			}

			res, err := app.ingestor.Entry(cmd.Context(), ingest.EntryInput{
				StudentID:   studentID,
				URL:         link,
				Title:       title,
				RawHTML:     body,
				PublishedAt: publishedAt,
			})
			if err != nil {
				return fmt.Errorf("add entry: %w", err)
			}
			warnSanitized(cmd, "entry", res.ID, res.Signatures)

			if getOutput() == OutputJSON {
				entry, err := app.store.GetEntry(cmd.Context(), res.ID)
				if err != nil {
					return fmt.Errorf("get entry: %w", err)
				}
				return writeJSON(cmd.OutOrStdout(), AddEntryResponse{
					Entry:      entry,
					Inserted:   res.Inserted,
					Signatures: res.Signatures,
					FindingID:  res.FindingID,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added entry %d\n", res.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Entry title")
	cmd.Flags().StringVar(&link, "url", "", "Link to the original post")
	cmd.Flags().StringVar(&published, "published", "", "Publish date (YYYY-MM-DD)")
	return cmd
}

func newAddTaskCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	var description, descriptionFile, due string

	cmd := &cobra.Command{
		Use:   "task <student-id> <title>",
		Short: "Assign a task to a student",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(getApp)
			if err != nil {
				return err
			}
			studentID, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			dueAt, err := parseDate("due", due)
			if err != nil {
				return err
			}
			if description != "" && descriptionFile != "" {
				return fmt.Errorf("%w: use either --description or --description-file", store.ErrInvalidInput)
			}
			if descriptionFile != "" {
				description, err = readInput(cmd, []string{descriptionFile})
				if err != nil {
					return err
				}
			}

			res, err := app.ingestor.Task(cmd.Context(), ingest.TaskInput{
				StudentID:   studentID,
				Title:       args[1],
				Description: description,
				DueAt:       dueAt,
			})
			if err != nil {
				return fmt.Errorf("add task: %w", err)
			}
			warnSanitized(cmd, "task", res.Task.ID, res.Signatures)

			if getOutput() == OutputJSON {
				return writeJSON(cmd.OutOrStdout(), AddTaskResponse{
					Task:       res.Task,
					Signatures: res.Signatures,
					FindingID:  res.FindingID,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added task %d: %s\n", res.Task.ID, res.Task.Title)
			return nil
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "Task description (HTML or plain text)")
	cmd.Flags().StringVar(&descriptionFile, "description-file", "", "Read the description from a file (- for stdin)")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	return cmd
}

func warnSanitized(cmd *cobra.Command, kind string, id int64, sigs []string) {
	if len(sigs) == 0 {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s %d: input matched %s\n", kind, id, strings.Join(sigs, ", "))
}
