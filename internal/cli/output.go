package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"
)

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
}

func writeStudentsTable(out io.Writer, students []Student, wide bool) {
	tw := newTable(out)
	if wide {
		fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tCOMPANY\tENTRIES\tOPEN_TASKS\tCREATED")
		for _, s := range students {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%d\t%s\n",
				s.ID,
				compactText(s.Name, 30),
				compactText(fallback(s.Email, "-"), 36),
				compactText(fallback(s.Company, "-"), 30),
				s.EntryCount,
				s.OpenTasks,
				formatDate(&s.CreatedAt),
			)
		}
	} else {
		fmt.Fprintln(tw, "ID\tNAME\tCOMPANY\tENTRIES\tOPEN_TASKS")
		for _, s := range students {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\n",
				s.ID,
				compactText(s.Name, 30),
				compactText(fallback(s.Company, "-"), 30),
				s.EntryCount,
				s.OpenTasks,
			)
		}
	}
	_ = tw.Flush()
}

func writeFeedsTable(out io.Writer, feeds []Feed, wide bool) {
	tw := newTable(out)
	if wide {
		fmt.Fprintln(tw, "ID\tSTUDENT\tTITLE\tENTRIES\tLAST_FETCH\tERRORS\tURL\tSITE_URL\tLAST_ERROR")
		for _, f := range feeds {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%d\t%s\t%s\t%s\n",
				f.ID,
				compactText(f.StudentName, 20),
				compactText(fallback(f.Title, f.URL), 30),
				f.EntryCount,
				humanAgo(f.LastFetchedAt),
				f.ErrorCount,
				compactText(f.URL, 46),
				compactText(f.SiteURL, 46),
				compactText(f.LastError, 70),
			)
		}
	} else {
		fmt.Fprintln(tw, "ID\tSTUDENT\tTITLE\tENTRIES\tLAST_FETCH\tERRORS\tURL")
		for _, f := range feeds {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%d\t%s\n",
				f.ID,
				compactText(f.StudentName, 20),
				compactText(fallback(f.Title, f.URL), 30),
				f.EntryCount,
				humanAgo(f.LastFetchedAt),
				f.ErrorCount,
				compactText(f.URL, 56),
			)
		}
	}
	_ = tw.Flush()
}

func writeEntriesTable(out io.Writer, entries []JournalEntry, wide bool) {
	tw := newTable(out)
	if wide {
		fmt.Fprintln(tw, "ID\tSTUDENT\tFEED_ID\tTITLE\tDATE\tFLAG\tURL\tSUMMARY")
		for _, e := range entries {
			feedID := "-"
			if e.FeedID != nil {
				feedID = fmt.Sprintf("%d", *e.FeedID)
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				e.ID,
				compactText(e.StudentName, 20),
				feedID,
				compactText(displayEntryTitle(e), 56),
				formatDate(entryDate(e)),
				flagMark(e.Flagged),
				compactText(e.URL, 48),
				compactText(e.Summary, 90),
			)
		}
	} else {
		fmt.Fprintln(tw, "ID\tSTUDENT\tTITLE\tDATE\tFLAG\tSUMMARY")
		for _, e := range entries {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
				e.ID,
				compactText(e.StudentName, 20),
				compactText(displayEntryTitle(e), 56),
				formatDate(entryDate(e)),
				flagMark(e.Flagged),
				compactText(e.Summary, 90),
			)
		}
	}
	_ = tw.Flush()
}

func writeTasksTable(out io.Writer, tasks []Task, wide bool) {
	tw := newTable(out)
	if wide {
		fmt.Fprintln(tw, "ID\tSTUDENT\tTITLE\tSTATUS\tDUE\tFLAG\tDESCRIPTION")
		for _, t := range tasks {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
				t.ID,
				compactText(t.StudentName, 20),
				compactText(t.Title, 48),
				t.Status,
				formatDate(t.DueAt),
				flagMark(t.Flagged),
				compactText(t.DescriptionText, 80),
			)
		}
	} else {
		fmt.Fprintln(tw, "ID\tSTUDENT\tTITLE\tSTATUS\tDUE\tFLAG")
		for _, t := range tasks {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
				t.ID,
				compactText(t.StudentName, 20),
				compactText(t.Title, 48),
				t.Status,
				formatDate(t.DueAt),
				flagMark(t.Flagged),
			)
		}
	}
	_ = tw.Flush()
}

func writeFindingsTable(out io.Writer, findings []Finding, wide bool) {
	tw := newTable(out)
	if wide {
		fmt.Fprintln(tw, "ID\tSOURCE\tSOURCE_ID\tSIGNATURES\tDETECTED\tEXCERPT")
	} else {
		fmt.Fprintln(tw, "ID\tSOURCE\tSOURCE_ID\tSIGNATURES\tDETECTED")
	}
	for _, f := range findings {
		id := f.ID
		if !wide && len(id) > 8 {
			id = id[:8]
		}
		detected := f.DetectedAt
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s",
			id,
			f.Source,
			f.SourceID,
			strings.Join(f.Signatures, ","),
			humanAgo(&detected),
		)
		if wide {
			fmt.Fprintf(tw, "\t%s", compactText(f.Excerpt, 90))
		}
		fmt.Fprintln(tw)
	}
	_ = tw.Flush()
}

func writeStatsTable(out io.Writer, st Stats) {
	tw := newTable(out)
	fmt.Fprintln(tw, "METRIC\tVALUE")
	fmt.Fprintf(tw, "students\t%d\n", st.Students)
	fmt.Fprintf(tw, "feeds\t%d\n", st.Feeds)
	fmt.Fprintf(tw, "entries\t%d\n", st.Entries)
	fmt.Fprintf(tw, "tasks\t%d\n", st.Tasks)
	fmt.Fprintf(tw, "open_tasks\t%d\n", st.OpenTasks)
	fmt.Fprintf(tw, "findings\t%d\n", st.Findings)
	_ = tw.Flush()
}

func writeFetchReportTable(out io.Writer, rep FetchReport) {
	tw := newTable(out)
	fmt.Fprintln(tw, "FEED_ID\tFEED\tNEW\tUPDATED\tFLAGGED\tNOT_MODIFIED\tERROR")
	for _, r := range rep.Results {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%t\t%s\n",
			r.FeedID,
			compactText(r.FeedTitle, 30),
			r.NewEntries,
			r.Updated,
			r.Flagged,
			r.NotModified,
			compactText(r.Error, 70),
		)
	}
	_ = tw.Flush()
}

func writeEntryDetail(out io.Writer, e JournalEntry, asHTML bool) {
	fmt.Fprintf(out, "# %s\n", displayEntryTitle(e))
	fmt.Fprintf(out, "student: %s | date: %s | url: %s", e.StudentName, formatDate(entryDate(e)), fallback(e.URL, "-"))
	if e.Flagged {
		fmt.Fprint(out, " | flagged")
	}
	fmt.Fprint(out, "\n\n")

	content := strings.TrimSpace(e.BodyMD)
	if asHTML {
		content = strings.TrimSpace(e.BodyHTML)
	}
	if content == "" {
		content = fallback(strings.TrimSpace(e.Summary), "(empty)")
	}
	fmt.Fprintln(out, content)
}

func writeTaskDetail(out io.Writer, t Task, asHTML bool) {
	fmt.Fprintf(out, "# %s\n", t.Title)
	fmt.Fprintf(out, "student: %s | status: %s | due: %s", t.StudentName, t.Status, formatDate(t.DueAt))
	if t.Flagged {
		fmt.Fprint(out, " | flagged")
	}
	fmt.Fprint(out, "\n\n")

	content := t.DescriptionText
	if asHTML {
		content = t.DescriptionHTML
	}
	fmt.Fprintln(out, fallback(strings.TrimSpace(content), "(no description)"))
}

func displayEntryTitle(e JournalEntry) string {
	if strings.TrimSpace(e.Title) != "" {
		return e.Title
	}
	if strings.TrimSpace(e.URL) != "" {
		return e.URL
	}
	return "(untitled)"
}

func entryDate(e JournalEntry) *time.Time {
	if e.PublishedAt != nil {
		return e.PublishedAt
	}
	created := e.CreatedAt
	return &created
}
