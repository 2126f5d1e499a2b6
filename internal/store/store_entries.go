package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

const entrySelectColumns = `
	e.id, e.student_id, s.name, e.feed_id, e.guid,
	e.url, e.title, e.summary, e.body_html, e.body_md,
	e.flagged, e.published_at, e.created_at, e.updated_at
`

// UpsertEntry stores a journal entry keyed by (student, guid). BodyHTML must
// already be sanitized; the store does not look inside it. Re-upserting an
// identical entry leaves the row alone and reports EntryUnchanged.
func (s *Store) UpsertEntry(ctx context.Context, in UpsertEntryInput) (entryID int64, change EntryChange, err error) {
	if strings.TrimSpace(in.GUID) == "" {
		return 0, EntryUnchanged, fmt.Errorf("%w: entry guid must not be empty", ErrInvalidInput)
	}
	if err := s.ensureStudentExists(ctx, in.StudentID); err != nil {
		return 0, EntryUnchanged, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, EntryUnchanged, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var feedID any
	if in.FeedID != nil {
		feedID = *in.FeedID
	}
	published := timeToDBString(in.PublishedAt)

	var (
		existingID                           int64
		oldFeedID                            sql.NullInt64
		oldURL, oldTitle, oldSummary         sql.NullString
		oldBodyHTML, oldBodyMD, oldPublished sql.NullString
		oldFlagged                           bool
	)
	err = tx.QueryRowContext(ctx, `
		SELECT id, feed_id, url, title, summary, body_html, body_md, flagged, published_at
		FROM entries WHERE student_id = ? AND guid = ?
	`, in.StudentID, in.GUID).Scan(
		&existingID, &oldFeedID, &oldURL, &oldTitle, &oldSummary,
		&oldBodyHTML, &oldBodyMD, &oldFlagged, &oldPublished,
	)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		change = EntryInserted
	case err != nil:
		return 0, EntryUnchanged, err
	default:
		var newPublished string
		if p, ok := published.(string); ok {
			newPublished = p
		}
		same := oldFeedID.Valid == (in.FeedID != nil) &&
			(in.FeedID == nil || oldFeedID.Int64 == *in.FeedID) &&
			oldURL.String == in.URL &&
			oldTitle.String == in.Title &&
			oldSummary.String == in.Summary &&
			oldBodyHTML.String == in.BodyHTML &&
			oldBodyMD.String == in.BodyMD &&
			oldFlagged == in.Flagged &&
			oldPublished.String == newPublished
		if same {
			if err = tx.Commit(); err != nil {
				return 0, EntryUnchanged, err
			}
			return existingID, EntryUnchanged, nil
		}
		change = EntryUpdated
	}

	now := nowDBString()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO entries (
			student_id, feed_id, guid, url, title, summary,
			body_html, body_md, flagged, published_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(student_id, guid) DO UPDATE SET
			feed_id = excluded.feed_id,
			url = excluded.url,
			title = excluded.title,
			summary = excluded.summary,
			body_html = excluded.body_html,
			body_md = excluded.body_md,
			flagged = excluded.flagged,
			published_at = excluded.published_at,
			updated_at = excluded.updated_at
	`,
		in.StudentID,
		feedID,
		in.GUID,
		in.URL,
		in.Title,
		in.Summary,
		in.BodyHTML,
		in.BodyMD,
		in.Flagged,
		published,
		now,
		now,
	)
	if err != nil {
		return 0, EntryUnchanged, err
	}

	if err = tx.QueryRowContext(ctx, `SELECT id FROM entries WHERE student_id = ? AND guid = ?`, in.StudentID, in.GUID).Scan(&entryID); err != nil {
		return 0, EntryUnchanged, err
	}

	if err = tx.Commit(); err != nil {
		return 0, EntryUnchanged, err
	}
	return entryID, change, nil
}

func (s *Store) ListEntries(ctx context.Context, opts EntryListOptions) ([]JournalEntry, error) {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}

	where := make([]string, 0, 3)
	args := make([]any, 0, 4)
	if opts.StudentID > 0 {
		where = append(where, "e.student_id = ?")
		args = append(args, opts.StudentID)
	}
	if opts.FeedID > 0 {
		where = append(where, "e.feed_id = ?")
		args = append(args, opts.FeedID)
	}
	if opts.FlaggedOnly {
		where = append(where, "e.flagged = 1")
	}

	query := `SELECT ` + entrySelectColumns + `
		FROM entries e
		JOIN students s ON s.id = e.student_id`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY CASE WHEN e.published_at IS NULL OR e.published_at = '' THEN 1 ELSE 0 END, COALESCE(e.published_at, e.created_at) DESC, e.id DESC LIMIT ?`
	args = append(args, opts.Limit)

	return s.queryEntries(ctx, query, args...)
}

func (s *Store) GetEntry(ctx context.Context, id int64) (JournalEntry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+entrySelectColumns+`
		FROM entries e
		JOIN students s ON s.id = e.student_id
		WHERE e.id = ?
	`, id)
	entry, err := scanEntry(row)
	if err != nil {
		return JournalEntry{}, wrapNotFound("entry", err)
	}
	return entry, nil
}

func (s *Store) DeleteEntry(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	return requireAffected("entry", n)
}

func (s *Store) SearchEntries(ctx context.Context, opts SearchOptions) ([]JournalEntry, error) {
	if strings.TrimSpace(opts.Query) == "" {
		return nil, fmt.Errorf("%w: query must not be empty", ErrInvalidInput)
	}
	if opts.Limit <= 0 {
		opts.Limit = 50
	}

	where := []string{"entries_fts MATCH ?"}
	args := []any{opts.Query}
	if opts.StudentID > 0 {
		where = append(where, "e.student_id = ?")
		args = append(args, opts.StudentID)
	}

	query := `
		SELECT ` + entrySelectColumns + `
		FROM entries_fts
		JOIN entries e ON e.id = entries_fts.rowid
		JOIN students s ON s.id = e.student_id
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY bm25(entries_fts), COALESCE(e.published_at, e.created_at) DESC
		LIMIT ?
	`
	args = append(args, opts.Limit)

	return s.queryEntries(ctx, query, args...)
}

func (s *Store) queryEntries(ctx context.Context, query string, args ...any) ([]JournalEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]JournalEntry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
