package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const feedSelect = `
	SELECT
		f.id, f.student_id, s.name, f.url, f.site_url, f.title, f.last_fetched_at,
		f.etag, f.last_modified, f.last_error, f.error_count, f.created_at,
		(SELECT COUNT(*) FROM entries e WHERE e.feed_id = f.id)
	FROM feeds f
	JOIN students s ON s.id = f.student_id`

// CreateFeed registers a journal feed for a student. Adding the same URL for
// the same student again returns the existing feed with inserted=false.
func (s *Store) CreateFeed(ctx context.Context, studentID int64, url string) (Feed, bool, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return Feed{}, false, fmt.Errorf("%w: feed url must not be empty", ErrInvalidInput)
	}
	if err := s.ensureStudentExists(ctx, studentID); err != nil {
		return Feed{}, false, err
	}

	existing, err := s.GetFeedByURL(ctx, url)
	switch {
	case err == nil:
		if existing.StudentID != studentID {
			return Feed{}, false, fmt.Errorf("%w: feed %s already belongs to student %d", ErrInvalidInput, url, existing.StudentID)
		}
		return existing, false, nil
	case !errors.Is(err, ErrNotFound):
		return Feed{}, false, err
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO feeds(student_id, url, created_at) VALUES (?, ?, ?)`,
		studentID, url, nowDBString(),
	)
	if err != nil {
		return Feed{}, false, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Feed{}, false, err
	}
	feed, err := s.GetFeedByID(ctx, id)
	if err != nil {
		return Feed{}, false, err
	}
	return feed, true, nil
}

func (s *Store) GetFeedByURL(ctx context.Context, url string) (Feed, error) {
	row := s.db.QueryRowContext(ctx, feedSelect+` WHERE f.url = ?`, url)
	feed, err := scanFeedRow(row)
	if err != nil {
		return Feed{}, wrapNotFound("feed", err)
	}
	return feed, nil
}

func (s *Store) GetFeedByID(ctx context.Context, id int64) (Feed, error) {
	row := s.db.QueryRowContext(ctx, feedSelect+` WHERE f.id = ?`, id)
	feed, err := scanFeedRow(row)
	if err != nil {
		return Feed{}, wrapNotFound("feed", err)
	}
	return feed, nil
}

func (s *Store) DeleteFeed(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM feeds WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	return requireAffected("feed", n)
}

// ListFeeds returns every feed, or only one student's when studentID > 0.
func (s *Store) ListFeeds(ctx context.Context, studentID int64) ([]Feed, error) {
	query := feedSelect
	args := make([]any, 0, 1)
	if studentID > 0 {
		query += ` WHERE f.student_id = ?`
		args = append(args, studentID)
	}
	query += ` ORDER BY s.name COLLATE NOCASE, COALESCE(NULLIF(f.title, ''), f.url) COLLATE NOCASE`
	return s.queryFeeds(ctx, query, args...)
}

func (s *Store) ListFeedsForFetch(ctx context.Context, id *int64) ([]Feed, error) {
	query := feedSelect
	args := make([]any, 0, 1)
	if id != nil {
		query += ` WHERE f.id = ?`
		args = append(args, *id)
	}
	query += ` ORDER BY f.id`

	feeds, err := s.queryFeeds(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if id != nil && len(feeds) == 0 {
		return nil, wrapNotFound("feed", sql.ErrNoRows)
	}
	return feeds, nil
}

func (s *Store) queryFeeds(ctx context.Context, query string, args ...any) ([]Feed, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	feeds := make([]Feed, 0)
	for rows.Next() {
		feed, err := scanFeedRow(rows)
		if err != nil {
			return nil, err
		}
		feeds = append(feeds, feed)
	}
	return feeds, rows.Err()
}

func (s *Store) UpdateFeedFetchSuccess(ctx context.Context, feedID int64, title, siteURL, etag, lastModified string, fetchedAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE feeds
		SET
			title = CASE WHEN ? <> '' THEN ? ELSE title END,
			site_url = CASE WHEN ? <> '' THEN ? ELSE site_url END,
			etag = ?,
			last_modified = ?,
			last_fetched_at = ?,
			last_error = NULL,
			error_count = 0
		WHERE id = ?
	`, title, title, siteURL, siteURL, etag, lastModified, fetchedAt.UTC().Format(time.RFC3339Nano), feedID)
	return err
}

func (s *Store) SetFeedError(ctx context.Context, feedID int64, errMsg string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE feeds
		SET last_error = ?, error_count = error_count + 1
		WHERE id = ?
	`, truncate(errMsg, 500), feedID)
	return err
}

func (s *Store) GetFetchStaleness(ctx context.Context, staleAfter time.Duration) (hasFeeds bool, stale bool, lastFetched *time.Time, err error) {
	var count int
	var maxFetched sql.NullString
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*), MAX(last_fetched_at) FROM feeds`).Scan(&count, &maxFetched); err != nil {
		return false, false, nil, err
	}
	if count == 0 {
		return false, false, nil, nil
	}
	hasFeeds = true
	if !maxFetched.Valid {
		return hasFeeds, true, nil, nil
	}

	t, parseErr := parseDBTime(maxFetched.String)
	if parseErr != nil {
		return hasFeeds, true, nil, nil
	}
	lastFetched = &t
	stale = time.Since(t) > staleAfter
	return hasFeeds, stale, lastFetched, nil
}
