package store

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const excerptMax = 200

// RecordFinding appends an audit record for raw input that matched a danger
// signature.
func (s *Store) RecordFinding(ctx context.Context, f Finding) error {
	if f.ID == "" || len(f.Signatures) == 0 {
		return fmt.Errorf("%w: finding needs an id and at least one signature", ErrInvalidInput)
	}
	if f.Source != "entry" && f.Source != "task" {
		return fmt.Errorf("%w: invalid finding source %q", ErrInvalidInput, f.Source)
	}
	detected := f.DetectedAt
	if detected.IsZero() {
		detected = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO findings(id, source, source_id, signatures, excerpt, detected_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, f.ID, f.Source, f.SourceID, strings.Join(f.Signatures, ","), truncate(f.Excerpt, excerptMax), timeToDBString(&detected))
	return err
}

func (s *Store) ListFindings(ctx context.Context, limit int) ([]Finding, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, source_id, signatures, excerpt, detected_at
		FROM findings
		ORDER BY detected_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	findings := make([]Finding, 0)
	for rows.Next() {
		f, err := scanFinding(rows)
		if err != nil {
			return nil, err
		}
		findings = append(findings, f)
	}
	return findings, rows.Err()
}

func (s *Store) GetStats(ctx context.Context) (Stats, error) {
	var stats Stats
	counts := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM students`, &stats.Students},
		{`SELECT COUNT(*) FROM feeds`, &stats.Feeds},
		{`SELECT COUNT(*) FROM entries`, &stats.Entries},
		{`SELECT COUNT(*) FROM tasks`, &stats.Tasks},
		{`SELECT COUNT(*) FROM tasks WHERE status <> 'done'`, &stats.OpenTasks},
		{`SELECT COUNT(*) FROM findings`, &stats.Findings},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return Stats{}, err
		}
	}
	return stats, nil
}
