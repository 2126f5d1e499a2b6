package store

import (
	"context"
	"fmt"
	"strings"
)

const taskSelect = `
	SELECT
		t.id, t.student_id, s.name, t.title, t.description_html, t.description_text,
		t.status, t.due_at, t.flagged, t.created_at, t.updated_at
	FROM tasks t
	JOIN students s ON s.id = t.student_id`

// CreateTask stores a new task in the todo state. DescriptionHTML must
// already be sanitized.
func (s *Store) CreateTask(ctx context.Context, in CreateTaskInput) (Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Task{}, fmt.Errorf("%w: task title must not be empty", ErrInvalidInput)
	}
	if err := s.ensureStudentExists(ctx, in.StudentID); err != nil {
		return Task{}, err
	}

	now := nowDBString()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (
			student_id, title, description_html, description_text,
			status, due_at, flagged, created_at, updated_at
		) VALUES (?, ?, ?, ?, 'todo', ?, ?, ?, ?)
	`,
		in.StudentID,
		title,
		in.DescriptionHTML,
		in.DescriptionText,
		timeToDBString(in.DueAt),
		in.Flagged,
		now,
		now,
	)
	if err != nil {
		return Task{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Task{}, err
	}
	return s.GetTask(ctx, id)
}

func (s *Store) GetTask(ctx context.Context, id int64) (Task, error) {
	row := s.db.QueryRowContext(ctx, taskSelect+` WHERE t.id = ?`, id)
	task, err := scanTask(row)
	if err != nil {
		return Task{}, wrapNotFound("task", err)
	}
	return task, nil
}

// ListTasks orders open tasks first, then by due date with undated tasks last.
func (s *Store) ListTasks(ctx context.Context, opts TaskListOptions) ([]Task, error) {
	if opts.Limit <= 0 {
		opts.Limit = 100
	}

	where := make([]string, 0, 2)
	args := make([]any, 0, 3)
	if opts.StudentID > 0 {
		where = append(where, "t.student_id = ?")
		args = append(args, opts.StudentID)
	}
	if opts.Status != "" {
		if !opts.Status.Valid() {
			return nil, fmt.Errorf("%w: invalid status %q (expected todo|in_progress|done)", ErrInvalidInput, opts.Status)
		}
		where = append(where, "t.status = ?")
		args = append(args, string(opts.Status))
	}

	query := taskSelect
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY CASE t.status WHEN 'done' THEN 1 ELSE 0 END,
		CASE WHEN t.due_at IS NULL THEN 1 ELSE 0 END, t.due_at, t.id LIMIT ?`
	args = append(args, opts.Limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (s *Store) UpdateTaskStatus(ctx context.Context, id int64, status TaskStatus) (Task, error) {
	if !status.Valid() {
		return Task{}, fmt.Errorf("%w: invalid status %q (expected todo|in_progress|done)", ErrInvalidInput, status)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), nowDBString(), id,
	)
	if err != nil {
		return Task{}, err
	}
	n, _ := res.RowsAffected()
	if err := requireAffected("task", n); err != nil {
		return Task{}, err
	}
	return s.GetTask(ctx, id)
}

func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	return requireAffected("task", n)
}
