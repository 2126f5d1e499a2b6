package store

import (
	"context"
	"fmt"
	"strings"
)

const studentSelect = `
	SELECT
		s.id, s.name, s.email, s.company, s.created_at,
		(SELECT COUNT(*) FROM entries e WHERE e.student_id = s.id),
		(SELECT COUNT(*) FROM tasks t WHERE t.student_id = s.id AND t.status <> 'done')
	FROM students s`

func (s *Store) CreateStudent(ctx context.Context, name, email, company string) (Student, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Student{}, fmt.Errorf("%w: student name must not be empty", ErrInvalidInput)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO students(name, email, company, created_at) VALUES (?, ?, ?, ?)`,
		name, strings.TrimSpace(email), strings.TrimSpace(company), nowDBString(),
	)
	if err != nil {
		return Student{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Student{}, err
	}
	return s.GetStudent(ctx, id)
}

func (s *Store) GetStudent(ctx context.Context, id int64) (Student, error) {
	row := s.db.QueryRowContext(ctx, studentSelect+` WHERE s.id = ?`, id)
	st, err := scanStudent(row)
	if err != nil {
		return Student{}, wrapNotFound("student", err)
	}
	return st, nil
}

func (s *Store) ListStudents(ctx context.Context) ([]Student, error) {
	rows, err := s.db.QueryContext(ctx, studentSelect+` ORDER BY s.name COLLATE NOCASE, s.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	students := make([]Student, 0)
	for rows.Next() {
		st, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, st)
	}
	return students, rows.Err()
}

// DeleteStudent removes the student with their feeds, entries and tasks.
// Findings stay as an audit trail.
func (s *Store) DeleteStudent(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM students WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	return requireAffected("student", n)
}
