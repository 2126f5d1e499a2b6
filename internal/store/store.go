package store

import (
	"database/sql"
	"strings"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStudent(scanner rowScanner) (Student, error) {
	var st Student
	var email, company sql.NullString
	var createdAt string
	if err := scanner.Scan(
		&st.ID,
		&st.Name,
		&email,
		&company,
		&createdAt,
		&st.EntryCount,
		&st.OpenTasks,
	); err != nil {
		return Student{}, err
	}
	st.Email = email.String
	st.Company = company.String
	if t, err := parseDBTime(createdAt); err == nil {
		st.CreatedAt = t
	}
	return st, nil
}

func scanFeedRow(scanner rowScanner) (Feed, error) {
	var f Feed
	var siteURL, title, lastFetched, etag, lastMod, lastErr sql.NullString
	var createdAt string
	if err := scanner.Scan(
		&f.ID,
		&f.StudentID,
		&f.StudentName,
		&f.URL,
		&siteURL,
		&title,
		&lastFetched,
		&etag,
		&lastMod,
		&lastErr,
		&f.ErrorCount,
		&createdAt,
		&f.EntryCount,
	); err != nil {
		return Feed{}, err
	}
	f.SiteURL = siteURL.String
	f.Title = title.String
	f.ETag = etag.String
	f.LastModified = lastMod.String
	f.LastError = lastErr.String
	if t, err := parseDBTime(createdAt); err == nil {
		f.CreatedAt = t
	}
	if lastFetched.Valid {
		if t, err := parseDBTime(lastFetched.String); err == nil {
			f.LastFetchedAt = &t
		}
	}
	return f, nil
}

func scanEntry(scanner rowScanner) (JournalEntry, error) {
	var e JournalEntry
	var feedID sql.NullInt64
	var url, title, summary, bodyHTML, bodyMD sql.NullString
	var publishedAt sql.NullString
	var createdAt, updatedAt string
	if err := scanner.Scan(
		&e.ID,
		&e.StudentID,
		&e.StudentName,
		&feedID,
		&e.GUID,
		&url,
		&title,
		&summary,
		&bodyHTML,
		&bodyMD,
		&e.Flagged,
		&publishedAt,
		&createdAt,
		&updatedAt,
	); err != nil {
		return JournalEntry{}, err
	}
	if feedID.Valid {
		id := feedID.Int64
		e.FeedID = &id
	}
	e.URL = url.String
	e.Title = title.String
	e.Summary = summary.String
	e.BodyHTML = bodyHTML.String
	e.BodyMD = bodyMD.String
	if publishedAt.Valid {
		if t, err := parseDBTime(publishedAt.String); err == nil {
			e.PublishedAt = &t
		}
	}
	if t, err := parseDBTime(createdAt); err == nil {
		e.CreatedAt = t
	}
	if t, err := parseDBTime(updatedAt); err == nil {
		e.UpdatedAt = t
	}
	return e, nil
}

func scanTask(scanner rowScanner) (Task, error) {
	var task Task
	var descHTML, descText, dueAt sql.NullString
	var status string
	var createdAt, updatedAt string
	if err := scanner.Scan(
		&task.ID,
		&task.StudentID,
		&task.StudentName,
		&task.Title,
		&descHTML,
		&descText,
		&status,
		&dueAt,
		&task.Flagged,
		&createdAt,
		&updatedAt,
	); err != nil {
		return Task{}, err
	}
	task.DescriptionHTML = descHTML.String
	task.DescriptionText = descText.String
	task.Status = TaskStatus(status)
	if dueAt.Valid {
		if t, err := parseDBTime(dueAt.String); err == nil {
			task.DueAt = &t
		}
	}
	if t, err := parseDBTime(createdAt); err == nil {
		task.CreatedAt = t
	}
	if t, err := parseDBTime(updatedAt); err == nil {
		task.UpdatedAt = t
	}
	return task, nil
}

func scanFinding(scanner rowScanner) (Finding, error) {
	var f Finding
	var signatures string
	var excerpt sql.NullString
	var detectedAt string
	if err := scanner.Scan(&f.ID, &f.Source, &f.SourceID, &signatures, &excerpt, &detectedAt); err != nil {
		return Finding{}, err
	}
	if signatures != "" {
		f.Signatures = strings.Split(signatures, ",")
	}
	f.Excerpt = excerpt.String
	if t, err := parseDBTime(detectedAt); err == nil {
		f.DetectedAt = t
	}
	return f, nil
}
