package model

import "time"

type OutputFormat string

const (
	OutputTable OutputFormat = "table"
	OutputJSON  OutputFormat = "json"
	OutputWide  OutputFormat = "wide"
)

type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskTodo, TaskInProgress, TaskDone:
		return true
	}
	return false
}

// Finding sources.
const (
	SourceEntry = "entry"
	SourceTask  = "task"
)

type Student struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email,omitempty"`
	Company    string    `json:"company,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	EntryCount int       `json:"entry_count"`
	OpenTasks  int       `json:"open_tasks"`
}

type Feed struct {
	ID            int64      `json:"id"`
	StudentID     int64      `json:"student_id"`
	StudentName   string     `json:"student_name,omitempty"`
	URL           string     `json:"url"`
	SiteURL       string     `json:"site_url,omitempty"`
	Title         string     `json:"title,omitempty"`
	LastFetchedAt *time.Time `json:"last_fetched_at,omitempty"`
	ETag          string     `json:"etag,omitempty"`
	LastModified  string     `json:"last_modified,omitempty"`
	LastError     string     `json:"last_error,omitempty"`
	ErrorCount    int        `json:"error_count"`
	CreatedAt     time.Time  `json:"created_at"`
	EntryCount    int        `json:"entry_count"`
}

// JournalEntry is a student's report. BodyHTML has already passed the strict
// sanitizer and can go to any HTML sink as is.
type JournalEntry struct {
	ID          int64      `json:"id"`
	StudentID   int64      `json:"student_id"`
	StudentName string     `json:"student_name"`
	FeedID      *int64     `json:"feed_id,omitempty"`
	GUID        string     `json:"guid"`
	URL         string     `json:"url,omitempty"`
	Title       string     `json:"title,omitempty"`
	Summary     string     `json:"summary,omitempty"`
	BodyHTML    string     `json:"body_html,omitempty"`
	BodyMD      string     `json:"body_md,omitempty"`
	Flagged     bool       `json:"flagged"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type Task struct {
	ID              int64      `json:"id"`
	StudentID       int64      `json:"student_id"`
	StudentName     string     `json:"student_name"`
	Title           string     `json:"title"`
	DescriptionHTML string     `json:"description_html,omitempty"`
	DescriptionText string     `json:"description_text,omitempty"`
	Status          TaskStatus `json:"status"`
	DueAt           *time.Time `json:"due_at,omitempty"`
	Flagged         bool       `json:"flagged"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Finding records raw input that matched a danger signature before it was
// sanitized.
type Finding struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	SourceID   int64     `json:"source_id"`
	Signatures []string  `json:"signatures"`
	Excerpt    string    `json:"excerpt,omitempty"`
	DetectedAt time.Time `json:"detected_at"`
}

type Stats struct {
	Students  int `json:"students"`
	Feeds     int `json:"feeds"`
	Entries   int `json:"entries"`
	Tasks     int `json:"tasks"`
	OpenTasks int `json:"open_tasks"`
	Findings  int `json:"findings"`
}

type FetchResult struct {
	FeedID      int64  `json:"feed_id"`
	FeedTitle   string `json:"feed_title"`
	FeedURL     string `json:"feed_url"`
	StudentID   int64  `json:"student_id"`
	NewEntries  int    `json:"new_entries"`
	Updated     int    `json:"updated_entries"`
	Flagged     int    `json:"flagged_entries"`
	NotModified bool   `json:"not_modified"`
	Error       string `json:"error,omitempty"`
}

type FetchReport struct {
	StartedAt time.Time     `json:"started_at"`
	EndedAt   time.Time     `json:"ended_at"`
	Results   []FetchResult `json:"results"`
	Warnings  []string      `json:"warnings,omitempty"`
}

type EntryListOptions struct {
	StudentID   int64
	FeedID      int64
	FlaggedOnly bool
	Limit       int
}

type TaskListOptions struct {
	StudentID int64
	Status    TaskStatus
	Limit     int
}

type SearchOptions struct {
	Query     string
	StudentID int64
	Limit     int
}

// EntryChange says what an upsert did to the stored row.
type EntryChange int

const (
	EntryUnchanged EntryChange = iota
	EntryInserted
	EntryUpdated
)

type UpsertEntryInput struct {
	StudentID   int64
	FeedID      *int64
	GUID        string
	URL         string
	Title       string
	Summary     string
	BodyHTML    string
	BodyMD      string
	Flagged     bool
	PublishedAt *time.Time
}

type CreateTaskInput struct {
	StudentID       int64
	Title           string
	DescriptionHTML string
	DescriptionText string
	DueAt           *time.Time
	Flagged         bool
}
