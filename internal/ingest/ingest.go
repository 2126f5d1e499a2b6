// Package ingest is the only write path for untrusted markup. Every journal
// body and task description is classified, sanitized and rendered here before
// it reaches the store, so stored HTML needs no further checks.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/odysseus0/internlog/internal/logging"
	"github.com/odysseus0/internlog/internal/model"
	"github.com/odysseus0/internlog/internal/render"
	"github.com/odysseus0/internlog/internal/sanitize"
)

const (
	summaryMax = 280
	titleMax   = 300
	excerptMax = 200

	manualGUIDPrefix = "manual:"
)

// Store is the subset of the persistence layer the ingestor writes to.
type Store interface {
	UpsertEntry(ctx context.Context, in model.UpsertEntryInput) (int64, model.EntryChange, error)
	CreateTask(ctx context.Context, in model.CreateTaskInput) (model.Task, error)
	RecordFinding(ctx context.Context, f model.Finding) error
}

type Options struct {
	Renderer *render.Renderer
	Logger   *slog.Logger
	// Audit records a finding for every input that matches a danger
	// signature. It never changes what gets stored.
	Audit bool
}

type Ingestor struct {
	store    Store
	renderer *render.Renderer
	logger   *slog.Logger
	audit    bool
	now      func() time.Time
}

func New(st Store, opts Options) *Ingestor {
	if opts.Renderer == nil {
		opts.Renderer = render.NewRenderer()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &Ingestor{
		store:    st,
		renderer: opts.Renderer,
		logger:   opts.Logger,
		audit:    opts.Audit,
		now:      time.Now,
	}
}

type EntryInput struct {
	StudentID int64
	FeedID    *int64
	// GUID identifies the entry per student. Empty means a new manual entry.
	GUID        string
	URL         string
	Title       string
	RawHTML     string
	PublishedAt *time.Time
}

type EntryResult struct {
	ID       int64
	GUID     string
	Inserted bool
	// Unchanged is set when the stored row already matched the input. No
	// finding is recorded for it.
	Unchanged  bool
	Signatures []string
	FindingID  string
}

// Entry stores a journal entry. The body goes through the strict profile.
// Findings are recorded once per stored version of an entry.
func (ig *Ingestor) Entry(ctx context.Context, in EntryInput) (EntryResult, error) {
	sigs := sanitize.MatchDangerous(in.RawHTML)
	body := sanitize.Strict(in.RawHTML)
	md := ig.renderer.HTMLToMarkdown(body)

	guid := strings.TrimSpace(in.GUID)
	if guid == "" {
		guid = manualGUIDPrefix + uuid.NewString()
	}

	id, change, err := ig.store.UpsertEntry(ctx, model.UpsertEntryInput{
		StudentID:   in.StudentID,
		FeedID:      in.FeedID,
		GUID:        guid,
		URL:         safeLink(in.URL),
		Title:       plainTitle(in.Title),
		Summary:     render.CompactText(md, summaryMax),
		BodyHTML:    body,
		BodyMD:      md,
		Flagged:     len(sigs) > 0,
		PublishedAt: in.PublishedAt,
	})
	if err != nil {
		return EntryResult{}, err
	}

	res := EntryResult{
		ID:         id,
		GUID:       guid,
		Inserted:   change == model.EntryInserted,
		Unchanged:  change == model.EntryUnchanged,
		Signatures: sigs,
	}
	if len(sigs) > 0 && !res.Unchanged {
		findingID, err := ig.record(ctx, model.SourceEntry, id, sigs, in.RawHTML)
		if err != nil {
			return res, err
		}
		res.FindingID = findingID
	}
	return res, nil
}

type TaskInput struct {
	StudentID   int64
	Title       string
	Description string
	DueAt       *time.Time
}

type TaskResult struct {
	Task       model.Task
	Signatures []string
	FindingID  string
}

var brToNewline = strings.NewReplacer("<br>", "\n", "<br />", "\n")

// Task stores a task. Descriptions are a constrained field and go through the
// legacy profile; a description without any markup keeps its line breaks.
func (ig *Ingestor) Task(ctx context.Context, in TaskInput) (TaskResult, error) {
	sigs := sanitize.MatchDangerous(in.Description)

	desc := in.Description
	if !strings.Contains(desc, "<") {
		desc = sanitize.NL2BR(desc)
	}
	descHTML := sanitize.Legacy(desc)
	descText := strings.TrimSpace(sanitize.StripHTML(brToNewline.Replace(descHTML)))

	task, err := ig.store.CreateTask(ctx, model.CreateTaskInput{
		StudentID:       in.StudentID,
		Title:           plainTitle(in.Title),
		DescriptionHTML: descHTML,
		DescriptionText: descText,
		DueAt:           in.DueAt,
		Flagged:         len(sigs) > 0,
	})
	if err != nil {
		return TaskResult{}, err
	}

	res := TaskResult{Task: task, Signatures: sigs}
	if len(sigs) > 0 {
		findingID, err := ig.record(ctx, model.SourceTask, task.ID, sigs, in.Description)
		if err != nil {
			return res, err
		}
		res.FindingID = findingID
	}
	return res, nil
}

type Preview struct {
	Profile     string   `json:"profile"`
	HTML        string   `json:"html"`
	Signatures  []string `json:"signatures,omitempty"`
	AllowedTags []string `json:"allowed_tags"`
}

// NewPreview sanitizes raw with the given profile without storing anything.
func NewPreview(p sanitize.Profile, raw string) Preview {
	return Preview{
		Profile:     p.String(),
		HTML:        p.Sanitize(raw),
		Signatures:  sanitize.MatchDangerous(raw),
		AllowedTags: p.AllowedTags(),
	}
}

func (ig *Ingestor) record(ctx context.Context, source string, sourceID int64, sigs []string, raw string) (string, error) {
	ig.logger.Warn("dangerous markup sanitized",
		"source", source,
		"source_id", sourceID,
		"signatures", strings.Join(sigs, ","),
	)
	if !ig.audit {
		return "", nil
	}
	f := model.Finding{
		ID:         uuid.NewString(),
		Source:     source,
		SourceID:   sourceID,
		Signatures: sigs,
		Excerpt:    render.CompactText(raw, excerptMax),
		DetectedAt: ig.now().UTC(),
	}
	if err := ig.store.RecordFinding(ctx, f); err != nil {
		return "", fmt.Errorf("record finding for %s %d: %w", source, sourceID, err)
	}
	return f.ID, nil
}

// plainTitle reduces a title to plain text; titles are never rendered as HTML.
func plainTitle(v string) string {
	return render.CompactText(sanitize.StripHTML(v), titleMax)
}

// safeLink drops entry links using a dangerous scheme, the same rule the
// strict profile applies to href.
func safeLink(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if sanitize.IsDangerousURL(v) {
		return ""
	}
	return v
}
