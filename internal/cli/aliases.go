package cli

import "github.com/odysseus0/internlog/internal/model"

type OutputFormat = model.OutputFormat
type Student = model.Student
type Feed = model.Feed
type JournalEntry = model.JournalEntry
type Task = model.Task
type Finding = model.Finding
type Stats = model.Stats
type FetchResult = model.FetchResult
type FetchReport = model.FetchReport
type EntryListOptions = model.EntryListOptions
type TaskListOptions = model.TaskListOptions
type SearchOptions = model.SearchOptions

const (
	OutputTable = model.OutputTable
	OutputJSON  = model.OutputJSON
	OutputWide  = model.OutputWide
)
