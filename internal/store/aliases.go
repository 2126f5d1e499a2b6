package store

import "github.com/odysseus0/internlog/internal/model"

type Student = model.Student
type Feed = model.Feed
type JournalEntry = model.JournalEntry
type Task = model.Task
type TaskStatus = model.TaskStatus
type Finding = model.Finding
type Stats = model.Stats
type EntryListOptions = model.EntryListOptions
type TaskListOptions = model.TaskListOptions
type SearchOptions = model.SearchOptions
type UpsertEntryInput = model.UpsertEntryInput
type EntryChange = model.EntryChange
type CreateTaskInput = model.CreateTaskInput

const (
	EntryUnchanged = model.EntryUnchanged
	EntryInserted  = model.EntryInserted
	EntryUpdated   = model.EntryUpdated
)
