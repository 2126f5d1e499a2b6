package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "internlog.db")
	db, err := OpenDB(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return NewStore(db)
}

func mustCreateStudent(t *testing.T, store *Store, name string) Student {
	t.Helper()
	st, err := store.CreateStudent(context.Background(), name, "", "")
	if err != nil {
		t.Fatalf("create student: %v", err)
	}
	return st
}

func mustCreateFeed(t *testing.T, store *Store, studentID int64, url string) Feed {
	t.Helper()
	feed, _, err := store.CreateFeed(context.Background(), studentID, url)
	if err != nil {
		t.Fatalf("create feed: %v", err)
	}
	return feed
}

func mustUpsertEntry(t *testing.T, store *Store, in UpsertEntryInput) int64 {
	t.Helper()
	id, _, err := store.UpsertEntry(context.Background(), in)
	if err != nil {
		t.Fatalf("upsert entry %q: %v", in.GUID, err)
	}
	return id
}

func ptrTime(t time.Time) *time.Time {
	tt := t.UTC()
	return &tt
}
