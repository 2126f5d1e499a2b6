package fetch

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/odysseus0/internlog/internal/config"
	"github.com/odysseus0/internlog/internal/ingest"
	"github.com/odysseus0/internlog/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "internlog.db")
	db, err := store.OpenDB(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return store.NewStore(db)
}

func newTestFetcher(s *store.Store) *Fetcher {
	cfg := config.Config{
		HTTPTimeout:      5 * time.Second,
		FetchConcurrency: 4,
		UserAgent:        "internlog-test/1.0",
	}
	ig := ingest.New(s, ingest.Options{Audit: true})
	return NewFetcher(s, ig, cfg, nil)
}

func mustCreateStudent(t *testing.T, s *store.Store, name string) store.Student {
	t.Helper()
	st, err := s.CreateStudent(context.Background(), name, "", "")
	if err != nil {
		t.Fatalf("create student: %v", err)
	}
	return st
}

func mustCreateFeed(t *testing.T, s *store.Store, studentID int64, url string) store.Feed {
	t.Helper()
	feed, _, err := s.CreateFeed(context.Background(), studentID, url)
	if err != nil {
		t.Fatalf("create feed: %v", err)
	}
	return feed
}
