// Package fetch imports journal entries from students' blog feeds. Feed
// content is untrusted HTML, so every item is handed to the ingestor rather
// than written to the store directly.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/odysseus0/internlog/internal/ingest"
	"github.com/odysseus0/internlog/internal/logging"
)

const maxFeedBytes = 16 << 20

type Fetcher struct {
	store    *Store
	ingestor *ingest.Ingestor
	cfg      Config
	client   *http.Client
	logger   *slog.Logger
}

type fetchProgressFn func(done, total int, result FetchResult)

func NewFetcher(store *Store, ingestor *ingest.Ingestor, cfg Config, logger *slog.Logger) *Fetcher {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     30 * time.Second,
	}
	if logger == nil {
		logger = logging.Discard()
	}

	return &Fetcher{
		store:    store,
		ingestor: ingestor,
		cfg:      cfg,
		logger:   logger,
		client: &http.Client{
			Timeout:   cfg.HTTPTimeout,
			Transport: transport,
		},
	}
}

func (f *Fetcher) Fetch(ctx context.Context, feedID *int64) (FetchReport, error) {
	return f.FetchWithProgress(ctx, feedID, nil)
}

func (f *Fetcher) DiscoverFeedURL(ctx context.Context, rawURL string) (string, error) {
	return DiscoverFeedURL(ctx, f.client, gofeed.NewParser(), rawURL, f.cfg.UserAgent)
}

func (f *Fetcher) FetchWithProgress(ctx context.Context, feedID *int64, onResult fetchProgressFn) (FetchReport, error) {
	feeds, err := f.store.ListFeedsForFetch(ctx, feedID)
	if err != nil {
		return FetchReport{}, err
	}

	report := FetchReport{StartedAt: time.Now()}
	if len(feeds) == 0 {
		report.EndedAt = time.Now()
		return report, nil
	}

	results := f.fetchAll(ctx, feeds, onResult)
	sort.Slice(results, func(i, j int) bool { return results[i].FeedID < results[j].FeedID })
	report.Results = results

	for _, r := range results {
		if r.Flagged > 0 {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("feed %d: sanitized dangerous markup in %d entries", r.FeedID, r.Flagged))
		}
	}

	report.EndedAt = time.Now()
	f.logger.Debug("fetch finished", "feeds", len(results), "elapsed", report.EndedAt.Sub(report.StartedAt))
	return report, nil
}

func (f *Fetcher) fetchAll(ctx context.Context, feeds []Feed, onResult fetchProgressFn) []FetchResult {
	results := make([]FetchResult, 0, len(feeds))
	total := len(feeds)
	if total == 1 {
		result := f.fetchSingle(ctx, feeds[0])
		if onResult != nil {
			onResult(1, 1, result)
		}
		return append(results, result)
	}

	concurrency := f.cfg.FetchConcurrency
	if concurrency < 1 {
		concurrency = 10
	}
	if concurrency > total {
		concurrency = total
	}

	jobs := make(chan Feed)
	out := make(chan FetchResult, total)
	wg := sync.WaitGroup{}
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for feed := range jobs {
				out <- f.fetchSingle(ctx, feed)
			}
		}()
	}

	go func() {
		for _, feed := range feeds {
			jobs <- feed
		}
		close(jobs)
		wg.Wait()
		close(out)
	}()

	var done int64
	for result := range out {
		results = append(results, result)
		if onResult != nil {
			onResult(int(atomic.AddInt64(&done, 1)), total, result)
		}
	}
	return results
}

func (f *Fetcher) fetchSingle(ctx context.Context, feed Feed) FetchResult {
	result := FetchResult{
		FeedID:    feed.ID,
		FeedTitle: fallback(feed.Title, feed.URL),
		FeedURL:   feed.URL,
		StudentID: feed.StudentID,
	}

	req, err := f.newFeedRequest(ctx, feed)
	if err != nil {
		return f.failFeed(ctx, feed, result, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return f.failFeed(ctx, feed, result, err)
	}
	defer resp.Body.Close()

	etag, lastModified := mergeCacheHeaders(resp, feed)
	if resp.StatusCode == http.StatusNotModified {
		result.NotModified = true
		if err := f.store.UpdateFeedFetchSuccess(ctx, feed.ID, "", "", etag, lastModified, time.Now()); err != nil {
			return f.failFeed(ctx, feed, result, err)
		}
		return result
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return f.failFeed(ctx, feed, result, fmt.Errorf("http %d", resp.StatusCode))
	}

	parsed, err := parseFeedResponse(resp.Body)
	if err != nil {
		return f.failFeed(ctx, feed, result, err)
	}

	if err := f.ingestItems(ctx, feed, parsed.Items, &result); err != nil {
		return f.failFeed(ctx, feed, result, err)
	}

	if err := f.store.UpdateFeedFetchSuccess(ctx, feed.ID, strings.TrimSpace(parsed.Title), strings.TrimSpace(parsed.Link), etag, lastModified, time.Now()); err != nil {
		return f.failFeed(ctx, feed, result, err)
	}
	if parsed.Title != "" {
		result.FeedTitle = parsed.Title
	}
	return result
}

func (f *Fetcher) newFeedRequest(ctx context.Context, feed Feed) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feed.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", feedAccept)
	if feed.ETag != "" {
		req.Header.Set("If-None-Match", feed.ETag)
	}
	if feed.LastModified != "" {
		req.Header.Set("If-Modified-Since", feed.LastModified)
	}
	return req, nil
}

func mergeCacheHeaders(resp *http.Response, feed Feed) (etag, lastModified string) {
	etag = strings.TrimSpace(resp.Header.Get("ETag"))
	if etag == "" {
		etag = feed.ETag
	}
	lastModified = strings.TrimSpace(resp.Header.Get("Last-Modified"))
	if lastModified == "" {
		lastModified = feed.LastModified
	}
	return etag, lastModified
}

func parseFeedResponse(body io.Reader) (*gofeed.Feed, error) {
	data, err := io.ReadAll(io.LimitReader(body, maxFeedBytes))
	if err != nil {
		return nil, err
	}
	return gofeed.NewParser().Parse(bytes.NewReader(data))
}

func (f *Fetcher) ingestItems(ctx context.Context, feed Feed, items []*gofeed.Item, result *FetchResult) error {
	for _, item := range items {
		guid := strings.TrimSpace(item.GUID)
		if guid == "" {
			guid = dedupGUID(item.Link, item.Title, item.PublishedParsed)
		}

		published := item.PublishedParsed
		if published == nil {
			published = item.UpdatedParsed
		}

		res, err := f.ingestor.Entry(ctx, ingest.EntryInput{
			StudentID:   feed.StudentID,
			FeedID:      &feed.ID,
			GUID:        guid,
			URL:         strings.TrimSpace(item.Link),
			Title:       item.Title,
			RawHTML:     itemBody(item),
			PublishedAt: published,
		})
		if err != nil {
			return err
		}
		if res.Unchanged {
			continue
		}
		if res.Inserted {
			result.NewEntries++
		} else {
			result.Updated++
		}
		if len(res.Signatures) > 0 {
			result.Flagged++
		}
	}
	return nil
}

func (f *Fetcher) failFeed(ctx context.Context, feed Feed, result FetchResult, err error) FetchResult {
	result.Error = err.Error()
	f.logger.Warn("feed fetch failed", "feed_id", feed.ID, "url", feed.URL, "error", result.Error)
	if persistErr := f.store.SetFeedError(ctx, feed.ID, result.Error); persistErr != nil {
		result.Error = fmt.Sprintf("%s; additionally failed to persist feed error: %v", result.Error, persistErr)
	}
	return result
}
