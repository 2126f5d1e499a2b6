package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/mmcdole/gofeed"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "ada.example.com/blog", want: "https://ada.example.com/blog"},
		{in: "  http://ada.example.com/feed.xml ", want: "http://ada.example.com/feed.xml"},
		{in: "", wantErr: true},
		{in: "javascript:alert(1)", wantErr: true},
		{in: "ftp://ada.example.com/feed", wantErr: true},
		{in: "https://", wantErr: true},
	}
	for _, tt := range tests {
		got, err := NormalizeURL(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("NormalizeURL(%q): expected error, got %q", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("NormalizeURL(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("NormalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDiscoverFeedURL_DirectFeedViaRedirect(t *testing.T) {
	const feedXML = `<?xml version="1.0"?><rss version="2.0"><channel><title>T</title><link>https://example.com</link><item><title>A</title><link>https://example.com/a</link></item></channel></rss>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/start":
			http.Redirect(w, r, "/feed.xml", http.StatusMovedPermanently)
		case "/feed.xml":
			w.Header().Set("Content-Type", "application/rss+xml")
			_, _ = w.Write([]byte(feedXML))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	got, err := DiscoverFeedURL(context.Background(), srv.Client(), gofeed.NewParser(), srv.URL+"/start", "internlog-test/1.0")
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if want := srv.URL + "/feed.xml"; got != want {
		t.Fatalf("unexpected discovered url: got %q want %q", got, want)
	}
}

func TestDiscoverFeedURL_FromHTMLAlternateWithBase(t *testing.T) {
	const page = `<!doctype html><html><head><base href="https://example.org/blog/"><link rel="alternate" type="application/rss+xml" href="feed.xml"></head></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	got, err := DiscoverFeedURL(context.Background(), srv.Client(), gofeed.NewParser(), srv.URL, "internlog-test/1.0")
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if got != "https://example.org/blog/feed.xml" {
		t.Fatalf("unexpected discovered url: %q", got)
	}
}

func TestDiscoverFeedURL_NoFeedFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><head><title>x</title></head><body>none</body></html>"))
	}))
	defer srv.Close()

	_, err := DiscoverFeedURL(context.Background(), srv.Client(), gofeed.NewParser(), srv.URL, "internlog-test/1.0")
	if err == nil {
		t.Fatalf("expected discovery error")
	}
	if !strings.Contains(err.Error(), "no feed discovered") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDiscoverFeedCandidates_TableDriven(t *testing.T) {
	tests := []struct {
		name    string
		html    string
		baseURL string
		want    []string
	}{
		{
			name: "rss absolute",
			html: `<link rel="alternate" type="application/rss+xml" href="https://example.org/rss">`,
			want: []string{"https://example.org/rss"},
		},
		{
			name: "atom absolute",
			html: `<link rel="alternate" type="application/atom+xml" href="https://example.org/atom.xml">`,
			want: []string{"https://example.org/atom.xml"},
		},
		{
			name: "wp-json ignored",
			html: `<link rel="alternate" type="application/json" href="https://example.org/wp-json/wp/v2/posts/123">`,
			want: nil,
		},
		{
			name: "relative href resolved",
			html: `<link rel="alternate" type="application/feed+json" href="/feed.json">`,
			want: []string{"https://example.org/feed.json"},
		},
		{
			name: "alternate token in rel list",
			html: `<link rel="alternate stylesheet" type="application/rss+xml" href="/rss.xml">`,
			want: []string{"https://example.org/rss.xml"},
		},
		{
			name: "dedupe same feed",
			html: `<link rel="alternate" type="application/rss+xml" href="/feed.xml"><link rel="alternate" type="application/rss+xml" href="/feed.xml">`,
			want: []string{"https://example.org/feed.xml"},
		},
		{
			name: "no href no result",
			html: `<link rel="alternate" type="application/rss+xml">`,
			want: nil,
		},
		{
			name: "javascript href skipped",
			html: `<link rel="alternate" type="application/rss+xml" href="javascript:alert(1)"><link rel="alternate" type="application/rss+xml" href="/safe.xml">`,
			want: []string{"https://example.org/safe.xml"},
		},
		{
			name: "non-http scheme skipped",
			html: `<link rel="alternate" type="application/rss+xml" href="ftp://example.org/feed.xml">`,
			want: nil,
		},
		{
			name:    "type omitted but feedish href",
			html:    `<link rel="alternate" href="/feed">`,
			want:    []string{"https://example.org/feed"},
			baseURL: "https://example.org/blog/post",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := tt.baseURL
			if base == "" {
				base = "https://example.org/page"
			}
			page := "<!doctype html><html><head>" + tt.html + "</head></html>"
			urls := discoverFeedCandidates([]byte(page), mustParseURL(t, base))
			if len(urls) != len(tt.want) {
				t.Fatalf("unexpected result count: got %d want %d (%v)", len(urls), len(tt.want), urls)
			}
			for i := range tt.want {
				if urls[i] != tt.want[i] {
					t.Fatalf("unexpected candidate at %d: got %q want %q", i, urls[i], tt.want[i])
				}
			}
		})
	}
}

func mustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	return u
}
