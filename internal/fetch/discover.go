package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/mmcdole/gofeed"
	"golang.org/x/net/html"

	"github.com/odysseus0/internlog/internal/sanitize"
)

const (
	feedAccept      = "application/xml, application/atom+xml, application/rss+xml, application/feed+json, text/xml, text/html, */*;q=0.8"
	maxDiscoverBody = 8 << 20
)

// NormalizeURL defaults the scheme to https and accepts only http(s) URLs with
// a host.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("url is required")
	}
	if sanitize.IsDangerousURL(raw) {
		return "", fmt.Errorf("unsupported url scheme in %q", raw)
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid url %q", raw)
	}
	return u.String(), nil
}

// DiscoverFeedURL returns rawURL itself when it serves a feed, otherwise the
// first feed advertised by the page's alternate links.
func DiscoverFeedURL(ctx context.Context, client *http.Client, parser *gofeed.Parser, rawURL, userAgent string) (string, error) {
	normalized, err := NormalizeURL(rawURL)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, normalized, nil)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(userAgent) == "" {
		userAgent = "internlog/0.1"
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", feedAccept)

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDiscoverBody))
	if err != nil {
		return "", err
	}
	if len(body) == 0 {
		return "", fmt.Errorf("empty response body from %s", normalized)
	}

	effectiveURL := normalized
	if resp.Request != nil && resp.Request.URL != nil {
		effectiveURL = resp.Request.URL.String()
	}

	if _, err := parser.Parse(bytes.NewReader(body)); err == nil {
		return effectiveURL, nil
	}

	base, err := url.Parse(effectiveURL)
	if err != nil {
		return "", err
	}
	if candidates := discoverFeedCandidates(body, base); len(candidates) > 0 {
		return candidates[0], nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("request failed: %s", resp.Status)
	}
	return "", fmt.Errorf("no feed discovered at %s", effectiveURL)
}

func discoverFeedCandidates(body []byte, base *url.URL) []string {
	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil
	}

	resolvedBase := base
	if baseHref := findBaseHref(root); baseHref != "" {
		if u, err := url.Parse(baseHref); err == nil {
			resolvedBase = base.ResolveReference(u)
		}
	}

	out := make([]string, 0)
	seen := map[string]struct{}{}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && strings.EqualFold(n.Data, "link") {
			if abs, ok := feedLinkTarget(attrMap(n), resolvedBase); ok {
				if _, dup := seen[abs]; !dup {
					seen[abs] = struct{}{}
					out = append(out, abs)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

// feedLinkTarget resolves a <link rel="alternate"> pointing at a feed. Pages
// are untrusted, so only http(s) targets are returned.
func feedLinkTarget(attrs map[string]string, base *url.URL) (string, bool) {
	if !isAlternateRel(attrs["rel"]) {
		return "", false
	}
	href := strings.TrimSpace(attrs["href"])
	if href == "" || sanitize.IsDangerousURL(href) {
		return "", false
	}
	typeAttr := strings.ToLower(strings.TrimSpace(attrs["type"]))
	if !isFeedLinkType(typeAttr, href) {
		return "", false
	}
	if typeAttr == "application/json" && strings.Contains(strings.ToLower(href), "/wp-json/") {
		return "", false
	}
	u, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	abs := base.ResolveReference(u)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return "", false
	}
	return abs.String(), true
}

func findBaseHref(root *html.Node) string {
	var baseHref string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if baseHref != "" {
			return
		}
		if n.Type == html.ElementNode && strings.EqualFold(n.Data, "base") {
			if href := strings.TrimSpace(attrMap(n)["href"]); href != "" && !sanitize.IsDangerousURL(href) {
				baseHref = href
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return baseHref
}

func isAlternateRel(rel string) bool {
	for _, token := range strings.Fields(strings.ToLower(rel)) {
		if token == "alternate" {
			return true
		}
	}
	return false
}

func isFeedLinkType(typeAttr, href string) bool {
	switch typeAttr {
	case "application/rss+xml", "application/atom+xml", "application/feed+json", "application/json", "application/xml", "text/xml":
		return true
	}
	if typeAttr != "" {
		return strings.Contains(typeAttr, "rss") || strings.Contains(typeAttr, "atom") || strings.Contains(typeAttr, "feed")
	}

	h := strings.ToLower(href)
	checkPath := h
	if u, err := url.Parse(href); err == nil && u.Path != "" {
		checkPath = strings.ToLower(u.Path)
	}
	switch path.Ext(checkPath) {
	case ".rss", ".atom", ".xml", ".json":
		return true
	}
	return strings.Contains(h, "/feed") || strings.Contains(h, "rss") || strings.Contains(h, "atom")
}

func attrMap(n *html.Node) map[string]string {
	m := make(map[string]string, len(n.Attr))
	for _, a := range n.Attr {
		m[strings.ToLower(a.Key)] = a.Val
	}
	return m
}
