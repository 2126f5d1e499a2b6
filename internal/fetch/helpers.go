package fetch

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// dedupGUID gives items without a guid a stable identity: the link when there
// is one, otherwise a hash of title and publish time.
func dedupGUID(link, title string, published *time.Time) string {
	if strings.TrimSpace(link) != "" {
		return strings.TrimSpace(link)
	}
	stamp := ""
	if published != nil {
		stamp = published.UTC().Format(time.RFC3339Nano)
	}
	h := sha1.Sum([]byte(strings.TrimSpace(title) + "|" + stamp))
	return "sha1:" + hex.EncodeToString(h[:])
}

// itemBody picks the richest HTML the item carries.
func itemBody(item *gofeed.Item) string {
	if body := strings.TrimSpace(item.Content); body != "" {
		return body
	}
	return strings.TrimSpace(item.Description)
}

func fallback(v, fb string) string {
	if strings.TrimSpace(v) == "" {
		return fb
	}
	return v
}
