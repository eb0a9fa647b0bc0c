package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// PageFetcher retrieves the raw text of a page.
// A returned error means "no document"; callers skip the page and continue.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// SnippetSearcher runs a web search and returns the result snippets as plain text
type SnippetSearcher interface {
	Search(ctx context.Context, query string) (string, error)
}
