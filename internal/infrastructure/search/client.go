package search

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/pricelens/backend/internal/domain"
)

// DefaultBaseURL is DuckDuckGo's JavaScript-free results page
const DefaultBaseURL = "https://html.duckduckgo.com/html/"

// Client runs web searches through a page fetcher and returns result snippets as text
type Client struct {
	fetcher     domain.PageFetcher
	baseURL     string
	maxSnippets int
}

// NewClient creates a snippet search client. An empty baseURL selects DefaultBaseURL.
func NewClient(fetcher domain.PageFetcher, baseURL string, maxSnippets int) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if maxSnippets <= 0 {
		maxSnippets = 10
	}
	return &Client{
		fetcher:     fetcher,
		baseURL:     baseURL,
		maxSnippets: maxSnippets,
	}
}

// Search returns the titles and snippets of the first results for query
func (c *Client) Search(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", domain.ErrInvalidRequest
	}

	params := url.Values{}
	params.Add("q", query)
	params.Add("kl", "kr-kr")

	separator := "?"
	if strings.Contains(c.baseURL, "?") {
		separator = "&"
	}
	page, err := c.fetcher.Fetch(ctx, c.baseURL+separator+params.Encode())
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrSearchFailed, err)
	}

	text := ExtractSnippets(page, c.maxSnippets)
	log.Printf("[SEARCH] %q: %d bytes of snippet text", query, len(text))
	return text, nil
}
