package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/pricelens/backend/internal/domain"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout      = 5 * time.Second
	defaultMaxRetries   = 3
	defaultMaxBodyBytes = 4 << 20 // 4 MiB
	backoffBase         = 500 * time.Millisecond

	defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
)

// Options configures a Client. Zero values select the defaults.
type Options struct {
	Timeout           time.Duration
	UserAgent         string
	RequestsPerSecond float64
	Burst             int
	MaxRetries        int
	MaxBodyBytes      int64
}

// Client fetches shop pages politely: rate limited, retried on transient failures and
// decoded to UTF-8 whatever charset the shop serves.
type Client struct {
	httpClient   *http.Client
	userAgent    string
	rateLimiter  *rate.Limiter
	maxRetries   int
	maxBodyBytes int64
	debug        bool
}

// NewClient creates a new page fetch client
func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 1 // one shop page per second
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = defaultMaxRetries
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		userAgent:    opts.UserAgent,
		rateLimiter:  rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst),
		maxRetries:   opts.MaxRetries,
		maxBodyBytes: opts.MaxBodyBytes,
	}
}

// SetDebug enables verbose request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

func (c *Client) debugLog(format string, args ...interface{}) {
	if c.debug {
		log.Printf("[FETCH] "+format, args...)
	}
}

// doRequest executes an HTTP GET request with browser-like headers
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "ko-KR,ko;q=0.8,en-US;q=0.5,en;q=0.3")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}

	return resp, nil
}

// Fetch returns the page body as UTF-8 text.
// Transport errors, 429 and 5xx responses are retried with exponential backoff;
// other non-200 responses fail immediately.
func (c *Client) Fetch(ctx context.Context, reqURL string) (string, error) {
	c.debugLog("GET %s", reqURL)

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			log.Printf("[FETCH] Request error (attempt %d): %v", attempt, err)
			lastErr = err
			if !c.wait(ctx, attempt) {
				return "", ctx.Err()
			}
			continue
		}

		body, err := readLimitedBody(resp.Body, c.maxBodyBytes)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("%w: reading body: %v", domain.ErrFetchFailed, err)
			if !c.wait(ctx, attempt) {
				return "", ctx.Err()
			}
			continue
		}

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("%w: status %d from %s", domain.ErrFetchFailed, resp.StatusCode, reqURL)
			if !retryable(resp.StatusCode) {
				return "", lastErr
			}
			log.Printf("[FETCH] Status %d (attempt %d) for %s", resp.StatusCode, attempt, reqURL)
			if !c.wait(ctx, attempt) {
				return "", ctx.Err()
			}
			continue
		}

		text, err := decodeBody(body, resp.Header.Get("Content-Type"))
		if err != nil {
			return "", fmt.Errorf("%w: decoding body: %v", domain.ErrFetchFailed, err)
		}

		c.debugLog("Fetched %d bytes from %s", len(text), reqURL)
		return text, nil
	}

	log.Printf("[FETCH] All retries failed for %s", reqURL)
	return "", lastErr
}

// wait sleeps for the backoff of attempt unless it was the last one; false means ctx is done
func (c *Client) wait(ctx context.Context, attempt int) bool {
	if attempt >= c.maxRetries {
		return true
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(exponentialBackoff(attempt)):
		return true
	}
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// exponentialBackoff returns 500ms, 1s, 2s, ... for attempts 1, 2, 3, ...
func exponentialBackoff(attempt int) time.Duration {
	return backoffBase * time.Duration(1<<(attempt-1))
}

// readLimitedBody reads at most limit bytes from r
func readLimitedBody(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, limit))
}

// decodeBody converts body to UTF-8 using the Content-Type charset or <meta> sniffing
func decodeBody(body []byte, contentType string) (string, error) {
	reader, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return "", err
	}
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
