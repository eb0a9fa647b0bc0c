package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrNoPrices is returned when no extractor produced a usable price
	ErrNoPrices = errors.New("no price observations found")

	// ErrFetchFailed is returned when a page could not be retrieved
	ErrFetchFailed = errors.New("page fetch failed")

	// ErrSearchFailed is returned when the snippet search engine request fails
	ErrSearchFailed = errors.New("snippet search failed")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
