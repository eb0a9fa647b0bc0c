// Package bootstrap wires infrastructure and use cases from configuration.
// Both the HTTP server and the pricecheck CLI start from here.
package bootstrap

import (
	"log"

	"github.com/pricelens/backend/config"
	"github.com/pricelens/backend/internal/infrastructure/cache"
	"github.com/pricelens/backend/internal/infrastructure/fetch"
	"github.com/pricelens/backend/internal/infrastructure/search"
	"github.com/pricelens/backend/internal/usecase"
)

// Services holds the wired application components
type Services struct {
	Comparison *usecase.ComparisonService
	Cache      *cache.MemoryCache
}

// New builds the comparison service and its dependencies
func New(cfg *config.Config) *Services {
	memoryCache := cache.NewMemoryCache(cfg.Cache.CleanupInterval)

	fetchClient := fetch.NewClient(fetch.Options{
		Timeout:           cfg.Fetch.Timeout,
		UserAgent:         cfg.Fetch.UserAgent,
		RequestsPerSecond: cfg.Fetch.RequestsPerSecond,
		Burst:             cfg.Fetch.Burst,
		MaxRetries:        cfg.Fetch.MaxRetries,
	})

	// Enable debug mode in development environment
	debug := cfg.Debug || cfg.Server.Environment == "development"
	if debug {
		fetchClient.SetDebug(true)
		log.Printf("[BOOTSTRAP] Fetch client debug mode enabled")
	}

	searchClient := search.NewClient(fetchClient, cfg.Search.BaseURL, cfg.Search.MaxSnippets)

	comparisonService := usecase.NewComparisonService(
		memoryCache,
		fetchClient,
		searchClient,
		usecase.ComparisonServiceConfig{
			CacheTTL:           cfg.Cache.TTL,
			Policy:             cfg.Pricing,
			Sites:              cfg.Sites,
			FetchConcurrency:   cfg.Fetch.Concurrency,
			EnableDebugLogging: cfg.Debug,
		},
	)

	log.Printf("[BOOTSTRAP] Pricing: range=%d..%d, duplicate threshold=%.2f, concurrency=%d",
		cfg.Pricing.MinAmount, cfg.Pricing.MaxAmount, cfg.Pricing.DuplicateThreshold, cfg.Fetch.Concurrency)

	return &Services{
		Comparison: comparisonService,
		Cache:      memoryCache,
	}
}

// Close stops background work
func (s *Services) Close() {
	s.Cache.Close()
}
