package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/pricelens/backend/internal/domain"
	"golang.org/x/sync/errgroup"
)

// ComparisonServiceConfig holds configuration for the comparison service
type ComparisonServiceConfig struct {
	CacheTTL           time.Duration
	Policy             domain.PricePolicy
	Sites              []domain.MerchantSite
	FetchConcurrency   int
	EnableDebugLogging bool
}

// ComparisonService runs a price comparison for a query.
// Flow: check cache -> fetch shop pages -> structured extraction -> snippet fallback -> format -> cache
type ComparisonService struct {
	cache        domain.CacheRepository
	fetcher      domain.PageFetcher
	searcher     domain.SnippetSearcher
	preprocessor *QueryPreprocessor
	markup       *MarkupExtractor
	text         *TextExtractor
	normalizer   *Normalizer
	formatter    *ReportFormatter
	sites        []domain.MerchantSite
	cacheTTL     time.Duration
	concurrency  int
	debug        bool
}

// NewComparisonService creates a new comparison service with dependencies.
// searcher may be nil, in which case no snippet fallback is attempted.
func NewComparisonService(
	cache domain.CacheRepository,
	fetcher domain.PageFetcher,
	searcher domain.SnippetSearcher,
	config ComparisonServiceConfig,
) *ComparisonService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 30 * time.Minute
	}

	sites := config.Sites
	if len(sites) == 0 {
		sites = DefaultMerchantSites()
	}

	concurrency := config.FetchConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	normalizer := NewNormalizer(config.Policy)
	policy := normalizer.Policy()

	return &ComparisonService{
		cache:        cache,
		fetcher:      fetcher,
		searcher:     searcher,
		preprocessor: NewQueryPreprocessor(config.EnableDebugLogging),
		markup:       NewMarkupExtractor(config.EnableDebugLogging),
		text:         NewTextExtractor(policy, config.EnableDebugLogging),
		normalizer:   normalizer,
		formatter:    NewReportFormatter(policy),
		sites:        sites,
		cacheTTL:     cacheTTL,
		concurrency:  concurrency,
		debug:        config.EnableDebugLogging,
	}
}

// Compare looks up prices for query across the configured shops.
// A report with no observations is not an error: its text carries refinement suggestions.
func (s *ComparisonService) Compare(ctx context.Context, request *domain.ComparisonRequest) (*domain.ComparisonReport, error) {
	if request == nil {
		return nil, domain.ErrInvalidRequest
	}
	query := s.preprocessor.PreprocessQuery(request.Query)
	if query == "" {
		return nil, domain.ErrInvalidRequest
	}

	cacheKey := s.preprocessor.CacheKey(query)
	if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
		cached.Source = "cache"
		return cached, nil
	}

	report := &domain.ComparisonReport{
		Query:       query,
		Strategy:    domain.StrategyNone,
		Source:      "live",
		GeneratedAt: time.Now(),
	}

	priced, unpriced, err := s.collectStructured(ctx, query)
	if err != nil {
		return nil, err
	}

	report.Unpriced = unpriced
	if len(priced) > 0 {
		report.Strategy = domain.StrategyStructured
		report.Observations = priced
	} else if observations := s.collectSnippets(ctx, query); len(observations) > 0 {
		report.Strategy = domain.StrategySnippet
		report.Observations = observations
	}

	all := append(append([]domain.PriceObservation{}, report.Observations...), report.Unpriced...)
	report.Report = s.formatter.Format(all, query)

	if len(report.Observations) > 0 {
		if err := s.setInCache(ctx, cacheKey, report); err != nil {
			log.Printf("[COMPARE] Failed to cache report for %q: %v", query, err)
		}
	}

	return report, nil
}

// ExtractMarkup runs the structured pipeline on a caller-supplied document
func (s *ComparisonService) ExtractMarkup(document, baseURL, query string) *domain.ComparisonReport {
	var priced, unpriced []domain.PriceObservation
	for _, obs := range s.markup.Extract(document, baseURL) {
		if obs.HasPrice() {
			priced = append(priced, obs)
		} else {
			unpriced = append(unpriced, obs)
		}
	}
	priced = s.normalizer.NormalizeProducts(priced)
	unpriced = s.limitUnpriced(unpriced)

	return s.buildReport(query, domain.StrategyStructured, priced, unpriced)
}

// ExtractText runs the free-text pipeline on caller-supplied snippet text
func (s *ComparisonService) ExtractText(text, query string) *domain.ComparisonReport {
	observations := s.normalizer.Normalize(s.text.Extract(text, query))
	return s.buildReport(query, domain.StrategySnippet, observations, nil)
}

func (s *ComparisonService) buildReport(query, strategy string, priced, unpriced []domain.PriceObservation) *domain.ComparisonReport {
	if len(priced) == 0 && len(unpriced) == 0 {
		strategy = domain.StrategyNone
	}
	all := append(append([]domain.PriceObservation{}, priced...), unpriced...)
	return &domain.ComparisonReport{
		Query:        query,
		Strategy:     strategy,
		Source:       "input",
		Observations: priced,
		Unpriced:     unpriced,
		Report:       s.formatter.Format(all, query),
		GeneratedAt:  time.Now(),
	}
}

// collectStructured fetches every shop page, possibly in parallel, then extracts from the
// documents strictly in site order so that dedup keeps the same representative every time.
func (s *ComparisonService) collectStructured(ctx context.Context, query string) (priced, unpriced []domain.PriceObservation, err error) {
	if s.fetcher == nil {
		return nil, nil, nil
	}

	documents := make([]string, len(s.sites))
	urls := make([]string, len(s.sites))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, site := range s.sites {
		i, site := i, site
		urls[i] =s.preprocessor.SearchURL(site, query)
		g.Go(func() error {
			if s.debug {
				log.Printf("[COMPARE] Searching %s: %s", site.Name, urls[i])
			}
			body, err := s.fetcher.Fetch(gCtx, urls[i])
			if err != nil {
				log.Printf("[COMPARE] %s search failed: %v", site.Name, err)
				return nil
			}
			documents[i] = body
			return nil
		})
	}

	_ = g.Wait() // per-site failures are logged and leave an empty document
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	var candidates []domain.PriceObservation
	for i, body := range documents {
		if body == "" {
			continue
		}
		for _, obs := range s.markup.Extract(body, urls[i]) {
			if obs.HasPrice() {
				candidates = append(candidates, obs)
			} else {
				unpriced = append(unpriced, obs)
			}
		}
	}

	return s.normalizer.NormalizeProducts(candidates), s.limitUnpriced(unpriced), nil
}

// collectSnippets falls back to web search snippets, trying each snippet query in turn
func (s *ComparisonService) collectSnippets(ctx context.Context, query string) []domain.PriceObservation {
	if s.searcher == nil {
		return nil
	}

	for _, snippetQuery := range s.preprocessor.SnippetQueries(query) {
		text, err := s.searcher.Search(ctx, snippetQuery)
		if err != nil {
			log.Printf("[COMPARE] Snippet search %q failed: %v", snippetQuery, err)
			continue
		}
		if observations := s.normalizer.Normalize(s.text.Extract(text, query)); len(observations) > 0 {
			return observations
		}
	}
	return nil
}

func (s *ComparisonService) limitUnpriced(unpriced []domain.PriceObservation) []domain.PriceObservation {
	limit := s.normalizer.Policy().VerifyRows
	if limit > 0 && len(unpriced) > limit {
		return unpriced[:limit]
	}
	return unpriced
}

// getFromCache retrieves a previously computed report
func (s *ComparisonService) getFromCache(ctx context.Context, key string) (*domain.ComparisonReport, error) {
	if s.cache == nil {
		return nil, domain.ErrCacheMiss
	}
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	raw, ok := value.([]byte)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected cached type %T", domain.ErrCacheMiss, value)
	}

	var report domain.ComparisonReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheMiss, err)
	}
	return &report, nil
}

// setInCache stores a report for later identical queries
func (s *ComparisonService) setInCache(ctx context.Context, key string, report *domain.ComparisonReport) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Set(ctx, key, report, s.cacheTTL)
}
