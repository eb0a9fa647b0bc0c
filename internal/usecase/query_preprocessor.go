package usecase

import (
	"fmt"
	"log"
	"net/url"
	"regexp"
	"strings"

	"github.com/pricelens/backend/internal/domain"
)

// Compiled regex patterns for query preprocessing
var (
	// Multiple spaces cleanup
	multiSpacePattern = regexp.MustCompile(`\s+`)

	// Characters shop search boxes choke on
	querySpecialChars = regexp.MustCompile(`[<>{}\[\]|\\^` + "`" + `]`)
)

const (
	maxQueryLength = 100

	snippetQuerySuffix  = "가격 쿠팡 11번가 G마켓 옥션 인터파크 최저가 비교"
	fallbackQuerySuffix = "최저가 온라인쇼핑몰 가격비교"
)

// QueryPreprocessor cleans user queries and derives the per-merchant search requests
type QueryPreprocessor struct {
	enableDebugLogging bool
}

// NewQueryPreprocessor creates a new query preprocessor
func NewQueryPreprocessor(enableDebugLogging bool) *QueryPreprocessor {
	return &QueryPreprocessor{
		enableDebugLogging: enableDebugLogging,
	}
}

// PreprocessQuery trims the query, drops markup characters and collapses whitespace.
// An empty result means there is nothing to search for.
func (p *QueryPreprocessor) PreprocessQuery(query string) string {
	original := query

	cleaned := querySpecialChars.ReplaceAllString(query, " ")
	cleaned = multiSpacePattern.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)

	// Limit query length, cutting at a word boundary when possible
	if runes := []rune(cleaned); len(runes) > maxQueryLength {
		cleaned = string(runes[:maxQueryLength])
		if lastSpace := strings.LastIndex(cleaned, " "); lastSpace > len(cleaned)/2 {
			cleaned = cleaned[:lastSpace]
		}
	}

	if p.enableDebugLogging {
		log.Printf("[PREPROCESS] Input: %q → Output: %q", original, cleaned)
	}

	return cleaned
}

// SearchURL fills a merchant's search template; spaces become '+' as shop search forms expect
func (p *QueryPreprocessor) SearchURL(site domain.MerchantSite, query string) string {
	words := strings.Fields(query)
	for i, w := range words {
		words[i] = url.QueryEscape(w)
	}
	return fmt.Sprintf(site.SearchURL, strings.Join(words, "+"))
}

// SnippetQueries returns the web search queries tried, in order, when no shop page yields a price
func (p *QueryPreprocessor) SnippetQueries(query string) []string {
	return []string{
		query + " " + snippetQuerySuffix,
		query + " " + fallbackQuerySuffix,
	}
}

// CacheKey creates a normalized cache key for a query.
// Format: "prices:{normalized_query}"
func (p *QueryPreprocessor) CacheKey(query string) string {
	return "prices:" + strings.ToLower(multiSpacePattern.ReplaceAllString(strings.TrimSpace(query), " "))
}
