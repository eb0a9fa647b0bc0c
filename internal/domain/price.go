package domain

import (
	"regexp"
	"time"
)

// Source labels used when no merchant can be attributed
const (
	SourceShoppingMall = "온라인쇼핑몰" // structured extraction, unknown host
	SourceOnline       = "온라인쇼핑"  // free-text extraction, generic pattern
)

// PriceUnavailable is the display text of an observation without any price text
const PriceUnavailable = "가격 정보 없음"

// PriceObservation is a single (merchant, price) sighting for a queried product.
// Amount is in the smallest currency unit (won); zero means the price text could not be parsed
// and the observation is only kept for display.
type PriceObservation struct {
	Source      string `json:"source"`
	Amount      int64  `json:"amount"`
	Display     string `json:"display"`
	Name        string `json:"name,omitempty"`
	URL         string `json:"url,omitempty"`
	Description string `json:"description,omitempty"`
}

// HasPrice reports whether the observation carries a numeric price
func (o PriceObservation) HasPrice() bool {
	return o.Amount > 0
}

// SelectorSchema describes where to find product fields within one page layout variant
type SelectorSchema struct {
	Layout    string `json:"layout"`
	Container string `json:"container"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Link      string `json:"link"`
}

// MerchantPattern associates a free-text price pattern with a canonical merchant name
type MerchantPattern struct {
	Pattern  *regexp.Regexp
	Merchant string
}

// MerchantSite is a shopping mall whose search result page can be fetched
type MerchantSite struct {
	Name      string `json:"name" mapstructure:"name"`
	SearchURL string `json:"searchUrl" mapstructure:"search_url"` // printf template with one %s for the query
}

// PricePolicy holds the tunable constants of the normalization pipeline
type PricePolicy struct {
	MinAmount          int64   `mapstructure:"min_amount"`
	MaxAmount          int64   `mapstructure:"max_amount"`
	DuplicateThreshold float64 `mapstructure:"duplicate_threshold"` // relative difference below which two prices are the same
	SnippetLimit       int     `mapstructure:"snippet_limit"`
	ProductLimit       int     `mapstructure:"product_limit"`
	DisplayRows        int     `mapstructure:"display_rows"`
	VerifyRows         int     `mapstructure:"verify_rows"`
}

// DefaultPricePolicy returns the policy used when nothing is configured
func DefaultPricePolicy() PricePolicy {
	return PricePolicy{
		MinAmount:          1000,
		MaxAmount:          100000000,
		DuplicateThreshold: 0.05,
		SnippetLimit:       5,
		ProductLimit:       10,
		DisplayRows:        5,
		VerifyRows:         3,
	}
}

// InRange reports whether amount is a plausible consumer price
func (p PricePolicy) InRange(amount int64) bool {
	return amount >= p.MinAmount && amount <= p.MaxAmount
}

// Extraction strategies reported in ComparisonReport.Strategy
const (
	StrategyStructured = "structured"
	StrategySnippet    = "snippet"
	StrategyNone       = "none"
)

// ComparisonRequest represents a price comparison request
type ComparisonRequest struct {
	Query string `json:"query" binding:"required"`
}

// ComparisonReport is the result of a price comparison for one query
type ComparisonReport struct {
	Query        string             `json:"query"`
	Strategy     string             `json:"strategy"`
	Source       string             `json:"source"` // "live", "cache" or "input"
	Observations []PriceObservation `json:"observations"`
	Unpriced     []PriceObservation `json:"unpriced,omitempty"`
	Report       string             `json:"report"`
	GeneratedAt  time.Time          `json:"generatedAt"`
}
