package usecase

import (
	"log"
	"regexp"

	"github.com/pricelens/backend/internal/domain"
)

const (
	// Below this many merchant-attributed prices the generic patterns are also tried
	minMerchantHits = 3

	// Generic hits closer than this (in won) to a found price are restatements of it
	restatementDistance = 1000
)

// genericPricePatterns find prices not attributed to any merchant
var genericPricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`가격\s*:\s*(\d{1,3}(?:,\d{3})*)\s*원`),
	regexp.MustCompile(`(\d{1,3}(?:,\d{3})*)\s*원`),
	regexp.MustCompile(`최저가\s*(\d{1,3}(?:,\d{3})*)\s*원`),
}

// TextExtractor finds merchant prices in unstructured search snippet text
type TextExtractor struct {
	patterns           []domain.MerchantPattern
	policy             domain.PricePolicy
	enableDebugLogging bool
}

// NewTextExtractor creates an extractor with the built-in merchant patterns
func NewTextExtractor(policy domain.PricePolicy, enableDebugLogging bool) *TextExtractor {
	return &TextExtractor{
		patterns:           DefaultMerchantPatterns(),
		policy:             policy,
		enableDebugLogging: enableDebugLogging,
	}
}

// Extract collects every merchant price mention in text.
// When fewer than three are found, bare prices are added under a generic source
// unless they restate an amount already found.
func (e *TextExtractor) Extract(text, query string) []domain.PriceObservation {
	if text == "" {
		return nil
	}

	var found []domain.PriceObservation

	for _, mp := range e.patterns {
		for _, match := range mp.Pattern.FindAllStringSubmatch(text, -1) {
			amount, ok := parseAmount(match[1])
			if !ok || !e.policy.InRange(amount) {
				continue
			}
			found = append(found, newTextObservation(mp.Merchant, amount))
		}
	}

	if len(found) < minMerchantHits {
		for _, pattern := range genericPricePatterns {
			for _, match := range pattern.FindAllStringSubmatch(text, -1) {
				amount, ok := parseAmount(match[1])
				if !ok || !e.policy.InRange(amount) {
					continue
				}
				if restatesFound(found, amount) {
					continue
				}
				found = append(found, newTextObservation(domain.SourceOnline, amount))
			}
		}
	}

	if e.enableDebugLogging {
		log.Printf("[TEXT] Query %q: %d price mentions", query, len(found))
	}

	return found
}

func newTextObservation(merchant string, amount int64) domain.PriceObservation {
	return domain.PriceObservation{
		Source:  merchant,
		Amount:  amount,
		Display: formatWon(amount),
	}
}

func restatesFound(found []domain.PriceObservation, amount int64) bool {
	for _, existing := range found {
		diff := amount - existing.Amount
		if diff < 0 {
			diff = -diff
		}
		if diff < restatementDistance {
			return true
		}
	}
	return false
}
